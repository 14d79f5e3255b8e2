package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error body for all API errors.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func respondError(c *gin.Context, status int, detail string) {
	c.JSON(status, ErrorResponse{Detail: detail})
}

func respondBadRequest(c *gin.Context, detail string) {
	respondError(c, http.StatusBadRequest, detail)
}

func respondNotFound(c *gin.Context, detail string) {
	respondError(c, http.StatusNotFound, detail)
}

func respondUnprocessable(c *gin.Context, detail string) {
	respondError(c, http.StatusUnprocessableEntity, detail)
}

func respondInternalError(c *gin.Context, err error) {
	respondError(c, http.StatusInternalServerError, "internal server error: "+err.Error())
}

// parseIntQuery reads an integer query parameter, falling back to def when
// absent. Responds with 400 and returns false on a malformed value.
func parseIntQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return value, true
}

// parseFloatQuery reads a float query parameter with a default.
func parseFloatQuery(c *gin.Context, name string, def float64) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return value, true
}
