package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bookscape/catalog/internal/database"
)

// HealthResponse reports API and storage status.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type HealthController struct {
	db *database.Database
}

func NewHealthController(db *database.Database) *HealthController {
	return &HealthController{db: db}
}

// Status runs a round trip against the store and reports connectivity.
func (h *HealthController) Status(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		logrus.WithError(err).Error("health check: database connection failed")
		respondError(c, http.StatusServiceUnavailable, "database connection error: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Database: "Connected",
	})
}
