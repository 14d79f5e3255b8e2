package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookscape/catalog/internal/database/books"
)

type StatsController struct {
	repo *books.Repository
}

func NewStatsController(repo *books.Repository) *StatsController {
	return &StatsController{repo: repo}
}

// Overview handles GET /api/v1/stats/overview.
func (controller *StatsController) Overview(c *gin.Context) {
	overview, err := controller.repo.GetStatsOverview()
	if err != nil {
		respondInternalError(c, err)
		return
	}
	if overview.RatingDistribution == nil {
		overview.RatingDistribution = []books.RatingDistribution{}
	}
	c.JSON(http.StatusOK, overview)
}

// Categories handles GET /api/v1/stats/categories.
func (controller *StatsController) Categories(c *gin.Context) {
	stats, err := controller.repo.GetCategoryStats()
	if err != nil {
		respondInternalError(c, err)
		return
	}
	if stats == nil {
		stats = []books.CategoryStats{}
	}
	c.JSON(http.StatusOK, stats)
}

// TopRated handles GET /api/v1/books/top-rated?limit=.
func (controller *StatsController) TopRated(c *gin.Context) {
	limit, ok := parseIntQuery(c, "limit", 10)
	if !ok {
		return
	}

	list, err := controller.repo.GetTopRatedBooks(limit)
	if err != nil {
		respondInternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// PriceRange handles GET /api/v1/books/price-range?min=&max=. Boundaries are
// inclusive; min above max is rejected with 400.
func (controller *StatsController) PriceRange(c *gin.Context) {
	minPrice, ok := parseFloatQuery(c, "min", 0.0)
	if !ok {
		return
	}
	maxPrice, ok := parseFloatQuery(c, "max", 100.0)
	if !ok {
		return
	}

	if minPrice > maxPrice {
		respondBadRequest(c, "Minimum price cannot be greater than maximum price.")
		return
	}

	list, err := controller.repo.GetBooksByPriceRange(minPrice, maxPrice, defaultListLimit)
	if err != nil {
		respondInternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
