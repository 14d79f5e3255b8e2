package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookscape/catalog/internal/auth"
	"github.com/bookscape/catalog/internal/config"
	"github.com/bookscape/catalog/internal/database"
	"github.com/bookscape/catalog/internal/database/books"
	"github.com/bookscape/catalog/internal/database/users"
	"github.com/bookscape/catalog/internal/tasks"
)

// RouterConfig carries the dependencies of the HTTP surface.
type RouterConfig struct {
	Database   *database.Database
	Books      *books.Repository
	Users      *users.Repository
	AuthConfig config.Auth
	TaskClient *tasks.Client
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	metrics := NewMetrics()
	router.Use(metrics.Middleware())
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	health := NewHealthController(cfg.Database)
	booksController := NewBooksController(cfg.Books)
	statsController := NewStatsController(cfg.Books)
	authController := NewAuthController(cfg.Users, cfg.AuthConfig, cfg.TaskClient)
	mlController := NewMLController(cfg.Books)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Books API! Access /api/v1 for the catalog endpoints.",
		})
	})

	api := router.Group("/api/v1")

	api.GET("/health", health.Status)

	// Public catalog endpoints. The fixed paths are registered before the
	// :id route so gin does not treat them as identifiers.
	api.GET("/books", booksController.ListBooks)
	api.GET("/books/search", booksController.SearchBooks)
	api.GET("/books/top-rated", statsController.TopRated)
	api.GET("/books/price-range", statsController.PriceRange)
	api.GET("/books/:id", booksController.GetBook)
	api.GET("/categories", booksController.GetCategories)

	api.GET("/stats/overview", statsController.Overview)
	api.GET("/stats/categories", statsController.Categories)

	api.POST("/auth/login", authController.Login)
	api.POST("/auth/register", authController.Register)

	// Admin-only surface: ingestion triggers and the ML contract stubs.
	adminRequired := []gin.HandlerFunc{
		auth.JWTAuthMiddleware(cfg.AuthConfig, cfg.Users),
		auth.AdminOnlyMiddleware(),
	}

	scraping := api.Group("/scraping", adminRequired...)
	scraping.POST("/trigger", authController.TriggerScraping)
	scraping.GET("/tasks/:id", authController.TaskStatus)

	ml := api.Group("/ml", adminRequired...)
	ml.GET("/features", mlController.Features)
	ml.GET("/training-data", mlController.TrainingData)
	ml.POST("/predictions", mlController.Predict)

	return router
}
