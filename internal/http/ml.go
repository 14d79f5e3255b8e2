package http

import (
	"math"
	"math/rand/v2"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookscape/catalog/internal/database/books"
)

// defaultMLLimit caps feature and training data extracts.
const defaultMLLimit = 1000

type MLController struct {
	repo *books.Repository
}

func NewMLController(repo *books.Repository) *MLController {
	return &MLController{repo: repo}
}

// MLFeatures is one book reshaped as model input.
type MLFeatures struct {
	BookID       uint    `json:"book_id"`
	Price        float64 `json:"price"`
	Rating       int     `json:"rating"`
	Availability *int    `json:"availability"`
	Category     string  `json:"category"`
}

// MLPredictionRequest is the input of the mock classifier.
type MLPredictionRequest struct {
	Price  *float64 `json:"price" binding:"required"`
	Rating *int     `json:"rating" binding:"required"`
}

// MLPredictionResponse is the mock classification result.
type MLPredictionResponse struct {
	PredictedSalesCluster string  `json:"predicted_sales_cluster"`
	ConfidenceScore       float64 `json:"confidence_score"`
}

// Features handles GET /api/v1/ml/features: books holding both a price and a
// rating, reshaped as feature rows.
func (controller *MLController) Features(c *gin.Context) {
	limit, ok := parseIntQuery(c, "limit", defaultMLLimit)
	if !ok {
		return
	}

	rows, err := controller.repo.GetMLFeatures(limit)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	features := make([]MLFeatures, 0, len(rows))
	for _, book := range rows {
		features = append(features, MLFeatures{
			BookID:       book.ID,
			Price:        *book.Price,
			Rating:       *book.Rating,
			Availability: book.Availability,
			Category:     book.Category,
		})
	}
	c.JSON(http.StatusOK, features)
}

// TrainingData handles GET /api/v1/ml/training-data: the raw rows.
func (controller *MLController) TrainingData(c *gin.Context) {
	limit, ok := parseIntQuery(c, "limit", defaultMLLimit)
	if !ok {
		return
	}

	rows, err := controller.repo.ListBooks(0, limit)
	if err != nil {
		respondInternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Predict handles POST /api/v1/ml/predictions. It is a contract stub, not a
// model: the label is a threshold rule and the confidence is randomized
// inside a fixed band.
func (controller *MLController) Predict(c *gin.Context) {
	var req MLPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondUnprocessable(c, "price and rating are required")
		return
	}

	var cluster string
	var score float64
	if *req.Rating >= 4 && *req.Price < 20 {
		cluster = "Best-Seller"
		score = randomInRange(0.85, 0.99)
	} else {
		cluster = "Low-priority"
		score = randomInRange(0.5, 0.8)
	}

	c.JSON(http.StatusOK, MLPredictionResponse{
		PredictedSalesCluster: cluster,
		ConfidenceScore:       math.Round(score*10000) / 10000,
	})
}

func randomInRange(low, high float64) float64 {
	return low + rand.Float64()*(high-low)
}
