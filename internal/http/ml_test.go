package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMLFeatures(t *testing.T) {
	api := setupTestAPI(t, false)
	seedBooks(t, api)
	_, err := api.users.CreateUser("root", "root@example.com", "s3cret", true)
	require.NoError(t, err)

	w := api.authedRequest(t, http.MethodGet, "/api/v1/ml/features", "root", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var features []MLFeatures
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &features))
	// Untitled Draft has no price or rating and is filtered out.
	assert.Len(t, features, 3)
	for _, row := range features {
		assert.NotZero(t, row.BookID)
		assert.NotZero(t, row.Price)
		assert.NotZero(t, row.Rating)
		assert.NotEmpty(t, row.Category)
	}
}

func TestMLTrainingData(t *testing.T) {
	api := setupTestAPI(t, false)
	seedBooks(t, api)
	_, err := api.users.CreateUser("root", "root@example.com", "s3cret", true)
	require.NoError(t, err)

	w := api.authedRequest(t, http.MethodGet, "/api/v1/ml/training-data?limit=2", "root", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Len(t, rows, 2)
}

func TestPredict_BestSeller(t *testing.T) {
	api := setupTestAPI(t, false)
	_, err := api.users.CreateUser("root", "root@example.com", "s3cret", true)
	require.NoError(t, err)

	body := `{"price": 12.50, "rating": 5}`
	w := api.authedRequest(t, http.MethodPost, "/api/v1/ml/predictions", "root", strings.NewReader(body))

	require.Equal(t, http.StatusOK, w.Code)
	var resp MLPredictionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Best-Seller", resp.PredictedSalesCluster)
	assert.GreaterOrEqual(t, resp.ConfidenceScore, 0.85)
	assert.LessOrEqual(t, resp.ConfidenceScore, 0.99)
}

func TestPredict_LowPriority(t *testing.T) {
	api := setupTestAPI(t, false)
	_, err := api.users.CreateUser("root", "root@example.com", "s3cret", true)
	require.NoError(t, err)

	// High price keeps a well-rated book out of the best-seller cluster.
	body := `{"price": 45.00, "rating": 5}`
	w := api.authedRequest(t, http.MethodPost, "/api/v1/ml/predictions", "root", strings.NewReader(body))

	require.Equal(t, http.StatusOK, w.Code)
	var resp MLPredictionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Low-priority", resp.PredictedSalesCluster)
	assert.GreaterOrEqual(t, resp.ConfidenceScore, 0.5)
	assert.LessOrEqual(t, resp.ConfidenceScore, 0.8)
}

func TestPredict_ZeroValuesAccepted(t *testing.T) {
	api := setupTestAPI(t, false)
	_, err := api.users.CreateUser("root", "root@example.com", "s3cret", true)
	require.NoError(t, err)

	body := `{"price": 0, "rating": 1}`
	w := api.authedRequest(t, http.MethodPost, "/api/v1/ml/predictions", "root", strings.NewReader(body))

	require.Equal(t, http.StatusOK, w.Code)
}

func TestPredict_MissingFields(t *testing.T) {
	api := setupTestAPI(t, false)
	_, err := api.users.CreateUser("root", "root@example.com", "s3cret", true)
	require.NoError(t, err)

	w := api.authedRequest(t, http.MethodPost, "/api/v1/ml/predictions", "root", strings.NewReader(`{"price": 10}`))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
