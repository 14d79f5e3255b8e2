package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookscape/catalog/internal/entities"
)

func loginRequest(api *testAPI, username, password string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	api.router.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	api := setupTestAPI(t, false)
	_, err := api.users.CreateUser("alice", "alice@example.com", "s3cret", false)
	require.NoError(t, err)

	w := loginRequest(api, "alice", "s3cret")

	require.Equal(t, http.StatusOK, w.Code)
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
}

func TestLogin_WrongPassword(t *testing.T) {
	api := setupTestAPI(t, false)
	_, err := api.users.CreateUser("alice", "alice@example.com", "s3cret", false)
	require.NoError(t, err)

	w := loginRequest(api, "alice", "wrong")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Incorrect username or password", resp.Detail)
}

func TestLogin_UnknownUser(t *testing.T) {
	api := setupTestAPI(t, false)

	w := loginRequest(api, "ghost", "whatever")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	api := setupTestAPI(t, false)

	w := loginRequest(api, "", "")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLogin_TokenGrantsAccess(t *testing.T) {
	api := setupTestAPI(t, false)
	_, err := api.users.CreateUser("root", "root@example.com", "s3cret", true)
	require.NoError(t, err)

	w := loginRequest(api, "root", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ml/training-data", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	api.router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRegister(t *testing.T) {
	api := setupTestAPI(t, false)

	body := `{"username": "bob", "email": "bob@example.com", "password": "s3cret"}`
	w := api.request(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))

	require.Equal(t, http.StatusCreated, w.Code)
	var user entities.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "bob", user.Username)
	assert.False(t, user.IsAdmin)

	// The password hash never leaves the server.
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegister_IsAdminIgnored(t *testing.T) {
	api := setupTestAPI(t, false)

	body := `{"username": "mallory", "email": "mallory@example.com", "password": "s3cret", "is_admin": true}`
	w := api.request(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))

	require.Equal(t, http.StatusCreated, w.Code)
	user, err := api.users.GetUserByUsername("mallory")
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	api := setupTestAPI(t, false)
	_, err := api.users.CreateUser("bob", "bob@example.com", "s3cret", false)
	require.NoError(t, err)

	body := `{"username": "bob", "email": "new@example.com", "password": "s3cret"}`
	w := api.request(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Username already registered. Please try another.", resp.Detail)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	api := setupTestAPI(t, false)
	_, err := api.users.CreateUser("bob", "bob@example.com", "s3cret", false)
	require.NoError(t, err)

	body := `{"username": "robert", "email": "bob@example.com", "password": "s3cret"}`
	w := api.request(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "This email address is already registered. Please try a different one.", resp.Detail)
}

func TestRegister_InvalidEmail(t *testing.T) {
	api := setupTestAPI(t, false)

	body := `{"username": "bob", "email": "not-an-email", "password": "s3cret"}`
	w := api.request(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	api := setupTestAPI(t, false)

	for _, path := range []string{
		"/api/v1/ml/features",
		"/api/v1/ml/training-data",
	} {
		w := api.request(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := api.request(http.MethodPost, "/api/v1/scraping/trigger", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutes_RegularUserForbidden(t *testing.T) {
	api := setupTestAPI(t, false)
	_, err := api.users.CreateUser("bob", "bob@example.com", "s3cret", false)
	require.NoError(t, err)

	w := api.authedRequest(t, http.MethodGet, "/api/v1/ml/features", "bob", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Not enough permissions", resp.Detail)
}

func TestTriggerScraping(t *testing.T) {
	api := setupTestAPI(t, true)
	_, err := api.users.CreateUser("root", "root@example.com", "s3cret", true)
	require.NoError(t, err)

	w := api.authedRequest(t, http.MethodPost, "/api/v1/scraping/trigger?overwrite=true", "root", nil)

	require.Equal(t, http.StatusAccepted, w.Code)
	var resp TriggerScrapingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Data loading process initiated in the background.", resp.Message)
	assert.Equal(t, "root", resp.AdminUser)
	assert.True(t, resp.Overwrite)
	assert.NotEmpty(t, resp.TaskID)
}

func TestTriggerScraping_InvalidOverwrite(t *testing.T) {
	api := setupTestAPI(t, true)
	_, err := api.users.CreateUser("root", "root@example.com", "s3cret", true)
	require.NoError(t, err)

	w := api.authedRequest(t, http.MethodPost, "/api/v1/scraping/trigger?overwrite=maybe", "root", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTriggerScraping_QueueDisabled(t *testing.T) {
	api := setupTestAPI(t, false)
	_, err := api.users.CreateUser("root", "root@example.com", "s3cret", true)
	require.NoError(t, err)

	w := api.authedRequest(t, http.MethodPost, "/api/v1/scraping/trigger", "root", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTaskStatus(t *testing.T) {
	api := setupTestAPI(t, true)
	_, err := api.users.CreateUser("root", "root@example.com", "s3cret", true)
	require.NoError(t, err)

	w := api.authedRequest(t, http.MethodPost, "/api/v1/scraping/trigger", "root", nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	var trigger TriggerScrapingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trigger))

	statusResp := api.authedRequest(t, http.MethodGet, "/api/v1/scraping/tasks/"+trigger.TaskID, "root", nil)

	require.Equal(t, http.StatusOK, statusResp.Code)
	var status map[string]string
	require.NoError(t, json.Unmarshal(statusResp.Body.Bytes(), &status))
	assert.Equal(t, trigger.TaskID, status["id"])
	// The queue never started a worker, so the task stays pending.
	assert.Equal(t, "pending", status["status"])
}

func TestTaskStatus_UnknownID(t *testing.T) {
	api := setupTestAPI(t, true)
	_, err := api.users.CreateUser("root", "root@example.com", "s3cret", true)
	require.NoError(t, err)

	w := api.authedRequest(t, http.MethodGet, "/api/v1/scraping/tasks/no-such-task", "root", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}
