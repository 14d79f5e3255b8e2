package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookscape/catalog/internal/auth"
	"github.com/bookscape/catalog/internal/config"
	"github.com/bookscape/catalog/internal/database/users"
	"github.com/bookscape/catalog/internal/tasks"
)

type AuthController struct {
	users      *users.Repository
	authConfig config.Auth
	taskClient *tasks.Client
}

func NewAuthController(repo *users.Repository, authConfig config.Auth, taskClient *tasks.Client) *AuthController {
	return &AuthController{
		users:      repo,
		authConfig: authConfig,
		taskClient: taskClient,
	}
}

// LoginRequest is the form body of POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// TokenResponse carries the issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest is the JSON body of POST /api/v1/auth/register. IsAdmin is
// accepted but ignored: self-registration never grants admin.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

// Login exchanges valid credentials for a signed access token.
func (controller *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondUnprocessable(c, "username and password are required")
		return
	}

	user, err := controller.users.GetUserByUsername(req.Username)
	if err != nil || auth.CheckPassword(req.Password, user.PasswordHash) != nil {
		c.Header("WWW-Authenticate", "Bearer")
		respondError(c, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	token, err := auth.CreateAccessToken(user.Username, controller.authConfig)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Register creates a new regular user. Duplicate usernames and emails are
// rejected with 400.
func (controller *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondUnprocessable(c, "username, email and password are required")
		return
	}

	if _, err := controller.users.GetUserByUsername(req.Username); err == nil {
		respondBadRequest(c, "Username already registered. Please try another.")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondInternalError(c, err)
		return
	}

	if _, err := controller.users.GetUserByEmail(req.Email); err == nil {
		respondBadRequest(c, "This email address is already registered. Please try a different one.")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondInternalError(c, err)
		return
	}

	// Self-registrations are never admins, regardless of client input.
	user, err := controller.users.CreateUser(req.Username, req.Email, req.Password, false)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// TriggerScrapingResponse acknowledges an enqueued load.
type TriggerScrapingResponse struct {
	Message   string `json:"message"`
	AdminUser string `json:"admin_user"`
	Overwrite bool   `json:"overwrite"`
	TaskID    string `json:"task_id"`
}

// TriggerScraping enqueues a background load of the CSV snapshot into the
// database and returns immediately with a task handle. Admin only.
func (controller *AuthController) TriggerScraping(c *gin.Context) {
	overwrite, err := strconv.ParseBool(c.DefaultQuery("overwrite", "false"))
	if err != nil {
		respondBadRequest(c, "invalid overwrite")
		return
	}

	if controller.taskClient == nil {
		respondError(c, http.StatusServiceUnavailable, "background task queue is disabled")
		return
	}

	ids, err := controller.taskClient.Add(tasks.LoadBooksTask{Overwrite: overwrite}).Save()
	if err != nil {
		respondInternalError(c, err)
		return
	}

	admin := auth.CurrentUser(c)
	c.JSON(http.StatusAccepted, TriggerScrapingResponse{
		Message:   "Data loading process initiated in the background.",
		AdminUser: admin.Username,
		Overwrite: overwrite,
		TaskID:    ids[0],
	})
}

// TaskStatus reports the state of a previously enqueued load. Admin only.
func (controller *AuthController) TaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task id is required")
		return
	}

	if controller.taskClient == nil {
		respondError(c, http.StatusServiceUnavailable, "background task queue is disabled")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := controller.taskClient.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": tasks.StatusString(status),
	})
}
