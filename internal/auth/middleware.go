package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bookscape/catalog/internal/config"
	"github.com/bookscape/catalog/internal/entities"
)

// ContextKeyUser is the gin context key holding the authenticated user.
const ContextKeyUser = "currentUser"

// UserResolver maps a token subject back to a stored user.
type UserResolver interface {
	GetUserByUsername(username string) (*entities.User, error)
}

// JWTAuthMiddleware validates the Bearer token and resolves its subject to a
// user record, rejecting with 401 otherwise.
func JWTAuthMiddleware(cfg config.Auth, resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		username, err := ParseAccessToken(tokenStr, cfg)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		user, err := resolver.GetUserByUsername(username)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// AdminOnlyMiddleware rejects authenticated non-admin users with 403. It must
// run after JWTAuthMiddleware.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortUnauthorized(c)
			return
		}
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Not enough permissions"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user from the gin context, or nil.
func CurrentUser(c *gin.Context) *entities.User {
	value, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := value.(*entities.User)
	if !ok {
		return nil
	}
	return user
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
}
