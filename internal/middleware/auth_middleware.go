package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/mytrip-api/internal/service"
)

// Context keys set by RequireAuth.
const (
	ContextUserKey   = "current_user"
	ContextUserIDKey = "user_id"
)

// AuthMiddleware guards protected routes. It accepts both token shapes on the
// Authorization header; AuthService decides which one it holds.
type AuthMiddleware struct {
	authService *service.AuthService
}

func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// RequireAuth resolves the bearer token to a user and stores it in the
// request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "error_type": "token_missing"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
			c.Abort()
			return
		}

		user, err := m.authService.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, service.ErrUpstreamUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Identity provider is temporarily unavailable", "error_type": "upstream_unavailable"})
			} else {
				// Inactive accounts get the same generic denial as bad
				// tokens; the cause stays in the log only.
				log.Printf("[AuthMiddleware] Authentication denied: %v", err)
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
			}
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}
