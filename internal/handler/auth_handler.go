package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/mytrip-api/internal/handler/dto"
	"github.com/yourusername/mytrip-api/internal/service"
)

// AuthHandler handles token exchange.
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// ExchangeRequest trades a provider ID token for an internal access token.
// The token may also arrive on the Authorization header instead.
type ExchangeRequest struct {
	IDToken string `json:"id_token" binding:"omitempty"`
}

// ExchangeResponse carries the issued token and the resolved user.
type ExchangeResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int              `json:"expires_in"`
	User        *dto.UserResponse `json:"user"`
}

// bearerToken extracts the token from the Authorization header, or returns
// an empty string when the header is absent or not a Bearer scheme.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Exchange verifies a provider ID token, mirrors the identity locally and
// returns a short-lived internal access token.
func (h *AuthHandler) Exchange(c *gin.Context) {
	idToken := bearerToken(c)
	if idToken == "" {
		var req ExchangeRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Provide the provider ID token as Bearer header or id_token field", "error_type": "validation_error"})
			return
		}
		idToken = req.IDToken
	}

	result, err := h.authService.ExchangeToken(c.Request.Context(), idToken)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Printf("[AuthHandler] Issued access token for user id=%d", result.User.ID)
	c.JSON(http.StatusOK, ExchangeResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   result.ExpiresIn,
		User:        dto.NewUserResponse(result.User),
	})
}
