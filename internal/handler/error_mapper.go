package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/mytrip-api/internal/pkg/errors"
	"github.com/yourusername/mytrip-api/internal/service"
)

// respondError maps service errors to HTTP statuses with a stable error_type
// for clients. Unknown errors become 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUpstreamUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Identity provider is temporarily unavailable", "error_type": "upstream_unavailable"})
	case errors.Is(err, service.ErrInactiveAccount), errors.Is(err, service.ErrInvalidCredential):
		// One generic denial for both causes; distinguishing them would let
		// callers probe which accounts exist or are deactivated.
		log.Printf("[Handler] Authentication denied: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired credential", "error_type": "invalid_credential"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found", "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access to this resource is forbidden", "error_type": "forbidden"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Resource state conflict", "error_type": "conflict"})
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrInvalidToken), errors.Is(err, apperrors.ErrExpiredToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_server_error"})
	}
}
