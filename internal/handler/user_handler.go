package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
	"github.com/yourusername/mytrip-api/internal/handler/dto"
	"github.com/yourusername/mytrip-api/internal/middleware"
	"github.com/yourusername/mytrip-api/internal/service"
)

// UserHandler serves the caller's own profile.
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// currentUser pulls the authenticated user that RequireAuth stored.
func currentUser(c *gin.Context) (*entity.User, bool) {
	v, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "token_missing"})
		return nil, false
	}
	user, ok := v.(*entity.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_server_error"})
		return nil, false
	}
	return user, true
}

// GetMe returns the current user's profile.
func (h *UserHandler) GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// UpdateMeRequest is a partial profile update.
type UpdateMeRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	PhotoURL *string `json:"photo_url" binding:"omitempty,max=512"`
}

// UpdateMe applies a partial update to the current user's profile.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	updated, err := h.userService.UpdateProfile(user.ID, service.ProfileUpdate{
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(updated))
}

// DeleteMe deactivates the current user's account and revokes outstanding
// tokens.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[UserHandler] User id=%d deactivated their account", user.ID)
	c.Status(http.StatusNoContent)
}
