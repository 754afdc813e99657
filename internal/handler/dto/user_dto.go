package dto

import (
	"time"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
)

// UserResponse is the public shape of a user record.
type UserResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name,omitempty"`
	Email       string     `json:"email"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewUserResponse converts an entity to its public shape.
func NewUserResponse(u *entity.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
