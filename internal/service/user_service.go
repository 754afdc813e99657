package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
	"github.com/yourusername/mytrip-api/internal/domain/repository"
	apperrors "github.com/yourusername/mytrip-api/internal/pkg/errors"
)

// UserService manages the caller's own profile.
type UserService struct {
	userRepo         repository.UserRepository
	invalidTokenRepo repository.InvalidTokenRepository
}

func NewUserService(userRepo repository.UserRepository, invalidTokenRepo repository.InvalidTokenRepository) *UserService {
	return &UserService{
		userRepo:         userRepo,
		invalidTokenRepo: invalidTokenRepo,
	}
}

// GetByID returns a user by primary key.
func (s *UserService) GetByID(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}

// ProfileUpdate carries the mutable profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Name     *string
	PhotoURL *string
}

// UpdateProfile applies a partial profile update and returns the fresh record.
func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*entity.User, error) {
	updates := make(map[string]interface{})
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", apperrors.ErrValidation)
		}
		updates["name"] = name
	}
	if update.PhotoURL != nil {
		updates["photo_url"] = strings.TrimSpace(*update.PhotoURL)
	}
	if len(updates) == 0 {
		return s.userRepo.GetByID(userID)
	}

	if err := s.userRepo.UpdateProfile(userID, updates); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.userRepo.GetByID(userID)
}

// Deactivate marks the account inactive and sets a revocation watermark so
// tokens issued before this moment stop working immediately.
func (s *UserService) Deactivate(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}

	if err := s.userRepo.UpdateProfile(userID, map[string]interface{}{"is_active": false}); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	if err := s.invalidTokenRepo.AddInvalidToken(ctx, userID, time.Now()); err != nil {
		log.Printf("[UserService] Failed to set revocation watermark for user id=%d: %v", userID, err)
	}

	log.Printf("[UserService] Deactivated user id=%d", userID)
	return nil
}
