package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
	"github.com/yourusername/mytrip-api/internal/domain/repository"
	apperrors "github.com/yourusername/mytrip-api/internal/pkg/errors"
	"github.com/yourusername/mytrip-api/pkg/auth/firebase"
)

// placeholderEmailDomain backs accounts whose provider profile carries no
// email address. The local schema requires one.
const placeholderEmailDomain = "no-email.firebase"

// IdentityService mirrors provider identities into local user records.
// Reconcile is idempotent: calling it twice with the same claims yields the
// same record, with only the login timestamp moving.
type IdentityService struct {
	userRepo     repository.UserRepository
	emailService EmailService
}

func NewIdentityService(userRepo repository.UserRepository, emailService EmailService) *IdentityService {
	if emailService == nil {
		emailService = &NoopEmailService{}
	}
	return &IdentityService{
		userRepo:     userRepo,
		emailService: emailService,
	}
}

// Reconcile finds or creates the local user for a verified provider identity
// and syncs mutable profile fields. Email is written once at creation and
// never overwritten afterwards, so a provider-side email change cannot
// silently rebind local data.
func (s *IdentityService) Reconcile(ctx context.Context, info *firebase.TokenInfo) (*entity.User, error) {
	if info == nil || info.UID == "" {
		return nil, fmt.Errorf("%w: provider identity has no uid", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByFirebaseUID(info.UID)
	if err == nil {
		return s.syncExisting(user, info)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by provider uid: %w", err)
	}

	// No record under this uid. A legacy account may exist under the same
	// email; adopt it instead of creating a duplicate.
	if info.Email != "" {
		user, err = s.userRepo.GetByEmail(info.Email)
		if err == nil {
			user.FirebaseUID = info.UID
			return s.syncExisting(user, info)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user by email: %w", err)
		}
	}

	return s.createMirror(ctx, info)
}

func (s *IdentityService) syncExisting(user *entity.User, info *firebase.TokenInfo) (*entity.User, error) {
	if info.Name != "" {
		user.Name = info.Name
	}
	if info.Picture != "" {
		user.PhotoURL = info.Picture
	}
	now := time.Now()
	user.LastLoginAt = &now

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to sync user profile: %w", err)
	}
	return user, nil
}

func (s *IdentityService) createMirror(ctx context.Context, info *firebase.TokenInfo) (*entity.User, error) {
	email := info.Email
	if email == "" {
		email = fmt.Sprintf("%s@%s", info.UID, placeholderEmailDomain)
	}

	now := time.Now()
	user := &entity.User{
		Name:        info.Name,
		Email:       email,
		FirebaseUID: info.UID,
		PhotoURL:    info.Picture,
		IsActive:    true,
		LastLoginAt: &now,
	}

	err := s.userRepo.Create(user)
	if err == nil {
		log.Printf("[IdentityService] Created local user id=%d for provider uid=%s", user.ID, info.UID)
		s.sendWelcomeAsync(info)
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrConflict) {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Lost a create race with a concurrent request carrying the same
	// identity. The winner's row is authoritative; load it and sync.
	log.Printf("[IdentityService] Create race for provider uid=%s, adopting existing record", info.UID)
	existing, lookupErr := s.userRepo.GetByFirebaseUID(info.UID)
	if errors.Is(lookupErr, apperrors.ErrNotFound) && info.Email != "" {
		existing, lookupErr = s.userRepo.GetByEmail(info.Email)
		if lookupErr == nil {
			existing.FirebaseUID = info.UID
		}
	}
	if lookupErr != nil {
		return nil, fmt.Errorf("failed to resolve create race: %w", lookupErr)
	}
	return s.syncExisting(existing, info)
}

// sendWelcomeAsync fires the welcome email without blocking the auth path.
// Delivery failures are logged, never surfaced.
func (s *IdentityService) sendWelcomeAsync(info *firebase.TokenInfo) {
	if info.Email == "" {
		return
	}
	email, name := info.Email, info.Name
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.emailService.SendWelcome(ctx, email, name); err != nil {
			log.Printf("[IdentityService] Welcome email to %s failed: %v", email, err)
		}
	}()
}
