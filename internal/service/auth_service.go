package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
	"github.com/yourusername/mytrip-api/internal/domain/repository"
	apperrors "github.com/yourusername/mytrip-api/internal/pkg/errors"
	"github.com/yourusername/mytrip-api/pkg/auth"
	"github.com/yourusername/mytrip-api/pkg/auth/firebase"
)

// ProviderTokenVerifier validates identity-provider ID tokens. Implemented by
// firebase.Verifier; injected so tests can substitute a fake.
type ProviderTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebase.TokenInfo, error)
}

// AccessTokenService issues and validates internally minted access tokens.
type AccessTokenService interface {
	GenerateToken(subject string) (string, error)
	ValidateToken(tokenString string) (*auth.TokenClaims, error)
	ExpiresIn() int
}

// ExchangeResult is the outcome of trading a provider token for an internal one.
type ExchangeResult struct {
	User        *entity.User
	AccessToken string
	TokenType   string
	ExpiresIn   int
}

// AuthService resolves bearer tokens to local users. It accepts two token
// shapes on the same header: provider ID tokens (tried first) and internally
// issued access tokens (the fallback). The provider check is a definitive
// verdict, not an exception path: only a clear "this is not a provider token"
// falls through to the internal parser, while provider outages surface as
// such instead of being mistaken for bad credentials.
type AuthService struct {
	verifier         ProviderTokenVerifier
	tokenService     AccessTokenService
	identityService  *IdentityService
	userRepo         repository.UserRepository
	invalidTokenRepo repository.InvalidTokenRepository
}

func NewAuthService(
	verifier ProviderTokenVerifier,
	tokenService AccessTokenService,
	identityService *IdentityService,
	userRepo repository.UserRepository,
	invalidTokenRepo repository.InvalidTokenRepository,
) (*AuthService, error) {
	if verifier == nil {
		return nil, fmt.Errorf("provider token verifier is required")
	}
	if tokenService == nil {
		return nil, fmt.Errorf("token service is required")
	}
	if identityService == nil {
		return nil, fmt.Errorf("identity service is required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if invalidTokenRepo == nil {
		return nil, fmt.Errorf("invalid token repository is required")
	}
	return &AuthService{
		verifier:         verifier,
		tokenService:     tokenService,
		identityService:  identityService,
		userRepo:         userRepo,
		invalidTokenRepo: invalidTokenRepo,
	}, nil
}

// Authenticate resolves a bearer token to an active local user.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*entity.User, error) {
	if rawToken == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidCredential)
	}

	user, err := s.authenticateProviderToken(ctx, rawToken)
	if err == nil {
		return s.requireActive(user)
	}
	if errors.Is(err, ErrUpstreamUnavailable) || errors.Is(err, ErrInactiveAccount) {
		return nil, err
	}

	user, err = s.authenticateInternalToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	return s.requireActive(user)
}

func (s *AuthService) authenticateProviderToken(ctx context.Context, rawToken string) (*entity.User, error) {
	info, err := s.verifier.VerifyIDToken(ctx, rawToken)
	if err != nil {
		if errors.Is(err, firebase.ErrCertsUnavailable) {
			log.Printf("[AuthService] Identity provider unreachable: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	if err := s.checkProviderRevocation(ctx, info); err != nil {
		return nil, err
	}
	return s.identityService.Reconcile(ctx, info)
}

// checkProviderRevocation rejects provider tokens issued before the owner's
// revocation watermark. It runs before reconciliation so a revoked token
// never touches the local mirror. Subjects without a local account pass:
// there is no watermark that could apply to them yet.
func (s *AuthService) checkProviderRevocation(ctx context.Context, info *firebase.TokenInfo) error {
	user, err := s.userRepo.GetByFirebaseUID(info.UID)
	if err != nil && errors.Is(err, apperrors.ErrNotFound) && info.Email != "" {
		user, err = s.userRepo.GetByEmail(info.Email)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up token subject: %w", err)
	}

	revoked, err := s.invalidTokenRepo.IsTokenInvalid(ctx, user.ID, info.IssuedAt)
	if err != nil {
		return fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return fmt.Errorf("%w: token issued before revocation point", ErrInvalidCredential)
	}
	return nil
}

func (s *AuthService) authenticateInternalToken(ctx context.Context, rawToken string) (*entity.User, error) {
	claims, err := s.tokenService.ValidateToken(rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	user, err := s.userRepo.GetByFirebaseUID(claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown token subject", ErrInvalidCredential)
		}
		return nil, fmt.Errorf("failed to look up token subject: %w", err)
	}

	if claims.IssuedAt != nil {
		revoked, err := s.invalidTokenRepo.IsTokenInvalid(ctx, user.ID, claims.IssuedAt.Time)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: token issued before revocation point", ErrInvalidCredential)
		}
	}
	return user, nil
}

func (s *AuthService) requireActive(user *entity.User) (*entity.User, error) {
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user id=%d", ErrInactiveAccount, user.ID)
	}
	return user, nil
}

// ExchangeToken verifies a provider ID token, reconciles the local mirror and
// mints an internal access token bound to the same subject. Subsequent calls
// can then authenticate without a round trip to the provider.
func (s *AuthService) ExchangeToken(ctx context.Context, idToken string) (*ExchangeResult, error) {
	info, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		if errors.Is(err, firebase.ErrCertsUnavailable) {
			log.Printf("[AuthService] Identity provider unreachable during exchange: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	if err := s.checkProviderRevocation(ctx, info); err != nil {
		return nil, err
	}

	user, err := s.identityService.Reconcile(ctx, info)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireActive(user); err != nil {
		return nil, err
	}

	accessToken, err := s.tokenService.GenerateToken(info.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &ExchangeResult{
		User:        user,
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   s.tokenService.ExpiresIn(),
	}, nil
}
