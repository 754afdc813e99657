package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
	apperrors "github.com/yourusername/mytrip-api/internal/pkg/errors"
	"github.com/yourusername/mytrip-api/pkg/auth"
	"github.com/yourusername/mytrip-api/pkg/auth/firebase"
)

func newTestAuthService(t *testing.T, verifier ProviderTokenVerifier, userRepo *MockUserRepository, invalidTokenRepo *MockInvalidTokenRepository) (*AuthService, *auth.TokenService) {
	t.Helper()
	tokenService := auth.NewTokenService("test-secret", 60)
	identityService := NewIdentityService(userRepo, &NoopEmailService{})
	svc, err := NewAuthService(verifier, tokenService, identityService, userRepo, invalidTokenRepo)
	require.NoError(t, err)
	return svc, tokenService
}

func TestAuthService_Authenticate_ProviderTokenSuccess(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockInvalidTokenRepo := new(MockInvalidTokenRepository)
	existing := &entity.User{ID: 5, FirebaseUID: "uid-5", Email: "a@example.com", IsActive: true}

	mockUserRepo.On("GetByFirebaseUID", "uid-5").Return(existing, nil)
	mockUserRepo.On("Update", mock.AnythingOfType("*entity.User")).Return(nil)
	mockInvalidTokenRepo.On("IsTokenInvalid", mock.Anything, uint(5), mock.Anything).Return(false, nil)

	verifier := &fakeVerifier{info: &firebase.TokenInfo{UID: "uid-5", Email: "a@example.com", IssuedAt: time.Now()}}
	svc, _ := newTestAuthService(t, verifier, mockUserRepo, mockInvalidTokenRepo)

	user, err := svc.Authenticate(context.Background(), "some-provider-token")

	require.NoError(t, err)
	assert.Equal(t, uint(5), user.ID)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Authenticate_FallsBackToInternalToken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockInvalidTokenRepo := new(MockInvalidTokenRepository)
	existing := &entity.User{ID: 8, FirebaseUID: "uid-8", IsActive: true}

	mockUserRepo.On("GetByFirebaseUID", "uid-8").Return(existing, nil)
	mockInvalidTokenRepo.On("IsTokenInvalid", mock.Anything, uint(8), mock.Anything).Return(false, nil)

	verifier := &fakeVerifier{err: firebase.ErrInvalidIDToken}
	svc, tokenService := newTestAuthService(t, verifier, mockUserRepo, mockInvalidTokenRepo)

	internalToken, err := tokenService.GenerateToken("uid-8")
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), internalToken)

	require.NoError(t, err)
	assert.Equal(t, uint(8), user.ID)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Authenticate_BothShapesInvalid(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockInvalidTokenRepo := new(MockInvalidTokenRepository)

	verifier := &fakeVerifier{err: firebase.ErrInvalidIDToken}
	svc, _ := newTestAuthService(t, verifier, mockUserRepo, mockInvalidTokenRepo)

	user, err := svc.Authenticate(context.Background(), "garbage-token")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInvalidCredential)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything)
	mockUserRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestAuthService_Authenticate_UpstreamUnavailableDoesNotFallBack(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockInvalidTokenRepo := new(MockInvalidTokenRepository)

	verifier := &fakeVerifier{err: firebase.ErrCertsUnavailable}
	svc, tokenService := newTestAuthService(t, verifier, mockUserRepo, mockInvalidTokenRepo)

	// Even a valid internal token must not be accepted while the provider
	// verdict is unknown.
	internalToken, err := tokenService.GenerateToken("uid-1")
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), internalToken)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	mockUserRepo.AssertNotCalled(t, "GetByFirebaseUID", mock.Anything)
}

func TestAuthService_Authenticate_InactiveAccountDenied(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockInvalidTokenRepo := new(MockInvalidTokenRepository)
	inactive := &entity.User{ID: 4, FirebaseUID: "uid-4", IsActive: false}

	mockUserRepo.On("GetByFirebaseUID", "uid-4").Return(inactive, nil)
	mockUserRepo.On("Update", mock.AnythingOfType("*entity.User")).Return(nil)
	mockInvalidTokenRepo.On("IsTokenInvalid", mock.Anything, uint(4), mock.Anything).Return(false, nil)

	verifier := &fakeVerifier{info: &firebase.TokenInfo{UID: "uid-4"}}
	svc, _ := newTestAuthService(t, verifier, mockUserRepo, mockInvalidTokenRepo)

	user, err := svc.Authenticate(context.Background(), "provider-token")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInactiveAccount)
}

func TestAuthService_Authenticate_RevokedTokenDenied(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockInvalidTokenRepo := new(MockInvalidTokenRepository)
	existing := &entity.User{ID: 6, FirebaseUID: "uid-6", IsActive: true}

	mockUserRepo.On("GetByFirebaseUID", "uid-6").Return(existing, nil)
	mockInvalidTokenRepo.On("IsTokenInvalid", mock.Anything, uint(6), mock.Anything).Return(true, nil)

	verifier := &fakeVerifier{info: &firebase.TokenInfo{UID: "uid-6", IssuedAt: time.Now().Add(-time.Hour)}}
	svc, _ := newTestAuthService(t, verifier, mockUserRepo, mockInvalidTokenRepo)

	user, err := svc.Authenticate(context.Background(), "provider-token")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInvalidCredential)
	// Revocation is decided before reconciliation, so the mirror stays
	// untouched: no profile sync, no last_login_at stamp, no creation.
	mockUserRepo.AssertNotCalled(t, "Update", mock.Anything)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_Authenticate_UnknownInternalSubject(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockInvalidTokenRepo := new(MockInvalidTokenRepository)

	mockUserRepo.On("GetByFirebaseUID", "uid-gone").Return(nil, apperrors.ErrNotFound)

	verifier := &fakeVerifier{err: firebase.ErrInvalidIDToken}
	svc, tokenService := newTestAuthService(t, verifier, mockUserRepo, mockInvalidTokenRepo)

	internalToken, err := tokenService.GenerateToken("uid-gone")
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), internalToken)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAuthService_ExchangeToken_IssuesUsableToken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockInvalidTokenRepo := new(MockInvalidTokenRepository)
	existing := &entity.User{ID: 2, FirebaseUID: "uid-2", Email: "b@example.com", IsActive: true}

	mockUserRepo.On("GetByFirebaseUID", "uid-2").Return(existing, nil)
	mockUserRepo.On("Update", mock.AnythingOfType("*entity.User")).Return(nil)
	mockInvalidTokenRepo.On("IsTokenInvalid", mock.Anything, uint(2), mock.Anything).Return(false, nil)

	verifier := &fakeVerifier{info: &firebase.TokenInfo{UID: "uid-2", Email: "b@example.com"}}
	svc, tokenService := newTestAuthService(t, verifier, mockUserRepo, mockInvalidTokenRepo)

	result, err := svc.ExchangeToken(context.Background(), "provider-token")

	require.NoError(t, err)
	assert.Equal(t, "bearer", result.TokenType)
	assert.Equal(t, 3600, result.ExpiresIn)
	assert.Equal(t, uint(2), result.User.ID)

	// The issued token round-trips through validation and carries the
	// provider subject.
	claims, err := tokenService.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "uid-2", claims.Subject)
}

func TestAuthService_ExchangeToken_RevokedTokenDenied(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockInvalidTokenRepo := new(MockInvalidTokenRepository)
	existing := &entity.User{ID: 9, FirebaseUID: "uid-9", IsActive: true}

	mockUserRepo.On("GetByFirebaseUID", "uid-9").Return(existing, nil)
	mockInvalidTokenRepo.On("IsTokenInvalid", mock.Anything, uint(9), mock.Anything).Return(true, nil)

	verifier := &fakeVerifier{info: &firebase.TokenInfo{UID: "uid-9", IssuedAt: time.Now().Add(-time.Hour)}}
	svc, _ := newTestAuthService(t, verifier, mockUserRepo, mockInvalidTokenRepo)

	result, err := svc.ExchangeToken(context.Background(), "provider-token")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredential)
	mockUserRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestAuthService_ExchangeToken_InvalidProviderToken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockInvalidTokenRepo := new(MockInvalidTokenRepository)

	verifier := &fakeVerifier{err: errors.New("signature mismatch")}
	svc, _ := newTestAuthService(t, verifier, mockUserRepo, mockInvalidTokenRepo)

	result, err := svc.ExchangeToken(context.Background(), "bad-token")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredential)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything)
}
