package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
	apperrors "github.com/yourusername/mytrip-api/internal/pkg/errors"
	"github.com/yourusername/mytrip-api/internal/service"
	"github.com/yourusername/mytrip-api/pkg/auth"
	"github.com/yourusername/mytrip-api/pkg/auth/firebase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext creates a *gin.Context with a JSON body.
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// stubVerifier implements service.ProviderTokenVerifier.
type stubVerifier struct {
	info *firebase.TokenInfo
	err  error
}

func (s *stubVerifier) VerifyIDToken(ctx context.Context, idToken string) (*firebase.TokenInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.info, nil
}

// memUserRepo is a minimal in-memory repository.UserRepository.
type memUserRepo struct {
	byUID   map[string]*entity.User
	byEmail map[string]*entity.User
	nextID  uint
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byUID:   make(map[string]*entity.User),
		byEmail: make(map[string]*entity.User),
		nextID:  1,
	}
}

func (r *memUserRepo) Create(user *entity.User) error {
	user.ID = r.nextID
	r.nextID++
	r.byUID[user.FirebaseUID] = user
	r.byEmail[user.Email] = user
	return nil
}

func (r *memUserRepo) GetByID(id uint) (*entity.User, error) {
	for _, u := range r.byUID {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUserRepo) GetByFirebaseUID(uid string) (*entity.User, error) {
	if u, ok := r.byUID[uid]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUserRepo) Update(user *entity.User) error { return nil }

func (r *memUserRepo) UpdateProfile(userID uint, updates map[string]interface{}) error { return nil }

// memInvalidTokenRepo is a minimal repository.InvalidTokenRepository that
// never reports revocations.
type memInvalidTokenRepo struct{}

func (r *memInvalidTokenRepo) AddInvalidToken(ctx context.Context, userID uint, invalidationTime time.Time) error {
	return nil
}
func (r *memInvalidTokenRepo) IsTokenInvalid(ctx context.Context, userID uint, tokenIssuedAt time.Time) (bool, error) {
	return false, nil
}
func (r *memInvalidTokenRepo) CleanupOldInvalidTokens(ctx context.Context, cutoffTime time.Time) error {
	return nil
}

func newTestAuthHandler(t *testing.T, verifier service.ProviderTokenVerifier) *AuthHandler {
	t.Helper()
	tokenService := auth.NewTokenService("handler-test-secret", 60)
	userRepo := newMemUserRepo()
	identityService := service.NewIdentityService(userRepo, &service.NoopEmailService{})
	authService, err := service.NewAuthService(verifier, tokenService, identityService, userRepo, &memInvalidTokenRepo{})
	require.NoError(t, err)
	return NewAuthHandler(authService)
}

func TestAuthHandler_Exchange_MissingIDToken(t *testing.T) {
	handler := &AuthHandler{} // nil service, validation fails before use

	c, w := newTestGinContext(http.MethodPost, "/api/auth/exchange", map[string]string{})
	handler.Exchange(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, "validation_error", resp["error_type"])
}

func TestAuthHandler_Exchange_Success(t *testing.T) {
	verifier := &stubVerifier{info: &firebase.TokenInfo{
		UID:   "uid-handler",
		Email: "handler@example.com",
		Name:  "Handler Test",
	}}
	handler := newTestAuthHandler(t, verifier)

	c, w := newTestGinContext(http.MethodPost, "/api/auth/exchange", map[string]string{"id_token": "provider-token"})
	handler.Exchange(c)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := parseJSONResponse(t, w)
	assert.NotEmpty(t, resp["access_token"])
	assert.Equal(t, "bearer", resp["token_type"])
	assert.Equal(t, float64(3600), resp["expires_in"])

	user, ok := resp["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "handler@example.com", user["email"])
}

func TestAuthHandler_Exchange_BearerHeader(t *testing.T) {
	verifier := &stubVerifier{info: &firebase.TokenInfo{
		UID:   "uid-header",
		Email: "header@example.com",
	}}
	handler := newTestAuthHandler(t, verifier)

	c, w := newTestGinContext(http.MethodPost, "/api/auth/exchange", nil)
	c.Request.Header.Set("Authorization", "Bearer provider-token")
	handler.Exchange(c)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := parseJSONResponse(t, w)
	assert.NotEmpty(t, resp["access_token"])
}

func TestAuthHandler_Exchange_InvalidProviderToken(t *testing.T) {
	verifier := &stubVerifier{err: firebase.ErrInvalidIDToken}
	handler := newTestAuthHandler(t, verifier)

	c, w := newTestGinContext(http.MethodPost, "/api/auth/exchange", map[string]string{"id_token": "bad"})
	handler.Exchange(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, "invalid_credential", resp["error_type"])
}

func TestAuthHandler_Exchange_UpstreamUnavailable(t *testing.T) {
	verifier := &stubVerifier{err: firebase.ErrCertsUnavailable}
	handler := newTestAuthHandler(t, verifier)

	c, w := newTestGinContext(http.MethodPost, "/api/auth/exchange", map[string]string{"id_token": "any"})
	handler.Exchange(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, "upstream_unavailable", resp["error_type"])
}
