package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "github.com/yourusername/mytrip-api/internal/pkg/errors"
)

// Issuer identifies internally minted tokens.
const Issuer = "mytrip-api"

// TokenClaims is the payload of an internally issued access token. Subject
// carries the external identity id the account was minted for.
type TokenClaims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies short-lived HS256 access tokens.
type TokenService struct {
	secretKey      []byte
	expirationTime time.Duration
}

// NewTokenService creates a token service. expiresMin is the token lifetime
// in minutes.
func NewTokenService(secretKey string, expiresMin int) *TokenService {
	return &TokenService{
		secretKey:      []byte(secretKey),
		expirationTime: time.Duration(expiresMin) * time.Minute,
	}
}

// GenerateToken mints a signed token for the given subject.
func (s *TokenService) GenerateToken(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: token subject must not be empty", apperrors.ErrValidation)
	}

	now := time.Now()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expirationTime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token string, returning its claims.
// Expired tokens map to ErrExpiredToken, everything else invalid to
// ErrInvalidToken.
func (s *TokenService) ValidateToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secretKey, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, apperrors.ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", apperrors.ErrInvalidToken)
	}
	return claims, nil
}

// ExpiresIn reports the configured token lifetime in seconds, for responses
// that advertise it to clients.
func (s *TokenService) ExpiresIn() int {
	return int(s.expirationTime / time.Second)
}
