package firebase

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// certsURL serves the rotating x509 certificates Firebase signs ID tokens with.
const certsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

var (
	// ErrInvalidIDToken means the token failed signature or claim validation.
	ErrInvalidIDToken = errors.New("firebase: invalid id token")

	// ErrCertsUnavailable means the certificate endpoint could not be reached,
	// so the token could not be checked at all.
	ErrCertsUnavailable = errors.New("firebase: certificate endpoint unavailable")
)

// TokenInfo is the subset of ID-token claims the application consumes.
type TokenInfo struct {
	UID      string
	Email    string
	Name     string
	Picture  string
	IssuedAt time.Time
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Verifier validates Firebase ID tokens against the project's signing
// certificates. Certificates are cached per the endpoint's Cache-Control
// max-age. Safe for concurrent use.
type Verifier struct {
	projectID  string
	httpClient *http.Client

	certsMu     sync.RWMutex
	certs       map[string]*rsa.PublicKey
	certsExpiry time.Time
}

// NewVerifier creates a verifier for the given Firebase project.
func NewVerifier(projectID string) (*Verifier, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("firebase project id is required")
	}
	return &Verifier{
		projectID:  projectID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// VerifyIDToken checks signature, issuer, audience and expiry of an ID token
// and returns its identity claims.
func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (*TokenInfo, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, fmt.Errorf("%w: empty id token", ErrInvalidIDToken)
	}

	claims := &idTokenClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	token, err := parser.ParseWithClaims(idToken, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if strings.TrimSpace(kid) == "" {
			return nil, fmt.Errorf("%w: missing kid header", ErrInvalidIDToken)
		}
		return v.publicKey(ctx, strings.TrimSpace(kid))
	})
	if err != nil {
		if errors.Is(err, ErrCertsUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	if token == nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrInvalidIDToken)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidIDToken)
	}
	if claims.Issuer != "https://securetoken.google.com/"+v.projectID {
		return nil, fmt.Errorf("%w: invalid issuer", ErrInvalidIDToken)
	}
	audMatched := false
	for _, aud := range claims.Audience {
		if aud == v.projectID {
			audMatched = true
			break
		}
	}
	if !audMatched {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidIDToken)
	}
	if claims.ExpiresAt == nil || time.Now().After(claims.ExpiresAt.Time) {
		return nil, fmt.Errorf("%w: token expired", ErrInvalidIDToken)
	}

	info := &TokenInfo{
		UID:     strings.TrimSpace(claims.Subject),
		Email:   strings.TrimSpace(claims.Email),
		Name:    strings.TrimSpace(claims.Name),
		Picture: strings.TrimSpace(claims.Picture),
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	return info, nil
}

func (v *Verifier) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	now := time.Now()
	v.certsMu.RLock()
	if key, ok := v.certs[kid]; ok && now.Before(v.certsExpiry) {
		v.certsMu.RUnlock()
		return key, nil
	}
	v.certsMu.RUnlock()

	if err := v.refreshCerts(ctx); err != nil {
		return nil, err
	}

	v.certsMu.RLock()
	defer v.certsMu.RUnlock()
	key, ok := v.certs[kid]
	if !ok || key == nil {
		return nil, fmt.Errorf("%w: signing certificate not found", ErrInvalidIDToken)
	}
	return key, nil
}

func (v *Verifier) refreshCerts(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, certsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create certs request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCertsUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: status=%d body=%s", ErrCertsUnavailable, resp.StatusCode, string(body))
	}

	// The endpoint returns a kid -> PEM certificate map.
	var raw map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("%w: failed to decode certs response: %v", ErrCertsUnavailable, err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty certs response", ErrCertsUnavailable)
	}

	keys := make(map[string]*rsa.PublicKey, len(raw))
	for kid, certPEM := range raw {
		pub, err := parseRSAPublicKeyFromCert(certPEM)
		if err != nil {
			continue
		}
		keys[kid] = pub
	}
	if len(keys) == 0 {
		return fmt.Errorf("%w: no usable rsa certificates", ErrCertsUnavailable)
	}

	ttl := parseCertsMaxAge(resp.Header.Get("Cache-Control"))
	if ttl <= 0 {
		ttl = time.Hour
	}

	v.certsMu.Lock()
	v.certs = keys
	v.certsExpiry = time.Now().Add(ttl)
	v.certsMu.Unlock()
	return nil
}

func parseRSAPublicKeyFromCert(certPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil {
		return nil, fmt.Errorf("no pem block in certificate")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("certificate key is not rsa")
	}
	return pub, nil
}

func parseCertsMaxAge(cacheControl string) time.Duration {
	for _, part := range strings.Split(cacheControl, ",") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(strings.ToLower(part), "max-age=") {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(strings.ToLower(part), "max-age="))
		seconds, err := time.ParseDuration(value + "s")
		if err != nil {
			return 0
		}
		if seconds < time.Minute {
			return time.Minute
		}
		return seconds
	}
	return 0
}
