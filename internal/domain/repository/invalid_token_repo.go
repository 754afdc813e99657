package repository

import (
	"context"
	"time"
)

// InvalidTokenRepository stores per-user token revocation watermarks.
type InvalidTokenRepository interface {
	// AddInvalidToken sets (or advances) the watermark for a user.
	AddInvalidToken(ctx context.Context, userID uint, invalidationTime time.Time) error

	// IsTokenInvalid reports whether a token issued at tokenIssuedAt is behind
	// the user's watermark.
	IsTokenInvalid(ctx context.Context, userID uint, tokenIssuedAt time.Time) (bool, error)

	// CleanupOldInvalidTokens drops watermarks older than cutoffTime.
	CleanupOldInvalidTokens(ctx context.Context, cutoffTime time.Time) error
}
