package entity

import "time"

// InvalidToken is a per-user revocation watermark. Any bearer token issued
// before InvalidationTime is rejected, regardless of which path verified it.
type InvalidToken struct {
	UserID           uint      `gorm:"primaryKey" json:"user_id"`
	InvalidationTime time.Time `gorm:"not null" json:"invalidation_time"`
}

func (InvalidToken) TableName() string {
	return "invalid_tokens"
}

// IsTokenInvalidAt reports whether a token issued at issuedAt falls behind the
// watermark.
func (it *InvalidToken) IsTokenInvalidAt(issuedAt time.Time) bool {
	return issuedAt.Before(it.InvalidationTime)
}
