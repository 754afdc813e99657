package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
)

// InvalidTokenRepo implements repository.InvalidTokenRepository.
type InvalidTokenRepo struct {
	db *gorm.DB
}

func NewInvalidTokenRepo(db *gorm.DB) *InvalidTokenRepo {
	return &InvalidTokenRepo{db: db}
}

// AddInvalidToken upserts the watermark so re-revoking a user only advances it.
func (r *InvalidTokenRepo) AddInvalidToken(ctx context.Context, userID uint, invalidationTime time.Time) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO invalid_tokens (user_id, invalidation_time)
		VALUES (?, ?)
		ON CONFLICT (user_id)
		DO UPDATE SET invalidation_time = ?
	`, userID, invalidationTime, invalidationTime).Error
}

func (r *InvalidTokenRepo) IsTokenInvalid(ctx context.Context, userID uint, tokenIssuedAt time.Time) (bool, error) {
	var invalidToken entity.InvalidToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&invalidToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return invalidToken.IsTokenInvalidAt(tokenIssuedAt), nil
}

func (r *InvalidTokenRepo) CleanupOldInvalidTokens(ctx context.Context, cutoffTime time.Time) error {
	return r.db.WithContext(ctx).
		Where("invalidation_time < ?", cutoffTime).
		Delete(&entity.InvalidToken{}).Error
}
