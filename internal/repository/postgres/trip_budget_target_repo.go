package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
	apperrors "github.com/yourusername/mytrip-api/internal/pkg/errors"
)

// TripBudgetTargetRepo implements repository.TripBudgetTargetRepository.
type TripBudgetTargetRepo struct {
	db *gorm.DB
}

func NewTripBudgetTargetRepo(db *gorm.DB) *TripBudgetTargetRepo {
	return &TripBudgetTargetRepo{db: db}
}

func (r *TripBudgetTargetRepo) Create(target *entity.TripBudgetTarget) error {
	if err := r.db.Create(target).Error; err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: target for trip %d category %d", apperrors.ErrConflict, target.TripID, target.CategoryID)
		}
		return err
	}
	return nil
}

func (r *TripBudgetTargetRepo) GetByTripAndCategory(tripID uint, categoryID int16) (*entity.TripBudgetTarget, error) {
	var target entity.TripBudgetTarget
	err := r.db.
		Where("trip_id = ? AND category_id = ?", tripID, categoryID).
		First(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get budget target: %w", err)
	}
	return &target, nil
}

func (r *TripBudgetTargetRepo) ListByTrip(tripID uint) ([]entity.TripBudgetTarget, error) {
	var targets []entity.TripBudgetTarget
	err := r.db.
		Where("trip_id = ?", tripID).
		Order("category_id ASC").
		Find(&targets).Error
	return targets, err
}

func (r *TripBudgetTargetRepo) Update(target *entity.TripBudgetTarget) error {
	return r.db.Save(target).Error
}

func (r *TripBudgetTargetRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.TripBudgetTarget{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
