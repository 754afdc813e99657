package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
	"github.com/yourusername/mytrip-api/internal/domain/repository"
	apperrors "github.com/yourusername/mytrip-api/internal/pkg/errors"
)

// TripRepo implements repository.TripRepository.
type TripRepo struct {
	db *gorm.DB
}

func NewTripRepo(db *gorm.DB) *TripRepo {
	return &TripRepo{db: db}
}

func (r *TripRepo) Create(trip *entity.Trip) error {
	return r.db.Create(trip).Error
}

func (r *TripRepo) GetByID(id uint) (*entity.Trip, error) {
	var trip entity.Trip
	err := r.db.First(&trip, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

func (r *TripRepo) ListByUser(userID uint, filters repository.TripFilters, limit, offset int) ([]entity.Trip, error) {
	query := r.db.Where("user_id = ?", userID)

	if filters.StartFrom != nil {
		query = query.Where("start_date >= ?", *filters.StartFrom)
	}
	if filters.EndUntil != nil {
		query = query.Where("end_date <= ?", *filters.EndUntil)
	}

	var trips []entity.Trip
	err := query.
		Order("start_date DESC NULLS LAST").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&trips).Error
	return trips, err
}

func (r *TripRepo) Update(trip *entity.Trip) error {
	return r.db.Save(trip).Error
}

// Delete removes the trip; items and targets go with it via ON DELETE CASCADE.
func (r *TripRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.Trip{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
