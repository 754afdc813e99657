package repository

import "github.com/yourusername/mytrip-api/internal/domain/entity"

// TripBudgetTargetRepository persists per-category planned-amount targets.
type TripBudgetTargetRepository interface {
	Create(target *entity.TripBudgetTarget) error
	GetByTripAndCategory(tripID uint, categoryID int16) (*entity.TripBudgetTarget, error)
	ListByTrip(tripID uint) ([]entity.TripBudgetTarget, error)
	Update(target *entity.TripBudgetTarget) error
	Delete(id uint) error
}
