package repository

import (
	"time"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
)

// BudgetItemFilters narrows ListByTrip. Nil values mean "no filter".
type BudgetItemFilters struct {
	DateFrom   *time.Time
	DateUntil  *time.Time
	CategoryID *int16
}

// BudgetItemRepository persists expense lines.
type BudgetItemRepository interface {
	Create(item *entity.BudgetItem) error
	GetByID(id uint) (*entity.BudgetItem, error)
	ListByTrip(tripID uint, filters BudgetItemFilters, limit, offset int) ([]entity.BudgetItem, error)
	Update(item *entity.BudgetItem) error
	Delete(id uint) error
}
