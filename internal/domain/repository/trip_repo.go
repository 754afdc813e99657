package repository

import (
	"time"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
)

// TripFilters narrows ListByUser. Zero values mean "no filter".
type TripFilters struct {
	StartFrom *time.Time
	EndUntil  *time.Time
}

// TripRepository persists trips.
type TripRepository interface {
	Create(trip *entity.Trip) error
	GetByID(id uint) (*entity.Trip, error)
	ListByUser(userID uint, filters TripFilters, limit, offset int) ([]entity.Trip, error)
	Update(trip *entity.Trip) error
	Delete(id uint) error
}
