package entity

import "time"

// TripBudgetTarget caps planned spending for one category inside one trip.
// At most one target exists per (trip, category); creating again overwrites.
type TripBudgetTarget struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	TripID        uint    `gorm:"not null;uniqueIndex:uq_trip_category,priority:1" json:"trip_id"`
	CategoryID    int16   `gorm:"not null;uniqueIndex:uq_trip_category,priority:2" json:"category_id"`
	PlannedAmount float64 `gorm:"type:numeric(12,2);not null" json:"planned_amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TripBudgetTarget) TableName() string {
	return "trip_budget_targets"
}
