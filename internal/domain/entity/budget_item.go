package entity

import "time"

// BudgetItem is a single planned or actual expense line inside a trip.
type BudgetItem struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	TripID        uint       `gorm:"not null;index" json:"trip_id"`
	CategoryID    int16      `gorm:"not null;index" json:"category_id"`
	Title         string     `gorm:"size:255" json:"title"`
	PlannedAmount float64    `gorm:"type:numeric(12,2);not null;default:0" json:"planned_amount"`
	ActualAmount  float64    `gorm:"type:numeric(12,2);not null;default:0" json:"actual_amount"`
	Date          *time.Time `gorm:"type:date" json:"date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BudgetItem) TableName() string {
	return "budget_items"
}
