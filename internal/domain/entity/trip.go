package entity

import "time"

// Trip belongs to exactly one user. Budget items and per-category targets hang
// off it and are removed with it.
type Trip struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	Name         string     `gorm:"size:255" json:"name,omitempty"`
	Destination  string     `gorm:"size:255" json:"destination,omitempty"`
	StartDate    *time.Time `gorm:"type:date;index:ix_trip_period,priority:1" json:"start_date,omitempty"`
	EndDate      *time.Time `gorm:"type:date;index:ix_trip_period,priority:2" json:"end_date,omitempty"`
	CurrencyCode string     `gorm:"type:char(3)" json:"currency_code,omitempty"`
	TotalBudget  *float64   `gorm:"type:numeric(12,2)" json:"total_budget,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Trip) TableName() string {
	return "trips"
}
