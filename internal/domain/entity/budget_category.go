package entity

// BudgetCategory is a seeded, read-only catalog row (flight, lodging, food, ...).
type BudgetCategory struct {
	ID    int16  `gorm:"primaryKey" json:"id"`
	Key   string `gorm:"size:50;not null;uniqueIndex" json:"key"`
	Label string `gorm:"size:100" json:"label,omitempty"`
}

func (BudgetCategory) TableName() string {
	return "budget_categories"
}
