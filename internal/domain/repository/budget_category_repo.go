package repository

import "github.com/yourusername/mytrip-api/internal/domain/entity"

// BudgetCategoryRepository reads the seeded category catalog.
type BudgetCategoryRepository interface {
	List() ([]entity.BudgetCategory, error)
	GetByID(id int16) (*entity.BudgetCategory, error)
}
