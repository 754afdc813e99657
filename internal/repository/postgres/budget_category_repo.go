package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
	apperrors "github.com/yourusername/mytrip-api/internal/pkg/errors"
)

// BudgetCategoryRepo implements repository.BudgetCategoryRepository over the
// seeded catalog table.
type BudgetCategoryRepo struct {
	db *gorm.DB
}

func NewBudgetCategoryRepo(db *gorm.DB) *BudgetCategoryRepo {
	return &BudgetCategoryRepo{db: db}
}

func (r *BudgetCategoryRepo) List() ([]entity.BudgetCategory, error) {
	var categories []entity.BudgetCategory
	err := r.db.Order("key ASC").Find(&categories).Error
	return categories, err
}

func (r *BudgetCategoryRepo) GetByID(id int16) (*entity.BudgetCategory, error) {
	var category entity.BudgetCategory
	err := r.db.First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get budget category: %w", err)
	}
	return &category, nil
}
