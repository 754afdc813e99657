package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
	"github.com/yourusername/mytrip-api/internal/domain/repository"
	apperrors "github.com/yourusername/mytrip-api/internal/pkg/errors"
)

// BudgetItemRepo implements repository.BudgetItemRepository.
type BudgetItemRepo struct {
	db *gorm.DB
}

func NewBudgetItemRepo(db *gorm.DB) *BudgetItemRepo {
	return &BudgetItemRepo{db: db}
}

func (r *BudgetItemRepo) Create(item *entity.BudgetItem) error {
	return r.db.Create(item).Error
}

func (r *BudgetItemRepo) GetByID(id uint) (*entity.BudgetItem, error) {
	var item entity.BudgetItem
	err := r.db.First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get budget item: %w", err)
	}
	return &item, nil
}

func (r *BudgetItemRepo) ListByTrip(tripID uint, filters repository.BudgetItemFilters, limit, offset int) ([]entity.BudgetItem, error) {
	query := r.db.Where("trip_id = ?", tripID)

	if filters.DateFrom != nil {
		query = query.Where("date >= ?", *filters.DateFrom)
	}
	if filters.DateUntil != nil {
		query = query.Where("date <= ?", *filters.DateUntil)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}

	var items []entity.BudgetItem
	err := query.
		Order("date ASC NULLS LAST").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

func (r *BudgetItemRepo) Update(item *entity.BudgetItem) error {
	return r.db.Save(item).Error
}

func (r *BudgetItemRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.BudgetItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
