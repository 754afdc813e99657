package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
	"github.com/yourusername/mytrip-api/internal/domain/repository"
	apperrors "github.com/yourusername/mytrip-api/internal/pkg/errors"
)

const maxBudgetItemPageSize = 500

// BudgetService manages budget items and per-category targets inside a trip.
// Trip ownership is re-checked on every call, so an item id from someone
// else's trip can never be read or written through this service.
type BudgetService struct {
	tripService  *TripService
	itemRepo     repository.BudgetItemRepository
	categoryRepo repository.BudgetCategoryRepository
	targetRepo   repository.TripBudgetTargetRepository
}

func NewBudgetService(
	tripService *TripService,
	itemRepo repository.BudgetItemRepository,
	categoryRepo repository.BudgetCategoryRepository,
	targetRepo repository.TripBudgetTargetRepository,
) *BudgetService {
	return &BudgetService{
		tripService:  tripService,
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		targetRepo:   targetRepo,
	}
}

// ListCategories returns the seeded category catalog.
func (s *BudgetService) ListCategories() ([]entity.BudgetCategory, error) {
	return s.categoryRepo.List()
}

func (s *BudgetService) requireCategory(categoryID int16) error {
	if _, err := s.categoryRepo.GetByID(categoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: unknown category id=%d", apperrors.ErrValidation, categoryID)
		}
		return err
	}
	return nil
}

// BudgetItemInput carries the writable expense-line fields.
type BudgetItemInput struct {
	CategoryID    int16
	Title         string
	PlannedAmount float64
	ActualAmount  float64
	Date          *time.Time
}

func (in *BudgetItemInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if in.PlannedAmount < 0 || in.ActualAmount < 0 {
		return fmt.Errorf("%w: amounts must not be negative", apperrors.ErrValidation)
	}
	return nil
}

// CreateItem adds an expense line to an owned trip.
func (s *BudgetService) CreateItem(userID, tripID uint, input BudgetItemInput) (*entity.BudgetItem, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if _, err := s.tripService.GetOwned(userID, tripID); err != nil {
		return nil, err
	}
	if err := s.requireCategory(input.CategoryID); err != nil {
		return nil, err
	}

	item := &entity.BudgetItem{
		TripID:        tripID,
		CategoryID:    input.CategoryID,
		Title:         strings.TrimSpace(input.Title),
		PlannedAmount: input.PlannedAmount,
		ActualAmount:  input.ActualAmount,
		Date:          input.Date,
	}
	if err := s.itemRepo.Create(item); err != nil {
		return nil, fmt.Errorf("failed to create budget item: %w", err)
	}
	return item, nil
}

// ListItems returns a trip's expense lines, oldest date first.
func (s *BudgetService) ListItems(userID, tripID uint, filters repository.BudgetItemFilters, limit, offset int) ([]entity.BudgetItem, error) {
	if _, err := s.tripService.GetOwned(userID, tripID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxBudgetItemPageSize {
		limit = maxBudgetItemPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.itemRepo.ListByTrip(tripID, filters, limit, offset)
}

// ListAllItems returns every expense line of an owned trip, paging through
// the repository so trips larger than one page are not truncated.
func (s *BudgetService) ListAllItems(userID, tripID uint) ([]entity.BudgetItem, error) {
	if _, err := s.tripService.GetOwned(userID, tripID); err != nil {
		return nil, err
	}

	var all []entity.BudgetItem
	for offset := 0; ; offset += maxBudgetItemPageSize {
		page, err := s.itemRepo.ListByTrip(tripID, repository.BudgetItemFilters{}, maxBudgetItemPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < maxBudgetItemPageSize {
			return all, nil
		}
	}
}

// getOwnedItem loads an item and checks it belongs to the given owned trip.
func (s *BudgetService) getOwnedItem(userID, tripID, itemID uint) (*entity.BudgetItem, error) {
	if _, err := s.tripService.GetOwned(userID, tripID); err != nil {
		return nil, err
	}
	item, err := s.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item.TripID != tripID {
		return nil, fmt.Errorf("%w: budget item id=%d", apperrors.ErrNotFound, itemID)
	}
	return item, nil
}

// GetItem returns one expense line of an owned trip.
func (s *BudgetService) GetItem(userID, tripID, itemID uint) (*entity.BudgetItem, error) {
	return s.getOwnedItem(userID, tripID, itemID)
}

// UpdateItem replaces the writable fields of an expense line.
func (s *BudgetService) UpdateItem(userID, tripID, itemID uint, input BudgetItemInput) (*entity.BudgetItem, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	item, err := s.getOwnedItem(userID, tripID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCategory(input.CategoryID); err != nil {
		return nil, err
	}

	item.CategoryID = input.CategoryID
	item.Title = strings.TrimSpace(input.Title)
	item.PlannedAmount = input.PlannedAmount
	item.ActualAmount = input.ActualAmount
	item.Date = input.Date

	if err := s.itemRepo.Update(item); err != nil {
		return nil, fmt.Errorf("failed to update budget item: %w", err)
	}
	return item, nil
}

// DeleteItem removes an expense line from an owned trip.
func (s *BudgetService) DeleteItem(userID, tripID, itemID uint) error {
	if _, err := s.getOwnedItem(userID, tripID, itemID); err != nil {
		return err
	}
	return s.itemRepo.Delete(itemID)
}

// UpsertTarget creates or overwrites the planned-amount target for one
// category of an owned trip.
func (s *BudgetService) UpsertTarget(userID, tripID uint, categoryID int16, plannedAmount float64) (*entity.TripBudgetTarget, error) {
	if plannedAmount < 0 {
		return nil, fmt.Errorf("%w: planned_amount must not be negative", apperrors.ErrValidation)
	}
	if _, err := s.tripService.GetOwned(userID, tripID); err != nil {
		return nil, err
	}
	if err := s.requireCategory(categoryID); err != nil {
		return nil, err
	}

	existing, err := s.targetRepo.GetByTripAndCategory(tripID, categoryID)
	if err == nil {
		existing.PlannedAmount = plannedAmount
		if err := s.targetRepo.Update(existing); err != nil {
			return nil, fmt.Errorf("failed to update budget target: %w", err)
		}
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	target := &entity.TripBudgetTarget{
		TripID:        tripID,
		CategoryID:    categoryID,
		PlannedAmount: plannedAmount,
	}
	err = s.targetRepo.Create(target)
	if err == nil {
		return target, nil
	}
	if !errors.Is(err, apperrors.ErrConflict) {
		return nil, fmt.Errorf("failed to create budget target: %w", err)
	}

	// Concurrent upsert created the row first; overwrite it.
	existing, lookupErr := s.targetRepo.GetByTripAndCategory(tripID, categoryID)
	if lookupErr != nil {
		return nil, fmt.Errorf("failed to resolve target upsert race: %w", lookupErr)
	}
	existing.PlannedAmount = plannedAmount
	if err := s.targetRepo.Update(existing); err != nil {
		return nil, fmt.Errorf("failed to update budget target: %w", err)
	}
	return existing, nil
}

// ListTargets returns a trip's per-category targets ordered by category.
func (s *BudgetService) ListTargets(userID, tripID uint) ([]entity.TripBudgetTarget, error) {
	if _, err := s.tripService.GetOwned(userID, tripID); err != nil {
		return nil, err
	}
	return s.targetRepo.ListByTrip(tripID)
}

// GetTarget returns the target for one category of an owned trip.
func (s *BudgetService) GetTarget(userID, tripID uint, categoryID int16) (*entity.TripBudgetTarget, error) {
	if _, err := s.tripService.GetOwned(userID, tripID); err != nil {
		return nil, err
	}
	return s.targetRepo.GetByTripAndCategory(tripID, categoryID)
}

// DeleteTarget removes the target for one category of an owned trip.
func (s *BudgetService) DeleteTarget(userID, tripID uint, categoryID int16) error {
	if _, err := s.tripService.GetOwned(userID, tripID); err != nil {
		return err
	}
	target, err := s.targetRepo.GetByTripAndCategory(tripID, categoryID)
	if err != nil {
		return err
	}
	return s.targetRepo.Delete(target.ID)
}
