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

const maxTripPageSize = 200

// TripService manages trips. Every operation is scoped to the owning user:
// a trip that exists but belongs to someone else is reported as forbidden,
// never silently returned.
type TripService struct {
	tripRepo repository.TripRepository
}

func NewTripService(tripRepo repository.TripRepository) *TripService {
	return &TripService{tripRepo: tripRepo}
}

// TripInput carries the writable trip fields.
type TripInput struct {
	Name         string
	Destination  string
	StartDate    *time.Time
	EndDate      *time.Time
	CurrencyCode string
	TotalBudget  *float64
}

func (in *TripInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: trip name is required", apperrors.ErrValidation)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return fmt.Errorf("%w: end_date must not precede start_date", apperrors.ErrValidation)
	}
	if in.CurrencyCode != "" && len(in.CurrencyCode) != 3 {
		return fmt.Errorf("%w: currency_code must be a 3-letter code", apperrors.ErrValidation)
	}
	if in.TotalBudget != nil && *in.TotalBudget < 0 {
		return fmt.Errorf("%w: total_budget must not be negative", apperrors.ErrValidation)
	}
	return nil
}

// Create stores a new trip for the user.
func (s *TripService) Create(userID uint, input TripInput) (*entity.Trip, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(input.CurrencyCode))
	if currency == "" {
		currency = "BRL"
	}

	trip := &entity.Trip{
		UserID:       userID,
		Name:         strings.TrimSpace(input.Name),
		Destination:  strings.TrimSpace(input.Destination),
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		CurrencyCode: currency,
		TotalBudget:  input.TotalBudget,
	}
	if err := s.tripRepo.Create(trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	return trip, nil
}

// GetOwned returns the trip only if it belongs to userID.
func (s *TripService) GetOwned(userID, tripID uint) (*entity.Trip, error) {
	trip, err := s.tripRepo.GetByID(tripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, fmt.Errorf("%w: trip id=%d", apperrors.ErrForbidden, tripID)
	}
	return trip, nil
}

// List returns the user's trips, newest period first.
func (s *TripService) List(userID uint, filters repository.TripFilters, limit, offset int) ([]entity.Trip, error) {
	if limit <= 0 || limit > maxTripPageSize {
		limit = maxTripPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.tripRepo.ListByUser(userID, filters, limit, offset)
}

// Update replaces the writable fields of an owned trip.
func (s *TripService) Update(userID, tripID uint, input TripInput) (*entity.Trip, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	trip, err := s.GetOwned(userID, tripID)
	if err != nil {
		return nil, err
	}

	trip.Name = strings.TrimSpace(input.Name)
	trip.Destination = strings.TrimSpace(input.Destination)
	trip.StartDate = input.StartDate
	trip.EndDate = input.EndDate
	if input.CurrencyCode != "" {
		trip.CurrencyCode = strings.ToUpper(strings.TrimSpace(input.CurrencyCode))
	}
	trip.TotalBudget = input.TotalBudget

	if err := s.tripRepo.Update(trip); err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}
	return trip, nil
}

// Delete removes an owned trip; budget rows cascade at the schema level.
func (s *TripService) Delete(userID, tripID uint) error {
	if _, err := s.GetOwned(userID, tripID); err != nil {
		return err
	}
	if err := s.tripRepo.Delete(tripID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	return nil
}
