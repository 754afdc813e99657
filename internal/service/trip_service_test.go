package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
	"github.com/yourusername/mytrip-api/internal/domain/repository"
	apperrors "github.com/yourusername/mytrip-api/internal/pkg/errors"
)

func TestTripService_Create_Success(t *testing.T) {
	mockTripRepo := new(MockTripRepository)
	mockTripRepo.On("Create", mock.AnythingOfType("*entity.Trip")).Return(nil)

	svc := NewTripService(mockTripRepo)

	trip, err := svc.Create(1, TripInput{Name: "  Lisbon  ", Destination: "Portugal"})

	require.NoError(t, err)
	assert.Equal(t, "Lisbon", trip.Name)
	assert.Equal(t, uint(1), trip.UserID)
	assert.Equal(t, "BRL", trip.CurrencyCode, "currency defaults when omitted")
	mockTripRepo.AssertExpectations(t)
}

func TestTripService_Create_EndBeforeStart(t *testing.T) {
	svc := NewTripService(new(MockTripRepository))

	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -3)

	trip, err := svc.Create(1, TripInput{Name: "Bad", StartDate: &start, EndDate: &end})

	assert.Nil(t, trip)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTripService_GetOwned_ForeignTripForbidden(t *testing.T) {
	mockTripRepo := new(MockTripRepository)
	mockTripRepo.On("GetByID", uint(10)).Return(&entity.Trip{ID: 10, UserID: 99}, nil)

	svc := NewTripService(mockTripRepo)

	trip, err := svc.GetOwned(1, 10)

	assert.Nil(t, trip)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestTripService_List_CapsPageSize(t *testing.T) {
	mockTripRepo := new(MockTripRepository)
	mockTripRepo.On("ListByUser", uint(1), repository.TripFilters{}, 200, 0).Return([]entity.Trip{}, nil)

	svc := NewTripService(mockTripRepo)

	_, err := svc.List(1, repository.TripFilters{}, 100000, -5)

	require.NoError(t, err)
	mockTripRepo.AssertExpectations(t)
}

func TestTripService_Delete_ForeignTripForbidden(t *testing.T) {
	mockTripRepo := new(MockTripRepository)
	mockTripRepo.On("GetByID", uint(7)).Return(&entity.Trip{ID: 7, UserID: 2}, nil)

	svc := NewTripService(mockTripRepo)

	err := svc.Delete(1, 7)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	mockTripRepo.AssertNotCalled(t, "Delete", mock.Anything)
}
