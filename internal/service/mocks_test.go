package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
	"github.com/yourusername/mytrip-api/internal/domain/repository"
	"github.com/yourusername/mytrip-api/pkg/auth/firebase"
)

// MockUserRepository implements repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByFirebaseUID(uid string) (*entity.User, error) {
	args := m.Called(uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(userID uint, updates map[string]interface{}) error {
	args := m.Called(userID, updates)
	return args.Error(0)
}

// MockInvalidTokenRepository implements repository.InvalidTokenRepository
type MockInvalidTokenRepository struct {
	mock.Mock
}

func (m *MockInvalidTokenRepository) AddInvalidToken(ctx context.Context, userID uint, invalidationTime time.Time) error {
	args := m.Called(ctx, userID, invalidationTime)
	return args.Error(0)
}

func (m *MockInvalidTokenRepository) IsTokenInvalid(ctx context.Context, userID uint, tokenIssuedAt time.Time) (bool, error) {
	args := m.Called(ctx, userID, tokenIssuedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvalidTokenRepository) CleanupOldInvalidTokens(ctx context.Context, cutoffTime time.Time) error {
	args := m.Called(ctx, cutoffTime)
	return args.Error(0)
}

// MockTripRepository implements repository.TripRepository
type MockTripRepository struct {
	mock.Mock
}

func (m *MockTripRepository) Create(trip *entity.Trip) error {
	args := m.Called(trip)
	return args.Error(0)
}

func (m *MockTripRepository) GetByID(id uint) (*entity.Trip, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Trip), args.Error(1)
}

func (m *MockTripRepository) ListByUser(userID uint, filters repository.TripFilters, limit, offset int) ([]entity.Trip, error) {
	args := m.Called(userID, filters, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Trip), args.Error(1)
}

func (m *MockTripRepository) Update(trip *entity.Trip) error {
	args := m.Called(trip)
	return args.Error(0)
}

func (m *MockTripRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockBudgetItemRepository implements repository.BudgetItemRepository
type MockBudgetItemRepository struct {
	mock.Mock
}

func (m *MockBudgetItemRepository) Create(item *entity.BudgetItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockBudgetItemRepository) GetByID(id uint) (*entity.BudgetItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BudgetItem), args.Error(1)
}

func (m *MockBudgetItemRepository) ListByTrip(tripID uint, filters repository.BudgetItemFilters, limit, offset int) ([]entity.BudgetItem, error) {
	args := m.Called(tripID, filters, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.BudgetItem), args.Error(1)
}

func (m *MockBudgetItemRepository) Update(item *entity.BudgetItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockBudgetItemRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockBudgetCategoryRepository implements repository.BudgetCategoryRepository
type MockBudgetCategoryRepository struct {
	mock.Mock
}

func (m *MockBudgetCategoryRepository) List() ([]entity.BudgetCategory, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.BudgetCategory), args.Error(1)
}

func (m *MockBudgetCategoryRepository) GetByID(id int16) (*entity.BudgetCategory, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BudgetCategory), args.Error(1)
}

// MockTripBudgetTargetRepository implements repository.TripBudgetTargetRepository
type MockTripBudgetTargetRepository struct {
	mock.Mock
}

func (m *MockTripBudgetTargetRepository) Create(target *entity.TripBudgetTarget) error {
	args := m.Called(target)
	return args.Error(0)
}

func (m *MockTripBudgetTargetRepository) GetByTripAndCategory(tripID uint, categoryID int16) (*entity.TripBudgetTarget, error) {
	args := m.Called(tripID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TripBudgetTarget), args.Error(1)
}

func (m *MockTripBudgetTargetRepository) ListByTrip(tripID uint) ([]entity.TripBudgetTarget, error) {
	args := m.Called(tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.TripBudgetTarget), args.Error(1)
}

func (m *MockTripBudgetTargetRepository) Update(target *entity.TripBudgetTarget) error {
	args := m.Called(target)
	return args.Error(0)
}

func (m *MockTripBudgetTargetRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// fakeVerifier implements ProviderTokenVerifier with a canned response.
type fakeVerifier struct {
	info *firebase.TokenInfo
	err  error
}

func (f *fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*firebase.TokenInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}
