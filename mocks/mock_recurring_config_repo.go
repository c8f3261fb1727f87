package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docflow/internal/domain"
)

// MockRecurringConfigRepo is a mock implementation of port.RecurringConfigRepository.
type MockRecurringConfigRepo struct {
	mock.Mock
}

func (m *MockRecurringConfigRepo) Create(ctx context.Context, cfg *domain.RecurringDocumentConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockRecurringConfigRepo) GetByID(ctx context.Context, tenantID, configID uuid.UUID) (*domain.RecurringDocumentConfig, error) {
	args := m.Called(ctx, tenantID, configID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringDocumentConfig), args.Error(1)
}

func (m *MockRecurringConfigRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.RecurringDocumentConfig, int, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RecurringDocumentConfig), args.Int(1), args.Error(2)
}

func (m *MockRecurringConfigRepo) ListDue(ctx context.Context, asOf time.Time) ([]domain.RecurringDocumentConfig, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringDocumentConfig), args.Error(1)
}

func (m *MockRecurringConfigRepo) UpdateSchedule(ctx context.Context, cfg *domain.RecurringDocumentConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockRecurringConfigRepo) ClaimRun(ctx context.Context, cfg *domain.RecurringDocumentConfig, due time.Time) error {
	args := m.Called(ctx, cfg, due)
	return args.Error(0)
}

func (m *MockRecurringConfigRepo) ReleaseRun(ctx context.Context, prior *domain.RecurringDocumentConfig, claimedNext time.Time) error {
	args := m.Called(ctx, prior, claimedNext)
	return args.Error(0)
}
