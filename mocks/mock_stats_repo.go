package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"docflow/internal/domain"
)

// MockStatsRepo is a mock implementation of port.StatsRepository.
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) StatusCounts(ctx context.Context, tenantID uuid.UUID) ([]domain.StatusCount, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusCount), args.Error(1)
}

func (m *MockStatsRepo) Outstanding(ctx context.Context, tenantID uuid.UUID) (domain.AmountSummary, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(domain.AmountSummary), args.Error(1)
}

func (m *MockStatsRepo) Overdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (domain.AmountSummary, error) {
	args := m.Called(ctx, tenantID, asOf)
	return args.Get(0).(domain.AmountSummary), args.Error(1)
}

func (m *MockStatsRepo) PaymentsBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStatsRepo) InvoicedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (domain.AmountSummary, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).(domain.AmountSummary), args.Error(1)
}

func (m *MockStatsRepo) ActiveRecurring(ctx context.Context, tenantID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsRepo) ClientCount(ctx context.Context, tenantID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}
