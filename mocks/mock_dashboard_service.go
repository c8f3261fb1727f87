package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docflow/internal/domain"
)

// MockDashboardService is a mock implementation of service.DashboardService.
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Summary(ctx context.Context, tenantID uuid.UUID) (*domain.DashboardSummary, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSummary), args.Error(1)
}
