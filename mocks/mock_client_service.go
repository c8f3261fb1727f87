package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docflow/internal/domain"
	"docflow/internal/service"
)

// MockClientService is a mock implementation of service.ClientService.
type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) Create(ctx context.Context, input *service.ClientInput) (*domain.Client, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) GetByID(ctx context.Context, tenantID, clientID uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, tenantID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Client, int, error) {
	args := m.Called(ctx, tenantID, search, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Client), args.Int(1), args.Error(2)
}

func (m *MockClientService) Update(ctx context.Context, input *service.ClientInput) (*domain.Client, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) Delete(ctx context.Context, tenantID, clientID uuid.UUID) error {
	args := m.Called(ctx, tenantID, clientID)
	return args.Error(0)
}
