package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docflow/internal/domain"
)

// MockClientRepo is a mock implementation of port.ClientRepository.
type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) Create(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepo) GetByID(ctx context.Context, tenantID, clientID uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, tenantID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepo) List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Client, int, error) {
	args := m.Called(ctx, tenantID, search, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Client), args.Int(1), args.Error(2)
}

func (m *MockClientRepo) Update(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepo) Delete(ctx context.Context, tenantID, clientID uuid.UUID) error {
	args := m.Called(ctx, tenantID, clientID)
	return args.Error(0)
}
