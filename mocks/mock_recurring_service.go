package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docflow/internal/domain"
	"docflow/internal/service"
)

// MockRecurringService is a mock implementation of service.RecurringService.
type MockRecurringService struct {
	mock.Mock
}

func (m *MockRecurringService) Setup(ctx context.Context, input *service.SetupRecurringInput) (*domain.RecurringDocumentConfig, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringDocumentConfig), args.Error(1)
}

func (m *MockRecurringService) GetByID(ctx context.Context, tenantID, configID uuid.UUID) (*domain.RecurringDocumentConfig, error) {
	args := m.Called(ctx, tenantID, configID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringDocumentConfig), args.Error(1)
}

func (m *MockRecurringService) List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.RecurringDocumentConfig, int, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RecurringDocumentConfig), args.Int(1), args.Error(2)
}

func (m *MockRecurringService) Deactivate(ctx context.Context, tenantID, configID uuid.UUID) (*domain.RecurringDocumentConfig, error) {
	args := m.Called(ctx, tenantID, configID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringDocumentConfig), args.Error(1)
}

func (m *MockRecurringService) ProcessRecurringDocuments(ctx context.Context) (*service.ProcessResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProcessResult), args.Error(1)
}
