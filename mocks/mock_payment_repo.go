package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docflow/internal/domain"
)

// MockPaymentRepo is a mock implementation of port.PaymentRepository.
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) CreateWithTransition(ctx context.Context, payment *domain.Payment, change *domain.StatusChange) error {
	args := m.Called(ctx, payment, change)
	return args.Error(0)
}

func (m *MockPaymentRepo) ListByDocument(ctx context.Context, tenantID, documentID uuid.UUID) ([]domain.Payment, error) {
	args := m.Called(ctx, tenantID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) SumByDocument(ctx context.Context, tenantID, documentID uuid.UUID) (domain.AmountSummary, error) {
	args := m.Called(ctx, tenantID, documentID)
	return args.Get(0).(domain.AmountSummary), args.Error(1)
}
