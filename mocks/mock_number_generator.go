package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docflow/internal/domain"
)

// MockNumberGenerator is a mock implementation of port.NumberGenerator.
type MockNumberGenerator struct {
	mock.Mock
}

func (m *MockNumberGenerator) Next(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType, year int) (string, error) {
	args := m.Called(ctx, tenantID, docType, year)
	return args.String(0), args.Error(1)
}
