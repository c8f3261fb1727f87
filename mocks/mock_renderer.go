package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docflow/internal/port"
)

// MockRenderer is a mock implementation of port.DocumentRenderer.
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, input port.RenderInput) ([]byte, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRenderer) ContentType() string {
	return "application/pdf"
}
