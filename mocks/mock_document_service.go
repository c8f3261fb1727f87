package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docflow/internal/domain"
	"docflow/internal/service"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) docResult(args mock.Arguments) (*domain.Document, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) Create(ctx context.Context, input *service.CreateDocumentInput) (*domain.Document, error) {
	return m.docResult(m.Called(ctx, input))
}

func (m *MockDocumentService) GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.Document, error) {
	return m.docResult(m.Called(ctx, tenantID, docID))
}

func (m *MockDocumentService) List(ctx context.Context, tenantID uuid.UUID, filter domain.DocumentFilter, offset, limit int) ([]domain.Document, int, error) {
	args := m.Called(ctx, tenantID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Document), args.Int(1), args.Error(2)
}

func (m *MockDocumentService) UpdateItems(ctx context.Context, input *service.UpdateItemsInput) (*domain.Document, error) {
	return m.docResult(m.Called(ctx, input))
}

func (m *MockDocumentService) Delete(ctx context.Context, tenantID, docID uuid.UUID) error {
	args := m.Called(ctx, tenantID, docID)
	return args.Error(0)
}

func (m *MockDocumentService) MarkSent(ctx context.Context, tenantID, docID, userID uuid.UUID) (*domain.Document, error) {
	return m.docResult(m.Called(ctx, tenantID, docID, userID))
}

func (m *MockDocumentService) Accept(ctx context.Context, tenantID, docID, userID uuid.UUID) (*domain.Document, error) {
	return m.docResult(m.Called(ctx, tenantID, docID, userID))
}

func (m *MockDocumentService) MarkPaid(ctx context.Context, tenantID, docID, userID uuid.UUID, paidDate *time.Time) (*domain.Document, error) {
	return m.docResult(m.Called(ctx, tenantID, docID, userID, paidDate))
}

func (m *MockDocumentService) Cancel(ctx context.Context, tenantID, docID, userID uuid.UUID) (*domain.Document, error) {
	return m.docResult(m.Called(ctx, tenantID, docID, userID))
}

func (m *MockDocumentService) RecordPayment(ctx context.Context, input *service.RecordPaymentInput) (*service.PaymentResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaymentResult), args.Error(1)
}

func (m *MockDocumentService) ListPayments(ctx context.Context, tenantID, docID uuid.UUID) ([]domain.Payment, error) {
	args := m.Called(ctx, tenantID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockDocumentService) RenderPDF(ctx context.Context, tenantID, docID uuid.UUID) (*service.RenderedDocument, error) {
	args := m.Called(ctx, tenantID, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RenderedDocument), args.Error(1)
}

func (m *MockDocumentService) SendByEmail(ctx context.Context, input *service.SendEmailInput) (*domain.Document, error) {
	return m.docResult(m.Called(ctx, input))
}

func (m *MockDocumentService) SendReminder(ctx context.Context, tenantID, docID, userID uuid.UUID) error {
	args := m.Called(ctx, tenantID, docID, userID)
	return args.Error(0)
}
