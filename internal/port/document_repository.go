package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"docflow/internal/domain"
)

// DocumentRepository defines the contract for document persistence.
// Create and UpdateItems write the items and the three totals in one transaction.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.DocumentFilter, offset, limit int) ([]domain.Document, int, error)
	UpdateItems(ctx context.Context, doc *domain.Document) error
	UpdateStatus(ctx context.Context, change domain.StatusChange) error
	Delete(ctx context.Context, tenantID, docID uuid.UUID) error
	// LastNumber returns the highest document number starting with prefix, or "" if none.
	LastNumber(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType, prefix string) (string, error)
}

// PaymentRepository defines the contract for payment persistence.
type PaymentRepository interface {
	// CreateWithTransition inserts payment and, when change is non-nil, applies the
	// status change in the same transaction.
	CreateWithTransition(ctx context.Context, payment *domain.Payment, change *domain.StatusChange) error
	ListByDocument(ctx context.Context, tenantID, documentID uuid.UUID) ([]domain.Payment, error)
	SumByDocument(ctx context.Context, tenantID, documentID uuid.UUID) (domain.AmountSummary, error)
}

// RecurringConfigRepository defines the contract for recurring document schedules.
type RecurringConfigRepository interface {
	Create(ctx context.Context, cfg *domain.RecurringDocumentConfig) error
	GetByID(ctx context.Context, tenantID, configID uuid.UUID) (*domain.RecurringDocumentConfig, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.RecurringDocumentConfig, int, error)
	// ListDue returns active configs of every tenant whose next date is on or before asOf.
	ListDue(ctx context.Context, asOf time.Time) ([]domain.RecurringDocumentConfig, error)
	// UpdateSchedule persists NextDate, IsActive, LastRunAt and LastDocumentID.
	UpdateSchedule(ctx context.Context, cfg *domain.RecurringDocumentConfig) error
	// ClaimRun persists cfg's NextDate, IsActive and LastRunAt only if the stored
	// config is still active with next date due. Otherwise it returns
	// domain.ErrRecurringRunClaimed and changes nothing.
	ClaimRun(ctx context.Context, cfg *domain.RecurringDocumentConfig, due time.Time) error
	// ReleaseRun puts prior's schedule back if the stored next date is still claimedNext.
	ReleaseRun(ctx context.Context, prior *domain.RecurringDocumentConfig, claimedNext time.Time) error
}
