package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client is a customer or supplier referenced by documents.
type Client struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TenantID  uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Address   string    `db:"address" json:"address"`
	VATNumber string    `db:"vat_number" json:"vat_number"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DocumentItem is one billable line of a document.
type DocumentItem struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	DocumentID  uuid.UUID       `db:"document_id" json:"document_id"`
	Position    int             `db:"position" json:"position"`
	Description string          `db:"description" json:"description"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	TaxRate     decimal.Decimal `db:"tax_rate" json:"tax_rate"`
}

// Document is a commercial record with line items and persisted totals.
// Subtotal, TaxAmount and TotalAmount are always written together with Items.
type Document struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	TenantID          uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	ClientID          uuid.UUID       `db:"client_id" json:"client_id"`
	DocumentNumber    string          `db:"document_number" json:"document_number"`
	Type              DocumentType    `db:"type" json:"type"`
	Status            DocumentStatus  `db:"status" json:"status"`
	IssueDate         time.Time       `db:"issue_date" json:"issue_date"`
	DueDate           *time.Time      `db:"due_date" json:"due_date"`
	PaidDate          *time.Time      `db:"paid_date" json:"paid_date"`
	Currency          string          `db:"currency" json:"currency"`
	Notes             string          `db:"notes" json:"notes"`
	Subtotal          decimal.Decimal `db:"subtotal" json:"subtotal"`
	TaxAmount         decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	TotalAmount       decimal.Decimal `db:"total_amount" json:"total_amount"`
	RecurringConfigID *uuid.UUID      `db:"recurring_config_id" json:"recurring_config_id"`
	CreatedBy         uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`

	// Read-side values, computed per query and never written back.
	PaidAmount      decimal.Decimal `db:"paid_amount" json:"paid_amount"`
	Remaining       decimal.Decimal `db:"-" json:"remaining"`
	EffectiveStatus DocumentStatus  `db:"-" json:"effective_status"`

	Items []DocumentItem `db:"-" json:"items,omitempty"`
}

// Payment records money received against a document.
type Payment struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	TenantID      uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	DocumentID    uuid.UUID       `db:"document_id" json:"document_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	PaymentDate   time.Time       `db:"payment_date" json:"payment_date"`
	PaymentMethod PaymentMethod   `db:"payment_method" json:"payment_method"`
	Reference     string          `db:"reference" json:"reference"`
	CreatedBy     uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// StatusChange is a compare-and-swap status update applied to a document.
type StatusChange struct {
	TenantID   uuid.UUID
	DocumentID uuid.UUID
	From       DocumentStatus
	To         DocumentStatus
	PaidDate   *time.Time
}

// RecurringDocumentConfig schedules periodic clones of a template document.
type RecurringDocumentConfig struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	TenantID           uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	TemplateDocumentID uuid.UUID  `db:"template_document_id" json:"template_document_id"`
	Frequency          Frequency  `db:"frequency" json:"frequency"`
	DayOfMonth         int        `db:"day_of_month" json:"day_of_month"`
	Month              int        `db:"month" json:"month"`
	NextDate           time.Time  `db:"next_date" json:"next_date"`
	EndDate            *time.Time `db:"end_date" json:"end_date"`
	IsActive           bool       `db:"is_active" json:"is_active"`
	LastRunAt          *time.Time `db:"last_run_at" json:"last_run_at"`
	LastDocumentID     *uuid.UUID `db:"last_document_id" json:"last_document_id"`
	CreatedBy          uuid.UUID  `db:"created_by" json:"created_by"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// DocumentFilter narrows document list queries.
type DocumentFilter struct {
	Type     DocumentType
	Status   DocumentStatus
	ClientID *uuid.UUID
	// AsOf is the date used to evaluate the derived overdue status.
	AsOf time.Time
}

// StatusCount is the number of documents in one stored status.
type StatusCount struct {
	Status DocumentStatus `db:"status" json:"status"`
	Count  int            `db:"count" json:"count"`
}

// AmountSummary aggregates a set of documents.
type AmountSummary struct {
	Count  int             `db:"count" json:"count"`
	Amount decimal.Decimal `db:"amount" json:"amount"`
}

// DashboardSummary is the tenant overview shown on the dashboard.
type DashboardSummary struct {
	StatusCounts      []StatusCount   `json:"status_counts"`
	Outstanding       AmountSummary   `json:"outstanding"`
	Overdue           AmountSummary   `json:"overdue"`
	PaidThisMonth     decimal.Decimal `json:"paid_this_month"`
	InvoicedThisMonth AmountSummary   `json:"invoiced_this_month"`
	ActiveRecurring   int             `json:"active_recurring"`
	ClientCount       int             `json:"client_count"`
}

// Event is a lifecycle notification published to the message broker.
type Event struct {
	ID         uuid.UUID              `json:"id"`
	Type       EventType              `json:"type"`
	TenantID   uuid.UUID              `json:"tenant_id"`
	DocumentID uuid.UUID              `json:"document_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data,omitempty"`
}
