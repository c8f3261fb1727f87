package handler

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"docflow/internal/domain"
	"docflow/internal/service"
)

// Request and response shapes. Besides binding requests, swag reads these to
// generate the OpenAPI documentation.

// --- Request Types ---

// ClientRequest is the body for creating or updating a client.
type ClientRequest struct {
	Name      string `json:"name" binding:"required" example:"Acme BV"`
	Email     string `json:"email" example:"billing@acme.example"`
	Address   string `json:"address" example:"Main Street 1\n1000 Brussels"`
	VATNumber string `json:"vat_number" example:"BE0123456789"`
}

// CreateDocumentRequest is the body for creating a document.
type CreateDocumentRequest struct {
	ClientID       uuid.UUID           `json:"client_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Type           domain.DocumentType `json:"type" binding:"required" example:"invoice"`
	DocumentNumber string              `json:"document_number" example:"INV-2024-0001"`
	IssueDate      *string             `json:"issue_date" example:"2024-03-01"`
	DueDate        *string             `json:"due_date" example:"2024-03-31"`
	Currency       string              `json:"currency" example:"EUR"`
	Notes          string              `json:"notes" example:"Thank you for your business"`
	Items          []service.ItemInput `json:"items" binding:"required"`
}

// UpdateItemsRequest is the body for replacing the items of a document.
type UpdateItemsRequest struct {
	Items   []service.ItemInput `json:"items" binding:"required"`
	Notes   *string             `json:"notes" example:"Updated after call"`
	DueDate *string             `json:"due_date" example:"2024-04-15"`
}

// MarkPaidRequest is the optional body of the pay transition.
type MarkPaidRequest struct {
	PaidDate *string `json:"paid_date" example:"2024-03-20"`
}

// RecordPaymentRequest is the body for recording a payment.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal      `json:"amount" swaggertype:"string" example:"121.00"`
	PaymentDate *string              `json:"payment_date" example:"2024-03-20"`
	Method      domain.PaymentMethod `json:"method" example:"bank_transfer"`
	Reference   string               `json:"reference" example:"SEPA 2024-03-20 ACME"`
}

// SendEmailRequest is the optional body for emailing a document.
type SendEmailRequest struct {
	To      []string `json:"to" example:"ap@acme.example"`
	Subject string   `json:"subject" example:"Your invoice"`
	Message string   `json:"message" example:"Please find your invoice attached."`
}

// SetupRecurringRequest is the body for scheduling a recurring document.
type SetupRecurringRequest struct {
	TemplateDocumentID uuid.UUID        `json:"template_document_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Frequency          domain.Frequency `json:"frequency" binding:"required" example:"monthly"`
	DayOfMonth         int              `json:"day_of_month" example:"15"`
	Month              int              `json:"month" example:"1"`
	EndDate            *string          `json:"end_date" example:"2025-12-31"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"document deleted"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
