package domain

// DocumentType identifies the commercial kind of a document.
type DocumentType string

const (
	DocumentTypeInvoice      DocumentType = "invoice"
	DocumentTypeQuote        DocumentType = "quote"
	DocumentTypeDeliveryNote DocumentType = "delivery_note"
	DocumentTypePO           DocumentType = "po"
	DocumentTypeReminder     DocumentType = "reminder"
	DocumentTypeReceipt      DocumentType = "receipt"
)

// ValidDocumentTypes is the set of accepted document types.
var ValidDocumentTypes = map[DocumentType]bool{
	DocumentTypeInvoice:      true,
	DocumentTypeQuote:        true,
	DocumentTypeDeliveryNote: true,
	DocumentTypePO:           true,
	DocumentTypeReminder:     true,
	DocumentTypeReceipt:      true,
}

// DocumentStatus is the stored lifecycle state of a document.
// Overdue is never stored; it is derived on read.
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "draft"
	DocumentStatusSent      DocumentStatus = "sent"
	DocumentStatusAccepted  DocumentStatus = "accepted"
	DocumentStatusOverdue   DocumentStatus = "overdue"
	DocumentStatusPaid      DocumentStatus = "paid"
	DocumentStatusCancelled DocumentStatus = "cancelled"
)

// ValidDocumentStatuses lists statuses accepted as list filters.
var ValidDocumentStatuses = map[DocumentStatus]bool{
	DocumentStatusDraft:     true,
	DocumentStatusSent:      true,
	DocumentStatusAccepted:  true,
	DocumentStatusOverdue:   true,
	DocumentStatusPaid:      true,
	DocumentStatusCancelled: true,
}

// IsTerminal reports whether no further transition is possible from s.
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusPaid || s == DocumentStatusCancelled
}

// PaymentMethod describes how money was received.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodOther        PaymentMethod = "other"
)

// ValidPaymentMethods is the set of accepted payment methods.
var ValidPaymentMethods = map[PaymentMethod]bool{
	PaymentMethodBankTransfer: true,
	PaymentMethodCash:         true,
	PaymentMethodCard:         true,
	PaymentMethodCheque:       true,
	PaymentMethodOther:        true,
}

// Frequency is the repeat interval of a recurring document.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// ValidFrequencies is the set of accepted recurrence frequencies.
var ValidFrequencies = map[Frequency]bool{
	FrequencyMonthly:   true,
	FrequencyQuarterly: true,
	FrequencyYearly:    true,
}

// UserRole defines the role hierarchy within a tenant.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// EventType names a lifecycle event published to the message broker.
type EventType string

const (
	EventDocumentCreated            EventType = "document.created"
	EventDocumentStatusChanged      EventType = "document.status_changed"
	EventPaymentRecorded            EventType = "payment.recorded"
	EventRecurringDocumentGenerated EventType = "recurring.document_generated"
)
