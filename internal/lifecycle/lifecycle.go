// Package lifecycle holds the document status state machine and payment reconciliation rules.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"docflow/internal/domain"
)

var transitions = map[domain.DocumentStatus][]domain.DocumentStatus{
	domain.DocumentStatusDraft:    {domain.DocumentStatusSent, domain.DocumentStatusCancelled},
	domain.DocumentStatusSent:     {domain.DocumentStatusAccepted, domain.DocumentStatusPaid, domain.DocumentStatusCancelled},
	domain.DocumentStatusAccepted: {domain.DocumentStatusPaid, domain.DocumentStatusCancelled},
}

// CanTransition reports whether a stored status may move from one state to another.
func CanTransition(from, to domain.DocumentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition returns ErrInvalidTransition if from -> to is not allowed.
func Transition(from, to domain.DocumentStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	return nil
}

// EffectiveStatus derives the status shown to readers. A sent or accepted document
// whose due date lies before the day of now is overdue.
func EffectiveStatus(doc *domain.Document, now time.Time) domain.DocumentStatus {
	if IsOverdue(doc, now) {
		return domain.DocumentStatusOverdue
	}
	return doc.Status
}

// IsOverdue reports whether doc is past its due date while still awaiting payment.
func IsOverdue(doc *domain.Document, now time.Time) bool {
	if doc.DueDate == nil {
		return false
	}
	if doc.Status != domain.DocumentStatusSent && doc.Status != domain.DocumentStatusAccepted {
		return false
	}
	return doc.DueDate.Before(StartOfDay(now))
}

// Remaining is total minus paid. Negative when overpaid.
func Remaining(total, paid decimal.Decimal) decimal.Decimal {
	return total.Sub(paid)
}

// IsSettled reports whether paid covers total.
func IsSettled(total, paid decimal.Decimal) bool {
	return paid.GreaterThanOrEqual(total)
}

// Reconcile decides whether recording payment settles doc. paidBefore is the sum of
// payments already recorded. It returns the status change to apply together with the
// payment insert, or nil when the status must stay as it is.
func Reconcile(doc *domain.Document, paidBefore decimal.Decimal, payment *domain.Payment) *domain.StatusChange {
	if doc.Status != domain.DocumentStatusSent && doc.Status != domain.DocumentStatusAccepted {
		return nil
	}
	if !IsSettled(doc.TotalAmount, paidBefore.Add(payment.Amount)) {
		return nil
	}
	paidDate := payment.PaymentDate
	return &domain.StatusChange{
		TenantID:   doc.TenantID,
		DocumentID: doc.ID,
		From:       doc.Status,
		To:         domain.DocumentStatusPaid,
		PaidDate:   &paidDate,
	}
}

// Decorate fills the read-side fields of doc.
func Decorate(doc *domain.Document, now time.Time) {
	doc.Remaining = Remaining(doc.TotalAmount, doc.PaidAmount)
	doc.EffectiveStatus = EffectiveStatus(doc, now)
}

// StartOfDay truncates t to midnight UTC of its calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
