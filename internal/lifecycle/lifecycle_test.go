package lifecycle_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docflow/internal/domain"
	"docflow/internal/lifecycle"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to domain.DocumentStatus
		want     bool
	}{
		{domain.DocumentStatusDraft, domain.DocumentStatusSent, true},
		{domain.DocumentStatusDraft, domain.DocumentStatusPaid, false},
		{domain.DocumentStatusDraft, domain.DocumentStatusAccepted, false},
		{domain.DocumentStatusDraft, domain.DocumentStatusCancelled, true},
		{domain.DocumentStatusSent, domain.DocumentStatusAccepted, true},
		{domain.DocumentStatusSent, domain.DocumentStatusPaid, true},
		{domain.DocumentStatusSent, domain.DocumentStatusCancelled, true},
		{domain.DocumentStatusSent, domain.DocumentStatusDraft, false},
		{domain.DocumentStatusAccepted, domain.DocumentStatusPaid, true},
		{domain.DocumentStatusAccepted, domain.DocumentStatusCancelled, true},
		{domain.DocumentStatusPaid, domain.DocumentStatusCancelled, false},
		{domain.DocumentStatusPaid, domain.DocumentStatusSent, false},
		{domain.DocumentStatusCancelled, domain.DocumentStatusDraft, false},
		{domain.DocumentStatusCancelled, domain.DocumentStatusPaid, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, lifecycle.CanTransition(tt.from, tt.to))
		})
	}
}

func TestTransition_ErrorWrapsSentinel(t *testing.T) {
	err := lifecycle.Transition(domain.DocumentStatusPaid, domain.DocumentStatusSent)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.Contains(t, err.Error(), "paid -> sent")
}

func TestEffectiveStatus(t *testing.T) {
	due := date(2024, 3, 1)
	now := time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status domain.DocumentStatus
		due    *time.Time
		want   domain.DocumentStatus
	}{
		{"sent past due", domain.DocumentStatusSent, &due, domain.DocumentStatusOverdue},
		{"accepted past due", domain.DocumentStatusAccepted, &due, domain.DocumentStatusOverdue},
		{"draft past due", domain.DocumentStatusDraft, &due, domain.DocumentStatusDraft},
		{"paid past due", domain.DocumentStatusPaid, &due, domain.DocumentStatusPaid},
		{"sent no due date", domain.DocumentStatusSent, nil, domain.DocumentStatusSent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &domain.Document{Status: tt.status, DueDate: tt.due}
			assert.Equal(t, tt.want, lifecycle.EffectiveStatus(doc, now))
		})
	}
}

func TestEffectiveStatus_DueTodayIsNotOverdue(t *testing.T) {
	due := date(2024, 3, 1)
	doc := &domain.Document{Status: domain.DocumentStatusSent, DueDate: &due}

	assert.Equal(t, domain.DocumentStatusSent, lifecycle.EffectiveStatus(doc, time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)))
}

func TestReconcile_FullPaymentSettlesSentDocument(t *testing.T) {
	doc := &domain.Document{
		ID:          uuid.New(),
		TenantID:    uuid.New(),
		Status:      domain.DocumentStatusSent,
		TotalAmount: decimal.RequireFromString("265.4"),
	}
	payment := &domain.Payment{Amount: decimal.RequireFromString("265.4"), PaymentDate: date(2024, 4, 10)}

	change := lifecycle.Reconcile(doc, decimal.Zero, payment)

	require.NotNil(t, change)
	assert.Equal(t, domain.DocumentStatusSent, change.From)
	assert.Equal(t, domain.DocumentStatusPaid, change.To)
	assert.Equal(t, doc.ID, change.DocumentID)
	require.NotNil(t, change.PaidDate)
	assert.Equal(t, date(2024, 4, 10), *change.PaidDate)
}

func TestReconcile_PartialPaymentLeavesStatus(t *testing.T) {
	doc := &domain.Document{Status: domain.DocumentStatusSent, TotalAmount: decimal.NewFromInt(100)}
	payment := &domain.Payment{Amount: decimal.NewFromInt(40), PaymentDate: date(2024, 4, 10)}

	assert.Nil(t, lifecycle.Reconcile(doc, decimal.Zero, payment))
	assert.True(t, lifecycle.Remaining(doc.TotalAmount, payment.Amount).Equal(decimal.NewFromInt(60)))
}

func TestReconcile_CumulativePayments(t *testing.T) {
	doc := &domain.Document{Status: domain.DocumentStatusAccepted, TotalAmount: decimal.NewFromInt(100)}
	payment := &domain.Payment{Amount: decimal.NewFromInt(60), PaymentDate: date(2024, 5, 1)}

	change := lifecycle.Reconcile(doc, decimal.NewFromInt(40), payment)

	require.NotNil(t, change)
	assert.Equal(t, domain.DocumentStatusAccepted, change.From)
}

func TestReconcile_DraftIsNotAutoPaid(t *testing.T) {
	doc := &domain.Document{Status: domain.DocumentStatusDraft, TotalAmount: decimal.NewFromInt(100)}
	payment := &domain.Payment{Amount: decimal.NewFromInt(100)}

	assert.Nil(t, lifecycle.Reconcile(doc, decimal.Zero, payment))
}

func TestRemaining_Overpayment(t *testing.T) {
	paid := decimal.NewFromInt(80).Add(decimal.NewFromInt(30))

	assert.True(t, lifecycle.Remaining(decimal.NewFromInt(100), paid).Equal(decimal.NewFromInt(-10)))
	assert.True(t, lifecycle.IsSettled(decimal.NewFromInt(100), paid))
}

func TestDecorate(t *testing.T) {
	due := date(2024, 1, 31)
	doc := &domain.Document{
		Status:      domain.DocumentStatusSent,
		DueDate:     &due,
		TotalAmount: decimal.NewFromInt(500),
		PaidAmount:  decimal.NewFromInt(120),
	}

	lifecycle.Decorate(doc, date(2024, 2, 15))

	assert.Equal(t, domain.DocumentStatusOverdue, doc.EffectiveStatus)
	assert.Equal(t, domain.DocumentStatusSent, doc.Status)
	assert.True(t, doc.Remaining.Equal(decimal.NewFromInt(380)))
}
