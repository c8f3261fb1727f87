package numbering_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docflow/internal/domain"
	"docflow/internal/numbering"
	"docflow/mocks"
)

func TestPrefix(t *testing.T) {
	tests := []struct {
		docType domain.DocumentType
		want    string
	}{
		{domain.DocumentTypeInvoice, "INV"},
		{domain.DocumentTypeQuote, "QUO"},
		{domain.DocumentTypeDeliveryNote, "DEL"},
		{domain.DocumentTypePO, "PO"},
		{domain.DocumentTypeReminder, "REM"},
		{domain.DocumentTypeReceipt, "REC"},
	}
	for _, tt := range tests {
		t.Run(string(tt.docType), func(t *testing.T) {
			assert.Equal(t, tt.want, numbering.Prefix(tt.docType))
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "INV-2024-0001", numbering.Format(domain.DocumentTypeInvoice, 2024, 1))
	assert.Equal(t, "PO-2025-0042", numbering.Format(domain.DocumentTypePO, 2025, 42))
	assert.Equal(t, "QUO-2024-12345", numbering.Format(domain.DocumentTypeQuote, 2024, 12345))
}

func TestParseSequence(t *testing.T) {
	seq, err := numbering.ParseSequence("INV-2024-0007")
	require.NoError(t, err)
	assert.Equal(t, 7, seq)

	seq, err = numbering.ParseSequence("QUO-2024-10000")
	require.NoError(t, err)
	assert.Equal(t, 10000, seq)

	for _, bad := range []string{"INV-2024-", "INV2024", "INV-2024-abc", ""} {
		_, err := numbering.ParseSequence(bad)
		assert.ErrorIs(t, err, domain.ErrNumberSequence, bad)
	}
}

func TestSequentialGenerator_IncrementsLastNumber(t *testing.T) {
	repo := new(mocks.MockDocumentRepo)
	gen := numbering.NewSequentialGenerator(repo)
	tenantID := uuid.New()

	repo.On("LastNumber", context.Background(), tenantID, domain.DocumentTypeInvoice, "INV-2024-").
		Return("INV-2024-0007", nil)

	number, err := gen.Next(context.Background(), tenantID, domain.DocumentTypeInvoice, 2024)
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-0008", number)
	repo.AssertExpectations(t)
}

func TestSequentialGenerator_FirstInScope(t *testing.T) {
	repo := new(mocks.MockDocumentRepo)
	gen := numbering.NewSequentialGenerator(repo)
	tenantID := uuid.New()

	repo.On("LastNumber", context.Background(), tenantID, domain.DocumentTypeQuote, "QUO-2025-").
		Return("", nil)

	number, err := gen.Next(context.Background(), tenantID, domain.DocumentTypeQuote, 2025)
	require.NoError(t, err)
	assert.Equal(t, "QUO-2025-0001", number)
}

func TestSequentialGenerator_NewYearRestarts(t *testing.T) {
	repo := new(mocks.MockDocumentRepo)
	gen := numbering.NewSequentialGenerator(repo)
	tenantID := uuid.New()

	repo.On("LastNumber", context.Background(), tenantID, domain.DocumentTypeInvoice, "INV-2025-").
		Return("", nil)

	number, err := gen.Next(context.Background(), tenantID, domain.DocumentTypeInvoice, 2025)
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0001", number)
}

func TestSequentialGenerator_RepoError(t *testing.T) {
	repo := new(mocks.MockDocumentRepo)
	gen := numbering.NewSequentialGenerator(repo)
	tenantID := uuid.New()
	dbErr := &domain.PersistenceError{Op: "documentRepo.LastNumber", Err: errors.New("connection refused")}

	repo.On("LastNumber", context.Background(), tenantID, domain.DocumentTypeInvoice, "INV-2024-").
		Return("", dbErr)

	_, err := gen.Next(context.Background(), tenantID, domain.DocumentTypeInvoice, 2024)
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestSequentialGenerator_UnparseableLastNumber(t *testing.T) {
	repo := new(mocks.MockDocumentRepo)
	gen := numbering.NewSequentialGenerator(repo)
	tenantID := uuid.New()

	repo.On("LastNumber", context.Background(), tenantID, domain.DocumentTypeInvoice, "INV-2024-").
		Return("INV-2024-X1", nil)

	_, err := gen.Next(context.Background(), tenantID, domain.DocumentTypeInvoice, 2024)
	assert.ErrorIs(t, err, domain.ErrNumberSequence)
}

func TestCheckSupplied(t *testing.T) {
	tests := []struct {
		docType domain.DocumentType
		number  string
		wantErr bool
	}{
		{domain.DocumentTypeInvoice, "INV-2024-0001", false},
		{domain.DocumentTypeInvoice, "INV-2024-12345", false},
		{domain.DocumentTypeInvoice, "CUSTOM-1", false},
		{domain.DocumentTypeInvoice, "QUO-2024-0001-A", false},
		{domain.DocumentTypeInvoice, "INV-2024-0001-REV2", true},
		{domain.DocumentTypeInvoice, "INV-2024-12", true},
		{domain.DocumentTypeInvoice, "INV-2024-", true},
		{domain.DocumentTypePO, "PO-2025-0007b", true},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			err := numbering.CheckSupplied(tt.docType, tt.number)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCounterKey(t *testing.T) {
	tenantID := uuid.MustParse("7a1e2c1e-0000-4000-8000-000000000001")
	assert.Equal(t,
		"docflow:seq:7a1e2c1e-0000-4000-8000-000000000001:DEL:2024",
		numbering.CounterKey(tenantID, domain.DocumentTypeDeliveryNote, 2024))
}
