package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docflow/internal/domain"
)

func sampleDocs() ([]domain.Document, map[uuid.UUID]string) {
	clientID := uuid.New()
	due := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)
	docs := []domain.Document{{
		ID:              uuid.New(),
		ClientID:        clientID,
		DocumentNumber:  "INV-2024-0001",
		Type:            domain.DocumentTypeInvoice,
		Status:          domain.DocumentStatusSent,
		EffectiveStatus: domain.DocumentStatusOverdue,
		IssueDate:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		DueDate:         &due,
		Currency:        "EUR",
		Subtotal:        decimal.RequireFromString("250"),
		TaxAmount:       decimal.RequireFromString("15.4"),
		TotalAmount:     decimal.RequireFromString("265.4"),
		PaidAmount:      decimal.RequireFromString("100"),
		Remaining:       decimal.RequireFromString("165.4"),
		CreatedAt:       time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
	}}
	return docs, map[uuid.UUID]string{clientID: "Acme GmbH"}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCSVWriter(t *testing.T) {
	docs, clients := sampleDocs()
	var buf bytes.Buffer

	w, err := NewWriter(FormatCSV, &buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteDocuments(docs, clients))
	require.NoError(t, w.Close())

	require.True(t, bytes.HasPrefix(buf.Bytes(), BOM))
	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, columns, rows[0])
	row := rows[1]
	assert.Equal(t, "INV-2024-0001", row[0])
	assert.Equal(t, "overdue", row[2])
	assert.Equal(t, "Acme GmbH", row[3])
	assert.Equal(t, "2024-02-14", row[5])
	assert.Equal(t, "", row[6])
	assert.Equal(t, "265.40", row[10])
	assert.Equal(t, "165.40", row[12])
}

func TestCSVWriter_UnknownClient(t *testing.T) {
	docs, _ := sampleDocs()
	row := documentToRow(&docs[0], nil)
	assert.Equal(t, "", row[3])
}

func TestXLSXWriter(t *testing.T) {
	docs, clients := sampleDocs()
	var buf bytes.Buffer

	w, err := NewWriter(FormatXLSX, &buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteDocuments(docs, clients))
	require.NoError(t, w.Close())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Document Number", header)

	number, err := f.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-0001", number)

	client, err := f.GetCellValue(sheetName, "D2")
	require.NoError(t, err)
	assert.Equal(t, "Acme GmbH", client)

	total, err := f.GetCellValue(sheetName, "K2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "265.4", total)
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "invoices_overdue_2024-03-01.xlsx", BuildFilename("invoices overdue!", FormatXLSX, now))
	assert.Equal(t, "documents_2024-03-01.csv", BuildFilename("documents", FormatCSV, now))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Q3_Invoices", SanitizeFilename("  Q3 / Invoices "))
	assert.Len(t, SanitizeFilename(string(bytes.Repeat([]byte("a"), 150))), 100)
}
