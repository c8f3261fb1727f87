// Package export writes document lists as CSV or XLSX spreadsheets.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"docflow/internal/domain"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a requested format. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", domain.NewValidationError("format", fmt.Sprintf("unsupported export format %q", s))
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// columns defines the header row shared by every format.
var columns = []string{
	"Document Number",
	"Type",
	"Status",
	"Client",
	"Issue Date",
	"Due Date",
	"Paid Date",
	"Currency",
	"Subtotal",
	"Tax",
	"Total",
	"Paid",
	"Remaining",
	"Created At",
}

// amountColumns are the indexes of monetary columns.
var amountColumns = map[int]bool{8: true, 9: true, 10: true, 11: true, 12: true}

// Writer streams documents into a spreadsheet.
type Writer interface {
	WriteHeader() error
	// WriteDocuments appends one row per document. clientNames resolves ClientID;
	// unknown clients leave the column empty.
	WriteDocuments(docs []domain.Document, clientNames map[uuid.UUID]string) error
	// Close finishes the file. Nothing may be written afterwards.
	Close() error
}

// NewWriter returns a Writer for format that writes to w.
func NewWriter(format Format, w io.Writer) (Writer, error) {
	switch format {
	case FormatCSV:
		return newCSVWriter(w), nil
	case FormatXLSX:
		return newXLSXWriter(w), nil
	default:
		return nil, domain.NewValidationError("format", fmt.Sprintf("unsupported export format %q", format))
	}
}

// documentToRow converts a document to its display row. The effective status is
// exported so overdue documents are visible in the sheet.
func documentToRow(doc *domain.Document, clientNames map[uuid.UUID]string) []string {
	status := doc.EffectiveStatus
	if status == "" {
		status = doc.Status
	}
	return []string{
		doc.DocumentNumber,
		string(doc.Type),
		string(status),
		clientNames[doc.ClientID],
		formatDate(&doc.IssueDate),
		formatDate(doc.DueDate),
		formatDate(doc.PaidDate),
		doc.Currency,
		doc.Subtotal.StringFixed(2),
		doc.TaxAmount.StringFixed(2),
		doc.TotalAmount.StringFixed(2),
		doc.PaidAmount.StringFixed(2),
		doc.Remaining.StringFixed(2),
		doc.CreatedAt.Format(time.RFC3339),
	}
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{ext}.
func BuildFilename(name string, format Format, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), now.Format("2006-01-02"), format)
}
