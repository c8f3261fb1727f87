// Package numbering produces human-facing document numbers of the form PREFIX-YYYY-NNNN.
//
// A number is derived from the last persisted number in its (prefix, year) scope.
// Two concurrent calls for the same scope can observe the same last number and
// return the same result: the generator alone gives no uniqueness guarantee. The
// documents table carries a unique constraint on the number and callers retry on
// domain.ErrDuplicateDocumentNumber. The Redis strategy hands out numbers from an
// atomic counter instead.
package numbering

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"docflow/internal/domain"
	"docflow/internal/port"
)

// Prefix is the first three letters of the document type, upper-cased.
// Types shorter than three letters use the whole type ("po" -> "PO").
func Prefix(docType domain.DocumentType) string {
	s := strings.ToUpper(strings.ReplaceAll(string(docType), "_", ""))
	if len(s) > 3 {
		s = s[:3]
	}
	return s
}

// ScopePrefix is the shared leading part of every number in a scope, e.g. "INV-2024-".
func ScopePrefix(docType domain.DocumentType, year int) string {
	return fmt.Sprintf("%s-%04d-", Prefix(docType), year)
}

// Format renders a number. Sequences above 9999 grow beyond four digits.
func Format(docType domain.DocumentType, year, seq int) string {
	return fmt.Sprintf("%s%04d", ScopePrefix(docType, year), seq)
}

// ParseSequence returns the trailing numeric component of number.
func ParseSequence(number string) (int, error) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, fmt.Errorf("%w: %q", domain.ErrNumberSequence, number)
	}
	seq, err := strconv.Atoi(number[idx+1:])
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrNumberSequence, number)
	}
	return seq, nil
}

var (
	scopedNumber   = regexp.MustCompile(`^([A-Z]{2,3})-([0-9]{4})-(.*)$`)
	sequenceDigits = regexp.MustCompile(`^[0-9]{4,}$`)
)

// CheckSupplied rejects a caller-chosen number that looks like it belongs to the
// generated series of docType but does not end in a plain sequence. Such a number
// would otherwise become the last number of its scope and stop generation there.
// Numbers outside the PREFIX-YYYY- shape are accepted as they are.
func CheckSupplied(docType domain.DocumentType, number string) error {
	m := scopedNumber.FindStringSubmatch(number)
	if m == nil || m[1] != Prefix(docType) || sequenceDigits.MatchString(m[3]) {
		return nil
	}
	return domain.NewValidationError("document_number",
		fmt.Sprintf("%q must end in a sequence of at least four digits, e.g. %s-%s-0001", number, m[1], m[2]))
}

// NextSequence returns the sequence following last, or 1 when last is empty.
func NextSequence(last string) (int, error) {
	if last == "" {
		return 1, nil
	}
	seq, err := ParseSequence(last)
	if err != nil {
		return 0, err
	}
	return seq + 1, nil
}

type sequentialGenerator struct {
	docRepo port.DocumentRepository
}

// NewSequentialGenerator creates a NumberGenerator that increments the last stored number.
func NewSequentialGenerator(docRepo port.DocumentRepository) port.NumberGenerator {
	return &sequentialGenerator{docRepo: docRepo}
}

func (g *sequentialGenerator) Next(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType, year int) (string, error) {
	last, err := g.docRepo.LastNumber(ctx, tenantID, docType, ScopePrefix(docType, year))
	if err != nil {
		return "", fmt.Errorf("looking up last document number: %w", err)
	}
	seq, err := NextSequence(last)
	if err != nil {
		return "", err
	}
	return Format(docType, year, seq), nil
}
