// Package totals computes document subtotal, tax and total from line items.
package totals

import (
	"fmt"

	"github.com/shopspring/decimal"

	"docflow/internal/domain"
)

// Totals holds the three derived amounts persisted on a document.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// LineTotal returns quantity * unit price.
func LineTotal(item domain.DocumentItem) decimal.Decimal {
	return item.Quantity.Mul(item.UnitPrice)
}

// LineTax returns quantity * unit price * tax rate / 100.
func LineTax(item domain.DocumentItem) decimal.Decimal {
	return LineTotal(item).Mul(item.TaxRate).Shift(-2)
}

// Decimal places kept by the record store. Quantities, prices and payment amounts
// share AmountScale; tax rates use RateScale.
const (
	AmountScale int32 = 6
	RateScale   int32 = 4
)

// FitsScale reports whether d has no significant digits beyond places decimals.
func FitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// Validate rejects items with a non-positive quantity, a negative price or tax rate,
// or more decimal places than the store keeps. Totals are computed from the values
// as given, so an item the store would round is refused instead.
func Validate(items []domain.DocumentItem) error {
	for i := range items {
		it := &items[i]
		if !it.Quantity.IsPositive() {
			return domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be greater than zero")
		}
		if it.UnitPrice.IsNegative() {
			return domain.NewValidationError(fmt.Sprintf("items[%d].unit_price", i), "must not be negative")
		}
		if it.TaxRate.IsNegative() {
			return domain.NewValidationError(fmt.Sprintf("items[%d].tax_rate", i), "must not be negative")
		}
		if !FitsScale(it.Quantity, AmountScale) {
			return domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("must have at most %d decimal places", AmountScale))
		}
		if !FitsScale(it.UnitPrice, AmountScale) {
			return domain.NewValidationError(fmt.Sprintf("items[%d].unit_price", i), fmt.Sprintf("must have at most %d decimal places", AmountScale))
		}
		if !FitsScale(it.TaxRate, RateScale) {
			return domain.NewValidationError(fmt.Sprintf("items[%d].tax_rate", i), fmt.Sprintf("must have at most %d decimal places", RateScale))
		}
	}
	return nil
}

// Compute sums the items without rounding. It does not modify items.
// An empty slice yields zero totals.
func Compute(items []domain.DocumentItem) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(LineTotal(items[i]))
		tax = tax.Add(LineTax(items[i]))
	}
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}

// Calculate validates items and computes their totals.
func Calculate(items []domain.DocumentItem) (Totals, error) {
	if err := Validate(items); err != nil {
		return Totals{}, err
	}
	return Compute(items), nil
}

// Apply writes t onto doc's persisted total fields.
func (t Totals) Apply(doc *domain.Document) {
	doc.Subtotal = t.Subtotal
	doc.TaxAmount = t.TaxAmount
	doc.TotalAmount = t.Total
}
