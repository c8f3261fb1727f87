package pdf

import (
	"fmt"
	"strings"

	"docflow/internal/domain"
	"docflow/internal/port"
	"docflow/internal/totals"
)

// Layout mirrors the pdfcpu create JSON: one paper size and a map of
// page numbers to their content.
type Layout struct {
	Paper  string          `json:"paper"`
	Origin string          `json:"origin"`
	Pages  map[string]Page `json:"pages"`
}

// Page holds the content of one page.
type Page struct {
	Content Content `json:"content"`
}

// Content lists the positioned elements of a page.
type Content struct {
	Text []Text `json:"text"`
}

// Text is a single positioned string.
type Text struct {
	Value string  `json:"value"`
	Pos   [2]int  `json:"pos"`
	Align string  `json:"align,omitempty"`
	Font  FontRef `json:"font"`
}

// FontRef selects a core font.
type FontRef struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

const (
	marginLeft  = 50
	colQty      = 330
	colPrice    = 400
	colTax      = 460
	colTotal    = 545
	firstItemY  = 260
	lineHeight  = 16
	pageBottom  = 760
	maxDescLen  = 48
	regularFont = "Helvetica"
	boldFont    = "Helvetica-Bold"
)

var titles = map[domain.DocumentType]string{
	domain.DocumentTypeInvoice:      "INVOICE",
	domain.DocumentTypeQuote:        "QUOTE",
	domain.DocumentTypeDeliveryNote: "DELIVERY NOTE",
	domain.DocumentTypePO:           "PURCHASE ORDER",
	domain.DocumentTypeReminder:     "PAYMENT REMINDER",
	domain.DocumentTypeReceipt:      "RECEIPT",
}

func text(value string, x, y, size int, bold bool) Text {
	font := regularFont
	if bold {
		font = boldFont
	}
	return Text{Value: value, Pos: [2]int{x, y}, Font: FontRef{Name: font, Size: size}}
}

func right(value string, x, y, size int, bold bool) Text {
	t := text(value, x, y, size, bold)
	t.Align = "right"
	return t
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// BuildLayout places the document on A4 pages, top-left origin. Items that do
// not fit on a page continue on the next one; totals follow the last item.
func BuildLayout(input port.RenderInput) Layout {
	doc, client := input.Document, input.Client
	title := titles[doc.Type]
	if title == "" {
		title = strings.ToUpper(string(doc.Type))
	}

	header := []Text{
		text(input.Issuer, marginLeft, 50, 10, true),
		right(title, colTotal, 50, 18, true),
		right(doc.DocumentNumber, colTotal, 72, 11, false),
		text("Bill to:", marginLeft, 110, 9, true),
	}
	y := 126
	if client != nil {
		for _, line := range append([]string{client.Name}, strings.Split(client.Address, "\n")...) {
			if strings.TrimSpace(line) == "" {
				continue
			}
			header = append(header, text(strings.TrimSpace(line), marginLeft, y, 10, false))
			y += 14
		}
		if client.VATNumber != "" {
			header = append(header, text("VAT: "+client.VATNumber, marginLeft, y, 9, false))
		}
	}
	header = append(header, right("Issue date: "+doc.IssueDate.Format("2006-01-02"), colTotal, 110, 9, false))
	if doc.DueDate != nil {
		header = append(header, right("Due date: "+doc.DueDate.Format("2006-01-02"), colTotal, 124, 9, false))
	}

	columnHeads := []Text{
		text("Description", marginLeft, firstItemY-lineHeight-4, 9, true),
		right("Qty", colQty, firstItemY-lineHeight-4, 9, true),
		right("Unit price", colPrice, firstItemY-lineHeight-4, 9, true),
		right("Tax %", colTax, firstItemY-lineHeight-4, 9, true),
		right("Amount", colTotal, firstItemY-lineHeight-4, 9, true),
	}

	pages := map[string]Page{}
	pageNo := 1
	current := append(append([]Text{}, header...), columnHeads...)
	y = firstItemY

	flush := func() {
		pages[fmt.Sprint(pageNo)] = Page{Content: Content{Text: current}}
		pageNo++
		current = append([]Text{}, columnHeads...)
		y = firstItemY
	}

	for _, item := range doc.Items {
		if y > pageBottom {
			flush()
		}
		current = append(current,
			text(truncate(item.Description, maxDescLen), marginLeft, y, 9, false),
			right(item.Quantity.String(), colQty, y, 9, false),
			right(item.UnitPrice.StringFixed(2), colPrice, y, 9, false),
			right(item.TaxRate.String(), colTax, y, 9, false),
			right(totals.LineTotal(item).StringFixed(2), colTotal, y, 9, false),
		)
		y += lineHeight
	}

	if y+4*lineHeight > pageBottom {
		flush()
	}
	y += lineHeight
	current = append(current,
		right("Subtotal", colTax, y, 10, false),
		right(money(doc.Subtotal.StringFixed(2), doc.Currency), colTotal, y, 10, false),
		right("Tax", colTax, y+lineHeight, 10, false),
		right(money(doc.TaxAmount.StringFixed(2), doc.Currency), colTotal, y+lineHeight, 10, false),
		right("Total", colTax, y+2*lineHeight, 11, true),
		right(money(doc.TotalAmount.StringFixed(2), doc.Currency), colTotal, y+2*lineHeight, 11, true),
	)
	if doc.Notes != "" {
		current = append(current, text(truncate(doc.Notes, 90), marginLeft, y+4*lineHeight, 9, false))
	}
	pages[fmt.Sprint(pageNo)] = Page{Content: Content{Text: current}}

	return Layout{Paper: "A4P", Origin: "UpperLeft", Pages: pages}
}

func money(amount, currency string) string {
	return amount + " " + currency
}
