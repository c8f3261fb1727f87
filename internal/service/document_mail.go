package service

import (
	"fmt"
	"html"
	"strings"
	"time"

	"docflow/internal/domain"
	"docflow/internal/port"
)

const dateLayout = "2006-01-02"

var documentTitles = map[domain.DocumentType]string{
	domain.DocumentTypeInvoice:      "Invoice",
	domain.DocumentTypeQuote:        "Quote",
	domain.DocumentTypeDeliveryNote: "Delivery note",
	domain.DocumentTypePO:           "Purchase order",
	domain.DocumentTypeReminder:     "Reminder",
	domain.DocumentTypeReceipt:      "Receipt",
}

// DocumentTitle is the human-readable name of a document type.
func DocumentTitle(t domain.DocumentType) string {
	if title, ok := documentTitles[t]; ok {
		return title
	}
	return string(t)
}

func formatMoney(doc *domain.Document, amount string) string {
	return amount + " " + doc.Currency
}

func buildDocumentEmail(doc *domain.Document, client *domain.Client, issuer, subject, message string) port.EmailMessage {
	title := DocumentTitle(doc.Type)
	if subject == "" {
		subject = fmt.Sprintf("%s %s from %s", title, doc.DocumentNumber, issuer)
	}
	if message == "" {
		message = fmt.Sprintf("please find attached %s %s.", strings.ToLower(title), doc.DocumentNumber)
	}
	total := formatMoney(doc, doc.TotalAmount.StringFixed(2))

	due := ""
	if doc.DueDate != nil {
		due = doc.DueDate.Format(dateLayout)
	}

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <p>Dear %s,</p>
  <p>%s</p>
  <table style="border-collapse: collapse; margin: 20px 0;">
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Number</td><td>%s</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Issue date</td><td>%s</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Due date</td><td>%s</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Total</td><td><strong>%s</strong></td></tr>
  </table>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">%s</p>
</body>
</html>`,
		html.EscapeString(client.Name), html.EscapeString(message),
		html.EscapeString(doc.DocumentNumber), doc.IssueDate.Format(dateLayout), due,
		html.EscapeString(total), html.EscapeString(issuer))

	text := fmt.Sprintf("Dear %s,\n\n%s\n\nNumber: %s\nIssue date: %s\nDue date: %s\nTotal: %s\n\n%s",
		client.Name, message, doc.DocumentNumber, doc.IssueDate.Format(dateLayout), due, total, issuer)

	return port.EmailMessage{Subject: subject, HTML: htmlBody, Text: text}
}

func buildReminderEmail(doc *domain.Document, client *domain.Client, issuer string, today time.Time) port.EmailMessage {
	subject := fmt.Sprintf("Payment reminder: %s %s", DocumentTitle(doc.Type), doc.DocumentNumber)
	remaining := formatMoney(doc, doc.Remaining.StringFixed(2))

	due := ""
	days := 0
	if doc.DueDate != nil {
		due = doc.DueDate.Format(dateLayout)
		days = int(today.Sub(*doc.DueDate).Hours() / 24)
	}

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Payment reminder</h2>
  <p>Dear %s,</p>
  <p>Our records show that %s was due on %s (%d days ago). The outstanding amount is <strong>%s</strong>.</p>
  <p>If you have already paid, please disregard this message.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">%s</p>
</body>
</html>`,
		html.EscapeString(client.Name), html.EscapeString(doc.DocumentNumber), due, days,
		html.EscapeString(remaining), html.EscapeString(issuer))

	text := fmt.Sprintf("Dear %s,\n\nOur records show that %s was due on %s (%d days ago). The outstanding amount is %s.\nIf you have already paid, please disregard this message.\n\n%s",
		client.Name, doc.DocumentNumber, due, days, remaining, issuer)

	return port.EmailMessage{Subject: subject, HTML: htmlBody, Text: text}
}
