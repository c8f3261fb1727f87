package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docflow/internal/port"
)

func TestRaw_MultipartWithAttachment(t *testing.T) {
	raw, err := Raw(Sender{Address: "billing@docflow.test", Name: "Docflow Billing"}, port.EmailMessage{
		To:      []string{"client@example.com"},
		Subject: "Invoice INV-2024-0001",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
		Attachments: []port.Attachment{
			{Filename: "INV-2024-0001.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.7")},
		},
	})
	require.NoError(t, err)

	out := string(raw)
	assert.Contains(t, out, "From: \"Docflow Billing\" <billing@docflow.test>")
	assert.Contains(t, out, "To: client@example.com")
	assert.Contains(t, out, "Subject: Invoice INV-2024-0001")
	assert.Contains(t, out, "multipart/mixed")
	assert.Contains(t, out, "multipart/alternative")
	assert.Contains(t, out, "text/html")
	assert.Contains(t, out, "application/pdf")
	assert.Contains(t, out, `filename="INV-2024-0001.pdf"`)
}

func TestRaw_TextOnly(t *testing.T) {
	raw, err := Raw(Sender{Address: "a@b.test"}, port.EmailMessage{
		To:      []string{"x@y.test"},
		Subject: "hello",
		Text:    "just text",
	})
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "multipart"))
	assert.Contains(t, string(raw), "text/plain")
}

func TestRaw_NoRecipients(t *testing.T) {
	_, err := Raw(Sender{Address: "a@b.test"}, port.EmailMessage{Subject: "x"})
	assert.ErrorIs(t, err, ErrNoRecipients)
}
