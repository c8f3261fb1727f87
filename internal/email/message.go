// Package email holds the MIME assembly shared by the email senders.
package email

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"docflow/internal/port"
)

// ErrNoRecipients is returned when a message has no To address.
var ErrNoRecipients = errors.New("email: no recipients")

// Sender identifies the From address of outgoing mail.
type Sender struct {
	Address string
	Name    string
}

// NewMessage builds a multipart message with a plain text body, an HTML
// alternative and the attachments of msg.
func NewMessage(from Sender, msg port.EmailMessage) (*gomail.Message, error) {
	if len(msg.To) == 0 {
		return nil, ErrNoRecipients
	}
	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	m.SetAddressHeader("From", from.Address, from.Name)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}

	for _, a := range msg.Attachments {
		data := a.Data
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		m.Attach(a.Filename,
			gomail.SetHeader(map[string][]string{"Content-Type": {contentType}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
	}
	return m, nil
}

// Raw renders msg as RFC 5322 bytes.
func Raw(from Sender, msg port.EmailMessage) ([]byte, error) {
	m, err := NewMessage(from, msg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encoding mime message: %w", err)
	}
	return buf.Bytes(), nil
}
