package port

import "context"

// Attachment is a file sent along with an email.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EmailMessage is a single outgoing email.
type EmailMessage struct {
	To          []string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}
