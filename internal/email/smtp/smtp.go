package smtp

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"docflow/internal/email"
	"docflow/internal/port"
)

// Dialer delivers a prepared message. *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpSender struct {
	dialer Dialer
	from   email.Sender
}

// NewSMTPSender creates an EmailSender delivering through an SMTP relay.
func NewSMTPSender(host string, port int, user, password, fromAddress, fromName string) port.EmailSender {
	return NewWithDialer(gomail.NewDialer(host, port, user, password), fromAddress, fromName)
}

// NewWithDialer uses the given dialer for delivery.
func NewWithDialer(d Dialer, fromAddress, fromName string) port.EmailSender {
	return &smtpSender{dialer: d, from: email.Sender{Address: fromAddress, Name: fromName}}
}

// Send blocks until the relay accepts the message. gomail has no context
// support, so cancellation is only checked before dialing.
func (s *smtpSender) Send(ctx context.Context, msg port.EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := email.NewMessage(s.from, msg)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
