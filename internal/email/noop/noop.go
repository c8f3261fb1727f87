package noop

import (
	"context"

	"github.com/rs/zerolog"

	"docflow/internal/logger"
	"docflow/internal/port"
)

type noopSender struct {
	log zerolog.Logger
}

// NewNoopSender creates a no-op EmailSender that only logs what would be sent.
func NewNoopSender() port.EmailSender {
	return &noopSender{log: logger.WithComponent("noopEmail")}
}

func (s *noopSender) Send(_ context.Context, msg port.EmailMessage) error {
	names := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		names = append(names, a.Filename)
	}
	s.log.Info().Strs("to", msg.To).Str("subject", msg.Subject).
		Strs("attachments", names).Msg("email not sent (noop provider)")
	return nil
}
