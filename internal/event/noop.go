package event

import (
	"context"

	"github.com/rs/zerolog"

	"docflow/internal/domain"
	"docflow/internal/logger"
	"docflow/internal/port"
)

type noopPublisher struct {
	log zerolog.Logger
}

// NewNoopPublisher returns a publisher that only logs events.
func NewNoopPublisher() port.EventPublisher {
	return &noopPublisher{log: logger.WithComponent("eventPublisher")}
}

func (p *noopPublisher) Publish(_ context.Context, event domain.Event) error {
	p.log.Debug().Str("type", string(event.Type)).Str("document_id", event.DocumentID.String()).Msg("event dropped (noop provider)")
	return nil
}
