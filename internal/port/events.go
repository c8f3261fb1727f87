package port

import (
	"context"

	"docflow/internal/domain"
)

// EventPublisher delivers lifecycle events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
