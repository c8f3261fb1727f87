package port

import (
	"context"

	"docflow/internal/domain"
)

// RenderInput is a fully resolved document ready for rendering.
type RenderInput struct {
	Document *domain.Document
	Client   *domain.Client
	Issuer   string
}

// DocumentRenderer turns a document into an opaque binary (PDF).
type DocumentRenderer interface {
	Render(ctx context.Context, input RenderInput) ([]byte, error)
	ContentType() string
}
