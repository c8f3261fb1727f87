package port

import (
	"context"

	"github.com/google/uuid"

	"docflow/internal/domain"
)

// NumberGenerator produces the next document number for a (tenant, type, year) scope.
type NumberGenerator interface {
	Next(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType, year int) (string, error)
}
