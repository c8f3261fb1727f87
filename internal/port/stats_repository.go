package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"docflow/internal/domain"
)

// StatsRepository provides read-only aggregate queries for the dashboard.
// Each method is independent so callers may run them concurrently.
type StatsRepository interface {
	StatusCounts(ctx context.Context, tenantID uuid.UUID) ([]domain.StatusCount, error)
	Outstanding(ctx context.Context, tenantID uuid.UUID) (domain.AmountSummary, error)
	Overdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (domain.AmountSummary, error)
	PaymentsBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	InvoicedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (domain.AmountSummary, error)
	ActiveRecurring(ctx context.Context, tenantID uuid.UUID) (int, error)
	ClientCount(ctx context.Context, tenantID uuid.UUID) (int, error)
}
