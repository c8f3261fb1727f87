package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"docflow/internal/domain"
	"docflow/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

// openBalanceQuery sums the unpaid remainder of open invoices.
const openBalanceQuery = `SELECT COUNT(*) AS count,
	COALESCE(SUM(d.total_amount - COALESCE(p.paid, 0)), 0) AS amount
FROM documents d
LEFT JOIN (
	SELECT document_id, SUM(amount) AS paid FROM payments WHERE tenant_id = $1 GROUP BY document_id
) p ON p.document_id = d.id
WHERE d.tenant_id = $1 AND d.type = 'invoice' AND d.status IN ('sent', 'accepted')`

func (r *statsRepo) StatusCounts(ctx context.Context, tenantID uuid.UUID) ([]domain.StatusCount, error) {
	var counts []domain.StatusCount
	err := r.db.SelectContext(ctx, &counts,
		`SELECT status, COUNT(*) AS count FROM documents WHERE tenant_id = $1
		 GROUP BY status ORDER BY status`, tenantID)
	if err != nil {
		return nil, persistErr("statsRepo.StatusCounts", err)
	}
	return counts, nil
}

func (r *statsRepo) Outstanding(ctx context.Context, tenantID uuid.UUID) (domain.AmountSummary, error) {
	var sum domain.AmountSummary
	if err := r.db.GetContext(ctx, &sum, openBalanceQuery, tenantID); err != nil {
		return domain.AmountSummary{}, persistErr("statsRepo.Outstanding", err)
	}
	return sum, nil
}

func (r *statsRepo) Overdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (domain.AmountSummary, error) {
	var sum domain.AmountSummary
	if err := r.db.GetContext(ctx, &sum, openBalanceQuery+" AND d.due_date < $2", tenantID, asOf); err != nil {
		return domain.AmountSummary{}, persistErr("statsRepo.Overdue", err)
	}
	return sum, nil
}

func (r *statsRepo) PaymentsBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(amount), 0) FROM payments
		 WHERE tenant_id = $1 AND payment_date >= $2 AND payment_date < $3`,
		tenantID, from, to)
	if err != nil {
		return decimal.Zero, persistErr("statsRepo.PaymentsBetween", err)
	}
	return total, nil
}

func (r *statsRepo) InvoicedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (domain.AmountSummary, error) {
	var sum domain.AmountSummary
	err := r.db.GetContext(ctx, &sum,
		`SELECT COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS amount FROM documents
		 WHERE tenant_id = $1 AND type = 'invoice' AND status <> 'cancelled'
		   AND issue_date >= $2 AND issue_date < $3`,
		tenantID, from, to)
	if err != nil {
		return domain.AmountSummary{}, persistErr("statsRepo.InvoicedBetween", err)
	}
	return sum, nil
}

func (r *statsRepo) ActiveRecurring(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM recurring_document_configs WHERE tenant_id = $1 AND is_active", tenantID)
	if err != nil {
		return 0, persistErr("statsRepo.ActiveRecurring", err)
	}
	return n, nil
}

func (r *statsRepo) ClientCount(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM clients WHERE tenant_id = $1", tenantID); err != nil {
		return 0, persistErr("statsRepo.ClientCount", err)
	}
	return n, nil
}
