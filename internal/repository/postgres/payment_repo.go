package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docflow/internal/domain"
	"docflow/internal/port"
)

type paymentRepo struct {
	db *sqlx.DB
}

// NewPaymentRepo creates a new PostgreSQL-backed PaymentRepository.
func NewPaymentRepo(db *sqlx.DB) port.PaymentRepository {
	return &paymentRepo{db: db}
}

// CreateWithTransition inserts the payment and applies change atomically. If the
// document moved away from change.From in the meantime, nothing is written.
func (r *paymentRepo) CreateWithTransition(ctx context.Context, payment *domain.Payment, change *domain.StatusChange) error {
	payment.CreatedAt = time.Now().UTC()

	return withTx(ctx, r.db, "paymentRepo.CreateWithTransition", func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO payments (id, tenant_id, document_id, amount, payment_date, payment_method, reference, created_by, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			payment.ID, payment.TenantID, payment.DocumentID, payment.Amount, payment.PaymentDate,
			payment.PaymentMethod, payment.Reference, payment.CreatedBy, payment.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrDocumentNotFound
			}
			return persistErr("paymentRepo.CreateWithTransition", err)
		}
		if change == nil {
			return nil
		}
		return applyStatusChange(ctx, tx, *change)
	})
}

func (r *paymentRepo) ListByDocument(ctx context.Context, tenantID, documentID uuid.UUID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.SelectContext(ctx, &payments,
		`SELECT * FROM payments WHERE tenant_id = $1 AND document_id = $2
		 ORDER BY payment_date, created_at`,
		tenantID, documentID)
	if err != nil {
		return nil, persistErr("paymentRepo.ListByDocument", err)
	}
	return payments, nil
}

func (r *paymentRepo) SumByDocument(ctx context.Context, tenantID, documentID uuid.UUID) (domain.AmountSummary, error) {
	var sum domain.AmountSummary
	err := r.db.GetContext(ctx, &sum,
		`SELECT COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount
		 FROM payments WHERE tenant_id = $1 AND document_id = $2`,
		tenantID, documentID)
	if err != nil {
		return domain.AmountSummary{}, persistErr("paymentRepo.SumByDocument", err)
	}
	return sum, nil
}
