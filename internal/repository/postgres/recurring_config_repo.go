package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docflow/internal/domain"
	"docflow/internal/port"
)

type recurringConfigRepo struct {
	db *sqlx.DB
}

// NewRecurringConfigRepo creates a new PostgreSQL-backed RecurringConfigRepository.
func NewRecurringConfigRepo(db *sqlx.DB) port.RecurringConfigRepository {
	return &recurringConfigRepo{db: db}
}

func (r *recurringConfigRepo) Create(ctx context.Context, cfg *domain.RecurringDocumentConfig) error {
	now := time.Now().UTC()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_document_configs (
			id, tenant_id, template_document_id, frequency, day_of_month, month,
			next_date, end_date, is_active, last_run_at, last_document_id,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		cfg.ID, cfg.TenantID, cfg.TemplateDocumentID, cfg.Frequency, cfg.DayOfMonth, cfg.Month,
		cfg.NextDate, cfg.EndDate, cfg.IsActive, cfg.LastRunAt, cfg.LastDocumentID,
		cfg.CreatedBy, cfg.CreatedAt, cfg.UpdatedAt)
	if err != nil {
		return persistErr("recurringConfigRepo.Create", err)
	}
	return nil
}

func (r *recurringConfigRepo) GetByID(ctx context.Context, tenantID, configID uuid.UUID) (*domain.RecurringDocumentConfig, error) {
	var cfg domain.RecurringDocumentConfig
	err := r.db.GetContext(ctx, &cfg,
		"SELECT * FROM recurring_document_configs WHERE id = $1 AND tenant_id = $2", configID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecurringConfigNotFound
		}
		return nil, persistErr("recurringConfigRepo.GetByID", err)
	}
	return &cfg, nil
}

func (r *recurringConfigRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.RecurringDocumentConfig, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM recurring_document_configs WHERE tenant_id = $1", tenantID)
	if err != nil {
		return nil, 0, persistErr("recurringConfigRepo.ListByTenant count", err)
	}

	var configs []domain.RecurringDocumentConfig
	err = r.db.SelectContext(ctx, &configs,
		`SELECT * FROM recurring_document_configs WHERE tenant_id = $1
		 ORDER BY is_active DESC, next_date LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, 0, persistErr("recurringConfigRepo.ListByTenant", err)
	}
	return configs, total, nil
}

func (r *recurringConfigRepo) ListDue(ctx context.Context, asOf time.Time) ([]domain.RecurringDocumentConfig, error) {
	var configs []domain.RecurringDocumentConfig
	err := r.db.SelectContext(ctx, &configs,
		`SELECT * FROM recurring_document_configs
		 WHERE is_active AND next_date <= $1
		 ORDER BY next_date, created_at`,
		asOf)
	if err != nil {
		return nil, persistErr("recurringConfigRepo.ListDue", err)
	}
	return configs, nil
}

func (r *recurringConfigRepo) UpdateSchedule(ctx context.Context, cfg *domain.RecurringDocumentConfig) error {
	cfg.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE recurring_document_configs SET
			next_date = $1, is_active = $2, last_run_at = $3, last_document_id = $4, updated_at = $5
		 WHERE id = $6 AND tenant_id = $7`,
		cfg.NextDate, cfg.IsActive, cfg.LastRunAt, cfg.LastDocumentID, cfg.UpdatedAt,
		cfg.ID, cfg.TenantID)
	if err != nil {
		return persistErr("recurringConfigRepo.UpdateSchedule", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRecurringConfigNotFound
	}
	return nil
}

func (r *recurringConfigRepo) ClaimRun(ctx context.Context, cfg *domain.RecurringDocumentConfig, due time.Time) error {
	cfg.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE recurring_document_configs SET
			next_date = $1, is_active = $2, last_run_at = $3, updated_at = $4
		 WHERE id = $5 AND tenant_id = $6 AND is_active AND next_date = $7`,
		cfg.NextDate, cfg.IsActive, cfg.LastRunAt, cfg.UpdatedAt,
		cfg.ID, cfg.TenantID, due)
	if err != nil {
		return persistErr("recurringConfigRepo.ClaimRun", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRecurringRunClaimed
	}
	return nil
}

func (r *recurringConfigRepo) ReleaseRun(ctx context.Context, prior *domain.RecurringDocumentConfig, claimedNext time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE recurring_document_configs SET
			next_date = $1, is_active = $2, last_run_at = $3, updated_at = $4
		 WHERE id = $5 AND tenant_id = $6 AND next_date = $7`,
		prior.NextDate, prior.IsActive, prior.LastRunAt, time.Now().UTC(),
		prior.ID, prior.TenantID, claimedNext)
	if err != nil {
		return persistErr("recurringConfigRepo.ReleaseRun", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRecurringRunClaimed
	}
	return nil
}
