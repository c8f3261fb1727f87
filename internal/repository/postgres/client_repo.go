package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docflow/internal/domain"
	"docflow/internal/port"
)

type clientRepo struct {
	db *sqlx.DB
}

// NewClientRepo creates a new PostgreSQL-backed ClientRepository.
func NewClientRepo(db *sqlx.DB) port.ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *domain.Client) error {
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (id, tenant_id, name, email, address, vat_number, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		client.ID, client.TenantID, client.Name, client.Email, client.Address, client.VATNumber,
		client.CreatedAt, client.UpdatedAt)
	if err != nil {
		return persistErr("clientRepo.Create", err)
	}
	return nil
}

func (r *clientRepo) GetByID(ctx context.Context, tenantID, clientID uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	err := r.db.GetContext(ctx, &client,
		"SELECT * FROM clients WHERE id = $1 AND tenant_id = $2", clientID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, persistErr("clientRepo.GetByID", err)
	}
	return &client, nil
}

func (r *clientRepo) List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Client, int, error) {
	where := "WHERE tenant_id = $1"
	args := []interface{}{tenantID}
	if search != "" {
		where += " AND (name ILIKE $2 OR email ILIKE $2)"
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM clients "+where, args...); err != nil {
		return nil, 0, persistErr("clientRepo.List count", err)
	}

	n := len(args)
	query := fmt.Sprintf("SELECT * FROM clients %s ORDER BY name LIMIT $%d OFFSET $%d", where, n+1, n+2)
	args = append(args, limit, offset)

	var clients []domain.Client
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, 0, persistErr("clientRepo.List", err)
	}
	return clients, total, nil
}

func (r *clientRepo) Update(ctx context.Context, client *domain.Client) error {
	client.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE clients SET name = $1, email = $2, address = $3, vat_number = $4, updated_at = $5
		 WHERE id = $6 AND tenant_id = $7`,
		client.Name, client.Email, client.Address, client.VATNumber, client.UpdatedAt,
		client.ID, client.TenantID)
	if err != nil {
		return persistErr("clientRepo.Update", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *clientRepo) Delete(ctx context.Context, tenantID, clientID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM clients WHERE id = $1 AND tenant_id = $2", clientID, tenantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrClientInUse
		}
		return persistErr("clientRepo.Delete", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}
