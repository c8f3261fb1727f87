package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docflow/internal/domain"
	"docflow/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

// documentSelect reads documents with the derived paid amount.
const documentSelect = `SELECT d.*,
	COALESCE((SELECT SUM(p.amount) FROM payments p WHERE p.document_id = d.id), 0) AS paid_amount
FROM documents d`

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	return withTx(ctx, r.db, "documentRepo.Create", func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO documents (
			id, tenant_id, client_id, document_number, type, status,
			issue_date, due_date, paid_date, currency, notes,
			subtotal, tax_amount, total_amount, recurring_config_id,
			created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15,
			$16, $17, $18
		)`,
			doc.ID, doc.TenantID, doc.ClientID, doc.DocumentNumber, doc.Type, doc.Status,
			doc.IssueDate, doc.DueDate, doc.PaidDate, doc.Currency, doc.Notes,
			doc.Subtotal, doc.TaxAmount, doc.TotalAmount, doc.RecurringConfigID,
			doc.CreatedBy, doc.CreatedAt, doc.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateDocumentNumber
			}
			if isForeignKeyViolation(err) {
				return domain.ErrClientNotFound
			}
			return persistErr("documentRepo.Create", err)
		}
		return insertItems(ctx, tx, doc)
	})
}

func insertItems(ctx context.Context, tx *sqlx.Tx, doc *domain.Document) error {
	for i := range doc.Items {
		item := &doc.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.DocumentID = doc.ID
		item.Position = i + 1
		_, err := tx.ExecContext(ctx,
			`INSERT INTO document_items (id, document_id, position, description, quantity, unit_price, tax_rate)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, item.DocumentID, item.Position, item.Description,
			item.Quantity, item.UnitPrice, item.TaxRate)
		if err != nil {
			return persistErr("documentRepo.insertItems", err)
		}
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		documentSelect+" WHERE d.id = $1 AND d.tenant_id = $2", docID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, persistErr("documentRepo.GetByID", err)
	}

	var items []domain.DocumentItem
	err = r.db.SelectContext(ctx, &items,
		"SELECT * FROM document_items WHERE document_id = $1 ORDER BY position", docID)
	if err != nil {
		return nil, persistErr("documentRepo.GetByID items", err)
	}
	doc.Items = items
	return &doc, nil
}

// buildDocumentWhere constructs the WHERE clause for document list queries.
// Status filters use the effective status: sent and accepted exclude overdue
// documents, and overdue matches sent or accepted documents past their due date.
func buildDocumentWhere(tenantID uuid.UUID, filter domain.DocumentFilter) (clause string, args []interface{}) {
	args = []interface{}{tenantID}
	clause = "WHERE d.tenant_id = $1"
	argN := 2

	if filter.Type != "" {
		clause += fmt.Sprintf(" AND d.type = $%d", argN)
		args = append(args, filter.Type)
		argN++
	}
	if filter.ClientID != nil {
		clause += fmt.Sprintf(" AND d.client_id = $%d", argN)
		args = append(args, *filter.ClientID)
		argN++
	}

	switch filter.Status {
	case "":
	case domain.DocumentStatusOverdue:
		clause += fmt.Sprintf(" AND d.status IN ('sent', 'accepted') AND d.due_date < $%d", argN)
		args = append(args, filter.AsOf)
	case domain.DocumentStatusSent, domain.DocumentStatusAccepted:
		clause += fmt.Sprintf(" AND d.status = $%d AND (d.due_date IS NULL OR d.due_date >= $%d)", argN, argN+1)
		args = append(args, filter.Status, filter.AsOf)
	default:
		clause += fmt.Sprintf(" AND d.status = $%d", argN)
		args = append(args, filter.Status)
	}

	return clause, args
}

func (r *documentRepo) List(ctx context.Context, tenantID uuid.UUID, filter domain.DocumentFilter, offset, limit int) ([]domain.Document, int, error) {
	where, args := buildDocumentWhere(tenantID, filter)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM documents d "+where, args...); err != nil {
		return nil, 0, persistErr("documentRepo.List count", err)
	}

	n := len(args)
	query := fmt.Sprintf("%s %s ORDER BY d.issue_date DESC, d.created_at DESC LIMIT $%d OFFSET $%d",
		documentSelect, where, n+1, n+2)
	args = append(args, limit, offset)

	var docs []domain.Document
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, 0, persistErr("documentRepo.List", err)
	}
	return docs, total, nil
}

// UpdateItems replaces the item set and writes the totals in one transaction.
// Concurrent edits are last-write-wins.
func (r *documentRepo) UpdateItems(ctx context.Context, doc *domain.Document) error {
	doc.UpdatedAt = time.Now().UTC()

	return withTx(ctx, r.db, "documentRepo.UpdateItems", func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE documents SET
				subtotal = $1, tax_amount = $2, total_amount = $3,
				notes = $4, due_date = $5, updated_at = $6
			 WHERE id = $7 AND tenant_id = $8`,
			doc.Subtotal, doc.TaxAmount, doc.TotalAmount,
			doc.Notes, doc.DueDate, doc.UpdatedAt,
			doc.ID, doc.TenantID)
		if err != nil {
			return persistErr("documentRepo.UpdateItems", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrDocumentNotFound
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM document_items WHERE document_id = $1", doc.ID); err != nil {
			return persistErr("documentRepo.UpdateItems delete", err)
		}
		return insertItems(ctx, tx, doc)
	})
}

func (r *documentRepo) UpdateStatus(ctx context.Context, change domain.StatusChange) error {
	return applyStatusChange(ctx, r.db, change)
}

// applyStatusChange writes a status only if the stored status still equals change.From.
func applyStatusChange(ctx context.Context, db sqlx.ExtContext, change domain.StatusChange) error {
	result, err := db.ExecContext(ctx,
		`UPDATE documents SET status = $1, paid_date = COALESCE($2, paid_date), updated_at = $3
		 WHERE id = $4 AND tenant_id = $5 AND status = $6`,
		change.To, change.PaidDate, time.Now().UTC(),
		change.DocumentID, change.TenantID, change.From)
	if err != nil {
		return persistErr("documentRepo.UpdateStatus", err)
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}

	var current domain.DocumentStatus
	err = sqlx.GetContext(ctx, db, &current,
		"SELECT status FROM documents WHERE id = $1 AND tenant_id = $2", change.DocumentID, change.TenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrDocumentNotFound
		}
		return persistErr("documentRepo.UpdateStatus lookup", err)
	}
	return fmt.Errorf("%w: %s -> %s (now %s)", domain.ErrInvalidTransition, change.From, change.To, current)
}

func (r *documentRepo) Delete(ctx context.Context, tenantID, docID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM documents WHERE id = $1 AND tenant_id = $2 AND status = 'draft'",
		docID, tenantID)
	if err != nil {
		return persistErr("documentRepo.Delete", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// sequencePattern matches prefix followed by digits only, so hand-entered numbers
// such as INV-2024-0001-REV2 never count as the last number of the scope.
func sequencePattern(prefix string) string {
	return "^" + regexp.QuoteMeta(prefix) + "[0-9]+$"
}

// LastNumber orders by length first so INV-2024-10000 sorts after INV-2024-9999.
func (r *documentRepo) LastNumber(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType, prefix string) (string, error) {
	var number string
	err := r.db.GetContext(ctx, &number,
		`SELECT document_number FROM documents
		 WHERE tenant_id = $1 AND type = $2 AND document_number ~ $3
		 ORDER BY LENGTH(document_number) DESC, document_number DESC
		 LIMIT 1`,
		tenantID, docType, sequencePattern(prefix))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", persistErr("documentRepo.LastNumber", err)
	}
	return number, nil
}
