package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
)

type invoiceRepository struct {
	BaseRepository
}

func NewInvoiceRepository(db *sqlx.DB) repository.InvoiceRepository {
	return &invoiceRepository{BaseRepository{db: db}}
}

const invoiceColumns = `id, clinic_id, owner_id, number, status, total, issued_at,
	   due_at, payment_date, payment_method, created_at, updated_at`

// Create inserts the invoice and its line items in one transaction.
func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	invoice.ID = uuid.New()
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO invoices (
				id, clinic_id, owner_id, number, status, total, issued_at,
				due_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		if _, err := tx.ExecContext(ctx, insert,
			invoice.ID, invoice.ClinicID, invoice.OwnerID, invoice.Number,
			invoice.Status, invoice.Total, invoice.IssuedAt, invoice.DueAt,
			invoice.CreatedAt, invoice.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		itemInsert := `
			INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, amount)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		for _, item := range invoice.Items {
			item.ID = uuid.New()
			item.InvoiceID = invoice.ID
			if _, err := tx.ExecContext(ctx, itemInsert,
				item.ID, item.InvoiceID, item.Description, item.Quantity,
				item.UnitPrice, item.Amount,
			); err != nil {
				return fmt.Errorf("failed to create invoice item: %w", err)
			}
		}
		return nil
	})
}

func (r *invoiceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE id = $1`, invoiceColumns)

	var invoice model.Invoice
	if err := r.db.GetContext(ctx, &invoice, query, id); err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	itemsQuery := `
		SELECT id, invoice_id, description, quantity, unit_price, amount
		FROM invoice_items
		WHERE invoice_id = $1
	`
	if err := r.db.SelectContext(ctx, &invoice.Items, itemsQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get invoice items: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, scope access.Scope, status model.InvoiceStatus) ([]*model.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE 1=1`, invoiceColumns)
	args := []interface{}{}
	argCount := 1

	if scope.ClinicID != nil {
		query += fmt.Sprintf(" AND clinic_id = $%d", argCount)
		args = append(args, *scope.ClinicID)
		argCount++
	}
	if scope.OwnerID != nil {
		query += fmt.Sprintf(" AND owner_id = $%d", argCount)
		args = append(args, *scope.OwnerID)
		argCount++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, status)
		argCount++
	}

	query += " ORDER BY issued_at DESC"

	var invoices []*model.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// MarkPaid is a single conditional update: an invoice already paid or
// cancelled does not match, which the caller reports as a conflict.
func (r *invoiceRepository) MarkPaid(ctx context.Context, id uuid.UUID, method string, paidAt time.Time) (bool, error) {
	query := `
		UPDATE invoices
		SET status = $1, payment_date = $2, payment_method = $3, updated_at = $4
		WHERE id = $5 AND status IN ($6, $7)
	`
	result, err := r.db.ExecContext(ctx, query,
		model.InvoiceStatusPaid, paidAt, method, time.Now(), id,
		model.InvoiceStatusPending, model.InvoiceStatusOverdue,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
