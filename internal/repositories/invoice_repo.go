package repositories

import (
	"context"
	"errors"

	ierr "invoicedash/internal/errors"
	"invoicedash/internal/models"

	"github.com/jackc/pgx/v5"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	List(ctx context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error)
}

type invoiceRepo struct {
	db DB
}

func NewInvoiceRepo(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, customer_id, amount, status, date)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, invoice.ID, invoice.CustomerID, invoice.Amount, string(invoice.Status), invoice.Date)
	if err != nil {
		return ierr.WithError(err).WithMessage("insert invoice").Mark(ierr.ErrDatabase)
	}
	return nil
}

// Update changes customer, amount and status only; id and date are immutable
func (r *invoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_id = $1, amount = $2, status = $3
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, invoice.CustomerID, invoice.Amount, string(invoice.Status), invoice.ID)
	if err != nil {
		return ierr.WithError(err).WithMessage("update invoice").Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM invoices WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return ierr.WithError(err).WithMessage("delete invoice").Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	query := `
		SELECT id, customer_id, amount, status, to_char(date, 'YYYY-MM-DD')
		FROM invoices
		WHERE id = $1
	`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ierr.WithError(err).WithHint("Invoice not found.").Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).WithMessage("get invoice").Mark(ierr.ErrDatabase)
	}
	return invoice, nil
}

// List returns invoices newest first. Query matches customer id or status.
func (r *invoiceRepo) List(ctx context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error) {
	query := `
		SELECT id, customer_id, amount, status, to_char(date, 'YYYY-MM-DD')
		FROM invoices
		WHERE $1::text = '' OR customer_id::text ILIKE '%' || $1::text || '%' OR status ILIKE '%' || $1::text || '%'
		ORDER BY date DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, filter.Query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, ierr.WithError(err).WithMessage("list invoices").Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	invoices := []*models.Invoice{}
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, ierr.WithError(err).WithMessage("scan invoice").Mark(ierr.ErrDatabase)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).WithMessage("list invoices").Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	var status string
	if err := row.Scan(&invoice.ID, &invoice.CustomerID, &invoice.Amount, &status, &invoice.Date); err != nil {
		return nil, err
	}
	invoice.Status = models.InvoiceStatus(status)
	return invoice, nil
}
