package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hindustan-tiles/tiles-erp/internal/shared"
)

// PaymentWithInvoice pairs a payment with its invoice number for listings and
// statements.
type PaymentWithInvoice struct {
	Payment
	InvoiceNumber string `json:"invoice_number"`
}

type Repository interface {
	Get(ctx context.Context, id int64) (*Payment, error)
	List(ctx context.Context, req ListPaymentsRequest) ([]PaymentWithInvoice, int, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]PaymentWithInvoice, error)
	Create(ctx context.Context, p Payment) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const paymentColumns = `p.id, p.invoice_id, p.transaction_id, p.amount, p.method,
	p.payment_date, p.notes, p.remaining_amount, p.created_by, p.created_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(
		&p.ID, &p.InvoiceID, &p.TransactionID, &p.Amount, &p.Method,
		&p.Date, &p.Notes, &p.RemainingAmount, &p.CreatedBy, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("payments: scan: %w", err)
	}
	return &p, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Payment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments p WHERE p.id = $1`, id)
	return scanPayment(row)
}

func (r *repository) List(ctx context.Context, req ListPaymentsRequest) ([]PaymentWithInvoice, int, error) {
	where := ` WHERE ($1::bigint IS NULL OR p.invoice_id = $1)
		AND ($2::timestamptz IS NULL OR p.payment_date >= $2)
		AND ($3::timestamptz IS NULL OR p.payment_date <= $3)`
	args := []any{req.InvoiceID, nullableTime(req.DateFrom), nullableTime(req.DateTo)}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM payments p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("payments: count: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+`, i.number
		 FROM payments p JOIN invoices i ON i.id = p.invoice_id`+where+`
		 ORDER BY p.payment_date DESC, p.id DESC
		 LIMIT $4 OFFSET $5`,
		append(args, req.Limit, req.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("payments: list: %w", err)
	}
	defer rows.Close()

	var out []PaymentWithInvoice
	for rows.Next() {
		var p PaymentWithInvoice
		if err := rows.Scan(
			&p.ID, &p.InvoiceID, &p.TransactionID, &p.Amount, &p.Method,
			&p.Date, &p.Notes, &p.RemainingAmount, &p.CreatedBy, &p.CreatedAt,
			&p.InvoiceNumber,
		); err != nil {
			return nil, 0, fmt.Errorf("payments: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repository) ListByCustomer(ctx context.Context, customerID int64) ([]PaymentWithInvoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+`, i.number
		 FROM payments p JOIN invoices i ON i.id = p.invoice_id
		 WHERE i.customer_id = $1
		 ORDER BY p.payment_date, p.id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("payments: list by customer: %w", err)
	}
	defer rows.Close()

	var out []PaymentWithInvoice
	for rows.Next() {
		var p PaymentWithInvoice
		if err := rows.Scan(
			&p.ID, &p.InvoiceID, &p.TransactionID, &p.Amount, &p.Method,
			&p.Date, &p.Notes, &p.RemainingAmount, &p.CreatedBy, &p.CreatedAt,
			&p.InvoiceNumber,
		); err != nil {
			return nil, fmt.Errorf("payments: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Payment) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO payments (invoice_id, transaction_id, amount, method, payment_date,
			notes, remaining_amount, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		p.InvoiceID, p.TransactionID, p.Amount, p.Method, p.Date,
		p.Notes, p.RemainingAmount, p.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("payments: create: %w", err)
	}
	return id, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("payments: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
