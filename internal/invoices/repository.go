package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hindustan-tiles/tiles-erp/internal/platform/db"
	"github.com/hindustan-tiles/tiles-erp/internal/shared"
)

// Repository defines invoice persistence. WithTx yields a repository bound to
// a transaction so header, items and the document number commit together.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*InvoiceWithState, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]InvoiceWithState, int, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Invoice, error)
	Create(ctx context.Context, inv Invoice) (int64, error)
	UpdateHeader(ctx context.Context, inv Invoice) error
	InsertItem(ctx context.Context, item Item) (int64, error)
	DeleteItems(ctx context.Context, invoiceID int64) error
	Delete(ctx context.Context, id int64) error
	GenerateNumber(ctx context.Context, date time.Time) (string, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const invoiceColumns = `i.id, i.number, i.invoice_type, i.invoice_date, i.customer_id,
	i.customer_name, i.customer_phone, i.customer_address, i.customer_gstin,
	i.subtotal, i.total_tax, i.cgst, i.sgst, i.igst, i.discount,
	i.round_off_amount, i.final_amount, i.paid_at_creation, i.notes,
	i.created_by, i.created_at, i.updated_at,
	i.paid_at_creation + COALESCE((SELECT sum(p.amount) FROM payments p WHERE p.invoice_id = i.id), 0) AS total_paid`

func scanInvoice(row pgx.Row) (*InvoiceWithState, error) {
	var inv InvoiceWithState
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.Type, &inv.Date, &inv.CustomerID,
		&inv.Customer.Name, &inv.Customer.Phone, &inv.Customer.Address, &inv.Customer.GSTIN,
		&inv.Subtotal, &inv.TotalTax, &inv.CGST, &inv.SGST, &inv.IGST, &inv.Discount,
		&inv.RoundOffAmount, &inv.FinalAmount, &inv.PaidAtCreation, &inv.Notes,
		&inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
		&inv.Payment.TotalPaid,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	inv.Payment.PendingAmount = inv.FinalAmount - inv.Payment.TotalPaid
	return &inv, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*InvoiceWithState, error) {
	row := r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices i WHERE i.id = $1`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, invoice_id, product_id, name, hsn_no, qty_boxes, qty_pieces, pieces_per_box,
		        price_per_box, price_per_piece, tax_rate, item_total, tax_amount, is_custom, line_order
		 FROM invoice_items WHERE invoice_id = $1 ORDER BY line_order`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.ProductID, &it.Name, &it.HSNNo,
			&it.Quantity.Boxes, &it.Quantity.Pieces, &it.PiecesPerBox,
			&it.PricePerBox, &it.PricePerPiece, &it.TaxRate, &it.ItemTotal, &it.TaxAmount,
			&it.IsCustom, &it.LineOrder,
		); err != nil {
			return nil, err
		}
		inv.Items = append(inv.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *repository) List(ctx context.Context, req ListInvoicesRequest) ([]InvoiceWithState, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	pattern := "%" + req.Search + "%"

	const filter = ` WHERE ($1 = '' OR i.invoice_type = $1)
		AND ($2::bigint IS NULL OR i.customer_id = $2)
		AND ($3 = '%%' OR i.number ILIKE $3 OR i.customer_name ILIKE $3)
		AND ($4::timestamptz IS NULL OR i.invoice_date >= $4)
		AND ($5::timestamptz IS NULL OR i.invoice_date <= $5)`

	var dateFrom, dateTo *time.Time
	if !req.DateFrom.IsZero() {
		dateFrom = &req.DateFrom
	}
	if !req.DateTo.IsZero() {
		dateTo = &req.DateTo
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM invoices i`+filter,
		string(req.Type), req.CustomerID, pattern, dateFrom, dateTo,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i`+filter+
			` ORDER BY i.invoice_date DESC, i.id DESC LIMIT $6 OFFSET $7`,
		string(req.Type), req.CustomerID, pattern, dateFrom, dateTo, req.Limit, req.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []InvoiceWithState
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// ListByCustomer returns every invoice header of one customer in chronological
// order, for statement building.
func (r *repository) ListByCustomer(ctx context.Context, customerID int64) ([]Invoice, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i
		 WHERE i.customer_id = $1
		 ORDER BY i.invoice_date, i.id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("invoices: list by customer: %w", err)
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv.Invoice)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, inv Invoice) (int64, error) {
	now := time.Now()
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO invoices (number, invoice_type, invoice_date, customer_id,
			customer_name, customer_phone, customer_address, customer_gstin,
			subtotal, total_tax, cgst, sgst, igst, discount,
			round_off_amount, final_amount, paid_at_creation, notes,
			created_by, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$20)
		 RETURNING id`,
		inv.Number, inv.Type, inv.Date, inv.CustomerID,
		inv.Customer.Name, inv.Customer.Phone, inv.Customer.Address, inv.Customer.GSTIN,
		inv.Subtotal, inv.TotalTax, inv.CGST, inv.SGST, inv.IGST, inv.Discount,
		inv.RoundOffAmount, inv.FinalAmount, inv.PaidAtCreation, inv.Notes,
		inv.CreatedBy, now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("invoices: insert: %w", err)
	}
	return id, nil
}

func (r *repository) UpdateHeader(ctx context.Context, inv Invoice) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE invoices SET invoice_type=$2, invoice_date=$3,
			customer_name=$4, customer_phone=$5, customer_address=$6, customer_gstin=$7,
			subtotal=$8, total_tax=$9, cgst=$10, sgst=$11, igst=$12, discount=$13,
			round_off_amount=$14, final_amount=$15, notes=$16, updated_at=$17
		 WHERE id=$1`,
		inv.ID, inv.Type, inv.Date,
		inv.Customer.Name, inv.Customer.Phone, inv.Customer.Address, inv.Customer.GSTIN,
		inv.Subtotal, inv.TotalTax, inv.CGST, inv.SGST, inv.IGST, inv.Discount,
		inv.RoundOffAmount, inv.FinalAmount, inv.Notes, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("invoices: update header: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) InsertItem(ctx context.Context, item Item) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO invoice_items (invoice_id, product_id, name, hsn_no,
			qty_boxes, qty_pieces, pieces_per_box,
			price_per_box, price_per_piece, tax_rate, item_total, tax_amount, is_custom, line_order)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14) RETURNING id`,
		item.InvoiceID, item.ProductID, item.Name, item.HSNNo,
		item.Quantity.Boxes, item.Quantity.Pieces, item.PiecesPerBox,
		item.PricePerBox, item.PricePerPiece, item.TaxRate, item.ItemTotal, item.TaxAmount,
		item.IsCustom, item.LineOrder,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("invoices: insert item: %w", err)
	}
	return id, nil
}

func (r *repository) DeleteItems(ctx context.Context, invoiceID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID)
	return err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("invoices: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GenerateNumber produces the next INV-YYYY-NNNN number for the invoice year.
// Callers run it inside WithTx so concurrent saves cannot collide.
func (r *repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	year := date.Year()
	var seq int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) + 1 FROM invoices WHERE date_part('year', invoice_date) = $1`,
		year,
	).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("invoices: generate number: %w", err)
	}
	return fmt.Sprintf("INV-%d-%04d", year, seq), nil
}
