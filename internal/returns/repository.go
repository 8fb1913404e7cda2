package returns

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

// ReturnWithInvoice pairs a return with its invoice number for listings and
// statements.
type ReturnWithInvoice struct {
	Return
	InvoiceNumber string `json:"invoice_number"`
}

// Repository defines return persistence. WithTx yields a repository bound to
// a transaction so header, items and exchange lines commit together.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*ReturnWithInvoice, error)
	List(ctx context.Context, req ListReturnsRequest) ([]ReturnWithInvoice, int, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]ReturnWithInvoice, error)
	Create(ctx context.Context, ret Return) (int64, error)
	InsertItem(ctx context.Context, item Item) (int64, error)
	InsertExchange(ctx context.Context, ex Exchange) (int64, error)
	Delete(ctx context.Context, id int64) error
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

const returnColumns = `r.id, r.invoice_id, r.return_type, r.return_date, r.total_value,
	r.credit_amount, r.notes, r.created_by, r.created_at, i.number`

func scanReturn(row pgx.Row) (*ReturnWithInvoice, error) {
	var ret ReturnWithInvoice
	err := row.Scan(
		&ret.ID, &ret.InvoiceID, &ret.Type, &ret.Date, &ret.TotalValue,
		&ret.CreditAmount, &ret.Notes, &ret.CreatedBy, &ret.CreatedAt,
		&ret.InvoiceNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("returns: scan: %w", err)
	}
	return &ret, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*ReturnWithInvoice, error) {
	ret, err := scanReturn(r.db.QueryRow(ctx,
		`SELECT `+returnColumns+`
		 FROM returns r JOIN invoices i ON i.id = r.invoice_id
		 WHERE r.id = $1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, return_id, invoice_item_id, product_id, name,
			quantity_boxes, quantity_pieces, pieces_per_box, return_value
		 FROM return_items WHERE return_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("returns: load items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.ReturnID, &it.InvoiceItemID, &it.ProductID, &it.Name,
			&it.Quantity.Boxes, &it.Quantity.Pieces, &it.PiecesPerBox, &it.ReturnValue,
		); err != nil {
			return nil, fmt.Errorf("returns: scan item: %w", err)
		}
		ret.Items = append(ret.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	exRows, err := r.db.Query(ctx,
		`SELECT id, return_id, product_id, name, quantity_boxes, quantity_pieces,
			pieces_per_box, price_per_box, value
		 FROM return_exchanges WHERE return_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("returns: load exchanges: %w", err)
	}
	defer exRows.Close()
	for exRows.Next() {
		var ex Exchange
		if err := exRows.Scan(
			&ex.ID, &ex.ReturnID, &ex.ProductID, &ex.Name,
			&ex.Quantity.Boxes, &ex.Quantity.Pieces, &ex.PiecesPerBox,
			&ex.PricePerBox, &ex.Value,
		); err != nil {
			return nil, fmt.Errorf("returns: scan exchange: %w", err)
		}
		ret.Exchanges = append(ret.Exchanges, ex)
	}
	return ret, exRows.Err()
}

func (r *repository) List(ctx context.Context, req ListReturnsRequest) ([]ReturnWithInvoice, int, error) {
	where := ` WHERE ($1::bigint IS NULL OR r.invoice_id = $1)
		AND ($2::timestamptz IS NULL OR r.return_date >= $2)
		AND ($3::timestamptz IS NULL OR r.return_date <= $3)`
	args := []any{req.InvoiceID, nullableTime(req.DateFrom), nullableTime(req.DateTo)}

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM returns r`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("returns: count: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+returnColumns+`
		 FROM returns r JOIN invoices i ON i.id = r.invoice_id`+where+`
		 ORDER BY r.return_date DESC, r.id DESC
		 LIMIT $4 OFFSET $5`,
		append(args, req.Limit, req.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("returns: list: %w", err)
	}
	defer rows.Close()

	var out []ReturnWithInvoice
	for rows.Next() {
		var ret ReturnWithInvoice
		if err := rows.Scan(
			&ret.ID, &ret.InvoiceID, &ret.Type, &ret.Date, &ret.TotalValue,
			&ret.CreditAmount, &ret.Notes, &ret.CreatedBy, &ret.CreatedAt,
			&ret.InvoiceNumber,
		); err != nil {
			return nil, 0, fmt.Errorf("returns: scan: %w", err)
		}
		out = append(out, ret)
	}
	return out, total, rows.Err()
}

func (r *repository) ListByCustomer(ctx context.Context, customerID int64) ([]ReturnWithInvoice, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+returnColumns+`
		 FROM returns r JOIN invoices i ON i.id = r.invoice_id
		 WHERE i.customer_id = $1
		 ORDER BY r.return_date, r.id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("returns: list by customer: %w", err)
	}
	defer rows.Close()

	var out []ReturnWithInvoice
	for rows.Next() {
		var ret ReturnWithInvoice
		if err := rows.Scan(
			&ret.ID, &ret.InvoiceID, &ret.Type, &ret.Date, &ret.TotalValue,
			&ret.CreditAmount, &ret.Notes, &ret.CreatedBy, &ret.CreatedAt,
			&ret.InvoiceNumber,
		); err != nil {
			return nil, fmt.Errorf("returns: scan: %w", err)
		}
		out = append(out, ret)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, ret Return) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO returns (invoice_id, return_type, return_date, total_value,
			credit_amount, notes, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		ret.InvoiceID, ret.Type, ret.Date, ret.TotalValue,
		ret.CreditAmount, ret.Notes, ret.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("returns: create: %w", err)
	}
	return id, nil
}

func (r *repository) InsertItem(ctx context.Context, item Item) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO return_items (return_id, invoice_item_id, product_id, name,
			quantity_boxes, quantity_pieces, pieces_per_box, return_value)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		item.ReturnID, item.InvoiceItemID, item.ProductID, item.Name,
		item.Quantity.Boxes, item.Quantity.Pieces, item.PiecesPerBox, item.ReturnValue,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("returns: insert item: %w", err)
	}
	return id, nil
}

func (r *repository) InsertExchange(ctx context.Context, ex Exchange) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO return_exchanges (return_id, product_id, name, quantity_boxes,
			quantity_pieces, pieces_per_box, price_per_box, value)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		ex.ReturnID, ex.ProductID, ex.Name, ex.Quantity.Boxes,
		ex.Quantity.Pieces, ex.PiecesPerBox, ex.PricePerBox, ex.Value,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("returns: insert exchange: %w", err)
	}
	return id, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM return_items WHERE return_id = $1`, id); err != nil {
		return fmt.Errorf("returns: delete items: %w", err)
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM return_exchanges WHERE return_id = $1`, id); err != nil {
		return fmt.Errorf("returns: delete exchanges: %w", err)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM returns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("returns: delete: %w", err)
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
