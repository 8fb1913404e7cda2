package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hindustan-tiles/tiles-erp/internal/billing"
	"github.com/hindustan-tiles/tiles-erp/internal/platform/db"
	"github.com/hindustan-tiles/tiles-erp/internal/shared"
)

// ErrDuplicateName indicates another product already carries the name.
var ErrDuplicateName = errors.New("catalog: product name already exists")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `id, name, size, hsn_no, pieces_per_box, price_per_box, image_url, is_active,
	stock_boxes, stock_pieces, sales_boxes, sales_pieces,
	damage_boxes, damage_pieces, returns_boxes, returns_pieces,
	created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Size, &p.HSNNo, &p.PiecesPerBox, &p.PricePerBox, &p.ImageURL, &p.IsActive,
		&p.Counters.Stock.Boxes, &p.Counters.Stock.Pieces,
		&p.Counters.Sales.Boxes, &p.Counters.Sales.Pieces,
		&p.Counters.Damage.Boxes, &p.Counters.Damage.Pieces,
		&p.Counters.Returns.Boxes, &p.Counters.Returns.Pieces,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Get loads a product by ID.
func (r *Repository) Get(ctx context.Context, id int64) (*Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// List returns products matching the filter plus the unfiltered count.
func (r *Repository) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	pattern := "%" + req.Search + "%"

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM products
		 WHERE ($1 = '%%' OR name ILIKE $1 OR hsn_no ILIKE $1)
		   AND (NOT $2 OR is_active)`,
		pattern, req.ActiveOnly,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE ($1 = '%%' OR name ILIKE $1 OR hsn_no ILIKE $1)
		   AND (NOT $2 OR is_active)
		 ORDER BY name LIMIT $3 OFFSET $4`,
		pattern, req.ActiveOnly, req.Limit, req.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Size, &p.HSNNo, &p.PiecesPerBox, &p.PricePerBox, &p.ImageURL, &p.IsActive,
			&p.Counters.Stock.Boxes, &p.Counters.Stock.Pieces,
			&p.Counters.Sales.Boxes, &p.Counters.Sales.Pieces,
			&p.Counters.Damage.Boxes, &p.Counters.Damage.Pieces,
			&p.Counters.Returns.Boxes, &p.Counters.Returns.Pieces,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Create inserts a product with zeroed counters.
func (r *Repository) Create(ctx context.Context, p Product) (int64, error) {
	now := time.Now()
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (name, size, hsn_no, pieces_per_box, price_per_box, image_url, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $7) RETURNING id`,
		p.Name, p.Size, p.HSNNo, p.PiecesPerBox, p.PricePerBox, p.ImageURL, now,
	).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, ErrDuplicateName
		}
		return 0, fmt.Errorf("catalog: insert product: %w", err)
	}
	return id, nil
}

// Update applies partial changes to a product.
func (r *Repository) Update(ctx context.Context, id int64, req UpdateProductRequest) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET
			name = COALESCE($2, name),
			size = COALESCE($3, size),
			hsn_no = COALESCE($4, hsn_no),
			pieces_per_box = COALESCE($5, pieces_per_box),
			price_per_box = COALESCE($6, price_per_box),
			image_url = COALESCE($7, image_url),
			is_active = COALESCE($8, is_active),
			updated_at = $9
		 WHERE id = $1`,
		id, req.Name, req.Size, req.HSNNo, req.PiecesPerBox, req.PricePerBox, req.ImageURL, req.IsActive, time.Now(),
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("catalog: update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AddCounter increments one of the four stock counters. Deltas may be
// negative (compensating edits); rows never go below zero column-wise because
// the fold that derives availability clamps, not the storage.
func (r *Repository) AddCounter(ctx context.Context, id int64, counter CounterKind, delta billing.Quantity) error {
	var column string
	switch counter {
	case CounterStock:
		column = "stock"
	case CounterSales:
		column = "sales"
	case CounterDamage:
		column = "damage"
	case CounterReturns:
		column = "returns"
	default:
		return fmt.Errorf("catalog: unknown counter %q", counter)
	}

	query := fmt.Sprintf(
		`UPDATE products SET %s_boxes = %s_boxes + $2, %s_pieces = %s_pieces + $3, updated_at = $4 WHERE id = $1`,
		column, column, column, column,
	)
	tag, err := r.pool.Exec(ctx, query, id, delta.Boxes, delta.Pieces, time.Now())
	if err != nil {
		return fmt.Errorf("catalog: bump %s counter: %w", counter, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
