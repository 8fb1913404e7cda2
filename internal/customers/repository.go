package customers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hindustan-tiles/tiles-erp/internal/platform/db"
	"github.com/hindustan-tiles/tiles-erp/internal/shared"
)

// ErrDuplicatePhone indicates another customer already uses the phone number.
var ErrDuplicatePhone = errors.New("customers: phone already registered")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const customerColumns = `id, name, phone, address, gstin, notes, is_active, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.GSTIN, &c.Notes, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Get loads a customer by ID.
func (r *Repository) Get(ctx context.Context, id int64) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	return scanCustomer(row)
}

// List returns customers matching the filter plus the unfiltered count.
func (r *Repository) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	pattern := "%" + req.Search + "%"

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM customers WHERE ($1 = '%%' OR name ILIKE $1 OR phone ILIKE $1)`,
		pattern,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+customerColumns+` FROM customers
		 WHERE ($1 = '%%' OR name ILIKE $1 OR phone ILIKE $1)
		 ORDER BY name LIMIT $2 OFFSET $3`,
		pattern, req.Limit, req.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.GSTIN, &c.Notes, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// Create inserts a customer.
func (r *Repository) Create(ctx context.Context, c Customer) (int64, error) {
	now := time.Now()
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO customers (name, phone, address, gstin, notes, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, TRUE, $6, $6) RETURNING id`,
		c.Name, c.Phone, c.Address, c.GSTIN, c.Notes, now,
	).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, ErrDuplicatePhone
		}
		return 0, fmt.Errorf("customers: insert: %w", err)
	}
	return id, nil
}

// Update applies partial changes to a customer.
func (r *Repository) Update(ctx context.Context, id int64, req UpdateCustomerRequest) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE customers SET
			name = COALESCE($2, name),
			phone = COALESCE($3, phone),
			address = COALESCE($4, address),
			gstin = COALESCE($5, gstin),
			notes = COALESCE($6, notes),
			is_active = COALESCE($7, is_active),
			updated_at = $8
		 WHERE id = $1`,
		id, req.Name, req.Phone, req.Address, req.GSTIN, req.Notes, req.IsActive, time.Now(),
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicatePhone
		}
		return fmt.Errorf("customers: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
