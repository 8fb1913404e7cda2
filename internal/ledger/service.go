package ledger

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/hindustan-tiles/tiles-erp/internal/billing"
)

// InvoiceSource, PaymentSource and ReturnSource feed the statement fold.
// Each returns every ledger-relevant event of one customer.
type InvoiceSource interface {
	InvoiceEvents(ctx context.Context, customerID int64) ([]billing.InvoiceEvent, error)
}

type PaymentSource interface {
	PaymentEvents(ctx context.Context, customerID int64) ([]billing.PaymentEvent, error)
}

type ReturnSource interface {
	ReturnEvents(ctx context.Context, customerID int64) ([]billing.ReturnEvent, error)
}

// Statement is a customer ledger plus its closing position.
type Statement struct {
	CustomerID     int64                 `json:"customer_id"`
	Entries        []billing.LedgerEntry `json:"entries"`
	ClosingBalance float64               `json:"closing_balance"`
}

// Service assembles statements. The three sources are fetched concurrently;
// concurrent requests for the same customer and range collapse onto one
// build.
type Service struct {
	invoices InvoiceSource
	payments PaymentSource
	returns  ReturnSource
	cache    *Cache
	group    singleflight.Group
}

// NewService builds Service instance. cache may be nil.
func NewService(inv InvoiceSource, pay PaymentSource, ret ReturnSource, cache *Cache) *Service {
	return &Service{invoices: inv, payments: pay, returns: ret, cache: cache}
}

// Statement builds or serves the customer's ledger for the given range.
func (s *Service) Statement(ctx context.Context, customerID int64, rng billing.DateRange) (*Statement, error) {
	from, to := "", ""
	if !rng.From.IsZero() {
		from = rng.From.Format("2006-01-02")
	}
	if !rng.To.IsZero() {
		to = rng.To.Format("2006-01-02")
	}

	key := fmt.Sprintf("ledger:%d::%s:%s", customerID, from, to)
	if s.cache != nil {
		k, err := s.cache.BuildKey(ctx, customerID, from, to)
		if err != nil {
			return nil, err
		}
		key = k
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		var stmt Statement
		err := s.cache.FetchJSON(ctx, key, &stmt, func(ctx context.Context) (any, error) {
			return s.build(ctx, customerID, rng)
		})
		if err != nil {
			return nil, err
		}
		return &stmt, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Statement), nil
}

// Warm rebuilds the customer's unfiltered statement into the cache.
func (s *Service) Warm(ctx context.Context, customerID int64) error {
	_, err := s.Statement(ctx, customerID, billing.DateRange{})
	return err
}

func (s *Service) build(ctx context.Context, customerID int64, rng billing.DateRange) (*Statement, error) {
	var (
		invoices []billing.InvoiceEvent
		payments []billing.PaymentEvent
		returns  []billing.ReturnEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invoices, err = s.invoices.InvoiceEvents(gctx, customerID)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.payments.PaymentEvents(gctx, customerID)
		return err
	})
	g.Go(func() error {
		var err error
		returns, err = s.returns.ReturnEvents(gctx, customerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ledger: load events: %w", err)
	}

	entries := billing.BuildLedger(invoices, payments, returns, rng)
	stmt := &Statement{CustomerID: customerID, Entries: entries}
	if len(entries) > 0 {
		stmt.ClosingBalance = entries[len(entries)-1].Balance
	}
	return stmt, nil
}
