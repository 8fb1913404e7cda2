package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/hindustan-tiles/tiles-erp/internal/billing"
)

// ErrInvalidAdjustment indicates a stock adjustment that cannot be applied.
var ErrInvalidAdjustment = errors.New("catalog: invalid stock adjustment")

// RepositoryPort abstracts persistence for the service.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, req ListProductsRequest) ([]Product, int, error)
	Create(ctx context.Context, p Product) (int64, error)
	Update(ctx context.Context, id int64, req UpdateProductRequest) error
	AddCounter(ctx context.Context, id int64, counter CounterKind, delta billing.Quantity) error
}

// Service coordinates catalog operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create registers a product. A zero pieces-per-box falls back to the billing
// default, so conversions stay total downstream.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New("product name is required")
	}
	ppb := req.PiecesPerBox
	if ppb < 1 {
		ppb = billing.DefaultPiecesPerBox
	}
	id, err := s.repo.Create(ctx, Product{
		Name:         name,
		Size:         strings.TrimSpace(req.Size),
		HSNNo:        strings.TrimSpace(req.HSNNo),
		PiecesPerBox: ppb,
		PricePerBox:  req.PricePerBox,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Update applies partial changes.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, errors.New("product name must not be blank")
	}
	if err := s.repo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get loads one product.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

// View loads one product with derived availability.
func (s *Service) View(ctx context.Context, id int64) (*ProductView, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v := newView(*p)
	return &v, nil
}

// List returns product views matching a search term.
func (s *Service) List(ctx context.Context, req ListProductsRequest) ([]ProductView, int, error) {
	req.Search = strings.TrimSpace(req.Search)
	products, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newView(p))
	}
	return views, total, nil
}

// AdjustStock records received stock or a damage write-off.
func (s *Service) AdjustStock(ctx context.Context, id int64, req AdjustStockRequest) (*ProductView, error) {
	if req.Counter != CounterStock && req.Counter != CounterDamage {
		return nil, ErrInvalidAdjustment
	}
	if req.Quantity.Boxes < 0 || req.Quantity.Pieces < 0 || req.Quantity.IsZero() {
		return nil, ErrInvalidAdjustment
	}
	if err := s.repo.AddCounter(ctx, id, req.Counter, req.Quantity); err != nil {
		return nil, err
	}
	return s.View(ctx, id)
}

// RecordSale bumps the sales counter; called by the invoice flow.
func (s *Service) RecordSale(ctx context.Context, productID int64, qty billing.Quantity) error {
	return s.repo.AddCounter(ctx, productID, CounterSales, qty)
}

// RevertSale compensates a deleted or edited invoice line.
func (s *Service) RevertSale(ctx context.Context, productID int64, qty billing.Quantity) error {
	return s.repo.AddCounter(ctx, productID, CounterSales, billing.Quantity{Boxes: -qty.Boxes, Pieces: -qty.Pieces})
}

// RecordReturn bumps the returns counter; called by the returns flow.
func (s *Service) RecordReturn(ctx context.Context, productID int64, qty billing.Quantity) error {
	return s.repo.AddCounter(ctx, productID, CounterReturns, qty)
}

// RevertReturn compensates a deleted return.
func (s *Service) RevertReturn(ctx context.Context, productID int64, qty billing.Quantity) error {
	return s.repo.AddCounter(ctx, productID, CounterReturns, billing.Quantity{Boxes: -qty.Boxes, Pieces: -qty.Pieces})
}

func newView(p Product) ProductView {
	avail := p.Available()
	return ProductView{
		Product:          p,
		AvailableQty:     avail,
		AvailableDisplay: avail.Format(),
		PricePerPiece:    billing.DefaultPricePerPiece(p.PricePerBox, p.PiecesPerBox),
	}
}
