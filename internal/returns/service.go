package returns

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hindustan-tiles/tiles-erp/internal/billing"
	"github.com/hindustan-tiles/tiles-erp/internal/catalog"
	"github.com/hindustan-tiles/tiles-erp/internal/invoices"
	"github.com/hindustan-tiles/tiles-erp/internal/shared"
)

// InvoicePort loads the invoice a return is filed against, items included.
type InvoicePort interface {
	Get(ctx context.Context, id int64) (*invoices.InvoiceWithState, error)
}

// StockPort is the slice of the catalog the return flow needs. Returned goods
// restock the returns counter; exchange goods go out as sales.
type StockPort interface {
	Get(ctx context.Context, id int64) (*catalog.Product, error)
	RecordReturn(ctx context.Context, productID int64, qty billing.Quantity) error
	RevertReturn(ctx context.Context, productID int64, qty billing.Quantity) error
	RecordSale(ctx context.Context, productID int64, qty billing.Quantity) error
	RevertSale(ctx context.Context, productID int64, qty billing.Quantity) error
}

// EventSink is notified after a write so ledger caches can be invalidated.
type EventSink interface {
	ReturnChanged(ctx context.Context, invoiceID int64, customerID *int64)
}

// Service records returns against invoices.
type Service struct {
	repo   Repository
	inv    InvoicePort
	stock  StockPort
	events EventSink
}

// NewService builds Service instance. events may be nil.
func NewService(repo Repository, inv InvoicePort, stock StockPort, events EventSink) *Service {
	return &Service{repo: repo, inv: inv, stock: stock, events: events}
}

// Create validates return quantities against the invoice, values each line
// pro-rata from what the invoice charged (unless overridden), persists the
// return and adjusts the stock counters. CreditAmount is the ledger-visible
// figure: the full value for CREDIT and REFUND, the value net of exchange
// goods for EXCHANGE.
func (s *Service) Create(ctx context.Context, req CreateReturnRequest, createdBy int64) (*ReturnWithInvoice, error) {
	inv, err := s.inv.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]invoices.Item, len(inv.Items))
	for _, it := range inv.Items {
		byID[it.ID] = it
	}

	var violations []billing.Violation
	var checks []billing.ReturnLineCheck
	items := make([]Item, 0, len(req.Items))
	var totalValue float64

	for i, line := range req.Items {
		invItem, ok := byID[line.InvoiceItemID]
		if !ok {
			violations = append(violations, billing.Violation{
				Field:   fmt.Sprintf("items.%d.invoice_item_id", i),
				Message: "not a line of this invoice",
			})
			continue
		}
		checks = append(checks, billing.ReturnLineCheck{
			Requested:    line.Quantity,
			Invoiced:     invItem.Quantity,
			PiecesPerBox: invItem.PiecesPerBox,
		})

		value := prorataValue(invItem, line.Quantity)
		if line.ReturnValue != nil {
			value = *line.ReturnValue
		}
		totalValue += value

		items = append(items, Item{
			InvoiceItemID: invItem.ID,
			ProductID:     invItem.ProductID,
			Name:          invItem.Name,
			Quantity:      line.Quantity,
			PiecesPerBox:  invItem.PiecesPerBox,
			ReturnValue:   value,
		})
	}
	violations = append(violations, billing.ValidateReturn(checks)...)
	if len(violations) > 0 {
		return nil, &invoices.ValidationError{Violations: violations}
	}

	exchanges, exchangeValue, err := s.resolveExchanges(ctx, req.Exchanges)
	if err != nil {
		return nil, err
	}
	if req.Type != ReturnExchange && len(exchanges) > 0 {
		return nil, &invoices.ValidationError{Violations: []billing.Violation{
			{Field: "exchange_items", Message: "only EXCHANGE returns carry exchange items"},
		}}
	}

	credit := totalValue
	if req.Type == ReturnExchange {
		credit = totalValue - exchangeValue
		if credit < 0 {
			credit = 0
		}
	}

	ret := Return{
		InvoiceID:    req.InvoiceID,
		Type:         req.Type,
		Date:         req.Date,
		TotalValue:   totalValue,
		CreditAmount: credit,
		Notes:        req.Notes,
		CreatedBy:    createdBy,
	}

	var returnID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.Create(ctx, ret)
		if err != nil {
			return err
		}
		returnID = id
		for _, it := range items {
			it.ReturnID = id
			if _, err := repo.InsertItem(ctx, it); err != nil {
				return err
			}
		}
		for _, ex := range exchanges {
			ex.ReturnID = id
			if _, err := repo.InsertExchange(ctx, ex); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		if it.ProductID != nil {
			if err := s.stock.RecordReturn(ctx, *it.ProductID, it.Quantity); err != nil {
				return nil, fmt.Errorf("returns: restock: %w", err)
			}
		}
	}
	for _, ex := range exchanges {
		if ex.ProductID != nil {
			if err := s.stock.RecordSale(ctx, *ex.ProductID, ex.Quantity); err != nil {
				return nil, fmt.Errorf("returns: record exchange sale: %w", err)
			}
		}
	}

	s.notify(ctx, req.InvoiceID, inv.CustomerID)
	return s.repo.Get(ctx, returnID)
}

// Delete removes a return and compensates every counter it touched.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	for _, it := range existing.Items {
		if it.ProductID != nil {
			if err := s.stock.RevertReturn(ctx, *it.ProductID, it.Quantity); err != nil {
				return fmt.Errorf("returns: revert restock: %w", err)
			}
		}
	}
	for _, ex := range existing.Exchanges {
		if ex.ProductID != nil {
			if err := s.stock.RevertSale(ctx, *ex.ProductID, ex.Quantity); err != nil {
				return fmt.Errorf("returns: revert exchange sale: %w", err)
			}
		}
	}

	var customerID *int64
	if inv, err := s.inv.Get(ctx, existing.InvoiceID); err == nil {
		customerID = inv.CustomerID
	}
	s.notify(ctx, existing.InvoiceID, customerID)
	return nil
}

// Get loads one return with its lines.
func (s *Service) Get(ctx context.Context, id int64) (*ReturnWithInvoice, error) {
	return s.repo.Get(ctx, id)
}

// List returns returns matching the filter.
func (s *Service) List(ctx context.Context, req ListReturnsRequest) ([]ReturnWithInvoice, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) resolveExchanges(ctx context.Context, reqs []ExchangeRequest) ([]Exchange, float64, error) {
	var out []Exchange
	var total float64
	for i, req := range reqs {
		ex := Exchange{
			ProductID:    req.ProductID,
			Name:         strings.TrimSpace(req.Name),
			Quantity:     req.Quantity,
			PiecesPerBox: billing.DefaultPiecesPerBox,
		}
		if req.ProductID != nil {
			product, err := s.stock.Get(ctx, *req.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return nil, 0, &invoices.ValidationError{Violations: []billing.Violation{
						{Field: fmt.Sprintf("exchange_items.%d.product_id", i), Message: "product not found"},
					}}
				}
				return nil, 0, fmt.Errorf("returns: resolve exchange product: %w", err)
			}
			ex.PiecesPerBox = product.PiecesPerBox
			ex.PricePerBox = product.PricePerBox
			if ex.Name == "" {
				ex.Name = product.Name
			}

			avail := product.Available()
			if billing.ToBaseUnits(req.Quantity, product.PiecesPerBox) > billing.ToBaseUnits(avail, product.PiecesPerBox) {
				return nil, 0, &invoices.ValidationError{Violations: []billing.Violation{
					{
						Field:   fmt.Sprintf("exchange_items.%d.quantity", i),
						Message: "only " + avail.Format() + " available",
					},
				}}
			}
		}
		if req.Quantity.Boxes < 0 || req.Quantity.Pieces < 0 || req.Quantity.IsZero() {
			return nil, 0, &invoices.ValidationError{Violations: []billing.Violation{
				{Field: fmt.Sprintf("exchange_items.%d.quantity", i), Message: "must be positive"},
			}}
		}

		perPiece := billing.DefaultPricePerPiece(ex.PricePerBox, ex.PiecesPerBox)
		ex.Value = float64(ex.Quantity.Boxes)*ex.PricePerBox + float64(ex.Quantity.Pieces)*perPiece
		total += ex.Value
		out = append(out, ex)
	}
	return out, total, nil
}

func (s *Service) notify(ctx context.Context, invoiceID int64, customerID *int64) {
	if s.events != nil {
		s.events.ReturnChanged(ctx, invoiceID, customerID)
	}
}

// prorataValue splits a line's gross charge across its pieces. The gross
// includes tax: what the customer gets back tracks what they were billed.
func prorataValue(item invoices.Item, returned billing.Quantity) float64 {
	invoicedBase := billing.ToBaseUnits(item.Quantity, item.PiecesPerBox)
	if invoicedBase == 0 {
		return 0
	}
	returnedBase := billing.ToBaseUnits(returned, item.PiecesPerBox)
	gross := item.ItemTotal + item.TaxAmount
	return gross * float64(returnedBase) / float64(invoicedBase)
}
