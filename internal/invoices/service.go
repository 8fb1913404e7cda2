package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hindustan-tiles/tiles-erp/internal/billing"
	"github.com/hindustan-tiles/tiles-erp/internal/catalog"
	"github.com/hindustan-tiles/tiles-erp/internal/customers"
	"github.com/hindustan-tiles/tiles-erp/internal/shared"
)

// ValidationError carries the violated constraints of a rejected draft.
type ValidationError struct {
	Violations []billing.Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "invoices: validation failed"
	}
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Field+": "+v.Message)
	}
	return "invoices: " + strings.Join(msgs, "; ")
}

// StockPort is the slice of the catalog the invoice flow needs.
type StockPort interface {
	Get(ctx context.Context, id int64) (*catalog.Product, error)
	RecordSale(ctx context.Context, productID int64, qty billing.Quantity) error
	RevertSale(ctx context.Context, productID int64, qty billing.Quantity) error
}

// CustomerPort resolves customer snapshots.
type CustomerPort interface {
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

// EventSink is notified after the write commits, so caches can be invalidated
// and warmup jobs enqueued. Implementations must be cheap; failures are the
// sink's problem, not the caller's.
type EventSink interface {
	InvoiceChanged(ctx context.Context, invoiceID int64, customerID *int64)
}

// Service coordinates invoice writes. All money math goes through billing;
// this service owns only orchestration: resolving snapshots, numbering,
// transactional persistence and stock counter bookkeeping.
type Service struct {
	repo        Repository
	stock       StockPort
	customers   CustomerPort
	idempotency *shared.IdempotencyStore
	events      EventSink
}

// NewService builds Service instance. idempotency and events may be nil.
func NewService(repo Repository, stock StockPort, cust CustomerPort, idem *shared.IdempotencyStore, events EventSink) *Service {
	return &Service{repo: repo, stock: stock, customers: cust, idempotency: idem, events: events}
}

// resolvedItem pairs a priced item with the product it came from.
type resolvedItem struct {
	item      Item
	productID *int64
}

// resolveItems turns request rows into priced invoice items, checking catalog
// availability along the way. The quantity each catalog line sells is also
// validated against what the four counters say is sellable; custom lines skip
// the catalog entirely. promoteZeroRates lifts 0% lines to the GST default,
// which only happens when an edit switches the invoice type to GST; an
// explicit 0% on a GST invoice otherwise stays a tax-exempt line.
func (s *Service) resolveItems(ctx context.Context, reqs []ItemRequest, invType billing.InvoiceType, discount float64, promoteZeroRates bool) ([]resolvedItem, []billing.Violation, error) {
	var resolved []resolvedItem
	var violations []billing.Violation
	var lines []billing.Line

	for i, req := range reqs {
		item := Item{
			ProductID: req.ProductID,
			Name:      strings.TrimSpace(req.Name),
			HSNNo:     strings.TrimSpace(req.HSNNo),
			Quantity:  req.Quantity,
			IsCustom:  req.IsCustom,
			LineOrder: i + 1,
		}

		if req.IsCustom || req.ProductID == nil {
			item.IsCustom = true
			item.PiecesPerBox = billing.DefaultPiecesPerBox
			if item.Name == "" {
				violations = append(violations, billing.Violation{
					Field: fmt.Sprintf("items.%d.name", i), Message: "custom items need a name",
				})
			}
		} else {
			product, err := s.stock.Get(ctx, *req.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					violations = append(violations, billing.Violation{
						Field: fmt.Sprintf("items.%d.product_id", i), Message: "product not found",
					})
					continue
				}
				return nil, nil, fmt.Errorf("invoices: resolve product: %w", err)
			}
			item.PiecesPerBox = product.PiecesPerBox
			if item.Name == "" {
				item.Name = product.Name
			}
			if item.HSNNo == "" {
				item.HSNNo = product.HSNNo
			}
			if req.PricePerBox == 0 {
				item.PricePerBox = product.PricePerBox
			}

			avail := product.Available()
			if billing.ToBaseUnits(req.Quantity, product.PiecesPerBox) > billing.ToBaseUnits(avail, product.PiecesPerBox) {
				violations = append(violations, billing.Violation{
					Field:   fmt.Sprintf("items.%d.quantity", i),
					Message: "only " + avail.Format() + " available",
				})
			}
		}

		if item.PricePerBox == 0 {
			item.PricePerBox = req.PricePerBox
		}
		if req.PricePerPiece != nil {
			item.PricePerPiece = *req.PricePerPiece
		} else {
			item.PricePerPiece = billing.DefaultPricePerPiece(item.PricePerBox, item.PiecesPerBox)
		}
		if req.TaxRate != nil {
			item.TaxRate = *req.TaxRate
			if promoteZeroRates {
				item.TaxRate = billing.MigrateTaxRate(item.TaxRate, invType)
			}
		} else {
			item.TaxRate = billing.DefaultTaxRateFor(invType)
		}

		line := billing.Line{
			Quantity:      item.Quantity,
			PiecesPerBox:  item.PiecesPerBox,
			PricePerBox:   item.PricePerBox,
			PricePerPiece: item.PricePerPiece,
			TaxRate:       item.TaxRate,
			IsCustom:      item.IsCustom,
		}
		price := billing.PriceLine(line, invType)
		item.ItemTotal = price.ItemTotal
		item.TaxAmount = price.TaxAmount

		lines = append(lines, line)
		resolved = append(resolved, resolvedItem{item: item, productID: item.ProductID})
	}

	violations = append(violations, billing.ValidateInvoice(billing.InvoiceDraft{
		Type:     invType,
		Discount: discount,
		Lines:    lines,
	})...)
	return resolved, violations, nil
}

// Create validates, prices and persists a new invoice, then posts the sales
// counters. Counter updates run after commit; the nightly integrity scan
// reconciles the rare crash between the two.
func (s *Service) Create(ctx context.Context, req CreateInvoiceRequest, createdBy int64) (*InvoiceWithState, error) {
	if s.idempotency != nil && req.IdempotencyKey != "" {
		if err := s.idempotency.CheckAndInsert(ctx, req.IdempotencyKey, "invoices"); err != nil {
			return nil, err
		}
	}

	snapshot, err := s.resolveSnapshot(ctx, req.CustomerID, req.CustomerDetails)
	if err != nil {
		return nil, err
	}

	resolved, violations, err := s.resolveItems(ctx, req.Items, req.Type, req.Discount, false)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	prices := make([]billing.LinePrice, len(resolved))
	for i, r := range resolved {
		prices[i] = billing.LinePrice{ItemTotal: r.item.ItemTotal, TaxAmount: r.item.TaxAmount}
	}
	totals := billing.Aggregate(prices, req.Discount, req.Type)

	if req.PaidAtCreation > totals.FinalAmount {
		return nil, &ValidationError{Violations: []billing.Violation{
			{Field: "paid_at_creation", Message: "exceeds invoice total"},
		}}
	}

	invoice := Invoice{
		Type:           req.Type,
		Date:           req.Date,
		CustomerID:     req.CustomerID,
		Customer:       snapshot,
		Subtotal:       totals.Subtotal,
		TotalTax:       totals.TotalTax,
		CGST:           totals.CGST,
		SGST:           totals.SGST,
		IGST:           totals.IGST,
		Discount:       totals.Discount,
		RoundOffAmount: totals.RoundOffAmount,
		FinalAmount:    totals.FinalAmount,
		PaidAtCreation: req.PaidAtCreation,
		Notes:          req.Notes,
		CreatedBy:      createdBy,
	}

	var invoiceID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		number, err := repo.GenerateNumber(ctx, req.Date)
		if err != nil {
			return err
		}
		invoice.Number = number

		id, err := repo.Create(ctx, invoice)
		if err != nil {
			return err
		}
		invoiceID = id

		for _, r := range resolved {
			item := r.item
			item.InvoiceID = id
			if _, err := repo.InsertItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if s.idempotency != nil && req.IdempotencyKey != "" {
			_ = s.idempotency.Delete(ctx, req.IdempotencyKey)
		}
		return nil, err
	}

	for _, r := range resolved {
		if r.productID != nil {
			if err := s.stock.RecordSale(ctx, *r.productID, r.item.Quantity); err != nil {
				return nil, fmt.Errorf("invoices: record sale: %w", err)
			}
		}
	}

	s.notify(ctx, invoiceID, req.CustomerID)
	return s.repo.Get(ctx, invoiceID)
}

// Update re-derives all monetary fields and replaces the item set. Old sales
// counters are reverted and the new ones recorded, so availability tracks the
// edit.
func (s *Service) Update(ctx context.Context, id int64, req UpdateInvoiceRequest) (*InvoiceWithState, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	invType := existing.Type
	if req.Type != nil {
		invType = *req.Type
	}
	date := existing.Date
	if req.Date != nil {
		date = *req.Date
	}
	snapshot := existing.Customer
	if req.CustomerDetails != nil {
		snapshot = *req.CustomerDetails
	}
	discount := existing.Discount
	if req.Discount != nil {
		discount = *req.Discount
	}
	notes := existing.Notes
	if req.Notes != nil {
		notes = req.Notes
	}

	itemReqs := itemRequestsFrom(existing.Items)
	if req.Items != nil {
		itemReqs = *req.Items
	}

	// Release the old sale before availability is checked against the new
	// quantities, otherwise editing an invoice down would still trip the
	// stock check against its own prior sale.
	for _, it := range existing.Items {
		if it.ProductID != nil {
			if err := s.stock.RevertSale(ctx, *it.ProductID, it.Quantity); err != nil {
				return nil, fmt.Errorf("invoices: revert sale: %w", err)
			}
		}
	}

	switchedToGST := existing.Type == billing.InvoiceTypeNonGST && invType == billing.InvoiceTypeGST
	resolved, violations, err := s.resolveItems(ctx, itemReqs, invType, discount, switchedToGST)
	if err != nil || len(violations) > 0 {
		// Put the original sale back; the edit is rejected.
		for _, it := range existing.Items {
			if it.ProductID != nil {
				_ = s.stock.RecordSale(ctx, *it.ProductID, it.Quantity)
			}
		}
		if err != nil {
			return nil, err
		}
		return nil, &ValidationError{Violations: violations}
	}

	prices := make([]billing.LinePrice, len(resolved))
	for i, r := range resolved {
		prices[i] = billing.LinePrice{ItemTotal: r.item.ItemTotal, TaxAmount: r.item.TaxAmount}
	}
	totals := billing.Aggregate(prices, discount, invType)

	updated := existing.Invoice
	updated.Type = invType
	updated.Date = date
	updated.Customer = snapshot
	updated.Subtotal = totals.Subtotal
	updated.TotalTax = totals.TotalTax
	updated.CGST = totals.CGST
	updated.SGST = totals.SGST
	updated.IGST = totals.IGST
	updated.Discount = totals.Discount
	updated.RoundOffAmount = totals.RoundOffAmount
	updated.FinalAmount = totals.FinalAmount
	updated.Notes = notes

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.UpdateHeader(ctx, updated); err != nil {
			return err
		}
		if err := repo.DeleteItems(ctx, id); err != nil {
			return err
		}
		for _, r := range resolved {
			item := r.item
			item.InvoiceID = id
			if _, err := repo.InsertItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		for _, it := range existing.Items {
			if it.ProductID != nil {
				_ = s.stock.RecordSale(ctx, *it.ProductID, it.Quantity)
			}
		}
		return nil, err
	}

	for _, r := range resolved {
		if r.productID != nil {
			if err := s.stock.RecordSale(ctx, *r.productID, r.item.Quantity); err != nil {
				return nil, fmt.Errorf("invoices: record sale: %w", err)
			}
		}
	}

	s.notify(ctx, id, updated.CustomerID)
	return s.repo.Get(ctx, id)
}

// Delete removes an invoice and compensates its sales counters.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.DeleteItems(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	for _, it := range existing.Items {
		if it.ProductID != nil {
			if err := s.stock.RevertSale(ctx, *it.ProductID, it.Quantity); err != nil {
				return fmt.Errorf("invoices: revert sale: %w", err)
			}
		}
	}
	s.notify(ctx, id, existing.CustomerID)
	return nil
}

// Get loads one invoice with its settlement state.
func (s *Service) Get(ctx context.Context, id int64) (*InvoiceWithState, error) {
	return s.repo.Get(ctx, id)
}

// List returns invoices matching the filter.
func (s *Service) List(ctx context.Context, req ListInvoicesRequest) ([]InvoiceWithState, int, error) {
	req.Search = strings.TrimSpace(req.Search)
	return s.repo.List(ctx, req)
}

func (s *Service) resolveSnapshot(ctx context.Context, customerID *int64, details *customers.Snapshot) (customers.Snapshot, error) {
	if customerID != nil {
		customer, err := s.customers.Get(ctx, *customerID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return customers.Snapshot{}, &ValidationError{Violations: []billing.Violation{
					{Field: "customer_id", Message: "customer not found"},
				}}
			}
			return customers.Snapshot{}, fmt.Errorf("invoices: resolve customer: %w", err)
		}
		return customer.Snapshot(), nil
	}
	if details != nil && strings.TrimSpace(details.Name) != "" {
		return *details, nil
	}
	// Walk-in cash sale without a name.
	return customers.Snapshot{Name: "Cash"}, nil
}

func (s *Service) notify(ctx context.Context, invoiceID int64, customerID *int64) {
	if s.events != nil {
		s.events.InvoiceChanged(ctx, invoiceID, customerID)
	}
}

func itemRequestsFrom(items []Item) []ItemRequest {
	reqs := make([]ItemRequest, 0, len(items))
	for _, it := range items {
		pricePerPiece := it.PricePerPiece
		taxRate := it.TaxRate
		reqs = append(reqs, ItemRequest{
			ProductID:     it.ProductID,
			Name:          it.Name,
			HSNNo:         it.HSNNo,
			Quantity:      it.Quantity,
			PricePerBox:   it.PricePerBox,
			PricePerPiece: &pricePerPiece,
			TaxRate:       &taxRate,
			IsCustom:      it.IsCustom,
		})
	}
	return reqs
}
