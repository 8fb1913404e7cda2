package invoices

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hindustan-tiles/tiles-erp/internal/billing"
	"github.com/hindustan-tiles/tiles-erp/internal/catalog"
	"github.com/hindustan-tiles/tiles-erp/internal/customers"
	"github.com/hindustan-tiles/tiles-erp/internal/shared"
)

type memoryInvoiceRepo struct {
	invoices map[int64]*Invoice
	items    map[int64][]Item
	payments map[int64]float64
	nextID   int64
	seq      map[int]int
}

func newMemoryInvoiceRepo() *memoryInvoiceRepo {
	return &memoryInvoiceRepo{
		invoices: map[int64]*Invoice{},
		items:    map[int64][]Item{},
		payments: map[int64]float64{},
		seq:      map[int]int{},
	}
}

func (r *memoryInvoiceRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryInvoiceRepo) Get(_ context.Context, id int64) (*InvoiceWithState, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *inv
	cp.Items = append([]Item(nil), r.items[id]...)
	totalPaid := cp.PaidAtCreation + r.payments[id]
	return &InvoiceWithState{
		Invoice: cp,
		Payment: PaymentState{TotalPaid: totalPaid, PendingAmount: cp.FinalAmount - totalPaid},
	}, nil
}

func (r *memoryInvoiceRepo) List(_ context.Context, _ ListInvoicesRequest) ([]InvoiceWithState, int, error) {
	ids := make([]int64, 0, len(r.invoices))
	for id := range r.invoices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]InvoiceWithState, 0, len(ids))
	for _, id := range ids {
		inv, _ := r.Get(context.Background(), id)
		out = append(out, *inv)
	}
	return out, len(out), nil
}

func (r *memoryInvoiceRepo) ListByCustomer(_ context.Context, customerID int64) ([]Invoice, error) {
	var out []Invoice
	for _, inv := range r.invoices {
		if inv.CustomerID != nil && *inv.CustomerID == customerID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *memoryInvoiceRepo) Create(_ context.Context, inv Invoice) (int64, error) {
	r.nextID++
	inv.ID = r.nextID
	r.invoices[inv.ID] = &inv
	return inv.ID, nil
}

func (r *memoryInvoiceRepo) UpdateHeader(_ context.Context, inv Invoice) error {
	if _, ok := r.invoices[inv.ID]; !ok {
		return shared.ErrNotFound
	}
	r.invoices[inv.ID] = &inv
	return nil
}

func (r *memoryInvoiceRepo) InsertItem(_ context.Context, item Item) (int64, error) {
	item.ID = int64(len(r.items[item.InvoiceID]) + 1)
	r.items[item.InvoiceID] = append(r.items[item.InvoiceID], item)
	return item.ID, nil
}

func (r *memoryInvoiceRepo) DeleteItems(_ context.Context, invoiceID int64) error {
	delete(r.items, invoiceID)
	return nil
}

func (r *memoryInvoiceRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.invoices[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *memoryInvoiceRepo) GenerateNumber(_ context.Context, date time.Time) (string, error) {
	year := date.Year()
	r.seq[year]++
	return fmt.Sprintf("INV-%d-%04d", year, r.seq[year]), nil
}

// stubStock is a StockPort over a single map of products, tracking counter
// traffic so tests can assert the bookkeeping.
type stubStock struct {
	products map[int64]*catalog.Product
	sold     map[int64]int
	reverted map[int64]int
}

func newStubStock() *stubStock {
	return &stubStock{
		products: map[int64]*catalog.Product{},
		sold:     map[int64]int{},
		reverted: map[int64]int{},
	}
}

func (s *stubStock) add(p catalog.Product) {
	s.products[p.ID] = &p
}

func (s *stubStock) Get(_ context.Context, id int64) (*catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubStock) RecordSale(_ context.Context, id int64, qty billing.Quantity) error {
	p := s.products[id]
	p.Counters.Sales.Boxes += qty.Boxes
	p.Counters.Sales.Pieces += qty.Pieces
	s.sold[id]++
	return nil
}

func (s *stubStock) RevertSale(_ context.Context, id int64, qty billing.Quantity) error {
	p := s.products[id]
	p.Counters.Sales.Boxes -= qty.Boxes
	p.Counters.Sales.Pieces -= qty.Pieces
	s.reverted[id]++
	return nil
}

type stubCustomers struct {
	customers map[int64]*customers.Customer
}

func (s *stubCustomers) Get(_ context.Context, id int64) (*customers.Customer, error) {
	c, ok := s.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func newFixture() (*Service, *memoryInvoiceRepo, *stubStock) {
	repo := newMemoryInvoiceRepo()
	stock := newStubStock()
	stock.add(catalog.Product{
		ID:           1,
		Name:         "Vitrified 600x600",
		HSNNo:        "6907",
		PiecesPerBox: 4,
		PricePerBox:  118,
		Counters:     billing.StockCounters{Stock: billing.Quantity{Boxes: 50}},
	})
	cust := &stubCustomers{customers: map[int64]*customers.Customer{
		7: {ID: 7, Name: "Sharma Traders", Phone: ptr("9876543210")},
	}}
	return NewService(repo, stock, cust, nil, nil), repo, stock
}

func gstRequest() CreateInvoiceRequest {
	return CreateInvoiceRequest{
		Type:       billing.InvoiceTypeGST,
		Date:       time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		CustomerID: ptr(int64(7)),
		Items: []ItemRequest{
			{ProductID: ptr(int64(1)), Quantity: billing.Quantity{Boxes: 1}},
		},
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreateGSTInvoiceExtractsTax(t *testing.T) {
	svc, _, stock := newFixture()

	inv, err := svc.Create(context.Background(), gstRequest(), 1)
	require.NoError(t, err)

	// 118 inclusive at 18%: base 100, tax 18, split 9/9.
	require.InDelta(t, 100, inv.Subtotal, 1e-9)
	require.InDelta(t, 18, inv.TotalTax, 1e-9)
	require.InDelta(t, 9, inv.CGST, 1e-9)
	require.InDelta(t, 9, inv.SGST, 1e-9)
	require.Zero(t, inv.IGST)
	require.InDelta(t, 118, inv.FinalAmount, 1e-9)
	require.Equal(t, "INV-2026-0001", inv.Number)
	require.Equal(t, "Sharma Traders", inv.Customer.Name)

	require.Len(t, inv.Items, 1)
	item := inv.Items[0]
	require.Equal(t, "Vitrified 600x600", item.Name)
	require.Equal(t, "6907", item.HSNNo)
	require.Equal(t, 4, item.PiecesPerBox)
	require.InDelta(t, billing.DefaultTaxRate, item.TaxRate, 1e-9)

	require.Equal(t, 1, stock.sold[1])
	require.InDelta(t, inv.FinalAmount, inv.Payment.PendingAmount, 1e-9)
}

func TestCreateNonGSTInvoiceHasNoTax(t *testing.T) {
	svc, _, _ := newFixture()

	req := gstRequest()
	req.Type = billing.InvoiceTypeNonGST
	req.Items[0].Quantity = billing.Quantity{Boxes: 2}

	inv, err := svc.Create(context.Background(), req, 1)
	require.NoError(t, err)
	require.InDelta(t, 236, inv.Subtotal, 1e-9)
	require.Zero(t, inv.TotalTax)
	require.Zero(t, inv.CGST)
	require.Zero(t, inv.SGST)
	require.InDelta(t, 236, inv.FinalAmount, 1e-9)
}

func TestCreateGSTInvoiceHonorsExplicitZeroRate(t *testing.T) {
	svc, _, _ := newFixture()

	// A tax-exempt line on a GST invoice keeps its 0% as entered.
	req := gstRequest()
	req.Items[0].TaxRate = ptr(0.0)

	inv, err := svc.Create(context.Background(), req, 1)
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	require.Zero(t, inv.Items[0].TaxRate)
	require.Zero(t, inv.Items[0].TaxAmount)
	require.InDelta(t, 118, inv.Items[0].ItemTotal, 1e-9)
	require.Zero(t, inv.TotalTax)
	require.InDelta(t, 118, inv.FinalAmount, 1e-9)
}

func TestUpdateSwitchToGSTPromotesZeroRates(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()

	req := gstRequest()
	req.Type = billing.InvoiceTypeNonGST
	inv, err := svc.Create(ctx, req, 1)
	require.NoError(t, err)
	require.Zero(t, inv.Items[0].TaxRate)

	updated, err := svc.Update(ctx, inv.ID, UpdateInvoiceRequest{
		Type: ptr(billing.InvoiceTypeGST),
	})
	require.NoError(t, err)
	require.InDelta(t, billing.DefaultTaxRate, updated.Items[0].TaxRate, 1e-9)
	require.InDelta(t, 18, updated.TotalTax, 1e-9)
	require.InDelta(t, 100, updated.Subtotal, 1e-9)
}

func TestUpdateGSTInvoiceKeepsExplicitZeroRate(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()

	req := gstRequest()
	req.Items[0].TaxRate = ptr(0.0)
	inv, err := svc.Create(ctx, req, 1)
	require.NoError(t, err)

	// Editing a GST invoice that stays GST must not resurrect tax on the
	// exempt line.
	items := []ItemRequest{
		{ProductID: ptr(int64(1)), Quantity: billing.Quantity{Boxes: 2}, TaxRate: ptr(0.0)},
	}
	updated, err := svc.Update(ctx, inv.ID, UpdateInvoiceRequest{Items: &items})
	require.NoError(t, err)
	require.Zero(t, updated.Items[0].TaxRate)
	require.Zero(t, updated.TotalTax)
	require.InDelta(t, 236, updated.FinalAmount, 1e-9)
}

func TestCreateRejectsZeroQuantity(t *testing.T) {
	svc, _, _ := newFixture()

	req := gstRequest()
	req.Items[0].Quantity = billing.Quantity{}

	_, err := svc.Create(context.Background(), req, 1)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "items.0.quantity", ve.Violations[0].Field)
}

func TestCreateRejectsOverselling(t *testing.T) {
	svc, _, _ := newFixture()

	req := gstRequest()
	req.Items[0].Quantity = billing.Quantity{Boxes: 51}

	_, err := svc.Create(context.Background(), req, 1)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve.Violations[0].Message, "available")
}

func TestCreateRejectsOverpaymentAtCreation(t *testing.T) {
	svc, _, _ := newFixture()

	req := gstRequest()
	req.PaidAtCreation = 200

	_, err := svc.Create(context.Background(), req, 1)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "paid_at_creation", ve.Violations[0].Field)
}

func TestCreateCustomItemPricedPerPiece(t *testing.T) {
	svc, _, stock := newFixture()

	req := CreateInvoiceRequest{
		Type: billing.InvoiceTypeNonGST,
		Date: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		Items: []ItemRequest{
			{
				Name:          "Grout bag",
				Quantity:      billing.Quantity{Pieces: 2},
				PricePerPiece: ptr(100.0),
				IsCustom:      true,
			},
		},
	}

	inv, err := svc.Create(context.Background(), req, 1)
	require.NoError(t, err)
	require.InDelta(t, 200, inv.FinalAmount, 1e-9)
	require.Equal(t, "Cash", inv.Customer.Name)
	require.Empty(t, stock.sold)
}

func TestUpdateReplacesItemsAndCounters(t *testing.T) {
	svc, _, stock := newFixture()
	ctx := context.Background()

	inv, err := svc.Create(ctx, gstRequest(), 1)
	require.NoError(t, err)

	items := []ItemRequest{
		{ProductID: ptr(int64(1)), Quantity: billing.Quantity{Boxes: 3}},
	}
	updated, err := svc.Update(ctx, inv.ID, UpdateInvoiceRequest{Items: &items})
	require.NoError(t, err)

	require.InDelta(t, 300, updated.Subtotal, 1e-9)
	require.InDelta(t, 354, updated.FinalAmount, 1e-9)
	require.Equal(t, inv.Number, updated.Number)

	require.Equal(t, 1, stock.reverted[1])
	require.Equal(t, 2, stock.sold[1])
	require.Equal(t, billing.Quantity{Boxes: 3}, stock.products[1].Counters.Sales)
}

func TestUpdateRejectionRestoresCounters(t *testing.T) {
	svc, _, stock := newFixture()
	ctx := context.Background()

	inv, err := svc.Create(ctx, gstRequest(), 1)
	require.NoError(t, err)

	items := []ItemRequest{
		{ProductID: ptr(int64(1)), Quantity: billing.Quantity{Boxes: 500}},
	}
	_, err = svc.Update(ctx, inv.ID, UpdateInvoiceRequest{Items: &items})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	require.Equal(t, billing.Quantity{Boxes: 1}, stock.products[1].Counters.Sales)
}

func TestDeleteRevertsSale(t *testing.T) {
	svc, repo, stock := newFixture()
	ctx := context.Background()

	inv, err := svc.Create(ctx, gstRequest(), 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, inv.ID))
	require.Equal(t, 1, stock.reverted[1])
	require.Equal(t, billing.Quantity{}, stock.products[1].Counters.Sales)

	_, err = repo.Get(ctx, inv.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInvoiceNumbersResetPerYear(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()

	first, err := svc.Create(ctx, gstRequest(), 1)
	require.NoError(t, err)
	second, err := svc.Create(ctx, gstRequest(), 1)
	require.NoError(t, err)
	require.Equal(t, "INV-2026-0001", first.Number)
	require.Equal(t, "INV-2026-0002", second.Number)

	nextYear := gstRequest()
	nextYear.Date = time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC)
	third, err := svc.Create(ctx, nextYear, 1)
	require.NoError(t, err)
	require.Equal(t, "INV-2027-0001", third.Number)
}

func TestRenderPrintDocument(t *testing.T) {
	svc, _, _ := newFixture()

	req := gstRequest()
	req.PaidAtCreation = 18
	inv, err := svc.Create(context.Background(), req, 1)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, RenderPrintDocument(&buf, inv))

	out := buf.String()
	require.Contains(t, out, inv.Number)
	require.Contains(t, out, "Sharma Traders")
	require.Contains(t, out, "HSN")
	require.Contains(t, out, "₹118.00")
	require.Contains(t, out, "₹100.00")
	require.Contains(t, out, "1 bx")
}
