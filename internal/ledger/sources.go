package ledger

import (
	"context"

	"github.com/hindustan-tiles/tiles-erp/internal/billing"
	"github.com/hindustan-tiles/tiles-erp/internal/invoices"
	"github.com/hindustan-tiles/tiles-erp/internal/payments"
	"github.com/hindustan-tiles/tiles-erp/internal/returns"
)

// Repository adapters mapping stored rows to ledger events. Only CREDIT and
// REFUND returns reach the statement at full value; EXCHANGE returns
// contribute their net credit, the goods handed out in exchange already paid
// for the rest.

type InvoiceAdapter struct {
	Repo invoices.Repository
}

func (a InvoiceAdapter) InvoiceEvents(ctx context.Context, customerID int64) ([]billing.InvoiceEvent, error) {
	rows, err := a.Repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	events := make([]billing.InvoiceEvent, 0, len(rows))
	for _, inv := range rows {
		events = append(events, billing.InvoiceEvent{
			Date:           inv.Date,
			Number:         inv.Number,
			FinalAmount:    inv.FinalAmount,
			Discount:       inv.Discount,
			PaidAtCreation: inv.PaidAtCreation,
		})
	}
	return events, nil
}

type PaymentAdapter struct {
	Repo payments.Repository
}

func (a PaymentAdapter) PaymentEvents(ctx context.Context, customerID int64) ([]billing.PaymentEvent, error) {
	rows, err := a.Repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	events := make([]billing.PaymentEvent, 0, len(rows))
	for _, p := range rows {
		events = append(events, billing.PaymentEvent{
			Date:          p.Date,
			InvoiceNumber: p.InvoiceNumber,
			Amount:        p.Amount,
			Method:        p.Method,
		})
	}
	return events, nil
}

type ReturnAdapter struct {
	Repo returns.Repository
}

func (a ReturnAdapter) ReturnEvents(ctx context.Context, customerID int64) ([]billing.ReturnEvent, error) {
	rows, err := a.Repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	events := make([]billing.ReturnEvent, 0, len(rows))
	for _, r := range rows {
		if r.CreditAmount <= 0 {
			continue
		}
		events = append(events, billing.ReturnEvent{
			Date:          r.Date,
			InvoiceNumber: r.InvoiceNumber,
			Amount:        r.CreditAmount,
		})
	}
	return events, nil
}
