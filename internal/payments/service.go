package payments

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/hindustan-tiles/tiles-erp/internal/billing"
	"github.com/hindustan-tiles/tiles-erp/internal/invoices"
)

// InvoicePort is the slice of the invoice module payments need: the current
// settlement position of the invoice being collected against.
type InvoicePort interface {
	Get(ctx context.Context, id int64) (*invoices.InvoiceWithState, error)
}

// EventSink is notified after a write so ledger caches can be invalidated.
type EventSink interface {
	PaymentChanged(ctx context.Context, invoiceID int64, customerID *int64)
}

// Service records and removes collections. Amounts are checked against the
// invoice's pending balance; over-collection is rejected at this boundary so
// the settlement identity holds for every stored row.
type Service struct {
	repo     Repository
	invoices InvoicePort
	events   EventSink
}

// NewService builds Service instance. events may be nil.
func NewService(repo Repository, inv InvoicePort, events EventSink) *Service {
	return &Service{repo: repo, invoices: inv, events: events}
}

// Create validates the amount against the invoice's open balance and appends
// the payment. A missing transaction id gets a generated one so every row is
// individually referenceable.
func (s *Service) Create(ctx context.Context, req CreatePaymentRequest, createdBy int64) (*Payment, error) {
	inv, err := s.invoices.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	if violations := billing.ValidatePayment(req.Amount, inv.Payment.PendingAmount); len(violations) > 0 {
		return nil, &invoices.ValidationError{Violations: violations}
	}

	txnID := strings.TrimSpace(req.TransactionID)
	if txnID == "" {
		txnID = uuid.NewString()
	}
	method := req.Method
	if method == "" {
		method = "CASH"
	}

	payment := Payment{
		InvoiceID:       req.InvoiceID,
		TransactionID:   txnID,
		Amount:          req.Amount,
		Method:          method,
		Date:            req.Date,
		Notes:           req.Notes,
		RemainingAmount: inv.Payment.PendingAmount - req.Amount,
		CreatedBy:       createdBy,
	}
	id, err := s.repo.Create(ctx, payment)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, inv.ID, inv.CustomerID)
	return s.repo.Get(ctx, id)
}

// Delete removes a mistaken payment. The invoice's pending amount is derived,
// so removal alone restores the balance.
func (s *Service) Delete(ctx context.Context, id int64) error {
	payment, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	var customerID *int64
	if inv, err := s.invoices.Get(ctx, payment.InvoiceID); err == nil {
		customerID = inv.CustomerID
	}
	s.notify(ctx, payment.InvoiceID, customerID)
	return nil
}

// Get loads one payment.
func (s *Service) Get(ctx context.Context, id int64) (*Payment, error) {
	return s.repo.Get(ctx, id)
}

// List returns payments matching the filter.
func (s *Service) List(ctx context.Context, req ListPaymentsRequest) ([]PaymentWithInvoice, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) notify(ctx context.Context, invoiceID int64, customerID *int64) {
	if s.events != nil {
		s.events.PaymentChanged(ctx, invoiceID, customerID)
	}
}
