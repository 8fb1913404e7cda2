package ledger

import (
	"context"
	"log/slog"
)

// WarmupEnqueuer schedules a background statement rebuild.
type WarmupEnqueuer interface {
	EnqueueLedgerWarmup(ctx context.Context, customerID int64) error
}

// Events reacts to invoice, payment and return writes: it bumps the
// customer's cache version and queues a warmup so the next read is hot.
// Failures here are logged and swallowed; the write already committed.
type Events struct {
	Logger   *slog.Logger
	Cache    *Cache
	Enqueuer WarmupEnqueuer
}

func (e *Events) InvoiceChanged(ctx context.Context, invoiceID int64, customerID *int64) {
	e.changed(ctx, customerID)
}

func (e *Events) PaymentChanged(ctx context.Context, invoiceID int64, customerID *int64) {
	e.changed(ctx, customerID)
}

func (e *Events) ReturnChanged(ctx context.Context, invoiceID int64, customerID *int64) {
	e.changed(ctx, customerID)
}

func (e *Events) changed(ctx context.Context, customerID *int64) {
	if e == nil || customerID == nil {
		return
	}
	if err := e.Cache.Bump(ctx, *customerID); err != nil {
		e.Logger.Warn("ledger cache bump", slog.Int64("customer_id", *customerID), slog.Any("error", err))
	}
	if e.Enqueuer != nil {
		if err := e.Enqueuer.EnqueueLedgerWarmup(ctx, *customerID); err != nil {
			e.Logger.Warn("ledger warmup enqueue", slog.Int64("customer_id", *customerID), slog.Any("error", err))
		}
	}
}
