package payments

import "time"

// Payment is one collection against an invoice. Rows are append-only;
// corrections happen by deleting the row, never by editing it.
// RemainingAmount snapshots the invoice's open balance right after this
// payment, so statements can show it without recomputing history.
type Payment struct {
	ID              int64     `json:"id"`
	InvoiceID       int64     `json:"invoice_id"`
	TransactionID   string    `json:"transaction_id"`
	Amount          float64   `json:"amount"`
	Method          string    `json:"method"`
	Date            time.Time `json:"payment_date"`
	Notes           *string   `json:"notes,omitempty"`
	RemainingAmount float64   `json:"remaining_amount"`
	CreatedBy       int64     `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}
