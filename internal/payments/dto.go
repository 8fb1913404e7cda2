package payments

import "time"

type CreatePaymentRequest struct {
	InvoiceID     int64     `json:"invoice_id" validate:"required"`
	Amount        float64   `json:"amount" validate:"required"`
	Method        string    `json:"method" validate:"omitempty,oneof=CASH UPI CARD BANK CHEQUE"`
	Date          time.Time `json:"payment_date" validate:"required"`
	TransactionID string    `json:"transaction_id,omitempty" validate:"omitempty,max=64"`
	Notes         *string   `json:"notes,omitempty"`
}

type ListPaymentsRequest struct {
	InvoiceID *int64
	DateFrom  time.Time
	DateTo    time.Time
	Limit     int
	Offset    int
}
