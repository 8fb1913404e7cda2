package returns

import (
	"time"

	"github.com/hindustan-tiles/tiles-erp/internal/billing"
)

// ReturnType distinguishes how a return is settled: as a ledger credit, a
// cash refund, or an exchange for other goods.
type ReturnType string

const (
	ReturnCredit   ReturnType = "CREDIT"
	ReturnRefund   ReturnType = "REFUND"
	ReturnExchange ReturnType = "EXCHANGE"
)

// Return records goods coming back against an invoice. TotalValue is the
// value of the returned goods; CreditAmount is what actually lands on the
// customer's ledger after exchange goods are netted off.
type Return struct {
	ID           int64      `json:"id"`
	InvoiceID    int64      `json:"invoice_id"`
	Type         ReturnType `json:"return_type"`
	Date         time.Time  `json:"return_date"`
	TotalValue   float64    `json:"total_value"`
	CreditAmount float64    `json:"credit_amount"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedBy    int64      `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	Items        []Item     `json:"items,omitempty"`
	Exchanges    []Exchange `json:"exchange_items,omitempty"`
}

// Item is one returned invoice line.
type Item struct {
	ID            int64            `json:"id"`
	ReturnID      int64            `json:"return_id"`
	InvoiceItemID int64            `json:"invoice_item_id"`
	ProductID     *int64           `json:"product_id,omitempty"`
	Name          string           `json:"name"`
	Quantity      billing.Quantity `json:"return_quantity"`
	PiecesPerBox  int              `json:"pieces_per_box"`
	ReturnValue   float64          `json:"return_value"`
}

// Exchange is a line of goods handed out in place of the returned ones.
type Exchange struct {
	ID           int64            `json:"id"`
	ReturnID     int64            `json:"return_id"`
	ProductID    *int64           `json:"product_id,omitempty"`
	Name         string           `json:"name"`
	Quantity     billing.Quantity `json:"quantity"`
	PiecesPerBox int              `json:"pieces_per_box"`
	PricePerBox  float64          `json:"price_per_box"`
	Value        float64          `json:"value"`
}
