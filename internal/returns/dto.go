package returns

import (
	"time"

	"github.com/hindustan-tiles/tiles-erp/internal/billing"
)

// ItemRequest names an invoice item and how much of it is coming back.
// ReturnValue overrides the pro-rata default when the shop negotiates a
// different credit.
type ItemRequest struct {
	InvoiceItemID int64            `json:"invoice_item_id" validate:"required"`
	Quantity      billing.Quantity `json:"return_quantity"`
	ReturnValue   *float64         `json:"return_value,omitempty" validate:"omitempty,gte=0"`
}

type ExchangeRequest struct {
	ProductID *int64           `json:"product_id,omitempty"`
	Name      string           `json:"name" validate:"max=160"`
	Quantity  billing.Quantity `json:"quantity"`
}

type CreateReturnRequest struct {
	InvoiceID int64             `json:"invoice_id" validate:"required"`
	Type      ReturnType        `json:"return_type" validate:"required,oneof=CREDIT REFUND EXCHANGE"`
	Date      time.Time         `json:"return_date" validate:"required"`
	Notes     *string           `json:"notes,omitempty"`
	Items     []ItemRequest     `json:"items" validate:"required,min=1,dive"`
	Exchanges []ExchangeRequest `json:"exchange_items,omitempty" validate:"omitempty,dive"`
}

type ListReturnsRequest struct {
	InvoiceID *int64
	DateFrom  time.Time
	DateTo    time.Time
	Limit     int
	Offset    int
}
