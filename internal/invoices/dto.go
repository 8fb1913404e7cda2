package invoices

import (
	"time"

	"github.com/hindustan-tiles/tiles-erp/internal/billing"
	"github.com/hindustan-tiles/tiles-erp/internal/customers"
)

// ItemRequest is one row of an invoice form. Quantity and price fields arrive
// as strings from the form and fail soft to zero; the JSON API keeps them
// numeric and lets billing validation report nonsense.
type ItemRequest struct {
	ProductID     *int64           `json:"product_id,omitempty"`
	Name          string           `json:"name" validate:"max=160"`
	HSNNo         string           `json:"hsn_no" validate:"max=20"`
	Quantity      billing.Quantity `json:"quantity"`
	PricePerBox   float64          `json:"price_per_box"`
	PricePerPiece *float64         `json:"price_per_piece,omitempty"`
	TaxRate       *float64         `json:"tax_rate,omitempty"`
	IsCustom      bool             `json:"is_custom"`
}

type CreateInvoiceRequest struct {
	Type            billing.InvoiceType `json:"invoice_type" validate:"required,oneof=GST NON_GST"`
	Date            time.Time           `json:"invoice_date" validate:"required"`
	CustomerID      *int64              `json:"customer_id,omitempty"`
	CustomerDetails *customers.Snapshot `json:"customer_details,omitempty"`
	Discount        float64             `json:"discount"`
	PaidAtCreation  float64             `json:"paid_at_creation" validate:"gte=0"`
	Notes           *string             `json:"notes,omitempty"`
	Items           []ItemRequest       `json:"items" validate:"required,min=1,dive"`
	IdempotencyKey  string              `json:"idempotency_key,omitempty" validate:"omitempty,max=64"`
}

type UpdateInvoiceRequest struct {
	Type            *billing.InvoiceType `json:"invoice_type,omitempty" validate:"omitempty,oneof=GST NON_GST"`
	Date            *time.Time           `json:"invoice_date,omitempty"`
	CustomerDetails *customers.Snapshot  `json:"customer_details,omitempty"`
	Discount        *float64             `json:"discount,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
	Items           *[]ItemRequest       `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

type ListInvoicesRequest struct {
	Type       billing.InvoiceType
	CustomerID *int64
	Search     string
	DateFrom   time.Time
	DateTo     time.Time
	Limit      int
	Offset     int
}
