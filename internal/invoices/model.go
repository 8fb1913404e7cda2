package invoices

import (
	"time"

	"github.com/hindustan-tiles/tiles-erp/internal/billing"
	"github.com/hindustan-tiles/tiles-erp/internal/customers"
)

// Invoice is a sale document. All monetary fields are derived once through
// the billing package when the invoice is saved and persisted as-is; nothing
// recomputes them on read.
type Invoice struct {
	ID             int64               `json:"id"`
	Number         string              `json:"invoice_number"`
	Type           billing.InvoiceType `json:"invoice_type"`
	Date           time.Time           `json:"invoice_date"`
	CustomerID     *int64              `json:"customer_id,omitempty"`
	Customer       customers.Snapshot  `json:"customer_details"`
	Subtotal       float64             `json:"subtotal"`
	TotalTax       float64             `json:"total_tax"`
	CGST           float64             `json:"cgst"`
	SGST           float64             `json:"sgst"`
	IGST           float64             `json:"igst"`
	Discount       float64             `json:"discount"`
	RoundOffAmount float64             `json:"round_off_amount"`
	FinalAmount    float64             `json:"final_amount"`
	PaidAtCreation float64             `json:"paid_at_creation"`
	Notes          *string             `json:"notes,omitempty"`
	CreatedBy      int64               `json:"created_by"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Items          []Item              `json:"items,omitempty"`
}

// Item is one invoice row, owned exclusively by its parent invoice. Catalog
// fields are snapshotted at save time; a later product edit does not touch
// past invoices.
type Item struct {
	ID            int64            `json:"id"`
	InvoiceID     int64            `json:"invoice_id"`
	ProductID     *int64           `json:"product_id,omitempty"`
	Name          string           `json:"name"`
	HSNNo         string           `json:"hsn_no"`
	Quantity      billing.Quantity `json:"quantity"`
	PiecesPerBox  int              `json:"pieces_per_box"`
	PricePerBox   float64          `json:"price_per_box"`
	PricePerPiece float64          `json:"price_per_piece"`
	TaxRate       float64          `json:"tax_rate"`
	ItemTotal     float64          `json:"item_total"`
	TaxAmount     float64          `json:"tax_amount"`
	IsCustom      bool             `json:"is_custom"`
	LineOrder     int              `json:"line_order"`
}

// PaymentState is the derived settlement position of an invoice.
type PaymentState struct {
	TotalPaid     float64 `json:"total_paid"`
	PendingAmount float64 `json:"pending_amount"`
}

// InvoiceWithState pairs an invoice with its settlement position.
type InvoiceWithState struct {
	Invoice
	Payment PaymentState `json:"payment"`
}
