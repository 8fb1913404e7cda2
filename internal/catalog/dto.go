package catalog

import "github.com/hindustan-tiles/tiles-erp/internal/billing"

type CreateProductRequest struct {
	Name         string  `json:"name" validate:"required,max=160"`
	Size         string  `json:"size" validate:"max=40"`
	HSNNo        string  `json:"hsn_no" validate:"max=20"`
	PiecesPerBox int     `json:"pieces_per_box" validate:"gte=0"`
	PricePerBox  float64 `json:"price_per_box" validate:"gte=0"`
	ImageURL     *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,max=160"`
	Size         *string  `json:"size,omitempty" validate:"omitempty,max=40"`
	HSNNo        *string  `json:"hsn_no,omitempty" validate:"omitempty,max=20"`
	PiecesPerBox *int     `json:"pieces_per_box,omitempty" validate:"omitempty,gte=1"`
	PricePerBox  *float64 `json:"price_per_box,omitempty" validate:"omitempty,gte=0"`
	ImageURL     *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

// AdjustStockRequest records received stock or a damage write-off. Sales and
// returns counters are bumped by the invoice and return flows, never here.
type AdjustStockRequest struct {
	Counter  CounterKind      `json:"counter" validate:"required,oneof=stock damage"`
	Quantity billing.Quantity `json:"quantity"`
	Note     string           `json:"note" validate:"max=300"`
}

type ListProductsRequest struct {
	Search     string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ProductView is a product plus its derived availability, ready for display.
type ProductView struct {
	Product
	AvailableQty     billing.Quantity `json:"available"`
	AvailableDisplay string           `json:"available_display"`
	PricePerPiece    float64          `json:"price_per_piece"`
}
