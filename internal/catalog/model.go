package catalog

import (
	"time"

	"github.com/hindustan-tiles/tiles-erp/internal/billing"
)

// CounterKind names one of the four per-product stock counters. No single
// counter is authoritative; availability is always derived from all four.
type CounterKind string

const (
	CounterStock   CounterKind = "stock"
	CounterSales   CounterKind = "sales"
	CounterDamage  CounterKind = "damage"
	CounterReturns CounterKind = "returns"
)

// Product is a catalog tile product with its stock counters.
type Product struct {
	ID           int64                 `json:"id"`
	Name         string                `json:"name"`
	Size         string                `json:"size"`
	HSNNo        string                `json:"hsn_no"`
	PiecesPerBox int                   `json:"pieces_per_box"`
	PricePerBox  float64               `json:"price_per_box"`
	ImageURL     *string               `json:"image_url,omitempty"`
	IsActive     bool                  `json:"is_active"`
	Counters     billing.StockCounters `json:"counters"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// Available derives the sellable quantity from the counters.
func (p *Product) Available() billing.Quantity {
	return billing.Available(p.Counters, p.PiecesPerBox)
}
