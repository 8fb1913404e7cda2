package billing

// InvoiceType distinguishes GST invoices (tax-inclusive entry prices) from
// plain ones.
type InvoiceType string

const (
	InvoiceTypeGST    InvoiceType = "GST"
	InvoiceTypeNonGST InvoiceType = "NON_GST"
)

// DefaultTaxRate is applied when a line is added to a GST invoice without an
// explicit rate.
const DefaultTaxRate = 18.0

// Line is the pricing input for one invoice row.
type Line struct {
	Quantity      Quantity
	PiecesPerBox  int
	PricePerBox   float64
	PricePerPiece float64
	TaxRate       float64
	IsCustom      bool
}

// LinePrice is the computed money for one invoice row. ItemTotal is always
// tax-exclusive; on a GST line the entered price is treated as tax-inclusive
// and decomposed.
type LinePrice struct {
	ItemTotal float64
	TaxAmount float64
}

// DefaultPricePerPiece derives the per-piece price from the box price. The
// piece price stays independently editable afterwards; this is only the value
// it resets to when the box price changes.
func DefaultPricePerPiece(pricePerBox float64, piecesPerBox int) float64 {
	if piecesPerBox < 1 {
		piecesPerBox = DefaultPiecesPerBox
	}
	return pricePerBox / float64(piecesPerBox)
}

// DefaultTaxRateFor returns the rate a newly added line starts with.
func DefaultTaxRateFor(t InvoiceType) float64 {
	if t == InvoiceTypeGST {
		return DefaultTaxRate
	}
	return 0
}

// MigrateTaxRate promotes a zero rate to the GST default when an invoice is
// switched to GST. The promotion is one-way: switching back does not restore
// the old rate.
func MigrateTaxRate(rate float64, t InvoiceType) float64 {
	if t == InvoiceTypeGST && rate == 0 {
		return DefaultTaxRate
	}
	return rate
}

// PriceLine computes the tax-exclusive amount and tax for one row.
//
// Catalog lines price boxes and pieces separately; custom lines (no catalog
// product behind them) are priced per piece only. On a GST invoice with a
// positive rate the entered price is tax-inclusive and gets split into base
// and tax; everywhere else tax is zero.
func PriceLine(l Line, t InvoiceType) LinePrice {
	var total float64
	if l.IsCustom {
		total = float64(l.Quantity.Pieces) * l.PricePerPiece
	} else {
		total = float64(l.Quantity.Boxes)*l.PricePerBox + float64(l.Quantity.Pieces)*l.PricePerPiece
	}

	if t == InvoiceTypeGST && l.TaxRate > 0 {
		itemTotal := total / (1 + l.TaxRate/100)
		return LinePrice{ItemTotal: itemTotal, TaxAmount: total - itemTotal}
	}
	return LinePrice{ItemTotal: total}
}
