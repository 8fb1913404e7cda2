package billing

// StockCounters are the four independent per-product counters the backend
// maintains. None of them is authoritative on its own; availability is always
// derived from all four.
type StockCounters struct {
	Stock   Quantity `json:"stock"`
	Sales   Quantity `json:"sales"`
	Damage  Quantity `json:"damage"`
	Returns Quantity `json:"returns"`
}

// Available derives sellable quantity: stock - sales - damage + returns,
// floored at zero. The UI and the persistence side must agree on this formula,
// which is why it lives here and nowhere else.
func Available(c StockCounters, piecesPerBox int) Quantity {
	pieces := ToBaseUnits(c.Stock, piecesPerBox) -
		ToBaseUnits(c.Sales, piecesPerBox) -
		ToBaseUnits(c.Damage, piecesPerBox) +
		ToBaseUnits(c.Returns, piecesPerBox)
	if pieces < 0 {
		pieces = 0
	}
	return FromBaseUnits(pieces, piecesPerBox)
}
