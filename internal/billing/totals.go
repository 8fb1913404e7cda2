package billing

import "math"

// Totals is the derived money block persisted on an invoice header.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	TotalTax       float64 `json:"total_tax"`
	CGST           float64 `json:"cgst"`
	SGST           float64 `json:"sgst"`
	IGST           float64 `json:"igst"`
	Discount       float64 `json:"discount"`
	RoundOffAmount float64 `json:"round_off_amount"`
	FinalAmount    float64 `json:"final_amount"`
}

// Aggregate sums line prices, applies the invoice-level discount and rounds
// the grand total to the nearest whole rupee (half-up). RoundOffAmount is the
// signed difference the rounding introduced, so that
//
//	FinalAmount - RoundOffAmount == Subtotal + TotalTax - Discount
//
// holds exactly.
//
// On GST invoices tax splits evenly into CGST and SGST. IGST is carried but
// always zero: the shop sells intra-state only.
func Aggregate(lines []LinePrice, discount float64, t InvoiceType) Totals {
	var subtotal, totalTax float64
	for _, l := range lines {
		subtotal += l.ItemTotal
		totalTax += l.TaxAmount
	}

	totalAmount := subtotal + totalTax - discount
	finalAmount := math.Floor(totalAmount + 0.5)

	totals := Totals{
		Subtotal:       subtotal,
		TotalTax:       totalTax,
		Discount:       discount,
		RoundOffAmount: finalAmount - totalAmount,
		FinalAmount:    finalAmount,
	}
	if t == InvoiceTypeGST {
		totals.CGST = totalTax / 2
		totals.SGST = totalTax / 2
	}
	return totals
}
