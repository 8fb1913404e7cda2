package billing

import "fmt"

// Violation describes one broken constraint. Field uses dotted paths for line
// items ("items.2.quantity").
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// InvoiceDraft is the validation view of an invoice before it is priced and
// saved. The arithmetic in this package accepts anything; constraint checks
// are separate and explicitly callable, so callers decide when to enforce.
type InvoiceDraft struct {
	Type     InvoiceType
	Discount float64
	Lines    []Line
}

// ValidateInvoice returns every broken constraint on a draft, or nil when it
// is clean. It never rejects by raising: out-of-range input is reported, not
// thrown.
func ValidateInvoice(d InvoiceDraft) []Violation {
	var vs []Violation
	if d.Type != InvoiceTypeGST && d.Type != InvoiceTypeNonGST {
		vs = append(vs, Violation{Field: "invoice_type", Message: "must be GST or NON_GST"})
	}
	if d.Discount < 0 {
		vs = append(vs, Violation{Field: "discount", Message: "must not be negative"})
	}
	if len(d.Lines) == 0 {
		vs = append(vs, Violation{Field: "items", Message: "at least one item required"})
	}

	var prices []LinePrice
	for i, l := range d.Lines {
		prefix := fmt.Sprintf("items.%d", i)
		if l.Quantity.Boxes < 0 || l.Quantity.Pieces < 0 {
			vs = append(vs, Violation{Field: prefix + ".quantity", Message: "must not be negative"})
		}
		if l.Quantity.IsZero() {
			vs = append(vs, Violation{Field: prefix + ".quantity", Message: "must not be zero"})
		}
		if l.IsCustom && l.Quantity.Boxes > 0 {
			vs = append(vs, Violation{Field: prefix + ".quantity", Message: "custom items are priced per piece only"})
		}
		if l.PricePerBox < 0 || l.PricePerPiece < 0 {
			vs = append(vs, Violation{Field: prefix + ".price", Message: "must not be negative"})
		}
		if l.TaxRate < 0 || l.TaxRate > 100 {
			vs = append(vs, Violation{Field: prefix + ".tax_rate", Message: "must be between 0 and 100"})
		}
		prices = append(prices, PriceLine(l, d.Type))
	}

	if totals := Aggregate(prices, d.Discount, d.Type); totals.FinalAmount < 0 {
		vs = append(vs, Violation{Field: "discount", Message: "exceeds invoice total"})
	}
	return vs
}

// ReturnLineCheck pairs a requested return quantity with what the invoice
// actually sold, both in base units of the same product.
type ReturnLineCheck struct {
	Requested    Quantity
	Invoiced     Quantity
	PiecesPerBox int
}

// ValidateReturn checks return quantities against invoiced quantities.
func ValidateReturn(lines []ReturnLineCheck) []Violation {
	var vs []Violation
	for i, l := range lines {
		prefix := fmt.Sprintf("items.%d", i)
		if l.Requested.Boxes < 0 || l.Requested.Pieces < 0 {
			vs = append(vs, Violation{Field: prefix + ".return_quantity", Message: "must not be negative"})
			continue
		}
		if l.Requested.IsZero() {
			vs = append(vs, Violation{Field: prefix + ".return_quantity", Message: "must not be zero"})
			continue
		}
		if ToBaseUnits(l.Requested, l.PiecesPerBox) > ToBaseUnits(l.Invoiced, l.PiecesPerBox) {
			vs = append(vs, Violation{Field: prefix + ".return_quantity", Message: "exceeds invoiced quantity"})
		}
	}
	return vs
}

// ValidatePayment checks a collection amount against the invoice's open
// balance.
func ValidatePayment(amount, pending float64) []Violation {
	var vs []Violation
	if amount <= 0 {
		vs = append(vs, Violation{Field: "amount", Message: "must be positive"})
	}
	if amount > pending {
		vs = append(vs, Violation{Field: "amount", Message: "exceeds pending amount"})
	}
	return vs
}
