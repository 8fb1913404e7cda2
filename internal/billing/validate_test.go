package billing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateInvoiceClean(t *testing.T) {
	vs := ValidateInvoice(InvoiceDraft{
		Type:  InvoiceTypeGST,
		Lines: []Line{{Quantity: Quantity{Boxes: 1}, PricePerBox: 118, TaxRate: 18}},
	})
	require.Empty(t, vs)
}

func TestValidateInvoiceCollectsAllViolations(t *testing.T) {
	vs := ValidateInvoice(InvoiceDraft{
		Type:     "SOMETHING",
		Discount: -5,
		Lines: []Line{
			{Quantity: Quantity{Boxes: -1}, PricePerBox: -10, TaxRate: 200},
			{Quantity: Quantity{Boxes: 2, Pieces: 1}, PricePerPiece: 10, IsCustom: true},
		},
	})
	fields := make(map[string]bool)
	for _, v := range vs {
		fields[v.Field] = true
	}
	require.True(t, fields["invoice_type"])
	require.True(t, fields["discount"])
	require.True(t, fields["items.0.quantity"])
	require.True(t, fields["items.0.price"])
	require.True(t, fields["items.0.tax_rate"])
	require.True(t, fields["items.1.quantity"])
}

func TestValidateInvoiceDiscountExceedsTotal(t *testing.T) {
	vs := ValidateInvoice(InvoiceDraft{
		Type:     InvoiceTypeNonGST,
		Discount: 500,
		Lines:    []Line{{Quantity: Quantity{Boxes: 1}, PricePerBox: 100}},
	})
	require.Contains(t, vs, Violation{Field: "discount", Message: "exceeds invoice total"})
}

func TestValidateReturn(t *testing.T) {
	vs := ValidateReturn([]ReturnLineCheck{
		{Requested: Quantity{Boxes: 1}, Invoiced: Quantity{Boxes: 2}, PiecesPerBox: 4},
		{Requested: Quantity{Boxes: 3}, Invoiced: Quantity{Boxes: 2}, PiecesPerBox: 4},
		{Requested: Quantity{}, Invoiced: Quantity{Boxes: 2}, PiecesPerBox: 4},
	})
	require.Len(t, vs, 2)
	require.Equal(t, "items.1.return_quantity", vs[0].Field)
	require.Equal(t, "items.2.return_quantity", vs[1].Field)
}

func TestValidatePayment(t *testing.T) {
	require.Empty(t, ValidatePayment(50, 100))
	require.NotEmpty(t, ValidatePayment(0, 100))
	require.NotEmpty(t, ValidatePayment(150, 100))
}
