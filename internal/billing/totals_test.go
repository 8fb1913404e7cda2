package billing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregateNonGSTExample(t *testing.T) {
	lines := []LinePrice{{ItemTotal: 200}}
	totals := Aggregate(lines, 0, InvoiceTypeNonGST)
	require.Equal(t, 200.0, totals.Subtotal)
	require.Equal(t, 200.0, totals.FinalAmount)
	require.Zero(t, totals.RoundOffAmount)
	require.Zero(t, totals.CGST)
}

func TestAggregateGSTExample(t *testing.T) {
	p := PriceLine(Line{Quantity: Quantity{Boxes: 1}, PricePerBox: 118, TaxRate: 18}, InvoiceTypeGST)
	totals := Aggregate([]LinePrice{p}, 0, InvoiceTypeGST)
	require.InDelta(t, 100.0, totals.Subtotal, 1e-9)
	require.InDelta(t, 18.0, totals.TotalTax, 1e-9)
	require.InDelta(t, 9.0, totals.CGST, 1e-9)
	require.InDelta(t, 9.0, totals.SGST, 1e-9)
	require.Zero(t, totals.IGST)
	require.Equal(t, 118.0, totals.FinalAmount)
}

func TestAggregateRoundsHalfUp(t *testing.T) {
	totals := Aggregate([]LinePrice{{ItemTotal: 100.5}}, 0, InvoiceTypeNonGST)
	require.Equal(t, 101.0, totals.FinalAmount)
	require.InDelta(t, 0.5, totals.RoundOffAmount, 1e-9)

	totals = Aggregate([]LinePrice{{ItemTotal: 100.49}}, 0, InvoiceTypeNonGST)
	require.Equal(t, 100.0, totals.FinalAmount)
	require.InDelta(t, -0.49, totals.RoundOffAmount, 1e-9)
}

// The persisted identity: finalAmount - roundOffAmount == subtotal + totalTax - discount,
// for arbitrary line sets, not just friendly literals.
func TestTotalsIdentityRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		n := rng.Intn(8) + 1
		lines := make([]LinePrice, n)
		for j := range lines {
			p := PriceLine(Line{
				Quantity:      Quantity{Boxes: rng.Intn(20), Pieces: rng.Intn(10)},
				PricePerBox:   rng.Float64() * 5000,
				PricePerPiece: rng.Float64() * 500,
				TaxRate:       float64(rng.Intn(29)),
			}, InvoiceTypeGST)
			lines[j] = p
		}
		discount := rng.Float64() * 100
		totals := Aggregate(lines, discount, InvoiceTypeGST)

		lhs := totals.FinalAmount - totals.RoundOffAmount
		rhs := totals.Subtotal + totals.TotalTax - discount
		if math.Abs(lhs-rhs) > 1e-6 {
			t.Fatalf("identity broken at iteration %d: lhs=%v rhs=%v", i, lhs, rhs)
		}
		if math.Abs(totals.RoundOffAmount) > 0.5+1e-9 {
			t.Fatalf("round off out of range: %v", totals.RoundOffAmount)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	require.Equal(t, "₹118.00", FormatCurrency(118))
	require.Equal(t, "₹0.50", FormatCurrency(0.5))
	require.Equal(t, "₹-12.34", FormatCurrency(-12.34))
}

func TestParseAmountFailsSoft(t *testing.T) {
	require.Equal(t, 12.5, ParseAmount("12.5"))
	require.Zero(t, ParseAmount("abc"))
	require.Zero(t, ParseAmount(""))
	require.Equal(t, 3, ParseCount("3"))
	require.Zero(t, ParseCount("-3"))
	require.Zero(t, ParseCount("x"))
}
