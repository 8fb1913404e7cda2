package billing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPriceLineNonGST(t *testing.T) {
	p := PriceLine(Line{
		Quantity:    Quantity{Boxes: 2},
		PricePerBox: 100,
	}, InvoiceTypeNonGST)
	require.Equal(t, 200.0, p.ItemTotal)
	require.Zero(t, p.TaxAmount)
}

func TestPriceLineGSTExtractsInclusiveTax(t *testing.T) {
	p := PriceLine(Line{
		Quantity:    Quantity{Boxes: 1},
		PricePerBox: 118,
		TaxRate:     18,
	}, InvoiceTypeGST)
	require.InDelta(t, 100.0, p.ItemTotal, 1e-9)
	require.InDelta(t, 18.0, p.TaxAmount, 1e-9)
}

func TestPriceLineGSTZeroRateStaysExclusive(t *testing.T) {
	p := PriceLine(Line{
		Quantity:    Quantity{Boxes: 1},
		PricePerBox: 118,
	}, InvoiceTypeGST)
	require.Equal(t, 118.0, p.ItemTotal)
	require.Zero(t, p.TaxAmount)
}

func TestPriceLineCustomIgnoresBoxes(t *testing.T) {
	p := PriceLine(Line{
		Quantity:      Quantity{Boxes: 5, Pieces: 3},
		PricePerBox:   1000,
		PricePerPiece: 40,
		IsCustom:      true,
	}, InvoiceTypeNonGST)
	require.Equal(t, 120.0, p.ItemTotal)
}

func TestPriceLineMixedBoxesAndPieces(t *testing.T) {
	p := PriceLine(Line{
		Quantity:      Quantity{Boxes: 2, Pieces: 3},
		PricePerBox:   100,
		PricePerPiece: 25,
	}, InvoiceTypeNonGST)
	require.Equal(t, 275.0, p.ItemTotal)
}

// Tax identity from the quantity of real-world rates: reassembling base and
// tax must give back the entered price.
func TestTaxIdentity(t *testing.T) {
	rates := []float64{5, 12, 18, 28, 3.5}
	prices := []float64{1, 99.99, 118, 1234.56, 100000}
	for _, r := range rates {
		for _, price := range prices {
			p := PriceLine(Line{Quantity: Quantity{Boxes: 1}, PricePerBox: price, TaxRate: r}, InvoiceTypeGST)
			if math.Abs(p.ItemTotal*(1+r/100)-price) > 1e-9*price {
				t.Fatalf("tax identity broken for rate %.2f price %.2f", r, price)
			}
			if math.Abs(p.ItemTotal+p.TaxAmount-price) > 1e-9*price {
				t.Fatalf("base+tax != price for rate %.2f price %.2f", r, price)
			}
		}
	}
}

func TestMigrateTaxRate(t *testing.T) {
	require.Equal(t, DefaultTaxRate, MigrateTaxRate(0, InvoiceTypeGST))
	require.Equal(t, 12.0, MigrateTaxRate(12, InvoiceTypeGST))
	require.Zero(t, MigrateTaxRate(0, InvoiceTypeNonGST))
}

func TestDefaultPricePerPiece(t *testing.T) {
	require.Equal(t, 25.0, DefaultPricePerPiece(100, 4))
	require.Equal(t, 100.0, DefaultPricePerPiece(100, 0))
}
