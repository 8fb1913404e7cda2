package billing

import "testing"

func TestAvailableWorkedExample(t *testing.T) {
	// 10 boxes of 4 in stock, 2 boxes 2 pieces sold: 40 - 10 = 30 pieces left.
	c := StockCounters{
		Stock: Quantity{Boxes: 10},
		Sales: Quantity{Boxes: 2, Pieces: 2},
	}
	got := Available(c, 4)
	if got.Boxes != 7 || got.Pieces != 2 {
		t.Fatalf("expected 7 bx, 2 pc; got %+v", got)
	}
}

func TestAvailableNeverNegative(t *testing.T) {
	c := StockCounters{
		Stock:  Quantity{Boxes: 1},
		Sales:  Quantity{Boxes: 5},
		Damage: Quantity{Pieces: 3},
	}
	got := Available(c, 4)
	if got.Boxes < 0 || got.Pieces < 0 || !got.IsZero() {
		t.Fatalf("expected zero availability, got %+v", got)
	}
}

func TestAvailableCountsReturns(t *testing.T) {
	c := StockCounters{
		Stock:   Quantity{Boxes: 2},
		Sales:   Quantity{Boxes: 2},
		Returns: Quantity{Pieces: 5},
	}
	got := Available(c, 4)
	if got.Boxes != 1 || got.Pieces != 1 {
		t.Fatalf("expected 1 bx, 1 pc; got %+v", got)
	}
}
