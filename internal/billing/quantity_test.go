package billing

import "testing"

func TestBaseUnitRoundTrip(t *testing.T) {
	for ppb := 1; ppb <= 12; ppb++ {
		for total := 0; total <= 500; total++ {
			q := FromBaseUnits(total, ppb)
			if q.Pieces >= ppb {
				t.Fatalf("FromBaseUnits(%d, %d) not normalized: %+v", total, ppb, q)
			}
			if got := ToBaseUnits(q, ppb); got != total {
				t.Fatalf("round trip failed for total=%d ppb=%d: got %d", total, ppb, got)
			}
		}
	}
}

func TestFromBaseUnitsClampsNegative(t *testing.T) {
	if q := FromBaseUnits(-7, 4); !q.IsZero() {
		t.Fatalf("expected zero quantity, got %+v", q)
	}
}

func TestConversionDefaultsPiecesPerBox(t *testing.T) {
	// A missing or nonsense box size falls back to 1, the identity.
	if got := ToBaseUnits(Quantity{Boxes: 3, Pieces: 2}, 0); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if q := FromBaseUnits(5, -2); q.Boxes != 5 || q.Pieces != 0 {
		t.Fatalf("unexpected quantity %+v", q)
	}
}

func TestQuantityFormat(t *testing.T) {
	cases := []struct {
		q    Quantity
		want string
	}{
		{Quantity{}, "0"},
		{Quantity{Pieces: 3}, "3 pc"},
		{Quantity{Boxes: 2}, "2 bx"},
		{Quantity{Boxes: 2, Pieces: 3}, "2 bx, 3 pc"},
	}
	for _, c := range cases {
		if got := c.q.Format(); got != c.want {
			t.Fatalf("Format(%+v) = %q, want %q", c.q, got, c.want)
		}
	}
}
