// Package billing holds the shared pricing, stock and ledger arithmetic for the
// tiles shop. Every function is pure and total: no I/O, no clock, no panics,
// safe to call concurrently. The HTTP services and the background worker both
// import this package so that displayed and persisted amounts can never drift.
package billing

import "fmt"

// DefaultPiecesPerBox is used whenever a product carries no box size.
// 1 makes the conversion an identity and never inflates availability.
const DefaultPiecesPerBox = 1

// Quantity is a mixed box/piece count, always interpreted relative to a
// product's pieces-per-box.
type Quantity struct {
	Boxes  int `json:"boxes"`
	Pieces int `json:"pieces"`
}

// ToBaseUnits converts a quantity to a flat piece count.
func ToBaseUnits(q Quantity, piecesPerBox int) int {
	if piecesPerBox < 1 {
		piecesPerBox = DefaultPiecesPerBox
	}
	return q.Boxes*piecesPerBox + q.Pieces
}

// FromBaseUnits converts a flat piece count back to boxes and pieces.
// The result is normalized: Pieces < piecesPerBox.
func FromBaseUnits(totalPieces, piecesPerBox int) Quantity {
	if piecesPerBox < 1 {
		piecesPerBox = DefaultPiecesPerBox
	}
	if totalPieces < 0 {
		totalPieces = 0
	}
	return Quantity{Boxes: totalPieces / piecesPerBox, Pieces: totalPieces % piecesPerBox}
}

// IsZero reports whether the quantity counts nothing.
func (q Quantity) IsZero() bool {
	return q.Boxes == 0 && q.Pieces == 0
}

// Format renders a quantity the way printed invoices show it. The exact
// strings ("2 bx, 3 pc") are part of the print interop surface and must not
// change.
func (q Quantity) Format() string {
	switch {
	case q.Boxes == 0 && q.Pieces == 0:
		return "0"
	case q.Boxes == 0:
		return fmt.Sprintf("%d pc", q.Pieces)
	case q.Pieces == 0:
		return fmt.Sprintf("%d bx", q.Boxes)
	default:
		return fmt.Sprintf("%d bx, %d pc", q.Boxes, q.Pieces)
	}
}
