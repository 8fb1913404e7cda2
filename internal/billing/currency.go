package billing

import (
	"fmt"
	"strconv"
)

// FormatCurrency renders an amount the way printed documents show it: rupee
// sign, two decimals, no locale grouping. Fixed on purpose; the generated
// print HTML is compared byte-for-byte downstream.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}

// ParseAmount coerces free-form numeric input to a float. Anything that does
// not parse counts as zero; money fields fail soft, they never reject.
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseCount coerces free-form integer input, clamping negatives to zero.
func ParseCount(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
