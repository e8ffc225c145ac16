// Package currency provides integer-cents money arithmetic and display
// formatting. All amounts in the engine are int64 cents; floats only
// appear at the dollar conversion boundary.
package currency

import (
	"fmt"
	"math"
)

// DollarsToCents converts a dollar amount to cents, rounding to the
// nearest cent.
func DollarsToCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

// CentsToDollars converts cents to a dollar amount.
func CentsToDollars(cents int64) float64 {
	return float64(cents) / 100
}

// AddCents returns a + b.
func AddCents(a, b int64) int64 {
	return a + b
}

// SubtractCents returns a - b. The result may be negative; affordability
// checks are the caller's job.
func SubtractCents(a, b int64) int64 {
	return a - b
}

// MultiplyCents returns cents * count.
func MultiplyCents(cents int64, count int) int64 {
	return cents * int64(count)
}

// FormatCents renders cents as a dollar string, e.g. 1234 → "$12.34".
// With showSign, positive amounts get a "+" prefix; negative amounts are
// always rendered with "-" before the dollar sign.
func FormatCents(cents int64, showSign bool) string {
	abs := cents
	if abs < 0 {
		abs = -abs
	}
	s := fmt.Sprintf("$%d.%02d", abs/100, abs%100)
	if cents < 0 {
		return "-" + s
	}
	if showSign && cents > 0 {
		return "+" + s
	}
	return s
}

// BillCount returns how many whole-dollar bills it takes to represent the
// amount, minimum one. Display helper only.
func BillCount(cents int64) int {
	if cents <= 100 {
		return 1
	}
	return int((cents + 99) / 100)
}
