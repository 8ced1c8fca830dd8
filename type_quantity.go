package reconcile

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// FormatQuantity renders v with the fewest digits that read back to the same
// float, without exponent and without trailing zeros: 10, -100, 175.75.
func FormatQuantity(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		// decimal cannot hold them, fall back to the Go notation.
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return decimal.NewFromFloat(v).String()
}

// FormatDifference renders v in the shortest general notation that reads back
// to the same float, switching to an exponent for very small or large
// magnitudes: 10, -100, 175.75, 1e+21, -1.1102230246251565e-16.
func FormatDifference(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
