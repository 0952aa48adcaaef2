package exporter

import (
	"math"
	"strconv"
)

// FormatFloat renders a float in its shortest round-trip decimal form
// without exponent; NaN renders as "NaN".
func FormatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatQuantile renders a quantile fraction such as 0.999
func FormatQuantile(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// cellValue converts a float for a spreadsheet cell; NaN becomes an empty cell
func cellValue(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return f
}
