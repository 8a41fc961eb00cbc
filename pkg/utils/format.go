// Package utils provides small formatting and time helpers shared by ratewatch packages.
package utils

import "strconv"

// FormatRate formats a rate with exactly two decimals, e.g. 278.456 → "278.46".
func FormatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
