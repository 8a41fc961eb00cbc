package datasource

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Matcher tests the trimmed text of a row's first cell.
type Matcher func(label string) bool

// Contains matches labels that contain substr.
func Contains(substr string) Matcher {
	return func(label string) bool { return strings.Contains(label, substr) }
}

// EqualFold matches labels equal to want, ignoring case.
func EqualFold(want string) Matcher {
	return func(label string) bool { return strings.EqualFold(label, want) }
}

// RowValue scans rows in order and returns the trimmed text of the second
// cell of the first row whose first cell matches. Rows with fewer than
// minCells cells are skipped.
func RowValue(rows *goquery.Selection, minCells int, match Matcher) (string, bool) {
	var (
		value string
		found bool
	)
	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < minCells || cells.Length() < 2 {
			return true
		}
		if !match(strings.TrimSpace(cells.Eq(0).Text())) {
			return true
		}
		value = strings.TrimSpace(cells.Eq(1).Text())
		found = true
		return false
	})
	return value, found
}
