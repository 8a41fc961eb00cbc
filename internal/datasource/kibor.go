package datasource

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/seenimoa/ratewatch/pkg/models"
)

// asOnPattern extracts the date from a single-cell "As on <date>" row.
var asOnPattern = regexp.MustCompile(`(?i)As on\s*(.+)`)

// Kibor reads the KIBOR bid/offer table from the central bank's index page.
type Kibor struct {
	fetcher *Fetcher
	url     string
}

// NewKibor creates the KIBOR source.
func NewKibor(f *Fetcher, url string) *Kibor {
	return &Kibor{fetcher: f, url: url}
}

// Name returns the source name.
func (k *Kibor) Name() string { return "kibor" }

// FetchKibor downloads the index page and parses the rates table.
func (k *Kibor) FetchKibor(ctx context.Context) (*models.KiborRates, error) {
	root, err := k.fetcher.GetDocument(ctx, k.url, nil)
	if err != nil {
		return nil, err
	}
	return ParseKibor(root)
}

// LocateRatesTable finds the first text mentioning KIBOR and returns the
// first table at or after its enclosing element in document order.
// This is the only place that knows how the page is laid out.
func LocateRatesTable(root *html.Node) (*html.Node, error) {
	text, err := htmlquery.Query(root, "//text()[contains(., 'KIBOR')]")
	if err != nil {
		return nil, &ParseError{What: "KIBOR locator", Err: err}
	}
	if text == nil {
		return nil, ErrSectionNotFound
	}

	anchor := text.Parent
	if anchor == nil {
		anchor = text
	}
	for _, expr := range []string{"descendant::table", "following::table"} {
		table, err := htmlquery.Query(anchor, expr)
		if err != nil {
			return nil, &ParseError{What: "KIBOR locator", Err: err}
		}
		if table != nil {
			return table, nil
		}
	}
	return nil, &ParseError{What: "KIBOR table"}
}

// ParseKibor extracts the as-of date and tenor quotes from the rates table.
// Single-cell rows carry the date; rows of three or more cells are
// tenor, bid, offer. A repeated tenor keeps its first position and its last quote.
func ParseKibor(root *html.Node) (*models.KiborRates, error) {
	table, err := LocateRatesTable(root)
	if err != nil {
		return nil, err
	}

	rates := models.NewKiborRates()
	goquery.NewDocumentFromNode(table).Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		switch n := cells.Length(); {
		case n == 1:
			text := strings.TrimSpace(cells.Text())
			if m := asOnPattern.FindStringSubmatch(text); m != nil {
				rates.AsOfDate = strings.TrimSpace(m[1])
			}
		case n >= 3:
			rates.Set(strings.TrimSpace(cells.Eq(0).Text()), models.BidOffer{
				Bid:   strings.TrimSpace(cells.Eq(1).Text()),
				Offer: strings.TrimSpace(cells.Eq(2).Text()),
			})
		}
	})
	return rates, nil
}
