package datasource

import (
	"context"
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const bunkerLabel = "Global Average Bunker Price"

// Bunker reads the global average bunker price from a client-rendered page.
type Bunker struct {
	renderer PageRenderer
	url      string
}

// NewBunker creates the bunker price source.
func NewBunker(r PageRenderer, url string) *Bunker {
	return &Bunker{renderer: r, url: url}
}

// Name returns the source name.
func (b *Bunker) Name() string { return "bunker" }

// bunkerReadyExpr is true once any table cell carries the price label.
var bunkerReadyExpr = fmt.Sprintf(
	`Array.from(document.querySelectorAll("td")).some(function (td) { return td.textContent.indexOf(%s) !== -1; })`,
	strconv.Quote(bunkerLabel),
)

// Fetch renders the page and returns the bunker price text.
func (b *Bunker) Fetch(ctx context.Context) (string, error) {
	page, err := b.renderer.Render(ctx, b.url, bunkerReadyExpr)
	if err != nil {
		return "", err
	}
	root, err := ParseHTML([]byte(page), "text/html; charset=utf-8")
	if err != nil {
		return "", err
	}
	return ParseBunker(root)
}

// ParseBunker scans every table row for the global average price.
func ParseBunker(root *html.Node) (string, error) {
	rows := goquery.NewDocumentFromNode(root).Find("tr")
	if v, ok := RowValue(rows, 2, Contains(bunkerLabel)); ok {
		return v, nil
	}
	return "", fmt.Errorf("bunker price row: %w", ErrNotFound)
}
