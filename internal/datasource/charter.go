package datasource

import (
	"context"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultCharterLines is how many charter lines are kept when no limit is configured.
const DefaultCharterLines = 10

// Charter reads dollar-denominated lines from the charter-rate page.
type Charter struct {
	fetcher  *Fetcher
	url      string
	maxLines int
}

// NewCharter creates the charter-rate source. maxLines <= 0 uses DefaultCharterLines.
func NewCharter(f *Fetcher, url string, maxLines int) *Charter {
	if maxLines <= 0 {
		maxLines = DefaultCharterLines
	}
	return &Charter{fetcher: f, url: url, maxLines: maxLines}
}

// Name returns the source name.
func (c *Charter) Name() string { return "charter" }

// FetchCharterRates downloads the page and returns its first dollar lines.
func (c *Charter) FetchCharterRates(ctx context.Context) ([]string, error) {
	root, err := c.fetcher.GetDocument(ctx, c.url, nil)
	if err != nil {
		return nil, err
	}
	return ParseCharterRates(root, c.maxLines), nil
}

// ParseCharterRates flattens the document text, keeps lines containing "$"
// and returns up to max of them, trimmed, in page order.
func ParseCharterRates(root *html.Node, max int) []string {
	lines := []string{}
	for _, line := range strings.Split(flattenText(root), "\n") {
		if len(lines) == max {
			break
		}
		if strings.Contains(line, "$") {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return lines
}

// flattenText joins every visible text node with newlines.
func flattenText(root *html.Node) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			parts = append(parts, n.Data)
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Template, atom.Noscript:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, "\n")
}
