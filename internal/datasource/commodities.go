package datasource

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/seenimoa/ratewatch/pkg/models"
)

// Row labels on the commodity listing page.
const (
	brentLabel = "Oil (Brent)"
	wtiLabel   = "Oil (WTI)"
	coalLabel  = "coal"
)

// commodityMinCells is the cell count of a real price row on the listing page.
const commodityMinCells = 4

// OilAndCoal holds the three prices read from the commodity listing page.
type OilAndCoal struct {
	Brent models.Value `json:"brent"`
	WTI   models.Value `json:"wti"`
	Coal  models.Value `json:"coal"`
}

// Commodities reads oil and coal prices from a commodity listing page.
type Commodities struct {
	fetcher   *Fetcher
	url       string
	userAgent string
}

// NewCommodities creates the oil and coal source.
func NewCommodities(f *Fetcher, url, userAgent string) *Commodities {
	return &Commodities{fetcher: f, url: url, userAgent: userAgent}
}

// Name returns the source name.
func (c *Commodities) Name() string { return "oil_coal" }

// FetchOilAndCoal downloads the listing page and extracts all three prices.
// An error means the page could not be fetched; labels absent from a fetched
// page are reported per field as missing.
func (c *Commodities) FetchOilAndCoal(ctx context.Context) (OilAndCoal, error) {
	var headers map[string]string
	if c.userAgent != "" {
		headers = map[string]string{"User-Agent": c.userAgent}
	}

	root, err := c.fetcher.GetDocument(ctx, c.url, headers)
	if err != nil {
		return OilAndCoal{}, err
	}
	return ParseOilAndCoal(root), nil
}

// ParseOilAndCoal extracts Brent, WTI and coal from the listing's table rows.
func ParseOilAndCoal(root *html.Node) OilAndCoal {
	rows := goquery.NewDocumentFromNode(root).Find("table tbody tr")

	pick := func(m Matcher) models.Value {
		if v, ok := RowValue(rows, commodityMinCells, m); ok {
			return models.Text(v)
		}
		return models.Failed(models.FailureMissing)
	}

	return OilAndCoal{
		Brent: pick(Contains(brentLabel)),
		WTI:   pick(Contains(wtiLabel)),
		Coal:  pick(EqualFold(coalLabel)),
	}
}
