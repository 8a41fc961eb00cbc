package datasource

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/seenimoa/ratewatch/internal/config"
)

// Fetcher performs plain HTTP GETs for the static sources.
type Fetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

// NewFetcher creates a fetcher from the HTTP settings.
// A zero rate limit means outbound requests are not throttled.
func NewFetcher(cfg config.HTTPConfig, log logrus.FieldLogger) *Fetcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 && !math.IsInf(cfg.RateLimit, 1) {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)

	return &Fetcher{
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
	}
}

// GetBody fetches url and returns the raw body and its Content-Type.
// The status code is not inspected: error pages are handed to the parsers,
// which report what they can or cannot find in them.
func (f *Fetcher) GetBody(ctx context.Context, url string, headers map[string]string) ([]byte, string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, "", &FetchError{URL: url, Err: err}
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return nil, "", &FetchError{URL: url, Err: err}
	}

	if resp.StatusCode() >= 400 {
		f.log.WithError(&ErrHTTP{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       truncate(resp.String(), maxErrBody),
		}).WithField("url", url).Debug("upstream returned an error status")
	}

	return resp.Body(), resp.Header().Get("Content-Type"), nil
}

// GetDocument fetches url and parses it as HTML, decoding the body to UTF-8
// according to its declared charset.
func (f *Fetcher) GetDocument(ctx context.Context, url string, headers map[string]string) (*html.Node, error) {
	body, contentType, err := f.GetBody(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	return ParseHTML(body, contentType)
}

// ParseHTML decodes b using the charset from contentType (or the document's
// meta tags) and parses it.
func ParseHTML(b []byte, contentType string) (*html.Node, error) {
	r, err := charset.NewReader(bytes.NewReader(b), contentType)
	if err != nil {
		return nil, &ParseError{What: "charset", Err: err}
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, &ParseError{What: "html", Err: fmt.Errorf("parse document: %w", err)}
	}
	return root, nil
}
