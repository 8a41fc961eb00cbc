package datasource

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/seenimoa/ratewatch/pkg/utils"
)

// ExchangeRate reads USD/PKR from an exchange-rate JSON API keyed by USD.
type ExchangeRate struct {
	fetcher *Fetcher
	url     string
}

// NewExchangeRate creates the USD/PKR source.
func NewExchangeRate(f *Fetcher, url string) *ExchangeRate {
	return &ExchangeRate{fetcher: f, url: url}
}

// Name returns the source name.
func (e *ExchangeRate) Name() string { return "usd_pkr" }

// Fetch returns the PKR rate formatted with two decimals.
func (e *ExchangeRate) Fetch(ctx context.Context) (string, error) {
	body, _, err := e.fetcher.GetBody(ctx, e.url, nil)
	if err != nil {
		return "", err
	}
	return ParseUSDToPKR(body)
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// ParseUSDToPKR reads rates.PKR from the API payload.
func ParseUSDToPKR(body []byte) (string, error) {
	var resp ratesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &ParseError{What: "exchange rate JSON", Err: err}
	}
	if resp.Rates == nil {
		return "", fmt.Errorf("rates object: %w", ErrNotFound)
	}
	pkr, ok := resp.Rates["PKR"]
	if !ok {
		return "", fmt.Errorf("PKR rate: %w", ErrNotFound)
	}
	return utils.FormatRate(pkr), nil
}
