// Package datasource fetches and extracts the report's inputs: oil and coal
// prices, the global bunker price, the USD/PKR exchange rate, the KIBOR
// table and the daily charter-rate lines.
//
// Every extractor returns either a value or a typed error. Classify turns
// those errors into a models.FailureKind; nothing in this package decides how
// a failure is displayed.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/seenimoa/ratewatch/pkg/models"
)

// --- Sentinel errors ---

// ErrNotFound is returned when a page loads but the wanted row or key is absent.
var ErrNotFound = errors.New("value not found")

// ErrSectionNotFound is returned when the KIBOR section cannot be located.
var ErrSectionNotFound = errors.New("KIBOR section not found")

// ErrHTTP describes an error status returned by an upstream. It is logged
// for diagnosis; the body is still parsed.
type ErrHTTP struct {
	StatusCode int
	Status     string // status line as received, e.g. "404 Not Found"
	Body       string
}

func (e *ErrHTTP) Error() string {
	status := e.Status
	if status == "" {
		status = strconv.Itoa(e.StatusCode)
	}
	if e.Body == "" {
		return "HTTP " + status
	}
	return fmt.Sprintf("HTTP %s: %s", status, e.Body)
}

// FetchError is a transport failure: DNS, connect, TLS, timeout.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the content arrived but did not have the expected shape.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "parse " + e.What
	}
	return fmt.Sprintf("parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Classify maps an extractor error to its failure kind.
func Classify(err error) models.FailureKind {
	if err == nil {
		return models.FailureNone
	}

	var fetchErr *FetchError
	var parseErr *ParseError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrSectionNotFound):
		return models.FailureMissing
	case errors.As(err, &fetchErr):
		return models.FailureNetwork
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return models.FailureNetwork
	case errors.As(err, &parseErr):
		return models.FailureParse
	default:
		return models.FailureParse
	}
}

// maxErrBody caps how much of an error response is kept in ErrHTTP.
const maxErrBody = 512

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var errNoSource = errors.New("source not configured")
