package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/seenimoa/ratewatch/internal/config"
	"github.com/seenimoa/ratewatch/pkg/models"
)

func testFetcher() *Fetcher {
	log, _ := logtest.NewNullLogger()
	return NewFetcher(config.HTTPConfig{Timeout: 5 * time.Second}, log)
}

func TestGetBodyHeaders(t *testing.T) {
	var gotUA, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCustom = r.Header.Get("X-Test")
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, ct, err := testFetcher().GetBody(context.Background(), srv.URL, map[string]string{
		"User-Agent": "Mozilla/5.0",
		"X-Test":     "1",
	})
	if err != nil {
		t.Fatalf("GetBody: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}
	if ct != "text/plain" {
		t.Errorf("content type = %q", ct)
	}
	if gotUA != "Mozilla/5.0" || gotCustom != "1" {
		t.Errorf("headers not sent: UA=%q X-Test=%q", gotUA, gotCustom)
	}
}

func TestGetBodyReturnsErrorStatusBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer srv.Close()

	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	f := NewFetcher(config.HTTPConfig{Timeout: 5 * time.Second}, log)

	body, ct, err := f.GetBody(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("error status should not fail the fetch: %v", err)
	}
	if len(body) != 2000 || ct != "text/plain" {
		t.Errorf("body = %d bytes, content type = %q", len(body), ct)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.DebugLevel {
		t.Fatalf("expected a debug entry for the status, got %+v", entry)
	}
	var httpErr *ErrHTTP
	if !errors.As(entry.Data[logrus.ErrorKey].(error), &httpErr) {
		t.Fatalf("logged error = %v", entry.Data[logrus.ErrorKey])
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d", httpErr.StatusCode)
	}
	if len(httpErr.Body) > maxErrBody+3 {
		t.Errorf("logged body not truncated: %d bytes", len(httpErr.Body))
	}
	if strings.Contains(httpErr.Error(), "503 503") {
		t.Errorf("status code repeated: %s", httpErr.Error())
	}
}

func TestGetBodyTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	f := NewFetcher(config.HTTPConfig{Timeout: 20 * time.Millisecond}, nil)
	_, _, err := f.GetBody(context.Background(), srv.URL, nil)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if Classify(err) != models.FailureNetwork {
		t.Errorf("Classify = %q", Classify(err))
	}
}

func TestGetBodyCancelledWhileRateLimited(t *testing.T) {
	f := NewFetcher(config.HTTPConfig{Timeout: time.Second, RateLimit: 0.001, RateBurst: 1}, nil)
	// Spend the only token.
	if !f.limiter.Allow() {
		t.Fatal("expected a burst token")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := f.GetBody(ctx, "http://127.0.0.1:1", nil)
	if Classify(err) != models.FailureNetwork {
		t.Fatalf("Classify(%v) = %q, want network", err, Classify(err))
	}
}

func TestGetDocumentDecodesCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<html><body><p>Caf\xe9 $5</p></body></html>"))
	}))
	defer srv.Close()

	root, err := testFetcher().GetDocument(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	lines := ParseCharterRates(root, 10)
	if len(lines) != 1 || lines[0] != "Café $5" {
		t.Errorf("lines = %q, want [\"Café $5\"]", lines)
	}
}
