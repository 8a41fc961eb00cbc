package datasource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/seenimoa/ratewatch/internal/config"
)

// PageRenderer returns the HTML of a page after client-side scripts have run.
type PageRenderer interface {
	Render(ctx context.Context, url, readyExpr string) (string, error)
}

// Browser renders pages in a headless Chrome instance.
// Each Render starts its own browser and tears it down before returning.
type Browser struct {
	cfg config.BrowserConfig
}

// NewBrowser creates a Chrome-backed renderer.
func NewBrowser(cfg config.BrowserConfig) *Browser {
	return &Browser{cfg: cfg}
}

func (b *Browser) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", b.cfg.Headless),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("disable-software-rasterizer", true),
	)
	if b.cfg.WindowWidth > 0 && b.cfg.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(b.cfg.WindowWidth, b.cfg.WindowHeight))
	}
	if b.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.cfg.ExecPath))
	}
	return opts
}

// withTab starts a browser, opens one tab and runs fn in it.
// The tab and the browser process are released on every return path.
func (b *Browser) withTab(ctx context.Context, fn func(tab context.Context) error) error {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, b.allocatorOptions()...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	return fn(tabCtx)
}

// Render navigates to url, waits until readyExpr evaluates truthy (or the
// render timeout passes) and returns the document's outer HTML.
// Running out of wait time is not an error: whatever rendered is returned.
func (b *Browser) Render(ctx context.Context, url, readyExpr string) (string, error) {
	var page string
	err := b.withTab(ctx, func(tab context.Context) error {
		var err error
		page, err = b.renderTab(tab, chromeTab{}, url, readyExpr)
		return err
	})
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	return page, nil
}

// tabDriver is the set of browser steps Render needs.
type tabDriver interface {
	start(ctx context.Context) error
	navigate(ctx context.Context, url string) error
	waitFor(ctx context.Context, expr string, interval, timeout time.Duration) error
	outerHTML(ctx context.Context) (string, error)
}

// renderTab drives one tab through start, navigate, wait and capture.
// The browser is started on the tab context itself: a deadline on the
// first chromedp.Run would bound the lifetime of the Chrome process.
func (b *Browser) renderTab(tab context.Context, d tabDriver, url, readyExpr string) (string, error) {
	if err := d.start(tab); err != nil {
		return "", fmt.Errorf("start browser: %w", err)
	}

	navCtx, cancel := context.WithTimeout(tab, b.cfg.NavigateTimeout)
	err := d.navigate(navCtx, url)
	cancel()
	if err != nil {
		return "", fmt.Errorf("navigate: %w", err)
	}

	if readyExpr != "" {
		err := d.waitFor(tab, readyExpr, b.cfg.PollInterval, b.cfg.RenderTimeout)
		if err != nil && !errors.Is(err, chromedp.ErrPollingTimeout) {
			return "", fmt.Errorf("wait for content: %w", err)
		}
	}

	page, err := d.outerHTML(tab)
	if err != nil {
		return "", fmt.Errorf("capture document: %w", err)
	}
	return page, nil
}

// chromeTab runs each step through chromedp on the tab's context.
type chromeTab struct{}

func (chromeTab) start(ctx context.Context) error {
	return chromedp.Run(ctx)
}

func (chromeTab) navigate(ctx context.Context, url string) error {
	return chromedp.Run(ctx, chromedp.Navigate(url))
}

func (chromeTab) waitFor(ctx context.Context, expr string, interval, timeout time.Duration) error {
	opts := []chromedp.PollOption{chromedp.WithPollingTimeout(timeout)}
	if interval > 0 {
		opts = append(opts, chromedp.WithPollingInterval(interval))
	}
	var ready bool
	return chromedp.Run(ctx, chromedp.Poll(expr, &ready, opts...))
}

func (chromeTab) outerHTML(ctx context.Context) (string, error) {
	var page string
	err := chromedp.Run(ctx, chromedp.OuterHTML("html", &page, chromedp.ByQuery))
	return page, err
}
