package datasource

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/ratewatch/internal/config"
	"github.com/seenimoa/ratewatch/internal/metrics"
	"github.com/seenimoa/ratewatch/pkg/models"
	"github.com/seenimoa/ratewatch/pkg/utils"
)

// OilAndCoalSource yields the three listing-page prices.
type OilAndCoalSource interface {
	FetchOilAndCoal(ctx context.Context) (OilAndCoal, error)
}

// ValueSource yields one display string.
type ValueSource interface {
	Fetch(ctx context.Context) (string, error)
}

// KiborSource yields the KIBOR table.
type KiborSource interface {
	FetchKibor(ctx context.Context) (*models.KiborRates, error)
}

// CharterSource yields the charter-rate lines.
type CharterSource interface {
	FetchCharterRates(ctx context.Context) ([]string, error)
}

// Sources is the full set of inputs for one report.
type Sources struct {
	OilAndCoal OilAndCoalSource
	Bunker     ValueSource
	USDToPKR   ValueSource
	Kibor      KiborSource
	Charter    CharterSource
}

// NewSources wires the production sources from configuration.
func NewSources(cfg *config.Config, log logrus.FieldLogger) Sources {
	f := NewFetcher(cfg.HTTP, log)
	return Sources{
		OilAndCoal: NewCommodities(f, cfg.Sources.CommoditiesURL, cfg.Sources.CommoditiesUserAgent),
		Bunker:     NewBunker(NewBrowser(cfg.Browser), cfg.Sources.BunkerURL),
		USDToPKR:   NewExchangeRate(f, cfg.Sources.FXURL),
		Kibor:      NewKibor(f, cfg.Sources.KiborURL),
		Charter:    NewCharter(f, cfg.Sources.CharterURL, cfg.Sources.CharterMaxLines),
	}
}

// Aggregator runs every source concurrently and assembles one report.
type Aggregator struct {
	sources     Sources
	concurrency int
	loc         *time.Location
	now         func() time.Time
	log         logrus.FieldLogger
	metrics     *metrics.Metrics
}

// Option customises an Aggregator.
type Option func(*Aggregator)

// WithConcurrency bounds how many sources run at once. 1 runs them in sequence.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) { a.concurrency = n }
}

// WithLocation sets the time zone of the report timestamp.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) { a.loc = loc }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithLogger sets the logger used for per-source failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Aggregator) { a.log = log }
}

// WithMetrics records fetch outcomes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// NewAggregator creates an aggregator over the given sources.
func NewAggregator(sources Sources, opts ...Option) *Aggregator {
	a := &Aggregator{
		sources:     sources,
		concurrency: 5,
		loc:         time.Local,
		now:         time.Now,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Collect fetches every source and returns the assembled report.
// Source failures are recorded in the report; Collect itself never fails.
func (a *Aggregator) Collect(ctx context.Context) *models.CommodityReport {
	var (
		mu  sync.Mutex
		rep models.CommodityReport
	)

	// Sibling failures must not cancel each other, so the group has no derived context.
	var g errgroup.Group
	if a.concurrency > 0 {
		g.SetLimit(a.concurrency)
	}

	g.Go(func() error {
		start := time.Now()
		oc, err := a.fetchOilAndCoal(ctx)
		kind := a.observe("oil_coal", start, err)
		if err != nil {
			oc = OilAndCoal{
				Brent: models.Failed(kind),
				WTI:   models.Failed(kind),
				Coal:  models.Failed(kind),
			}
		}
		for label, v := range map[string]models.Value{"brent": oc.Brent, "wti": oc.WTI, "coal": oc.Coal} {
			if err == nil && !v.OK() {
				a.log.WithFields(logrus.Fields{"source": "oil_coal", "field": label, "kind": v.Failure}).
					Warn("commodity row not found")
			}
		}
		mu.Lock()
		rep.Brent, rep.WTI, rep.Coal = oc.Brent, oc.WTI, oc.Coal
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		v := a.fetchValue(ctx, "bunker", a.sources.Bunker)
		mu.Lock()
		rep.Bunker = v
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		v := a.fetchValue(ctx, "usd_pkr", a.sources.USDToPKR)
		mu.Lock()
		rep.USDToPKR = v
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		rates, err := a.fetchKibor(ctx)
		kind := a.observe("kibor", start, err)
		res := models.KiborResult{Rates: rates, Failure: kind}
		if err != nil {
			res.Rates = nil
		}
		mu.Lock()
		rep.Kibor = res
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		lines, err := a.fetchCharter(ctx)
		kind := a.observe("charter", start, err)
		res := models.CharterRates{Lines: lines, Failure: kind}
		if err != nil {
			res.Lines = nil
		}
		mu.Lock()
		rep.CharterRates = res
		mu.Unlock()
		return nil
	})

	_ = g.Wait() // every task returns nil

	generated := a.now().In(a.loc)
	rep.GeneratedAt = generated
	rep.Timestamp = utils.FormatTimestamp(generated, a.loc)
	a.metrics.ObserveReport()
	return &rep
}

func (a *Aggregator) fetchOilAndCoal(ctx context.Context) (OilAndCoal, error) {
	if a.sources.OilAndCoal == nil {
		return OilAndCoal{}, &FetchError{URL: "oil_coal", Err: errNoSource}
	}
	return a.sources.OilAndCoal.FetchOilAndCoal(ctx)
}

func (a *Aggregator) fetchKibor(ctx context.Context) (*models.KiborRates, error) {
	if a.sources.Kibor == nil {
		return nil, &FetchError{URL: "kibor", Err: errNoSource}
	}
	return a.sources.Kibor.FetchKibor(ctx)
}

func (a *Aggregator) fetchCharter(ctx context.Context) ([]string, error) {
	if a.sources.Charter == nil {
		return nil, &FetchError{URL: "charter", Err: errNoSource}
	}
	return a.sources.Charter.FetchCharterRates(ctx)
}

func (a *Aggregator) fetchValue(ctx context.Context, name string, src ValueSource) models.Value {
	start := time.Now()
	var (
		text string
		err  error
	)
	if src == nil {
		err = &FetchError{URL: name, Err: errNoSource}
	} else {
		text, err = src.Fetch(ctx)
	}
	if kind := a.observe(name, start, err); kind != models.FailureNone {
		return models.Failed(kind)
	}
	return models.Text(text)
}

// observe classifies err, logs a failure and records metrics.
func (a *Aggregator) observe(source string, start time.Time, err error) models.FailureKind {
	kind := Classify(err)
	a.metrics.ObserveFetch(source, kind, time.Since(start))
	if err != nil {
		a.log.WithFields(logrus.Fields{
			"source": source,
			"kind":   kind,
			"error":  err,
		}).Warn("source fetch failed")
	}
	return kind
}
