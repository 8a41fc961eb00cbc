// Package metrics exposes Prometheus counters for source fetches.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seenimoa/ratewatch/pkg/models"
)

// Metrics collects per-source fetch outcomes on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	Reports       prometheus.Counter
}

// New creates a metrics collector with a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratewatch_source_fetch_total",
				Help: "Source fetches by outcome (ok, network, parse, missing)",
			},
			[]string{"source", "outcome"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ratewatch_source_fetch_duration_seconds",
				Help:    "Source fetch duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30},
			},
			[]string{"source"},
		),
		Reports: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ratewatch_reports_total",
				Help: "Reports assembled",
			},
		),
	}
}

// ObserveFetch records one source fetch.
func (m *Metrics) ObserveFetch(source string, kind models.FailureKind, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(source, Outcome(kind)).Inc()
	m.FetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

// ObserveReport counts one assembled report.
func (m *Metrics) ObserveReport() {
	if m == nil {
		return
	}
	m.Reports.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Outcome maps a failure kind to its label value.
func Outcome(kind models.FailureKind) string {
	if kind == models.FailureNone {
		return "ok"
	}
	return string(kind)
}
