// Package api serves the commodity report over HTTP.
//
// The report server has exactly one route, GET /, which collects a fresh
// report per request and renders it as HTML. Prometheus metrics, when
// enabled, are served from a separate listener.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/ratewatch/internal/config"
	"github.com/seenimoa/ratewatch/internal/metrics"
	"github.com/seenimoa/ratewatch/internal/report"
	"github.com/seenimoa/ratewatch/pkg/models"
)

// Collector produces one report per call.
type Collector interface {
	Collect(ctx context.Context) *models.CommodityReport
}

// Server is the report HTTP server.
type Server struct {
	router    chi.Router
	cfg       *config.Config
	collector Collector
	log       logrus.FieldLogger
	metrics   *metrics.Metrics
}

// NewServer creates a server with its route and middleware.
// m may be nil, in which case no metrics listener is started.
func NewServer(cfg *config.Config, c Collector, log logrus.FieldLogger, m *metrics.Metrics) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		cfg:       cfg,
		collector: c,
		log:       log,
		metrics:   m,
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// requestTimeout bounds one collection: every source's fetch plus the browser render.
func (s *Server) requestTimeout() time.Duration {
	b := s.cfg.Browser
	return 2*(s.cfg.HTTP.Timeout+b.NavigateTimeout+b.RenderTimeout) + 30*time.Second
}

// buildRouter configures the route and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.log, NoColor: true}))
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleReport)

	return r
}

// handleReport collects a fresh report and renders it.
// Sources that overrun the collection deadline show as failures in the page.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout())
	rep := s.collector.Collect(ctx)
	cancel()

	if err := r.Context().Err(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"error":      err,
		}).Debug("client went away before the report was ready")
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, rep, report.FormatHTML); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"error":      err,
		}).Error("render report")
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.WithField("error", err).Debug("write response")
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	servers := []*http.Server{{
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.requestTimeout() + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}}
	listeners := []net.Listener{ln}

	if s.metrics != nil && s.cfg.Metrics.Addr != "" {
		mln, err := net.Listen("tcp", s.cfg.Metrics.Addr)
		if err != nil {
			ln.Close()
			return fmt.Errorf("listen on metrics address %s: %w", s.cfg.Metrics.Addr, err)
		}
		mr := chi.NewRouter()
		mr.Use(middleware.Recoverer)
		mr.Handle("/metrics", s.metrics.Handler())
		servers = append(servers, &http.Server{Handler: mr, ReadTimeout: 10 * time.Second})
		listeners = append(listeners, mln)
		s.log.WithField("addr", mln.Addr().String()).Info("metrics listener started")
	}

	s.log.WithField("addr", ln.Addr().String()).Info("report server listening")

	g, gctx := errgroup.WithContext(ctx)
	for i := range servers {
		srv, l := servers[i], listeners[i]
		g.Go(func() error {
			if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		var firstErr error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	})

	return g.Wait()
}
