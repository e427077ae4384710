// Package parserserver exposes a parser worker's operational surface: a
// liveness endpoint and Prometheus metrics. It never serves the indexer's
// query API, only ops visibility into the parser itself.
package parserserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/synnergy-network/compressed-indexer/compressedtx"
)

// Metrics holds the counters and histogram a parser worker updates as it
// processes transactions. Each Metrics owns its own registry so tests and
// concurrent workers never collide on the global default.
type Metrics struct {
	registry *prometheus.Registry

	ParsedTransactions prometheus.Counter
	TriggersMatched    prometheus.Counter
	MalformedEvents    prometheus.Counter
	DecodeErrors       prometheus.Counter
	ParseDuration      prometheus.Histogram
}

// NewMetrics builds a fresh metrics registry with all counters registered.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ParsedTransactions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "compressedtx_parsed_transactions_total",
			Help: "Total number of transactions run through ParseTransaction.",
		}),
		TriggersMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "compressedtx_triggers_matched_total",
			Help: "Total number of account-compression trigger patterns matched.",
		}),
		MalformedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "compressedtx_malformed_events_total",
			Help: "Total number of transactions rejected for a structural invariant violation.",
		}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "compressedtx_decode_errors_total",
			Help: "Total number of transactions rejected for a codec decode failure.",
		}),
		ParseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "compressedtx_parse_duration_seconds",
			Help:    "Wall-clock time spent in ParseTransaction.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		m.ParsedTransactions,
		m.TriggersMatched,
		m.MalformedEvents,
		m.DecodeErrors,
		m.ParseDuration,
	)
	return m
}

// Observe records the outcome of one ParseTransaction call.
func (m *Metrics) Observe(triggers int, err error, elapsed time.Duration) {
	m.ParsedTransactions.Inc()
	m.TriggersMatched.Add(float64(triggers))
	m.ParseDuration.Observe(elapsed.Seconds())

	var parserErr *compressedtx.ParserError
	var malformedErr *compressedtx.MalformedEvent
	switch {
	case err == nil:
	case errors.As(err, &parserErr):
		m.DecodeErrors.Inc()
	case errors.As(err, &malformedErr):
		m.MalformedEvents.Inc()
	}
}

// Server serves /healthz and /metrics for a parser worker process.
type Server struct {
	http *http.Server
	log  *logrus.Logger
}

// New builds a Server bound to addr, backed by m's registry.
func New(addr string, m *Metrics, lg *logrus.Logger) *Server {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	return &Server{
		http: &http.Server{Addr: addr, Handler: r},
		log:  lg,
	}
}

// Start runs the HTTP server in the background. Errors other than a clean
// shutdown are logged.
func (s *Server) Start() {
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if s.log != nil {
				s.log.WithError(err).Error("parserserver: listen and serve")
			}
		}
	}()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
