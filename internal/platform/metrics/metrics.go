// Package metrics exposes Prometheus collectors for the credit ledger, the
// document and application status engine, and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gradaid"

// Metrics holds the application collectors and the registry they are registered on.
// It implements service.Metrics.
type Metrics struct {
	registry *prometheus.Registry

	creditsDebited  *prometheus.CounterVec
	debitsRejected  *prometheus.CounterVec
	creditResets    prometheus.Counter
	documentStatus  *prometheus.CounterVec
	applicationStat *prometheus.CounterVec
	schedulerRuns   *prometheus.CounterVec

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with its own registry, including the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		creditsDebited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "credits",
				Name:      "debited_total",
				Help:      "Total AI credits debited, by usage type.",
			},
			[]string{"type"},
		),
		debitsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "credits",
				Name:      "debits_rejected_total",
				Help:      "Debit attempts rejected, by reason.",
			},
			[]string{"reason"},
		),
		creditResets: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "credits",
				Name:      "resets_total",
				Help:      "Credit accounts replenished.",
			},
		),
		documentStatus: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "documents",
				Name:      "status_transitions_total",
				Help:      "Document status transitions.",
			},
			[]string{"from", "to"},
		),
		applicationStat: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "applications",
				Name:      "status_transitions_total",
				Help:      "Application status transitions, automatic or explicit.",
			},
			[]string{"from", "to", "automatic"},
		),
		schedulerRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "reset_runs_total",
				Help:      "Credit reset sweeps, by outcome.",
			},
			[]string{"outcome"},
		),
		httpInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "inflight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"method", "route"},
		),
	}

	m.registry.MustRegister(
		m.creditsDebited,
		m.debitsRejected,
		m.creditResets,
		m.documentStatus,
		m.applicationStat,
		m.schedulerRuns,
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CreditsDebited records a successful debit.
func (m *Metrics) CreditsDebited(usageType domain.CreditUsageType, amount int) {
	m.creditsDebited.WithLabelValues(string(usageType)).Add(float64(amount))
}

// DebitRejected records a debit that was refused.
func (m *Metrics) DebitRejected(reason string) {
	m.debitsRejected.WithLabelValues(reason).Inc()
}

// CreditsReset records an account reset.
func (m *Metrics) CreditsReset() {
	m.creditResets.Inc()
}

// DocumentStatusChanged records a document status transition.
func (m *Metrics) DocumentStatusChanged(from, to domain.DocumentStatus) {
	m.documentStatus.WithLabelValues(string(from), string(to)).Inc()
}

// ApplicationStatusChanged records an application status transition.
func (m *Metrics) ApplicationStatusChanged(from, to domain.ApplicationStatus, automatic bool) {
	m.applicationStat.WithLabelValues(string(from), string(to), strconv.FormatBool(automatic)).Inc()
}

// ResetSweep records the outcome of one scheduled reset sweep.
func (m *Metrics) ResetSweep(outcome string) {
	m.schedulerRuns.WithLabelValues(outcome).Inc()
}

// InstrumentHandler wraps next with HTTP request metrics. Routes are labelled
// with their chi pattern so path parameters do not explode cardinality.
func (m *Metrics) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := routePattern(r)
		method := strings.ToUpper(r.Method)
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
