package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/espalier/pkg/domain"
)

// Metrics holds the Prometheus collectors for engine and session activity.
// Collectors live on a private registry so several instances (tests, embedded
// servers) never collide on metric names.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal      *prometheus.CounterVec
	runDuration    prometheus.Histogram
	expanded       prometheus.Counter
	activeSessions prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "espalier_runs_total",
			Help: "Finished simulations, by verdict.",
		},
		[]string{"verdict"},
	)
	m.runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "espalier_run_duration_seconds",
			Help:    "Wall-clock duration of simulation searches.",
			Buckets: prometheus.DefBuckets,
		},
	)
	m.expanded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "espalier_expanded_configurations_total",
			Help: "Configurations dequeued and expanded across all runs.",
		},
	)
	m.activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "espalier_active_sessions",
			Help: "Interactive sessions opened through this process and not yet deleted.",
		},
	)

	m.registry.MustRegister(m.runsTotal, m.runDuration, m.expanded, m.activeSessions)
	return m
}

// Hooks returns engine hooks that feed the collectors: every expanded
// configuration bumps a counter, and the settling verdict records the run
// together with its duration. Merge them with any logging hooks the caller
// installs alongside.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnExpand: func(domain.Configuration) {
			m.expanded.Inc()
		},
		OnVerdict: func(res domain.Result) {
			m.runsTotal.WithLabelValues(res.Verdict.String()).Inc()
			m.runDuration.Observe(res.Elapsed.Seconds())
		},
	}
}

// SessionOpened bumps the active session gauge.
func (m *Metrics) SessionOpened() { m.activeSessions.Inc() }

// SessionClosed drops the active session gauge.
func (m *Metrics) SessionClosed() { m.activeSessions.Dec() }

// Handler serves the registry in the Prometheus text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
