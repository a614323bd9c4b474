// Package metrics exposes Prometheus instrumentation for the pipeline and the
// retrieval router.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "matchlens"

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry registers metrics on a caller-owned registry. Tests use a
// fresh registry per case.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Manager owns every collector. A nil *Manager is valid and records nothing.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	payloads        *prometheus.CounterVec
	mappings        *prometheus.CounterVec
	metricRows      *prometheus.CounterVec
	summaries       prometheus.Counter
	embeddings      *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	queries         *prometheus.CounterVec
	queryDuration   prometheus.Histogram
	httpRequests    *prometheus.CounterVec
	embedderBreaker *prometheus.GaugeVec
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{namespace: defaultNamespace}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(m.registry)
	m.payloads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "payloads_total",
		Help:      "Raw payloads seen at the ingestion boundary by provider and result.",
	}, []string{"provider", "result"})
	m.mappings = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "resolver",
		Name:      "mappings_total",
		Help:      "Resolver outcomes per run: full, partial, ambiguous.",
	}, []string{"outcome"})
	m.metricRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "metrics",
		Name:      "matches_total",
		Help:      "Matches processed by the metrics engine by result.",
	}, []string{"result"})
	m.summaries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "summary",
		Name:      "rebuilt_total",
		Help:      "Match summaries rebuilt.",
	})
	m.embeddings = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "embedding",
		Name:      "refreshed_total",
		Help:      "Embedding refresh attempts by result.",
	}, []string{"result"})
	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Wall time of each pipeline stage.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"stage"})
	m.queries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "retrieval",
		Name:      "queries_total",
		Help:      "Router queries by route and status.",
	}, []string{"route", "status"})
	m.queryDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "retrieval",
		Name:      "query_duration_seconds",
		Help:      "Router query latency.",
		Buckets:   prometheus.DefBuckets,
	})
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern and status code class.",
	}, []string{"route", "code"})
	m.embedderBreaker = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "embedder",
		Name:      "circuit_state",
		Help:      "1 for the current breaker state of the embedder client.",
	}, []string{"state"})

	return m
}

func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Manager) PayloadIngested(provider, result string) {
	if m == nil {
		return
	}
	m.payloads.WithLabelValues(provider, result).Inc()
}

func (m *Manager) MappingOutcome(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.mappings.WithLabelValues(outcome).Add(float64(n))
}

func (m *Manager) MatchComputed(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.metricRows.WithLabelValues(result).Inc()
}

func (m *Manager) SummariesRebuilt(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.summaries.Add(float64(n))
}

func (m *Manager) EmbeddingRefreshed(result string) {
	if m == nil {
		return
	}
	m.embeddings.WithLabelValues(result).Inc()
}

func (m *Manager) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Manager) QueryServed(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(route, status).Inc()
	m.queryDuration.Observe(d.Seconds())
}

func (m *Manager) HTTPRequest(route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, statusClass(status)).Inc()
}

// BreakerState flips the embedder circuit gauge to the given state.
func (m *Manager) BreakerState(state string) {
	if m == nil {
		return
	}
	for _, s := range []string{"closed", "half-open", "open"} {
		value := 0.0
		if s == state {
			value = 1
		}
		m.embedderBreaker.WithLabelValues(s).Set(value)
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
