// Package metrics provides Prometheus collectors for the CV leaderboard service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeUnsupported = "unsupported"
	OutcomeExtraction  = "extraction_error"
	OutcomeCompletion  = "completion_error"
)

// Parse modes.
const (
	ParseStructured = "structured"
	ParseHeuristic  = "heuristic"
)

type Manager struct {
	namespace string
	registry  *prometheus.Registry

	analyses           *prometheus.CounterVec
	parses             *prometheus.CounterVec
	completionLatency  prometheus.Histogram
	leaderboardAppends prometheus.Counter
	jobsCreated        prometheus.Counter
	indexTasks         *prometheus.CounterVec
}

type Option func(*Manager)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) { m.namespace = ns }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "cv_leaderboard",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.analyses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "analyses_total",
		Help:      "CV analyses by outcome.",
	}, []string{"outcome"})
	m.parses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "completion_parses_total",
		Help:      "Parsed completions by parse mode.",
	}, []string{"mode"})
	m.completionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "completion_duration_seconds",
		Help:      "Latency of completion calls.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	})
	m.leaderboardAppends = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "leaderboard_appends_total",
		Help:      "Entries appended to job leaderboards.",
	})
	m.jobsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "jobs_created_total",
		Help:      "Jobs created.",
	})
	m.indexTasks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "index_tasks_total",
		Help:      "Candidate index tasks by result.",
	}, []string{"result"})

	m.registry.MustRegister(
		m.analyses,
		m.parses,
		m.completionLatency,
		m.leaderboardAppends,
		m.jobsCreated,
		m.indexTasks,
	)

	return m
}

func (m *Manager) RecordAnalysis(outcome string) {
	m.analyses.WithLabelValues(outcome).Inc()
}

func (m *Manager) RecordParse(mode string) {
	m.parses.WithLabelValues(mode).Inc()
}

func (m *Manager) ObserveCompletion(d time.Duration) {
	m.completionLatency.Observe(d.Seconds())
}

func (m *Manager) RecordLeaderboardAppend() {
	m.leaderboardAppends.Inc()
}

func (m *Manager) RecordJobCreated() {
	m.jobsCreated.Inc()
}

func (m *Manager) RecordIndexTask(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.indexTasks.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
