// Package metrics provides Prometheus metrics for the import pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the pipeline's Prometheus collectors.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  prometheus.Registerer

	documentsProcessed *prometheus.CounterVec
	recordsFailed      *prometheus.CounterVec
	prospectsCreated   prometheus.Counter
	prospectsUpdated   prometheus.Counter
	contactsCreated    prometheus.Counter
	contactsUpdated    prometheus.Counter

	filesProcessed *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

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

// WithHistogramBuckets sets custom histogram buckets for latency metrics.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Custom registry keeps the scrape output free of default Go metrics.
var customRegistry = prometheus.NewRegistry()

var globalManager = NewManager(WithRegistry(customRegistry))

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "pipeline",
		subsystem: "imports",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.documentsProcessed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "documents_processed_total",
			Help:      "Total import documents processed by variant and outcome",
		},
		[]string{"variant", "outcome"},
	)
	m.recordsFailed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "records_failed_total",
			Help:      "Total records that failed reconciliation by variant",
		},
		[]string{"variant"},
	)
	m.prospectsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prospects_created_total",
		Help:      "Total prospects created by imports",
	})
	m.prospectsUpdated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prospects_updated_total",
		Help:      "Total prospects updated by imports",
	})
	m.contactsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "contacts_created_total",
		Help:      "Total contacts created by imports",
	})
	m.contactsUpdated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "contacts_updated_total",
		Help:      "Total contacts updated by imports",
	})
	m.filesProcessed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "watcher",
			Name:      "files_processed_total",
			Help:      "Total watch-folder files processed by outcome",
		},
		[]string{"outcome"},
	)
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by endpoint, method and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   m.buckets,
		},
		[]string{"endpoint", "method"},
	)

	return m
}

// DocumentProcessed counts one finished import document.
func (m *Manager) DocumentProcessed(variant string, success bool) {
	outcome := "success"
	if !success {
		outcome = "partial_failure"
	}
	m.documentsProcessed.WithLabelValues(variant, outcome).Inc()
}

// RecordFailed counts one record that failed reconciliation.
func (m *Manager) RecordFailed(variant string) {
	m.recordsFailed.WithLabelValues(variant).Inc()
}

// EntitiesWritten counts entity writes from a finished batch.
func (m *Manager) EntitiesWritten(prospectsCreated, prospectsUpdated, contactsCreated, contactsUpdated int) {
	m.prospectsCreated.Add(float64(prospectsCreated))
	m.prospectsUpdated.Add(float64(prospectsUpdated))
	m.contactsCreated.Add(float64(contactsCreated))
	m.contactsUpdated.Add(float64(contactsUpdated))
}

// FileProcessed counts one watch-folder file by outcome
// ("processed" or "failed").
func (m *Manager) FileProcessed(outcome string) {
	m.filesProcessed.WithLabelValues(outcome).Inc()
}

// HTTPRequest counts one served HTTP request.
func (m *Manager) HTTPRequest(endpoint, method, statusCode string) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// HTTPRequestDuration records one request's duration in seconds.
func (m *Manager) HTTPRequestDuration(endpoint, method string, seconds float64) {
	m.httpRequestDuration.WithLabelValues(endpoint, method).Observe(seconds)
}

// Default returns the global metrics manager.
func Default() *Manager {
	return globalManager
}

// Registry returns the custom Prometheus registry backing the global
// manager, for mounting the scrape handler.
func Registry() *prometheus.Registry {
	return customRegistry
}
