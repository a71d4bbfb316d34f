// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	BatchesReceived prometheus.Counter
	EventsReceived  prometheus.Counter
	EventsSkipped   *prometheus.CounterVec
	ItemsFailed     prometheus.Counter

	// Dispatch metrics
	AlertsDispatched *prometheus.CounterVec
	DispatchErrors   *prometheus.CounterVec
	DispatchLatency  *prometheus.HistogramVec
	AlertsSuppressed prometheus.Counter

	// Storage metrics
	AlertLogErrors prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "whalecaster"
	}

	return &Metrics{
		BatchesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "batches_received_total",
			Help:      "Total number of webhook batches received",
		}),
		EventsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "events_received_total",
			Help:      "Total number of events received across all batches",
		}),
		EventsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "events_skipped_total",
			Help:      "Total number of events skipped by reason",
		}, []string{"reason"}),
		ItemsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "items_failed_total",
			Help:      "Total number of batch items that failed processing",
		}),

		AlertsDispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "alerts_total",
			Help:      "Total number of alerts dispatched by channel",
		}, []string{"channel"}),
		DispatchErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "errors_total",
			Help:      "Total number of failed outbound deliveries by channel",
		}, []string{"channel"}),
		DispatchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "latency_seconds",
			Help:      "Outbound delivery latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel"}),
		AlertsSuppressed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "alerts_suppressed_total",
			Help:      "Total number of alerts suppressed as duplicates",
		}),

		AlertLogErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "alert_log_errors_total",
			Help:      "Total number of alert log append failures",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordBatch records one received batch of n items.
func RecordBatch(n int) {
	DefaultMetrics.BatchesReceived.Inc()
	DefaultMetrics.EventsReceived.Add(float64(n))
}

// RecordSkip records an event skipped for the given reason.
func RecordSkip(reason string) {
	DefaultMetrics.EventsSkipped.WithLabelValues(reason).Inc()
}

// RecordItemFailure records a batch item that failed processing.
func RecordItemFailure() {
	DefaultMetrics.ItemsFailed.Inc()
}

// RecordDispatch records one outbound delivery attempt.
func RecordDispatch(channel string, seconds float64, err error) {
	DefaultMetrics.DispatchLatency.WithLabelValues(channel).Observe(seconds)
	if err != nil {
		DefaultMetrics.DispatchErrors.WithLabelValues(channel).Inc()
		return
	}
	DefaultMetrics.AlertsDispatched.WithLabelValues(channel).Inc()
}

// RecordSuppressed records an alert suppressed as a duplicate.
func RecordSuppressed() {
	DefaultMetrics.AlertsSuppressed.Inc()
}

// RecordAlertLogError records a failed alert log append.
func RecordAlertLogError() {
	DefaultMetrics.AlertLogErrors.Inc()
}
