package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var startTime = time.Now()

var (
	// Refresh pipeline metrics
	refreshDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_refresh_duration_seconds",
			Help:    "Duration of snapshot refresh passes per timeframe",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"timeframe"},
	)

	instrumentFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_instrument_refresh_failures_total",
			Help: "Instruments whose refresh exhausted retries or failed validation",
		},
		[]string{"timeframe", "pair"},
	)

	// Evaluation metrics
	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_evaluations_total",
			Help: "Per-user evaluations executed",
		},
		[]string{"timeframe", "outcome"},
	)

	decisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_decisions_total",
			Help: "Trading decisions processed by action",
		},
		[]string{"action"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(refreshDuration)
	prometheus.MustRegister(instrumentFailures)
	prometheus.MustRegister(evaluationsTotal)
	prometheus.MustRegister(decisionsTotal)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles the Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ObserveRefresh records the duration of one refresh pass
func ObserveRefresh(timeframe string, d time.Duration) {
	refreshDuration.WithLabelValues(timeframe).Observe(d.Seconds())
}

// RecordInstrumentFailure records an instrument whose refresh produced the empty sentinel
func RecordInstrumentFailure(timeframe, pair string) {
	instrumentFailures.WithLabelValues(timeframe, pair).Inc()
}

// RecordEvaluation records one per-user evaluation outcome
func RecordEvaluation(timeframe, outcome string) {
	evaluationsTotal.WithLabelValues(timeframe, outcome).Inc()
}

// RecordDecision records a processed trading decision
func RecordDecision(action string) {
	decisionsTotal.WithLabelValues(action).Inc()
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
