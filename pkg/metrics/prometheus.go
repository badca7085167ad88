// Package metrics provides Prometheus metrics for the matchday engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the matchday service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Reconciliation metrics
	pollsTotal      prometheus.Counter
	pollErrors      prometheus.Counter
	pollDuration    prometheus.Histogram
	matchesUpcoming prometheus.Gauge
	matchesLive     prometheus.Gauge
	matchesDone     prometheus.Gauge

	// Settlement metrics
	completionsSettled prometheus.Counter
	usersScored        prometheus.Counter
	scoringErrors      prometheus.Counter
	settleDuration     prometheus.Histogram

	// Prediction metrics
	predictionsAccepted prometheus.Counter
	predictionsRejected *prometheus.CounterVec

	// Leaderboard metrics
	leaderboardRebuilds prometheus.Counter
	leaderboardErrors   prometheus.Counter
	leaderboardSize     prometheus.Gauge
	rebuildDuration     prometheus.Histogram

	// Recency window metrics
	recencyWindowSize prometheus.Gauge
	recencyExpiries   prometheus.Counter

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewMetricsManager(WithPrometheusRegistry(customRegistry))
}

// NewMetricsManager creates a new metrics manager with default configuration.
func NewMetricsManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchday",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.pollsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "polls_total",
		Help:      "Total number of provider reconciliation passes",
	})

	m.pollErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "poll_errors_total",
		Help:      "Total number of reconciliation passes skipped on provider failure",
	})

	m.pollDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "poll_duration_milliseconds",
		Help:      "Histogram of reconciliation pass duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.matchesUpcoming = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_upcoming",
		Help:      "Number of tracked matches not yet started",
	})

	m.matchesLive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_live",
		Help:      "Number of tracked matches currently in play",
	})

	m.matchesDone = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_completed",
		Help:      "Number of tracked matches with a recorded result",
	})

	m.completionsSettled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "completions_settled_total",
		Help:      "Total number of matches scored exactly once via the completion ledger",
	})

	m.usersScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "users_scored_total",
		Help:      "Total number of per-user score updates applied during settlement",
	})

	m.scoringErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_errors_total",
		Help:      "Total number of per-user settlement failures skipped",
	})

	m.settleDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "settle_duration_milliseconds",
		Help:      "Histogram of completion settlement duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.predictionsAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_accepted_total",
		Help:      "Total number of accepted prediction submissions",
	})

	m.predictionsRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "predictions_rejected_total",
			Help:      "Total number of rejected prediction submissions by reason",
		},
		[]string{"reason"},
	)

	m.leaderboardRebuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_rebuilds_total",
		Help:      "Total number of full leaderboard recomputes",
	})

	m.leaderboardErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_errors_total",
		Help:      "Total number of failed leaderboard recomputes",
	})

	m.leaderboardSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_size",
		Help:      "Number of users in the current leaderboard snapshot",
	})

	m.rebuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_rebuild_duration_milliseconds",
		Help:      "Histogram of leaderboard rebuild duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.recencyWindowSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recency_window_size",
		Help:      "Number of completed matches inside the rolling recency window",
	})

	m.recencyExpiries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recency_expiries_total",
		Help:      "Total number of matches aged out of the recency window",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordPoll increments the reconciliation pass counter.
func RecordPoll() {
	globalManager.pollsTotal.Inc()
}

// RecordPollError increments the skipped-pass counter.
func RecordPollError() {
	globalManager.pollErrors.Inc()
}

// RecordPollDuration records one reconciliation pass duration in milliseconds.
func RecordPollDuration(latencyMs float64) {
	globalManager.pollDuration.Observe(latencyMs)
}

// UpdateMatchCounts sets the per-phase match gauges.
func UpdateMatchCounts(upcoming, live, completed int) {
	globalManager.matchesUpcoming.Set(float64(upcoming))
	globalManager.matchesLive.Set(float64(live))
	globalManager.matchesDone.Set(float64(completed))
}

// RecordCompletionSettled increments the settled completions counter.
func RecordCompletionSettled() {
	globalManager.completionsSettled.Inc()
}

// RecordUserScored increments the per-user settlement counter.
func RecordUserScored() {
	globalManager.usersScored.Inc()
}

// RecordScoringError increments the per-user settlement failure counter.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// RecordSettleDuration records one settlement duration in milliseconds.
func RecordSettleDuration(latencyMs float64) {
	globalManager.settleDuration.Observe(latencyMs)
}

// RecordPredictionAccepted increments the accepted predictions counter.
func RecordPredictionAccepted() {
	globalManager.predictionsAccepted.Inc()
}

// RecordPredictionRejected increments the rejected predictions counter.
func RecordPredictionRejected(reason string) {
	globalManager.predictionsRejected.WithLabelValues(reason).Inc()
}

// RecordLeaderboardRebuild increments the rebuild counter.
func RecordLeaderboardRebuild() {
	globalManager.leaderboardRebuilds.Inc()
}

// RecordLeaderboardError increments the failed rebuild counter.
func RecordLeaderboardError() {
	globalManager.leaderboardErrors.Inc()
}

// UpdateLeaderboardSize sets the snapshot size gauge.
func UpdateLeaderboardSize(size int) {
	globalManager.leaderboardSize.Set(float64(size))
}

// RecordLeaderboardRebuildDuration records one rebuild duration in milliseconds.
func RecordLeaderboardRebuildDuration(latencyMs float64) {
	globalManager.rebuildDuration.Observe(latencyMs)
}

// UpdateRecencyWindowSize sets the window membership gauge.
func UpdateRecencyWindowSize(size int) {
	globalManager.recencyWindowSize.Set(float64(size))
}

// RecordRecencyExpiry adds aged-out matches to the expiry counter.
func RecordRecencyExpiry(count int) {
	globalManager.recencyExpiries.Add(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
