// Package metrics provides Prometheus metrics for the dinger watcher.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the watcher.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Admission
	eventsAdmitted    prometheus.Counter
	eventsDuplicate   prometheus.Counter
	eventsUnfollowed  prometheus.Counter
	admissionLatency  prometheus.Histogram
	persistenceErrors prometheus.Counter

	// Polling
	pollTicks    prometheus.Counter
	activeGames  prometheus.Gauge
	fetchErrors  *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec

	// Day partitioning
	bufferLength     prometheus.Gauge
	rollovers        prometheus.Counter
	snapshotsWritten prometheus.Counter
	trackedSubjects  prometheus.Gauge

	// Notifications
	notificationsSent    prometheus.Counter
	notificationsFailed  prometheus.Counter
	notificationsDropped prometheus.Counter
	notifyQueueSize      prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "dinger",
		subsystem:        "watcher",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 3000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsAdmitted = m.counter("events_admitted_total", "Home runs admitted into the season totals")
	m.eventsDuplicate = m.counter("events_duplicate_total", "Event reports rejected because the id was already counted")
	m.eventsUnfollowed = m.counter("events_unfollowed_total", "Event reports dropped because the player is not on the roster")
	m.persistenceErrors = m.counter("persistence_errors_total", "State writes that failed")
	m.admissionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "admission_latency_milliseconds",
		Help:      "Time to admit and persist one event",
		Buckets:   m.histogramBuckets,
	})

	m.pollTicks = m.counter("poll_ticks_total", "Polling loop iterations")
	m.activeGames = m.gauge("active_games", "Games reported in progress on the last tick")
	m.fetchErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_errors_total",
		Help:      "Event source fetches that failed, by stage",
	}, []string{"stage"})
	m.fetchLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_latency_milliseconds",
		Help:      "Event source fetch latency, by stage",
		Buckets:   m.histogramBuckets,
	}, []string{"stage"})

	m.bufferLength = m.gauge("daily_buffer_length", "Records buffered for the active logical day")
	m.rollovers = m.counter("rollovers_total", "Logical day transitions observed by the watcher")
	m.snapshotsWritten = m.counter("snapshots_written_total", "Daily snapshots finalized")
	m.trackedSubjects = m.gauge("tracked_subjects", "Players with at least one admitted home run")

	m.notificationsSent = m.counter("notifications_sent_total", "Notifications delivered")
	m.notificationsFailed = m.counter("notifications_failed_total", "Notifications whose delivery failed")
	m.notificationsDropped = m.counter("notifications_dropped_total", "Notifications dropped because the outbox was full or closed")
	m.notifyQueueSize = m.gauge("notify_queue_size", "Notifications waiting in the outbox")

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordEventAdmitted increments the admitted events counter.
func RecordEventAdmitted() { globalManager.eventsAdmitted.Inc() }

// RecordEventDuplicate increments the duplicate events counter.
func RecordEventDuplicate() { globalManager.eventsDuplicate.Inc() }

// RecordEventUnfollowed increments the dropped unfollowed-player counter.
func RecordEventUnfollowed() { globalManager.eventsUnfollowed.Inc() }

// RecordAdmissionLatency records admission latency in milliseconds.
func RecordAdmissionLatency(latencyMs float64) { globalManager.admissionLatency.Observe(latencyMs) }

// RecordPersistenceError increments the failed state write counter.
func RecordPersistenceError() { globalManager.persistenceErrors.Inc() }

// RecordPollTick increments the poll loop counter.
func RecordPollTick() { globalManager.pollTicks.Inc() }

// UpdateActiveGames sets the number of games in progress.
func UpdateActiveGames(count int) { globalManager.activeGames.Set(float64(count)) }

// RecordFetchError increments fetch failures for a stage ("schedule", "feed").
func RecordFetchError(stage string) { globalManager.fetchErrors.WithLabelValues(stage).Inc() }

// RecordFetchLatency records fetch latency in milliseconds for a stage.
func RecordFetchLatency(stage string, latencyMs float64) {
	globalManager.fetchLatency.WithLabelValues(stage).Observe(latencyMs)
}

// UpdateBufferLength sets the active day buffer size.
func UpdateBufferLength(n int) { globalManager.bufferLength.Set(float64(n)) }

// RecordRollover increments the rollover counter.
func RecordRollover() { globalManager.rollovers.Inc() }

// RecordSnapshotWritten increments the snapshot counter.
func RecordSnapshotWritten() { globalManager.snapshotsWritten.Inc() }

// UpdateTrackedSubjects sets the number of players with totals.
func UpdateTrackedSubjects(n int) { globalManager.trackedSubjects.Set(float64(n)) }

// RecordNotificationSent increments the delivered notifications counter.
func RecordNotificationSent() { globalManager.notificationsSent.Inc() }

// RecordNotificationFailed increments the failed notifications counter.
func RecordNotificationFailed() { globalManager.notificationsFailed.Inc() }

// RecordNotificationDropped increments the dropped notifications counter.
func RecordNotificationDropped() { globalManager.notificationsDropped.Inc() }

// UpdateNotifyQueueSize sets the outbox depth.
func UpdateNotifyQueueSize(n int) { globalManager.notifyQueueSize.Set(float64(n)) }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
