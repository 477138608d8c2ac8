package observability

import (
	"strconv"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the back office.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	httpDuration  *prometheus.HistogramVec
	notifications *prometheus.CounterVec
	storeOps      *prometheus.CounterVec
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	events        *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "devsamp_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devsamp_notifications_total",
				Help: "Notification delivery attempts by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		storeOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devsamp_store_operations_total",
				Help: "Document store operations by collection, operation and outcome.",
			},
			[]string{"collection", "op", "outcome"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devsamp_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devsamp_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devsamp_events_published_total",
				Help: "Domain events by routing key and outcome.",
			},
			[]string{"routing_key", "outcome"},
		),
	}
}

// RecordHTTP records the duration of one HTTP request.
func (m *Metrics) RecordHTTP(method, route string, status int, d time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// IncrNotification counts one delivery attempt.
func (m *Metrics) IncrNotification(kind domain.NotificationKind, ok bool) {
	m.notifications.WithLabelValues(string(kind), outcome(ok)).Inc()
}

// IncrStoreOp counts one document store call.
func (m *Metrics) IncrStoreOp(collection, op string, err error) {
	m.storeOps.WithLabelValues(collection, op, outcome(err == nil)).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrEvent counts one publish attempt.
func (m *Metrics) IncrEvent(routingKey string, err error) {
	m.events.WithLabelValues(routingKey, outcome(err == nil)).Inc()
}

var notificationKinds = []domain.NotificationKind{
	domain.NotifyWelcome,
	domain.NotifyStatus,
	domain.NotifyCompletion,
	domain.NotifyLeadAdmin,
	domain.NotifyLeadAck,
	domain.NotifyPasswordReset,
}

// NotificationSnapshot returns cumulative delivery outcomes per kind for
// the admin overview.
func (m *Metrics) NotificationSnapshot() domain.NotificationStats {
	stats := domain.NotificationStats{
		Sent:   make(map[domain.NotificationKind]int64, len(notificationKinds)),
		Failed: make(map[domain.NotificationKind]int64, len(notificationKinds)),
	}
	for _, k := range notificationKinds {
		stats.Sent[k] = int64(getCounterValue(m.notifications, string(k), "ok"))
		stats.Failed[k] = int64(getCounterValue(m.notifications, string(k), "error"))
	}
	return stats
}

// CacheHitRate returns hits/(hits+misses) for one cache, or 0.
func (m *Metrics) CacheHitRate(cache string) float64 {
	hits := getCounterValue(m.cacheHits, cache)
	misses := getCounterValue(m.cacheMisses, cache)
	if hits+misses == 0 {
		return 0
	}
	return hits / (hits + misses)
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// getCounterValue extracts the current float64 value from a CounterVec for the given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
