// Package metrics holds the Prometheus collectors of the service.
// Collectors are registered with the default registry via promauto and
// exposed by Handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup results.
const (
	CacheHit         = "hit"
	CacheStale       = "stale"
	CacheMiss        = "miss"
	CacheBloomReject = "bloom_reject"
)

// Event outcomes.
const (
	EventQueued    = "queued"
	EventDropped   = "dropped"
	EventPublished = "published"
	EventFailed    = "failed"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration buckets run from 5ms to 10s.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	ArticleCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_cache_lookups_total",
			Help: "Article cache lookups by result (hit, stale, miss, bloom_reject)",
		},
		[]string{"result"},
	)

	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_events_total",
			Help: "Article events by name and outcome (queued, dropped, published, failed)",
		},
		[]string{"event", "outcome"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_uploads_total",
			Help: "Attachment uploads by provider and status (success, failure)",
		},
		[]string{"provider", "status"},
	)

	UploadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "article_upload_duration_seconds",
			Help:    "Attachment upload duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_clients",
			Help: "Current number of connected websocket subscribers",
		},
	)
)

func RecordCacheLookup(result string) {
	ArticleCacheLookups.WithLabelValues(result).Inc()
}

func RecordEvent(event, outcome string) {
	EventsTotal.WithLabelValues(event, outcome).Inc()
}

// RecordUpload counts one upload attempt and observes its duration.
func RecordUpload(provider string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	UploadsTotal.WithLabelValues(provider, status).Inc()
	UploadDuration.WithLabelValues(provider).Observe(seconds)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
