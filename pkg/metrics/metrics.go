package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP-facing application metrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ShareLinkHits   prometheus.Counter
	ShareLinkDenied prometheus.Counter
}

// New registers the metric set on the default registry.
func New(namespace string) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path"}),
		ShareLinkHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_link_hits_total",
			Help:      "Total number of successful share link resolutions",
		}),
		ShareLinkDenied: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_link_denied_total",
			Help:      "Total number of denied share link resolutions",
		}),
	}
}
