package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// APIMetrics tracks the read API by endpoint.
type APIMetrics struct {
	Latency     *prometheus.HistogramVec
	Errors      *prometheus.CounterVec
	RateLimited prometheus.Counter
	CacheHits   *prometheus.CounterVec
}

// NewAPIMetrics registers on reg; nil means the default registerer.
func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &APIMetrics{
		Latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "goldcast",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency of API endpoints",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		Errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goldcast",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Errors by API endpoint",
		}, []string{"endpoint"}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: "goldcast",
			Subsystem: "api",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-client limiter",
		}),
		CacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goldcast",
			Subsystem: "api",
			Name:      "cache_lookups_total",
			Help:      "Status cache lookups by result",
		}, []string{"result"}),
	}
}
