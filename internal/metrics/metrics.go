package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream providers
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameverse_upstream_requests_total",
		Help: "Total number of upstream provider requests.",
	}, []string{"provider", "outcome"}) // outcome: ok, error, timeout

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gameverse_upstream_duration_seconds",
		Help:    "Duration of upstream provider calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	// Token cache
	TokenCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameverse_token_cache_hits_total",
		Help: "Token requests served from the in-process cache.",
	})
	TokenCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameverse_token_cache_misses_total",
		Help: "Token requests that triggered a credential exchange.",
	})

	// HTTP surface
	HTTPResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameverse_http_responses_total",
		Help: "HTTP responses by status class.",
	}, []string{"class"}) // class: 2xx, 3xx, 4xx, 5xx

	// Lookup cache
	LookupCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameverse_lookup_cache_hits_total",
		Help: "Lookup responses served from the redis cache.",
	}, []string{"key"})
)

// RecordUpstream records one upstream call with its duration and outcome.
func RecordUpstream(provider, outcome string, start time.Time) {
	UpstreamRequests.WithLabelValues(provider, outcome).Inc()
	UpstreamDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}

// RecordResponse records an HTTP response by its status class.
func RecordResponse(status int) {
	HTTPResponses.WithLabelValues(strconv.Itoa(status/100) + "xx").Inc()
}
