package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects chatbot counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	matches         *prometheus.CounterVec
	replyFallbacks  prometheus.Counter
	visionFailures  prometheus.Counter
	cacheHits       prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg when it is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopbot",
			Name:      "catalog_matches_total",
			Help:      "Catalog matches by the tier that produced the result.",
		}, []string{"tier"}),
		replyFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shopbot",
			Name:      "reply_fallbacks_total",
			Help:      "Replies replaced by the fallback message.",
		}),
		visionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shopbot",
			Name:      "vision_failures_total",
			Help:      "Image analyses that failed or returned invalid output.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shopbot",
			Name:      "query_cache_hits_total",
			Help:      "Natural-language queries answered from cache.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shopbot",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}

	if reg != nil {
		reg.MustRegister(m.matches, m.replyFallbacks, m.visionFailures, m.cacheHits, m.requestDuration)
	}
	return m
}

// ObserveMatch counts a match result by tier.
func (m *Metrics) ObserveMatch(tier string) {
	if m == nil {
		return
	}
	if tier == "" {
		tier = "none"
	}
	m.matches.WithLabelValues(tier).Inc()
}

// ReplyFallback counts a fallback reply.
func (m *Metrics) ReplyFallback() {
	if m == nil {
		return
	}
	m.replyFallbacks.Inc()
}

// VisionFailure counts a failed image analysis.
func (m *Metrics) VisionFailure() {
	if m == nil {
		return
	}
	m.visionFailures.Inc()
}

// CacheHit counts a query served from cache.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, status).Observe(d.Seconds())
}
