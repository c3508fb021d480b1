package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricUpstreamRequestsTotal   = "storefront_upstream_requests_total"
	MetricUpstreamDurationSeconds = "storefront_upstream_request_duration_seconds"
)

// Metrics counts upstream API calls per operation and outcome.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricUpstreamRequestsTotal,
			Help: "Upstream API requests by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricUpstreamDurationSeconds,
			Help:    "Upstream API request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

func (m *Metrics) observe(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	if IsUnauthorized(err) {
		return "unauthorized"
	}
	if apiErr, ok := err.(*Error); ok {
		return apiErr.Kind.String()
	}
	return "error"
}
