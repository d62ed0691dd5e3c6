package proxy

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vibedex/vibedex/internal/audit"
)

// Metrics records proxy request outcomes and upstream latency.
type Metrics struct {
	requests         *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

// NewMetrics creates proxy metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vibedex",
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Proxy requests by outcome and response status code.",
		}, []string{"outcome", "code"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vibedex",
			Subsystem: "proxy",
			Name:      "upstream_duration_seconds",
			Help:      "Latency of upstream calls, including body decoding.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.upstreamDuration)
	}
	return m
}

func (m *Metrics) observeRequest(outcome audit.Outcome, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(outcome), strconv.Itoa(status)).Inc()
}

func (m *Metrics) observeUpstream(outcome audit.Outcome, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(string(outcome)).Observe(d.Seconds())
}
