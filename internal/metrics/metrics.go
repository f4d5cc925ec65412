package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the Prometheus collectors for the listing path.
type Metrics struct {
	ListRequests  *prometheus.CounterVec
	DesignsServed *prometheus.CounterVec
	ListDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ListRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "knitting_design_list_requests_total",
			Help: "Design listing requests by transport and outcome",
		}, []string{"transport", "outcome"}),
		DesignsServed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "knitting_designs_served_total",
			Help: "Designs returned by successful listing requests",
		}, []string{"transport"}),
		ListDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "knitting_design_list_duration_seconds",
			Help:    "Time spent draining the design catalog",
			Buckets: prometheus.DefBuckets,
		}, []string{"transport"}),
	}
}

// ObserveList records one listing call. count is ignored on failure.
func (m *Metrics) ObserveList(transport, outcome string, count int, elapsed time.Duration) {
	m.ListRequests.WithLabelValues(transport, outcome).Inc()
	m.ListDuration.WithLabelValues(transport).Observe(elapsed.Seconds())
	if outcome == OutcomeSuccess {
		m.DesignsServed.WithLabelValues(transport).Add(float64(count))
	}
}
