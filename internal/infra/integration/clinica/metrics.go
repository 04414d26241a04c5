package clinica

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_api_requests_total",
			Help: "Total number of calls to the clinic backend",
		},
		[]string{"operation", "outcome"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clinic_api_request_duration_seconds",
			Help:    "Duration of clinic backend calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func recordCall(operation, outcome string, seconds float64) {
	apiRequestsTotal.WithLabelValues(operation, outcome).Inc()
	apiRequestDuration.WithLabelValues(operation).Observe(seconds)
}
