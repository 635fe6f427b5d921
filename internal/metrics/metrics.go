package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Total number of chat requests by resolved intent and response status",
		},
		[]string{"intent", "status"},
	)

	IntentClassifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_classifications_total",
			Help: "Total number of intent classifications by the path that produced them",
		},
		[]string{"source"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of outbound calls to the catalog and text-generation services",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "operation", "outcome"},
	)
)

// ObserveUpstream records one outbound call started at start.
func ObserveUpstream(service, operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamDuration.WithLabelValues(service, operation, outcome).Observe(time.Since(start).Seconds())
}
