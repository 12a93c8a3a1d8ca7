// Package metrics holds the prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecosage_requests_total",
			Help: "Total number of ask requests",
		},
		[]string{"mode", "status"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ecosage_request_duration_seconds",
			Help: "Duration of ask requests",
		},
		[]string{"mode"},
	)
	AdapterCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecosage_adapter_calls_total",
			Help: "Calls to external collaborators (llm, embeddings, retrieval, web search)",
		},
		[]string{"adapter", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(AdapterCalls)
}

// ObserveAdapterCall records one collaborator round-trip.
func ObserveAdapterCall(adapter string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	AdapterCalls.WithLabelValues(adapter, outcome).Inc()
}
