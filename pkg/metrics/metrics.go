// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// FilterRequestsTotal tracks catalog filter invocations.
	FilterRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_filter_requests_total",
			Help: "Total catalog filter invocations",
		},
		[]string{"result"},
	)

	// FilterResultSize tracks the size of filtered result sets.
	FilterResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_filter_result_size",
			Help:    "Number of tools returned per filter invocation",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	// ChatMessagesTotal tracks transcript appends by sender.
	ChatMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Total chat messages appended",
		},
		[]string{"sender"},
	)

	// ChatRuleMatchesTotal tracks rule-table hits by topic.
	ChatRuleMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_rule_matches_total",
			Help: "Total rule-table matches",
		},
		[]string{"topic"},
	)

	// RemoteCompletionDuration tracks remote completion round trips.
	RemoteCompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_remote_completion_duration_seconds",
			Help:    "Remote completion round-trip duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider", "status"},
	)

	// SessionsActive tracks currently open chat sessions.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_sessions_active",
			Help: "Number of open chat sessions",
		},
	)

	// SSEConnectionsActive tracks active SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordFilter records metrics for a catalog filter invocation.
func RecordFilter(matched int) {
	result := "matched"
	if matched == 0 {
		result = "empty"
	}
	FilterRequestsTotal.WithLabelValues(result).Inc()
	FilterResultSize.Observe(float64(matched))
}

// RecordRemoteCompletion records metrics for a remote completion call.
func RecordRemoteCompletion(provider, status string, duration float64) {
	RemoteCompletionDuration.WithLabelValues(provider, status).Observe(duration)
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
