package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Triaged email count by outcome
	EmailsTriaged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_emails_triaged_total",
			Help: "Total number of support emails triaged",
		},
		[]string{"sentiment", "priority"},
	)

	// Messages dropped by the support-relevance filter
	EmailsFiltered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_emails_filtered_total",
			Help: "Total number of fetched emails dropped as not support-relevant",
		},
	)

	// Deterministic fallback activations by stage
	FallbacksUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_fallbacks_total",
			Help: "Total number of deterministic fallbacks after generative call failures",
		},
		[]string{"stage"}, // stage: sentiment, draft
	)

	// Record store write failures
	RecordWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_record_write_failures_total",
			Help: "Total number of failed triage record inserts",
		},
	)

	// Generative API call latency (seconds)
	AICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_ai_call_duration_seconds",
			Help:    "Generative text API call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"operation", "status"}, // operation: classify, complete
	)

	// Outbound reply count
	RepliesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_replies_sent_total",
			Help: "Total number of outbound reply attempts",
		},
		[]string{"status"}, // status: success, failed
	)
)

// RecordAICall records one generative API call with its duration and outcome
func RecordAICall(operation string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	AICallDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// IncrementTriaged increments the triage counter for one result
func IncrementTriaged(sentiment, priority string) {
	EmailsTriaged.WithLabelValues(sentiment, priority).Inc()
}

// IncrementFallback increments the fallback counter for a pipeline stage
func IncrementFallback(stage string) {
	FallbacksUsed.WithLabelValues(stage).Inc()
}

// IncrementReplySent increments the reply counter with a success flag
func IncrementReplySent(success bool) {
	status := "success"
	if !success {
		status = "failed"
	}
	RepliesSent.WithLabelValues(status).Inc()
}
