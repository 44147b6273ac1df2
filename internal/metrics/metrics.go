// Package metrics exposes Prometheus instrumentation for the inference
// pipeline. Collectors are registered on the default registry via promauto and
// served by the /metrics route.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Inference outcomes by kind (ok, no_json, parse_error, inference_error).
	InferenceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caretaker_inference_total",
			Help: "Total inference requests by outcome kind",
		},
		[]string{"outcome"},
	)

	// Wall time of one generation call against the model provider.
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "caretaker_generation_duration_seconds",
			Help:    "Model generation call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~100s
		},
	)

	// Time a request spent queued behind the single-flight lock.
	QueueWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "caretaker_queue_wait_seconds",
			Help:    "Time spent waiting for exclusive model access in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~16s
		},
	)
)

// IncInference increments the outcome counter for one finished request.
func IncInference(outcome string) {
	InferenceTotal.WithLabelValues(outcome).Inc()
}

// ObserveGeneration records the duration of one generation call.
func ObserveGeneration(d time.Duration) {
	GenerationDuration.Observe(d.Seconds())
}

// ObserveQueueWait records how long a request waited for the model lock.
func ObserveQueueWait(d time.Duration) {
	QueueWait.Observe(d.Seconds())
}
