package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PublishTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_publish_total",
			Help: "Total number of publish attempts by source and outcome (count)",
		},
		[]string{"source", "status"},
	)

	PublishDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notifier_publish_duration_ms",
			Help:    "End-to-end publish duration including retries in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"source"},
	)

	SchedulerFiringsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_scheduler_firings_total",
			Help: "Total number of scheduled firings by outcome (count)",
		},
		[]string{"status"},
	)

	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_retry_attempts_total",
			Help: "Total number of publish retry attempts (count)",
		},
		[]string{"source"},
	)

	HealthChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_health_checks_total",
			Help: "Total number of health evaluations by component and status (count)",
		},
		[]string{"component", "status"},
	)

	QueueProbeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notifier_queue_probe_duration_ms",
			Help:    "Queue connectivity probe duration in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)
)

func RegisterPublisherMetrics() {
	prometheus.MustRegister(PublishTotal)
	prometheus.MustRegister(PublishDuration)
	prometheus.MustRegister(RetryAttemptsTotal)
}

func RegisterSchedulerMetrics() {
	prometheus.MustRegister(SchedulerFiringsTotal)
}

func RegisterHealthMetrics() {
	prometheus.MustRegister(HealthChecksTotal)
	prometheus.MustRegister(QueueProbeDuration)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(CircuitBreakerState)
	prometheus.MustRegister(CircuitBreakerRequests)
	prometheus.MustRegister(CircuitBreakerFailures)
}

func RegisterRateLimitMetrics() {
	prometheus.MustRegister(RateLimitRequestsTotal)
}
