package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records login attempts by result (success|failure|unverified).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskslist_auth_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	// Registrations counts successful account registrations.
	Registrations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taskslist_registrations_total",
			Help: "Total number of registered accounts",
		},
	)

	// VerificationCodes counts verification code events (issued|verified|rejected|mail_failed).
	VerificationCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskslist_verification_codes_total",
			Help: "Verification code lifecycle events",
		},
		[]string{"event"},
	)

	// TaskMutations counts task list and task writes by entity and operation.
	TaskMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskslist_task_mutations_total",
			Help: "Task list and task write operations",
		},
		[]string{"entity", "operation"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskslist_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
