// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edustaff_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edustaff_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	FundsTransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edustaff_funds_transfers_total",
			Help: "Funds transfers by outcome.",
		},
		[]string{"outcome"},
	)

	FundsTransferredAmount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edustaff_funds_transferred_amount_total",
			Help: "Sum of successfully transferred amounts.",
		},
	)

	EmployeesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edustaff_employees_created_total",
			Help: "Subordinate creations by role, policy and outcome.",
		},
		[]string{"role", "policy", "outcome"},
	)

	ScheduledCreditsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edustaff_scheduled_credits_total",
			Help: "Scheduled per-employee credits by job and result.",
		},
		[]string{"job", "result"},
	)

	ScheduledRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edustaff_scheduled_run_duration_seconds",
			Help:    "Duration of scheduled credit batches.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"job"},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edustaff_login_attempts_total",
			Help: "Login attempts by principal kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	EmployeesByRole = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "edustaff_employees",
			Help: "Current employee count by role.",
		},
		[]string{"role"},
	)

	OrganisationFunds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "edustaff_organisation_funds",
			Help: "Sum of all employee balances at the last collection.",
		},
	)

	OrgMetricsCollectErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edustaff_org_metrics_collect_errors_total",
			Help: "Failed organisation gauge refreshes.",
		},
	)
)
