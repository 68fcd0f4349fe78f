package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundly_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	AllocationPasses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundly_allocation_passes_total",
			Help: "Allocation passes by trigger and outcome",
		},
		[]string{"trigger", "outcome"}, // donation|expense, ok|noop|error|conflict
	)
	AllocationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundly_allocations_created_total",
			Help: "Fund allocation rows created",
		},
		[]string{"trigger"},
	)
	AllocatedAmount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fundly_allocated_amount_total",
			Help: "Sum of allocated amounts, in currency units",
		},
	)
	AllocationPassDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fundly_allocation_pass_duration_seconds",
			Help:    "Duration of an allocation pass including lock wait",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"trigger"},
	)

	WithdrawalReviews = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundly_withdrawal_reviews_total",
			Help: "Withdrawal request reviews by outcome",
		},
		[]string{"outcome"}, // approved|rejected|insufficient_funds|error
	)

	DonationConfirmations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundly_donation_confirmations_total",
			Help: "Payment confirmations by requested status and outcome",
		},
		[]string{"status", "outcome"}, // outcome: applied|duplicate|rejected|error
	)
	SettlementRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundly_settlement_rows_total",
			Help: "Settlement report rows by outcome",
		},
		[]string{"outcome"},
	)

	AssetJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundly_asset_jobs_total",
			Help: "Derived asset jobs by outcome",
		},
		[]string{"outcome"},
	)
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fundly_worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

// Init registers every collector with the default registry. Call once from main.
func Init() {
	prometheus.MustRegister(
		RequestsTotal,
		AllocationPasses,
		AllocationsCreated,
		AllocatedAmount,
		AllocationPassDuration,
		WithdrawalReviews,
		DonationConfirmations,
		SettlementRows,
		AssetJobs,
		WorkerQueueDepth,
	)
}
