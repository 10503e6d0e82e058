package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waterbill_http_requests_total",
		Help: "Total HTTP requests by method, path, and status code",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "waterbill_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	BillsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waterbill_bills_created_total",
		Help: "Total water bills created (single and batch)",
	})

	PaymentsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waterbill_payments_processed_total",
		Help: "Total payments recorded, by method",
	}, []string{"method"})

	BillingRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waterbill_billing_runs_total",
		Help: "Monthly billing run outcomes",
	}, []string{"result"})
)
