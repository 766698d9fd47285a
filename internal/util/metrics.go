package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SettlementsCommittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlements_committed_total",
		Help: "Total number of committed settlements by payment method",
	}, []string{"method"})

	SettlementsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlements_rejected_total",
		Help: "Total number of settlements rejected before any write",
	}, []string{"reason"})

	SettlementWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_write_failures_total",
		Help: "Total number of settlement commits rolled back on write failure",
	})

	SettlementCommitLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "settlement_commit_latency_seconds",
		Help:    "Latency of the transactional settlement commit",
		Buckets: prometheus.DefBuckets,
	})

	SaleLinesRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sale_lines_recorded_total",
		Help: "Total number of sale ledger rows written",
	})

	DebtEntriesRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "debt_entries_recorded_total",
		Help: "Total number of per-unit debt entries written",
	})

	DebtRepaymentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "debt_repayments_total",
		Help: "Total number of debt entries marked paid",
	})

	DebtRepaymentsDuplicateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "debt_repayments_duplicate_total",
		Help: "Total number of repayment attempts on already-paid entries",
	})

	CatalogLookupLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_lookup_latency_seconds",
		Help:    "Latency of catalog snapshot reads plus binary search",
		Buckets: prometheus.DefBuckets,
	})

	CatalogLookupMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_lookup_misses_total",
		Help: "Total number of barcode lookups with no catalog match",
	})

	ScoreComputationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reliability_score_computations_total",
		Help: "Total number of reliability score computations by source",
	}, []string{"source"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
