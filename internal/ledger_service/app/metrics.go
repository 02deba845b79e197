package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ledgerDistributionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "distributions_total",
			Help:      "Total credit distribution attempts.",
		},
		[]string{"status"}, // "success", "not_found", "forbidden", "insufficient_credits", "validation", "error"
	)

	ledgerConsumptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "consumptions_total",
			Help:      "Total credit consumption (message send) attempts.",
		},
		[]string{"status", "mode"},
	)

	ledgerOperationDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Duration of atomic ledger operations.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
