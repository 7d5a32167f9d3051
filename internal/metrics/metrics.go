// Package metrics holds the Prometheus collectors of the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "learnledger"

var (
	// LedgerTransactions counts submitted ledger transactions by type and final status.
	// The status is "ERROR" when no receipt was obtained.
	LedgerTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_transactions_total",
		Help:      "Ledger transactions submitted, by type and receipt status.",
	}, []string{"type", "status"})

	// LedgerTransactionSeconds observes the time from submission to receipt.
	LedgerTransactionSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ledger_transaction_seconds",
		Help:      "Time from submitting a ledger transaction until its receipt is observed.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"type"})

	// Publications counts publish attempts by outcome.
	Publications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "publications_total",
		Help:      "Resource publication attempts, by outcome.",
	}, []string{"outcome"})

	// Purchases counts purchase attempts by outcome.
	Purchases = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Resource purchase attempts, by outcome.",
	}, []string{"outcome"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
