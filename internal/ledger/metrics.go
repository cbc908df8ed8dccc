package ledger

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"regnet/pkg/platform/sentinel"
)

// Metrics tracks ledger transaction outcomes per backend.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Transactions *prometheus.CounterVec
	Conflicts    *prometheus.CounterVec
	TxDuration   *prometheus.HistogramVec
}

// NewMetrics registers the ledger metrics with the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		Transactions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "regnet_ledger_transactions_total",
			Help: "Ledger transactions by backend and outcome (committed, aborted, conflict)",
		}, []string{"backend", "outcome"}),
		Conflicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "regnet_ledger_conflicts_total",
			Help: "Transactions re-run because a concurrent commit invalidated their reads",
		}, []string{"backend"}),
		TxDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "regnet_ledger_tx_duration_seconds",
			Help:    "Duration of a single ledger transaction attempt",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"backend"}),
	}
}

func (m *Metrics) observeTx(backend string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.TxDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
	outcome := "committed"
	switch {
	case errors.Is(err, sentinel.ErrConflict):
		outcome = "conflict"
	case err != nil:
		outcome = "aborted"
	}
	m.Transactions.WithLabelValues(backend, outcome).Inc()
}

func (m *Metrics) incConflict(backend string) {
	if m == nil {
		return
	}
	m.Conflicts.WithLabelValues(backend).Inc()
}
