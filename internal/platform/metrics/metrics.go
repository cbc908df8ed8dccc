package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	dErrors "regnet/pkg/domain-errors"
)

// Metrics holds the registry contract metrics.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	UsersRegistered   prometheus.Counter
	UsersApproved     prometheus.Counter
	CoinsMinted       prometheus.Counter
	AssetsCreated     prometheus.Counter
	Purchases         prometheus.Counter
	CoinsTransferred  prometheus.Counter
	EventsRelayed     *prometheus.CounterVec
}

// New creates and registers all metrics with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers with reg; tests pass a fresh prometheus.Registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regnet_contract_operations_total",
			Help: "Contract operations by component, operation and result code",
		}, []string{"component", "operation", "code"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "regnet_contract_operation_duration_seconds",
			Help:    "Contract operation latency including ledger retries",
			Buckets: prometheus.DefBuckets,
		}, []string{"component", "operation"}),
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "regnet_users_registration_requested_total",
			Help: "Registration requests accepted",
		}),
		UsersApproved: factory.NewCounter(prometheus.CounterOpts{
			Name: "regnet_users_approved_total",
			Help: "Registration requests approved by a registrar",
		}),
		CoinsMinted: factory.NewCounter(prometheus.CounterOpts{
			Name: "regnet_coins_minted_total",
			Help: "Coins credited through voucher top-ups",
		}),
		AssetsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "regnet_assets_created_total",
			Help: "Properties registered",
		}),
		Purchases: factory.NewCounter(prometheus.CounterOpts{
			Name: "regnet_asset_purchases_total",
			Help: "Completed property purchases",
		}),
		CoinsTransferred: factory.NewCounter(prometheus.CounterOpts{
			Name: "regnet_coins_transferred_total",
			Help: "Coins moved from buyers to sellers",
		}),
		EventsRelayed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regnet_events_relayed_total",
			Help: "Ledger events handed to the event publisher, by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveOperation records one contract call. A nil receiver is a no-op.
func (m *Metrics) ObserveOperation(component, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	code := "ok"
	if err != nil {
		code = string(dErrors.CodeOf(err))
	}
	m.Operations.WithLabelValues(component, operation, code).Inc()
	m.OperationDuration.WithLabelValues(component, operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementUsersRegistered() {
	if m != nil {
		m.UsersRegistered.Inc()
	}
}

func (m *Metrics) IncrementUsersApproved() {
	if m != nil {
		m.UsersApproved.Inc()
	}
}

func (m *Metrics) AddCoinsMinted(amount uint64) {
	if m != nil {
		m.CoinsMinted.Add(float64(amount))
	}
}

func (m *Metrics) IncrementAssetsCreated() {
	if m != nil {
		m.AssetsCreated.Inc()
	}
}

func (m *Metrics) RecordPurchase(price uint64) {
	if m == nil {
		return
	}
	m.Purchases.Inc()
	m.CoinsTransferred.Add(float64(price))
}

func (m *Metrics) AddEventsRelayed(outcome string, n int) {
	if m != nil {
		m.EventsRelayed.WithLabelValues(outcome).Add(float64(n))
	}
}
