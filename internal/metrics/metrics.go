// Package metrics holds the Prometheus collectors the service exports on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Metrics groups the ledger's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	rpcRequests   *prometheus.CounterVec
	rpcDuration   *prometheus.HistogramVec
	paymentsTotal *prometheus.CounterVec
	amountPaid    prometheus.Counter
	eventsCreated prometheus.Counter
	storeRetries  prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "splitledger",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		paymentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "payments_total",
			Help:      "Payment attempts by outcome.",
		}, []string{"outcome"}),
		amountPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "amount_paid_total",
			Help:      "Sum of all applied payment amounts.",
		}),
		eventsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "events_created_total",
			Help:      "Events created.",
		}),
		storeRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "store_read_retries_total",
			Help:      "Read operations retried after the store was unavailable.",
		}),
	}
	reg.MustRegister(m.rpcRequests, m.rpcDuration, m.paymentsTotal, m.amountPaid, m.eventsCreated, m.storeRetries)
	return m
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(seconds)
}

// PaymentApplied records a successful payment of amount.
func (m *Metrics) PaymentApplied(amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.paymentsTotal.WithLabelValues("applied").Inc()
	m.amountPaid.Add(amount.InexactFloat64())
}

// PaymentReplayed records a payment answered from its idempotency key.
func (m *Metrics) PaymentReplayed() {
	if m == nil {
		return
	}
	m.paymentsTotal.WithLabelValues("replayed").Inc()
}

// PaymentRejected records a payment that failed.
func (m *Metrics) PaymentRejected() {
	if m == nil {
		return
	}
	m.paymentsTotal.WithLabelValues("rejected").Inc()
}

// EventCreated records a new event.
func (m *Metrics) EventCreated() {
	if m == nil {
		return
	}
	m.eventsCreated.Inc()
}

// StoreRetry records one retried read.
func (m *Metrics) StoreRetry() {
	if m == nil {
		return
	}
	m.storeRetries.Inc()
}
