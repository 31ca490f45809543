package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the issuer.
type Metrics struct {
	// Operation outcomes by operation and result kind
	Operations *prometheus.CounterVec

	// Operation latency including storage commit
	OperationLatency *prometheus.HistogramVec

	TokensMinted prometheus.Counter
	TokensBurned prometheus.Counter

	// Live global supply after the last commit
	TotalSupply prometheus.Gauge
}

// New creates issuer metrics registered on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "attest_issuer_operations_total",
			Help: "Total issuer operations by operation and result",
		}, []string{"operation", "result"}), // result: "ok", "unauthorized", "state_conflict", "paused", "invalid_parameter", "error"

		OperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "attest_issuer_operation_duration_seconds",
			Help:    "Duration of issuer operations including storage commit",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"operation"}),

		TokensMinted: factory.NewCounter(prometheus.CounterOpts{
			Name: "attest_tokens_minted_total",
			Help: "Total tokens minted",
		}),

		TokensBurned: factory.NewCounter(prometheus.CounterOpts{
			Name: "attest_tokens_burned_total",
			Help: "Total tokens burned",
		}),

		TotalSupply: factory.NewGauge(prometheus.GaugeOpts{
			Name: "attest_total_supply",
			Help: "Live tokens across all events",
		}),
	}
}

// ObserveOperation records an operation result and its duration.
func (m *Metrics) ObserveOperation(op, result string, d time.Duration) {
	if m != nil {
		m.Operations.WithLabelValues(op, result).Inc()
		m.OperationLatency.WithLabelValues(op).Observe(d.Seconds())
	}
}

// AddMinted records n newly minted tokens.
func (m *Metrics) AddMinted(n int) {
	if m != nil && n > 0 {
		m.TokensMinted.Add(float64(n))
	}
}

// AddBurned records n burned tokens.
func (m *Metrics) AddBurned(n int) {
	if m != nil && n > 0 {
		m.TokensBurned.Add(float64(n))
	}
}

// SetTotalSupply records the live global supply.
func (m *Metrics) SetTotalSupply(v uint64) {
	if m != nil {
		m.TotalSupply.Set(float64(v))
	}
}
