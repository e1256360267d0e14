package conversion

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "statement_converter"

// Metrics holds the conversion counters exposed on /metrics
type Metrics struct {
	Conversions  *prometheus.CounterVec
	Duration     prometheus.Histogram
	Transactions prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Total number of conversion attempts by outcome",
			},
			[]string{"outcome"},
		),
		Duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "conversion_duration_seconds",
				Help:      "Time spent converting one upload",
				Buckets:   prometheus.DefBuckets,
			},
		),
		Transactions: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_total",
				Help:      "Total number of transactions written to spreadsheets",
			},
		),
	}
}

func (m *Metrics) observe(outcome string, elapsed time.Duration, transactions int) {
	if m == nil {
		return
	}
	m.Conversions.WithLabelValues(outcome).Inc()
	m.Duration.Observe(elapsed.Seconds())
	if transactions > 0 {
		m.Transactions.Add(float64(transactions))
	}
}
