package runner

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects runner counters labeled by instrument name.
type Metrics struct {
	instructions *prometheus.CounterVec
	failures     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	orders       *prometheus.GaugeVec
}

// NewMetrics creates runner metrics and registers them with given registerer.
// Nil registerer leaves metrics unregistered.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		instructions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ladder",
				Subsystem: "runner",
				Name:      "instructions_total",
				Help:      "Total instructions processed",
			},
			[]string{"instrument", "type"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ladder",
				Subsystem: "runner",
				Name:      "instruction_failures_total",
				Help:      "Total failed cancels, failed edits and rejected adds",
			},
			[]string{"instrument", "type"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ladder",
				Subsystem: "runner",
				Name:      "instruction_duration_seconds",
				Help:      "Duration of a single instruction",
				Buckets:   prometheus.ExponentialBuckets(25e-9, 2, 16),
			},
			[]string{"instrument"},
		),
		orders: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "ladder",
				Subsystem: "runner",
				Name:      "resting_orders",
				Help:      "Resting orders of the order book after the last instruction batch",
			},
			[]string{"instrument"},
		),
	}
	if registerer != nil {
		registerer.MustRegister(m.instructions, m.failures, m.latency, m.orders)
	}
	return m
}

// instrument binds the metrics to a single instrument so workers do not resolve labels per instruction.
func (m *Metrics) instrument(name string) *instrumentMetrics {
	if m == nil {
		return nil
	}
	im := &instrumentMetrics{
		latency: m.latency.WithLabelValues(name),
		orders:  m.orders.WithLabelValues(name),
	}
	for _, typ := range []string{"add", "cancel", "edit"} {
		im.instructions = append(im.instructions, m.instructions.WithLabelValues(name, typ))
		im.failures = append(im.failures, m.failures.WithLabelValues(name, typ))
	}
	return im
}

// Indexes of per-type counters.
const (
	metricAdd = iota
	metricCancel
	metricEdit
)

type instrumentMetrics struct {
	instructions []prometheus.Counter
	failures     []prometheus.Counter
	latency      prometheus.Observer
	orders       prometheus.Gauge
}
