package processor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects processor telemetry: transactions applied and rejected
// by kind, engine faults, and handler latency. All methods are nil-safe so
// the processor can run without a collector.
type Metrics struct {
	registry *prometheus.Registry

	applied  *prometheus.CounterVec
	rejected *prometheus.CounterVec
	faults   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates a metrics collector with its own registry under the
// given namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		applied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "processor",
			Name:      "transactions_applied_total",
			Help:      "Transactions validated and applied, by kind.",
		}, []string{"kind"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "processor",
			Name:      "transactions_rejected_total",
			Help:      "Transactions rejected by validation, by kind.",
		}, []string{"kind"}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "processor",
			Name:      "engine_faults_total",
			Help:      "Invocations aborted by state context faults, by kind.",
		}, []string{"kind"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "processor",
			Name:      "handler_duration_seconds",
			Help:      "Handler latency by kind and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "outcome"}),
	}

	m.registry.MustRegister(m.applied, m.rejected, m.faults, m.latency)
	return m
}

// Registry exposes the collector's registry for scraping.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) observeApplied(kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.applied.WithLabelValues(kind).Inc()
	m.latency.WithLabelValues(kind, "applied").Observe(elapsed.Seconds())
}

func (m *Metrics) observeRejected(kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(kind).Inc()
	m.latency.WithLabelValues(kind, "rejected").Observe(elapsed.Seconds())
}

func (m *Metrics) observeFault(kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.faults.WithLabelValues(kind).Inc()
	m.latency.WithLabelValues(kind, "fault").Observe(elapsed.Seconds())
}
