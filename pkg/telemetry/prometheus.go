package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus view of engine operations.
type Collector struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	rhoFailures       prometheus.Counter
	unverified        prometheus.Counter
	batchInFlight     prometheus.Gauge

	registry *prometheus.Registry
}

// NewCollector creates a Collector with its own registry, including the Go
// runtime collector.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "primecore_operations_total",
				Help: "Total number of engine operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),

		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "primecore_operation_duration_seconds",
				Help:    "Engine operation latency in seconds",
				Buckets: []float64{.00001, .0001, .001, .01, .1, 1, 10},
			},
			[]string{"operation"},
		),

		rhoFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "primecore_rho_failures_total",
				Help: "Pollard rho searches that exhausted every attempt",
			},
		),

		unverified: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "primecore_unverified_factors_total",
				Help: "Remainders reported as factors without being split",
			},
		),

		batchInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "primecore_batch_inflight",
				Help: "Batch items currently being processed",
			},
		),

		registry: registry,
	}

	registry.MustRegister(
		c.operationsTotal,
		c.operationDuration,
		c.rhoFailures,
		c.unverified,
		c.batchInFlight,
		collectors.NewGoCollector(),
	)

	return c
}

// Observe records one operation.
func (c *Collector) Observe(m OperationMetrics) {
	c.operationsTotal.WithLabelValues(m.Operation, string(m.Outcome)).Inc()
	c.operationDuration.WithLabelValues(m.Operation).Observe(m.Duration.Seconds())
	if m.RhoFailures > 0 {
		c.rhoFailures.Add(float64(m.RhoFailures))
	}
	if m.Unverified > 0 {
		c.unverified.Add(float64(m.Unverified))
	}
}

// BatchStarted and BatchFinished track in-flight batch items.
func (c *Collector) BatchStarted()  { c.batchInFlight.Inc() }
func (c *Collector) BatchFinished() { c.batchInFlight.Dec() }

// Handler returns the Prometheus metrics HTTP handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
