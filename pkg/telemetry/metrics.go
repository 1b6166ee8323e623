package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Outcome classifies how an operation ended.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeInputError Outcome = "input_error"
	OutcomeTimeout    Outcome = "timeout"
	OutcomeCanceled   Outcome = "canceled"
	OutcomeError      Outcome = "error"
)

var (
	metricsOnce          sync.Once
	metricsInitErr       error
	operationCounter     metric.Int64Counter
	operationLatency     metric.Float64Histogram
	rhoCallCounter       metric.Int64Counter
	rhoFailureCounter    metric.Int64Counter
	unverifiedCounter    metric.Int64Counter
	progressionRunLength metric.Int64Histogram
)

// OperationMetrics captures the fields recorded for one engine operation.
type OperationMetrics struct {
	Operation   string
	Outcome     Outcome
	Duration    time.Duration
	InputBits   int
	RhoCalls    int
	RhoFailures int
	Unverified  int
	// RunLength is the progression length; negative when not applicable.
	RunLength int
}

// RecordOperationMetrics emits counters and histograms describing one
// engine operation.
func RecordOperationMetrics(ctx context.Context, m OperationMetrics) {
	if err := ensureMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", m.Operation),
		attribute.String("outcome", string(m.Outcome)),
	)
	opOnly := metric.WithAttributes(attribute.String("operation", m.Operation))

	operationCounter.Add(ctx, 1, attrs)
	if m.Duration > 0 {
		operationLatency.Record(ctx, float64(m.Duration)/float64(time.Millisecond), attrs)
	}
	if m.RhoCalls > 0 {
		rhoCallCounter.Add(ctx, int64(m.RhoCalls), opOnly)
	}
	if m.RhoFailures > 0 {
		rhoFailureCounter.Add(ctx, int64(m.RhoFailures), opOnly)
	}
	if m.Unverified > 0 {
		unverifiedCounter.Add(ctx, int64(m.Unverified), opOnly)
	}
	if m.RunLength >= 0 && m.Outcome == OutcomeOK && m.Operation == "progression" {
		progressionRunLength.Record(ctx, int64(m.RunLength), opOnly)
	}
}

func ensureMetrics() error {
	metricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter("primecore.engine")

		operationCounter, metricsInitErr = meter.Int64Counter(
			"primecore.operations_total",
			metric.WithDescription("Engine operations partitioned by outcome"),
			metric.WithUnit("{count}"),
		)
		if metricsInitErr != nil {
			return
		}

		operationLatency, metricsInitErr = meter.Float64Histogram(
			"primecore.operation.duration_ms",
			metric.WithDescription("Observed operation latency"),
			metric.WithUnit("ms"),
		)
		if metricsInitErr != nil {
			return
		}

		rhoCallCounter, metricsInitErr = meter.Int64Counter(
			"primecore.factor.rho_calls_total",
			metric.WithDescription("Pollard rho searches started"),
			metric.WithUnit("{count}"),
		)
		if metricsInitErr != nil {
			return
		}

		rhoFailureCounter, metricsInitErr = meter.Int64Counter(
			"primecore.factor.rho_failures_total",
			metric.WithDescription("Pollard rho searches that exhausted every attempt"),
			metric.WithUnit("{count}"),
		)
		if metricsInitErr != nil {
			return
		}

		unverifiedCounter, metricsInitErr = meter.Int64Counter(
			"primecore.factor.unverified_total",
			metric.WithDescription("Remainders reported as factors without being split"),
			metric.WithUnit("{count}"),
		)
		if metricsInitErr != nil {
			return
		}

		progressionRunLength, metricsInitErr = meter.Int64Histogram(
			"primecore.progression.run_length",
			metric.WithDescription("Length of prime runs found by progression scans"),
			metric.WithUnit("{term}"),
		)
	})

	return metricsInitErr
}

// RecordFactorStats annotates span with the rho work a factorization did
// and adds a factor.degraded event when remainders went unverified.
func RecordFactorStats(span trace.Span, rhoCalls, rhoFailures, unverified int) {
	if span == nil || !span.IsRecording() {
		return
	}

	span.SetAttributes(
		attribute.Int("factor.rho.calls", rhoCalls),
		attribute.Int("factor.rho.failures", rhoFailures),
	)
	if unverified > 0 {
		span.AddEvent("factor.degraded", trace.WithAttributes(
			attribute.Int("factor.unverified.count", unverified),
		))
	}
}
