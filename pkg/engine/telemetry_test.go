package engine

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/polisai/primecore/pkg/telemetry"
	"github.com/polisai/primecore/pkg/validate"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func setupTestMeter(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(mp)
	telemetry.ResetMetricsForTest()
	t.Cleanup(func() {
		otel.SetMeterProvider(prev)
		telemetry.ResetMetricsForTest()
		_ = mp.Shutdown(context.Background())
	})
	return reader
}

func TestOperationsEmitSpans(t *testing.T) {
	recorder := setupTestTracer(t)
	e := newTestEngine(t, Config{})

	ctx := WithCallID(context.Background(), "call-42")
	_, err := e.Factorize(ctx, validate.Uint(1000003*1000033))
	require.NoError(t, err)

	_, err = e.Primality(context.Background(), validate.Float(0.5))
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	factorSpan := spans[0]
	assert.Equal(t, "engine.factorize", factorSpan.Name())
	attrs := attribute.NewSet(factorSpan.Attributes()...)
	if v, ok := attrs.Value("call.id"); assert.True(t, ok) {
		assert.Equal(t, "call-42", v.AsString())
	}
	if v, ok := attrs.Value("outcome"); assert.True(t, ok) {
		assert.Equal(t, "ok", v.AsString())
	}
	if v, ok := attrs.Value("factor.rho.calls"); assert.True(t, ok) {
		assert.Positive(t, v.AsInt64())
	}

	primeSpan := spans[1]
	assert.Equal(t, "engine.primality", primeSpan.Name())
	assert.Equal(t, codes.Error, primeSpan.Status().Code)
	primeAttrs := attribute.NewSet(primeSpan.Attributes()...)
	if v, ok := primeAttrs.Value("call.id"); assert.True(t, ok) {
		assert.NotEmpty(t, v.AsString())
	}
}

func TestOperationsRecordMetrics(t *testing.T) {
	reader := setupTestMeter(t)
	e := newTestEngine(t, Config{})
	ctx := context.Background()

	_, err := e.Progression(ctx, validate.Uint(5), validate.Uint(6), 100)
	require.NoError(t, err)
	_, err = e.Progression(ctx, validate.Uint(5), validate.Uint(0), 100)
	require.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = e.Primality(cancelled, validate.Uint(97))
	require.ErrorIs(t, err, context.Canceled)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	outcomes := map[string]int64{}
	var runLengthSum int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch m.Name {
			case "primecore.operations_total":
				for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
					outcome, _ := dp.Attributes.Value("outcome")
					outcomes[outcome.AsString()] += dp.Value
				}
			case "primecore.progression.run_length":
				for _, dp := range m.Data.(metricdata.Histogram[int64]).DataPoints {
					runLengthSum += dp.Sum
				}
			}
		}
	}

	assert.Equal(t, int64(1), outcomes["ok"])
	assert.Equal(t, int64(1), outcomes["input_error"])
	assert.Equal(t, int64(1), outcomes["canceled"])
	assert.Zero(t, outcomes["error"])
	assert.Equal(t, int64(5), runLengthSum)
}

func TestCollectorObservesOperations(t *testing.T) {
	collector := telemetry.NewCollector()
	e := newTestEngine(t, Config{Collector: collector, Workers: 2})

	_, err := e.FactorizeBatch(context.Background(), []validate.Number{
		validate.Uint(6),
		validate.Uint(35),
		validate.Int(-1),
	})
	require.NoError(t, err)

	families, err := collector.Registry().Gather()
	require.NoError(t, err)

	byOutcome := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "primecore_operations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "outcome" {
					byOutcome[lp.GetValue()] += m.GetCounter().GetValue()
				}
			}
		}
	}

	assert.Equal(t, 2.0, byOutcome["ok"])
	assert.Equal(t, 1.0, byOutcome["input_error"])
	count, err := testutil.GatherAndCount(collector.Registry(), "primecore_batch_inflight")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
