package engine

import (
	"context"
	"errors"
	"log/slog"
	"math/bits"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/polisai/primecore/internal/governance"
	"github.com/polisai/primecore/pkg/config"
	"github.com/polisai/primecore/pkg/domain"
	"github.com/polisai/primecore/pkg/progression"
	"github.com/polisai/primecore/pkg/telemetry"
)

// Operation names used in spans, metrics and logs.
const (
	OpPrimality         = "primality"
	OpProbablePrimality = "probable_primality"
	OpFactorize         = "factorize"
	OpProgression       = "progression"
	OpFactorizeBatch    = "factorize_batch"
)

// DefaultProbableRounds is the Miller-Rabin round count used when the
// configuration leaves it unset.
const DefaultProbableRounds = 20

// Config holds the dependencies and tuning of an Engine.
type Config struct {
	// Workers bounds batch concurrency. 0 selects GOMAXPROCS.
	Workers int
	// Timeout bounds every single operation. 0 disables it.
	Timeout time.Duration
	// Seed roots the per-call generators. 0 seeds from the runtime.
	Seed uint64
	// ProbableRounds is the Miller-Rabin round count front ends use when the
	// caller gives none. 0 selects DefaultProbableRounds.
	ProbableRounds int
	// Strict refuses to report composite remainders rho could not split.
	Strict bool
	// StrictRetries is the number of extra rho rounds a stuck remainder gets
	// under Strict. 0 selects factor.DefaultStrictRetries.
	StrictRetries int
	// DefaultTerms is the progression term cap front ends use when the
	// caller gives none. 0 selects progression.DefaultTerms.
	DefaultTerms int

	// Logger receives per-call records. nil selects slog.Default.
	Logger *slog.Logger
	// Collector additionally exports operations to Prometheus. Optional.
	Collector *telemetry.Collector
}

// ConfigFrom converts the engine section of the file configuration.
func ConfigFrom(cfg config.EngineConfig) Config {
	return Config{
		Workers:        cfg.Workers,
		Timeout:        cfg.Timeout,
		Seed:           cfg.Seed,
		ProbableRounds: cfg.ProbableRounds,
		Strict:         cfg.StrictFactorization,
		StrictRetries:  cfg.StrictRetries,
		DefaultTerms:   cfg.DefaultTerms,
	}
}

// Engine runs core operations with validation, deadlines and telemetry.
type Engine struct {
	cfg       Config
	logger    *slog.Logger
	seeder    *Seeder
	timeouts  *governance.TimeoutManager
	collector *telemetry.Collector
}

// New creates an Engine. Zero-valued tuning fields fall back to defaults.
func New(cfg Config) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.ProbableRounds <= 0 {
		cfg.ProbableRounds = DefaultProbableRounds
	}
	if cfg.DefaultTerms <= 0 {
		cfg.DefaultTerms = progression.DefaultTerms
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		cfg:       cfg,
		logger:    logger.With("component", "engine"),
		seeder:    NewSeeder(cfg.Seed),
		timeouts:  governance.NewTimeoutManager(governance.TimeoutConfig{CallTimeout: cfg.Timeout}),
		collector: cfg.Collector,
	}
}

// Seed returns the base seed of the per-call generators.
func (e *Engine) Seed() uint64 { return e.seeder.Seed() }

// ProbableRounds returns the default round count for ProbablePrimality.
func (e *Engine) ProbableRounds() int { return e.cfg.ProbableRounds }

// DefaultTerms returns the default progression term cap.
func (e *Engine) DefaultTerms() int { return e.cfg.DefaultTerms }

// Workers returns the batch concurrency limit.
func (e *Engine) Workers() int { return e.cfg.Workers }

type callIDKey struct{}

// WithCallID attaches a caller-chosen identifier to ctx. Operations started
// with ctx report it in logs and spans instead of generating their own.
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDKey{}, id)
}

// CallID returns the identifier attached with WithCallID.
func CallID(ctx context.Context) string {
	id, _ := ctx.Value(callIDKey{}).(string)
	return id
}

// call tracks one operation from start to finish.
type call struct {
	id      string
	span    trace.Span
	start   time.Time
	metrics telemetry.OperationMetrics
}

func (e *Engine) begin(ctx context.Context, op string) (context.Context, *call) {
	id := CallID(ctx)
	if id == "" {
		id = uuid.NewString()
		ctx = WithCallID(ctx, id)
	}

	ctx, span := telemetry.Tracer().Start(ctx, "engine."+op,
		trace.WithAttributes(
			attribute.String("operation", op),
			attribute.String("call.id", id),
		),
	)

	return ctx, &call{
		id:    id,
		span:  span,
		start: time.Now(),
		metrics: telemetry.OperationMetrics{
			Operation: op,
			RunLength: -1,
		},
	}
}

func (e *Engine) end(ctx context.Context, c *call, err error) {
	c.metrics.Duration = time.Since(c.start)
	c.metrics.Outcome = outcomeOf(err)

	c.span.SetAttributes(attribute.String("outcome", string(c.metrics.Outcome)))
	if err != nil {
		c.span.RecordError(err)
		c.span.SetStatus(codes.Error, err.Error())
	}
	c.span.End()

	telemetry.RecordOperationMetrics(ctx, c.metrics)
	if e.collector != nil {
		e.collector.Observe(c.metrics)
	}

	attrs := []any{
		"operation", c.metrics.Operation,
		"call_id", c.id,
		"outcome", c.metrics.Outcome,
		"duration_ms", float64(c.metrics.Duration) / float64(time.Millisecond),
	}
	if c.metrics.InputBits > 0 {
		attrs = append(attrs, "input_bits", c.metrics.InputBits)
	}
	switch c.metrics.Outcome {
	case telemetry.OutcomeOK, telemetry.OutcomeInputError:
		if err != nil {
			attrs = append(attrs, "error", err)
		}
		e.logger.Debug("operation completed", attrs...)
	case telemetry.OutcomeCanceled:
		e.logger.Info("operation canceled", attrs...)
	default:
		e.logger.Warn("operation failed", append(attrs, "error", err)...)
	}
}

// input records the validated operand on the span and metrics.
func (c *call) input(name string, v domain.Bounded64) {
	c.span.SetAttributes(attribute.String("input."+name, v.String()))
	if n := bits.Len64(v.Uint64()); n > c.metrics.InputBits {
		c.metrics.InputBits = n
	}
}

func outcomeOf(err error) telemetry.Outcome {
	switch {
	case err == nil:
		return telemetry.OutcomeOK
	case domain.IsInputError(err):
		return telemetry.OutcomeInputError
	case errors.Is(err, domain.ErrDeadlineExceeded):
		return telemetry.OutcomeTimeout
	case errors.Is(err, context.Canceled):
		return telemetry.OutcomeCanceled
	default:
		return telemetry.OutcomeError
	}
}
