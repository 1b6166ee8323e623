package engine

import (
	"context"

	"github.com/polisai/primecore/internal/governance"
	"github.com/polisai/primecore/pkg/domain"
	"github.com/polisai/primecore/pkg/factor"
	"github.com/polisai/primecore/pkg/primality"
	"github.com/polisai/primecore/pkg/progression"
	"github.com/polisai/primecore/pkg/telemetry"
	"github.com/polisai/primecore/pkg/validate"
)

// Primality reports whether n is prime using the deterministic test.
func (e *Engine) Primality(ctx context.Context, n validate.Number) (prime bool, err error) {
	ctx, c := e.begin(ctx, OpPrimality)
	defer func() { e.end(ctx, c, err) }()

	v, err := n.Bounded("n")
	if err != nil {
		return false, err
	}
	c.input("n", v)

	return governance.Run(ctx, e.timeouts, func() (bool, error) {
		return primality.IsPrime(v), nil
	})
}

// ProbablePrimality runs rounds Miller-Rabin rounds with random bases.
func (e *Engine) ProbablePrimality(ctx context.Context, n validate.Number, rounds int) (prime bool, err error) {
	ctx, c := e.begin(ctx, OpProbablePrimality)
	defer func() { e.end(ctx, c, err) }()

	v, err := n.Bounded("n")
	if err != nil {
		return false, err
	}
	if rounds < 1 {
		return false, domain.NewParameterError("rounds", rounds, "must be at least 1")
	}
	c.input("n", v)
	c.span.SetAttributes(roundsAttr(rounds))

	rng := e.seeder.Next()
	return governance.Run(ctx, e.timeouts, func() (bool, error) {
		return primality.IsProbablePrime(v, rounds, rng)
	})
}

type factorOutcome struct {
	factors []domain.Bounded64
	stats   factor.Stats
}

// Factorize returns the prime factors of n in ascending order with
// repetition.
func (e *Engine) Factorize(ctx context.Context, n validate.Number) (factors []domain.Bounded64, err error) {
	ctx, c := e.begin(ctx, OpFactorize)
	defer func() { e.end(ctx, c, err) }()

	v, err := n.Bounded("n")
	if err != nil {
		return nil, err
	}
	c.input("n", v)

	opts := []factor.Option{factor.WithLogger(e.logger.With("call_id", c.id))}
	if e.cfg.Strict {
		opts = append(opts, factor.WithStrict(e.cfg.StrictRetries))
	}
	f := factor.New(e.seeder.Next(), opts...)

	// Stats are read inside the closure; f is abandoned once the deadline
	// passes.
	out, err := governance.Run(ctx, e.timeouts, func() (factorOutcome, error) {
		fs, err := f.Factorize(v)
		return factorOutcome{factors: fs, stats: f.Stats()}, err
	})

	c.metrics.RhoCalls = out.stats.RhoCalls
	c.metrics.RhoFailures = out.stats.RhoFailures
	c.metrics.Unverified = out.stats.Unverified
	telemetry.RecordFactorStats(c.span, out.stats.RhoCalls, out.stats.RhoFailures, out.stats.Unverified)
	if err != nil {
		return nil, err
	}
	return out.factors, nil
}

// Progression scans the consecutive prime run start, start+diff, ... of at
// most maxTerms terms.
func (e *Engine) Progression(ctx context.Context, start, diff validate.Number, maxTerms int) (result domain.ProgressionResult, err error) {
	ctx, c := e.begin(ctx, OpProgression)
	defer func() { e.end(ctx, c, err) }()

	s, err := start.Bounded("start")
	if err != nil {
		return domain.ProgressionResult{}, err
	}
	d, err := diff.Bounded("diff")
	if err != nil {
		return domain.ProgressionResult{}, err
	}
	if err := progression.CheckParams(d, maxTerms); err != nil {
		return domain.ProgressionResult{}, err
	}
	c.input("start", s)
	c.input("diff", d)

	result, err = governance.Run(ctx, e.timeouts, func() (domain.ProgressionResult, error) {
		return progression.Scan(s, d, maxTerms)
	})
	if err != nil {
		return domain.ProgressionResult{}, err
	}
	c.metrics.RunLength = result.Length
	c.span.SetAttributes(runAttrs(result)...)
	return result, nil
}
