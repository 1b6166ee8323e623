package factor

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/polisai/primecore/pkg/domain"
	"github.com/polisai/primecore/pkg/primality"
)

// DefaultStrictRetries is how many extra rho searches strict mode runs on
// a remainder before giving up.
const DefaultStrictRetries = 3

// Stats counts the work done by a Factorizer.
type Stats struct {
	TrialFactors int
	RhoCalls     int
	RhoFailures  int
	Unverified   int
}

type options struct {
	strict        bool
	strictRetries int
	logger        *slog.Logger
}

// Option configures a Factorizer.
type Option func(*options)

// WithStrict makes the Factorizer refuse to record a remainder that rho
// could not split. Such remainders get retries fresh search rounds and
// then fail with domain.ErrUnresolved. retries <= 0 selects
// DefaultStrictRetries.
func WithStrict(retries int) Option {
	return func(o *options) {
		o.strict = true
		if retries <= 0 {
			retries = DefaultStrictRetries
		}
		o.strictRetries = retries
	}
}

// WithLogger sets the logger used to report degraded results.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Factorizer decomposes integers into primes. It owns its random source and
// is not safe for concurrent use; create one per goroutine.
type Factorizer struct {
	rng   domain.RandomSource
	rho   func(uint64, domain.RandomSource) uint64
	opts  options
	stats Stats
}

// New returns a Factorizer drawing rho parameters from rng. A nil rng gets
// a private generator seeded from the runtime.
func New(rng domain.RandomSource, opts ...Option) *Factorizer {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Factorizer{rng: rng, rho: Rho, opts: o}
}

// Stats returns the counters accumulated since the Factorizer was created.
func (f *Factorizer) Stats() Stats {
	return f.stats
}

// Factorize returns the prime factors of n in ascending order with
// repetition. 0 and 1 have no factors. An error is only possible in strict
// mode.
func (f *Factorizer) Factorize(n domain.Bounded64) ([]domain.Bounded64, error) {
	if n <= 1 {
		return []domain.Bounded64{}, nil
	}
	var factors []domain.Bounded64
	pending := []uint64{uint64(n)}

	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		small, rest := TrialDivide(current)
		for _, p := range small {
			factors = append(factors, domain.Bounded64(p))
		}
		f.stats.TrialFactors += len(small)

		if rest == 1 {
			continue
		}
		if primality.IsPrime(domain.Bounded64(rest)) {
			factors = append(factors, domain.Bounded64(rest))
			continue
		}

		d, err := f.split(rest)
		if err != nil {
			return nil, err
		}
		if d == rest {
			f.stats.Unverified++
			f.opts.logger.Warn("rho exhausted, recording composite remainder as a factor",
				"n", uint64(n),
				"remainder", rest,
			)
			factors = append(factors, domain.Bounded64(rest))
			continue
		}
		pending = append(pending, d, rest/d)
	}

	slices.Sort(factors)
	return factors, nil
}

// split finds a nontrivial divisor of the composite rest, or returns rest
// when the search gave up and strict mode is off.
func (f *Factorizer) split(rest uint64) (uint64, error) {
	rounds := 1
	if f.opts.strict {
		rounds += f.opts.strictRetries
	}
	for i := 0; i < rounds; i++ {
		f.stats.RhoCalls++
		if d := f.rho(rest, f.rng); d != rest {
			return d, nil
		}
		f.stats.RhoFailures++
	}
	if f.opts.strict {
		return 0, fmt.Errorf("factor %d after %d rho rounds: %w", rest, rounds, domain.ErrUnresolved)
	}
	return rest, nil
}

// Factorize returns the prime factors of n in ascending order using the
// default, non-strict Factorizer.
func Factorize(n domain.Bounded64, rng domain.RandomSource) []domain.Bounded64 {
	// Non-strict factorization has no error path.
	factors, _ := New(rng).Factorize(n)
	return factors
}
