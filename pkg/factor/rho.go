package factor

import (
	"math/bits"

	"github.com/polisai/primecore/pkg/domain"
	"github.com/polisai/primecore/pkg/primality"
)

const (
	// RhoAttempts is the number of independent (x0, c) pairs tried.
	RhoAttempts = 10
	// RhoMaxSteps caps the sequence steps of a single attempt.
	RhoMaxSteps = 100000
	// rhoBatch is how many |x-y| terms are multiplied together per GCD.
	rhoBatch = 128
)

// Rho searches for a nontrivial divisor of n with Pollard's rho using
// Brent's cycle detection. It returns n itself when every attempt fails.
func Rho(n uint64, rng domain.RandomSource) uint64 {
	if n < 4 {
		return n
	}
	if n%2 == 0 {
		return 2
	}
	for attempt := 0; attempt < RhoAttempts; attempt++ {
		x0 := 2 + rng.Uint64N(n-3)
		c := 1 + rng.Uint64N(n-1)
		if d := brent(n, x0, c, RhoMaxSteps); d != n {
			return d
		}
	}
	return n
}

// brent runs one attempt of the y <- y^2+c (mod n) walk. Segment length
// doubles each outer round; within a segment the differences are folded
// into a running product and checked with one GCD per batch.
func brent(n, x0, c uint64, maxSteps int) uint64 {
	next := func(v uint64) uint64 {
		return primality.AddMod(primality.MulMod(v, v, n), c, n)
	}

	var x, ys uint64
	y, q, d := x0, uint64(1), uint64(1)
	steps := 0

	for r := 1; d == 1 && steps < maxSteps; r *= 2 {
		x = y
		for i := 0; i < r; i++ {
			y = next(y)
			steps++
		}
		for k := 0; k < r && d == 1 && steps < maxSteps; k += rhoBatch {
			ys = y
			for i := 0; i < min(rhoBatch, r-k); i++ {
				y = next(y)
				q = primality.MulMod(q, absDiff(x, y), n)
				steps++
			}
			d = gcd(q, n)
		}
	}

	if d == n {
		// The batch overshot; replay it one step at a time from ys.
		for i := 0; i < rhoBatch; i++ {
			ys = next(ys)
			d = gcd(absDiff(x, ys), n)
			if d != 1 {
				break
			}
		}
	}

	if d > 1 && d < n {
		return d
	}
	return n
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

// gcd is the binary GCD.
func gcd(a, b uint64) uint64 {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	shift := bits.TrailingZeros64(a | b)
	a >>= uint(bits.TrailingZeros64(a))
	for b != 0 {
		b >>= uint(bits.TrailingZeros64(b))
		if a > b {
			a, b = b, a
		}
		b -= a
	}
	return a << uint(shift)
}
