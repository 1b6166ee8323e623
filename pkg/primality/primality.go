package primality

import (
	"math/bits"

	"github.com/polisai/primecore/pkg/domain"
)

var witnesses = [...]uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

// Witnesses returns a copy of the deterministic Miller-Rabin bases in the
// order they are tried.
func Witnesses() []uint64 {
	out := make([]uint64, len(witnesses))
	copy(out, witnesses[:])
	return out
}

// smallCase settles n < 9 and every even n. ok is false when n needs the
// full test.
func smallCase(n uint64) (prime, ok bool) {
	switch {
	case n < 2:
		return false, true
	case n == 2:
		return true, true
	case n%2 == 0:
		return false, true
	case n < 9:
		return n == 3 || n == 5 || n == 7, true
	}
	return false, false
}

// IsPrime reports whether n is prime. The answer is exact for every
// 64-bit n.
func IsPrime(n domain.Bounded64) bool {
	v := uint64(n)
	if prime, ok := smallCase(v); ok {
		return prime
	}
	for _, base := range witnesses {
		if !WitnessPasses(v, base) {
			return false
		}
	}
	return true
}

// WitnessPasses runs one Miller-Rabin round of base against the odd n >= 3.
// It returns false only when base proves n composite. When n <= base the
// result is n == base.
func WitnessPasses(n, base uint64) bool {
	if n <= base {
		return n == base
	}

	nMinus1 := n - 1
	r := bits.TrailingZeros64(nMinus1)
	d := nMinus1 >> uint(r)

	x := PowMod(base, d, n)
	if x == 1 || x == nMinus1 {
		return true
	}

	for i := 1; i < r; i++ {
		x = MulMod(x, x, n)
		if x == nMinus1 {
			return true
		}
		if x == 1 {
			return false
		}
	}
	return false
}

// IsProbablePrime runs k Miller-Rabin rounds with bases drawn uniformly from
// [2, n-2]. A composite passes with probability at most 4^-k.
func IsProbablePrime(n domain.Bounded64, k int, rng domain.RandomSource) (bool, error) {
	if k < 1 {
		return false, domain.NewParameterError("k", k, "round count must be at least 1")
	}
	if rng == nil {
		return false, domain.NewParameterError("rng", "nil", "random source is required")
	}

	v := uint64(n)
	if prime, ok := smallCase(v); ok {
		return prime, nil
	}
	for i := 0; i < k; i++ {
		base := 2 + rng.Uint64N(v-3)
		if !WitnessPasses(v, base) {
			return false, nil
		}
	}
	return true, nil
}
