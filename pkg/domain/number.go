package domain

import (
	"math"
	"strconv"
)

// Bounded64 is an integer in [0, 2^64-1]. Untrusted input becomes a
// Bounded64 only through the validate package.
type Bounded64 uint64

// MaxBounded64 is the largest representable value, 2^64-1.
const MaxBounded64 Bounded64 = math.MaxUint64

// Uint64 returns the raw value.
func (b Bounded64) Uint64() uint64 { return uint64(b) }

func (b Bounded64) String() string {
	return strconv.FormatUint(uint64(b), 10)
}

// RandomSource supplies uniform integers in [0, n). *math/rand/v2.Rand
// satisfies it. Implementations need not be safe for concurrent use; every
// call that draws randomness owns its source.
type RandomSource interface {
	Uint64N(n uint64) uint64
}

// Product multiplies factors together, reporting false if the product
// leaves the 64-bit range.
func Product(factors []Bounded64) (Bounded64, bool) {
	acc := uint64(1)
	for _, f := range factors {
		if f != 0 && acc > math.MaxUint64/uint64(f) {
			return 0, false
		}
		acc *= uint64(f)
	}
	return Bounded64(acc), true
}
