package factor

import "math/bits"

// TrialDivide strips every prime factor below 1000 from n. It returns the
// factors found in ascending order and the remaining cofactor, which is
// either 1 or has no prime factor below 1000 (or is itself such a prime).
func TrialDivide(n uint64) (factors []uint64, rest uint64) {
	if n < 2 {
		return nil, n
	}

	tz := bits.TrailingZeros64(n)
	for i := 0; i < tz; i++ {
		factors = append(factors, 2)
	}
	n >>= uint(tz)

	for _, p := range smallPrimes[1:] {
		if p*p > n {
			break
		}
		for n%p == 0 {
			factors = append(factors, p)
			n /= p
		}
	}
	return factors, n
}
