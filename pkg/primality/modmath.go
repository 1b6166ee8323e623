package primality

import "math/bits"

// MulMod returns a*b mod m. m must be non-zero.
func MulMod(a, b, m uint64) uint64 {
	if a >= m {
		a %= m
	}
	if b >= m {
		b %= m
	}
	hi, lo := bits.Mul64(a, b)
	// hi < m holds because a, b < m.
	_, rem := bits.Div64(hi, lo, m)
	return rem
}

// PowMod returns base^exp mod m. m must be non-zero.
func PowMod(base, exp, m uint64) uint64 {
	if m == 1 {
		return 0
	}
	result := uint64(1)
	base %= m
	for exp > 0 {
		if exp&1 == 1 {
			result = MulMod(result, base, m)
		}
		base = MulMod(base, base, m)
		exp >>= 1
	}
	return result
}

// AddMod returns a+b mod m for a, b < m.
func AddMod(a, b, m uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 || sum >= m {
		sum -= m
	}
	return sum
}
