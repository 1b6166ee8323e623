// Package primality decides primality over the unsigned 64-bit domain.
//
// IsPrime runs Miller-Rabin against a fixed witness set that is proven to
// make the test exact for every n below 3.3×10^24, which covers all of
// uint64. IsProbablePrime runs k rounds with random bases drawn from a
// caller-supplied source and is kept as an optional fallback.
//
// Modular products are formed with 128-bit intermediates from math/bits, so
// no step overflows even for moduli close to 2^64.
package primality
