// Package factor computes the prime factorization of unsigned 64-bit
// integers.
//
// Small factors are removed by trial division against the primes below
// 1000. Remainders that are still composite are split with Pollard's rho
// using Brent's cycle detection and a batched-product GCD. Pending values
// live on an explicit stack, so decomposition depth never touches the call
// stack.
//
// When every rho attempt fails the default Factorizer records the
// remainder as a factor without further checks. WithStrict changes that to
// fresh retries followed by ErrUnresolved.
package factor
