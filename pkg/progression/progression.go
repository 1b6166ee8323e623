// Package progression finds the initial run of primes in an arithmetic
// progression start, start+diff, start+2*diff, ...
package progression

import (
	"github.com/polisai/primecore/pkg/domain"
	"github.com/polisai/primecore/pkg/primality"
)

const (
	// MaxTerms is the largest term cap Scan accepts.
	MaxTerms = 10000
	// DefaultTerms is the term cap front ends use when none is given.
	DefaultTerms = 1000
)

// Scan walks the progression from start and returns the consecutive primes
// at its head. The run ends at the first composite term, at the first term
// that would exceed 2^64-1, or after maxTerms primes.
func Scan(start, diff domain.Bounded64, maxTerms int) (domain.ProgressionResult, error) {
	if err := CheckParams(diff, maxTerms); err != nil {
		return domain.ProgressionResult{}, err
	}

	res := domain.ProgressionResult{
		Start:  start,
		Diff:   diff,
		Primes: []domain.Bounded64{},
		Stop:   domain.StopTermCap,
	}

	current := start
	for i := 0; i < maxTerms; i++ {
		if !primality.IsPrime(current) {
			res.Stop = domain.StopComposite
			break
		}
		res.Primes = append(res.Primes, current)

		if current > domain.MaxBounded64-diff {
			if i+1 < maxTerms {
				res.Stop = domain.StopOverflow
			}
			break
		}
		current += diff
	}

	res.Length = len(res.Primes)
	return res, nil
}

// CheckParams reports the domain.ErrInvalidParameter Scan would return for
// diff and maxTerms, without scanning.
func CheckParams(diff domain.Bounded64, maxTerms int) error {
	if diff == 0 {
		return domain.NewParameterError("diff", diff, "must be positive")
	}
	if maxTerms < 1 || maxTerms > MaxTerms {
		return domain.NewParameterError("max_terms", maxTerms, "must be between 1 and 10000")
	}
	return nil
}
