package engine

import (
	"math/rand/v2"
	"sync/atomic"
)

// Seeder hands out independent PCG generators. Generators created from the
// same base seed come out in the same order, so a fixed seed makes a
// sequence of calls reproducible.
type Seeder struct {
	base    uint64
	counter atomic.Uint64
}

// NewSeeder returns a Seeder rooted at seed. A zero seed is replaced by one
// drawn from the runtime generator.
func NewSeeder(seed uint64) *Seeder {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Seeder{base: seed}
}

// Seed returns the base seed.
func (s *Seeder) Seed() uint64 {
	return s.base
}

// Next returns a fresh generator. Safe for concurrent use; the returned
// generator is not.
func (s *Seeder) Next() *rand.Rand {
	stream := s.counter.Add(1)
	return rand.New(rand.NewPCG(s.base, stream))
}
