// Package engine exposes the number theory core as value-level operations.
//
// Layout:
//
// engine.go   - Engine, its Config and the per-call validation, tracing and metrics wrapper
// ops.go      - Primality, ProbablePrimality, Factorize and Progression
// batch.go    - FactorizeBatch, concurrent factorization of many inputs
// seeder.go   - Seeder, per-call random generators
// status.go   - mapping of domain errors to transport status classes
//
// Every operation validates its inputs before any algorithmic work and runs
// under the configured call deadline. Random generators are never shared
// between calls, so an Engine is safe for concurrent use.
package engine
