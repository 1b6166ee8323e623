// Package domain defines the core value types, error kinds and collaborator
// interfaces shared by the number-theory packages.
//
// This package contains pure domain logic with ZERO external dependencies outside the
// Go standard library. All types in this package are:
//
// - Immutable values created fresh per call
// - Independent of configuration, logging and telemetry
// - Safe to share between goroutines
//
// The dependency direction is always:
//
//	engine → factor, progression, primality, validate
//	factor, progression → primality → domain
//	validate → domain
//	domain → anything else (FORBIDDEN)
package domain
