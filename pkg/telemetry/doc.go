// Package telemetry wires OpenTelemetry tracing and metrics, and an optional
// Prometheus registry, around primecore operations.
//
// It centralises trace provider setup, applies service resource attributes,
// and records one set of counters and histograms per engine operation so
// operators can see how often factorization degrades and how long calls take.
package telemetry
