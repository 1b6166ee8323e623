package engine

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/polisai/primecore/pkg/domain"
)

func roundsAttr(rounds int) attribute.KeyValue {
	return attribute.Int("primality.rounds", rounds)
}

func runAttrs(r domain.ProgressionResult) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("progression.length", r.Length),
		attribute.String("progression.stop", string(r.Stop)),
	}
}
