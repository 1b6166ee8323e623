package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/polisai/primecore/pkg/domain"
	"github.com/polisai/primecore/pkg/engine"
	"github.com/polisai/primecore/pkg/validate"
)

type primalityOutput struct {
	N      string `json:"n"`
	Prime  bool   `json:"prime"`
	Rounds int    `json:"rounds,omitempty"`
}

type factorOutput struct {
	N       string                `json:"n"`
	Factors []domain.Bounded64    `json:"factors"`
	Error   *domain.ErrorResponse `json:"error,omitempty"`

	err error
}

func newFactorOutput(n string, factors []domain.Bounded64, err error) factorOutput {
	out := factorOutput{N: n, Factors: factors, err: err}
	if out.Factors == nil {
		out.Factors = []domain.Bounded64{}
	}
	if err != nil {
		resp := engine.ErrorResponse(err, "")
		out.Error = &resp
	}
	return out
}

func (c *cli) writeJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printPrimality(n validate.Number, prime bool, rounds int) error {
	if c.output == outputJSON {
		return c.writeJSON(primalityOutput{N: n.String(), Prime: prime, Rounds: rounds})
	}

	switch {
	case prime && rounds > 0:
		_, err := fmt.Fprintf(c.stdout, "%s is probably prime (%d rounds)\n", n, rounds)
		return err
	case prime:
		_, err := fmt.Fprintf(c.stdout, "%s is prime\n", n)
		return err
	default:
		_, err := fmt.Fprintf(c.stdout, "%s is not prime\n", n)
		return err
	}
}

// printFactors prints one "n: p1 p2 ..." line per result, the layout of
// coreutils factor.
func (c *cli) printFactors(results []factorOutput) error {
	if c.output == outputJSON {
		return c.writeJSON(results)
	}

	for _, r := range results {
		var line string
		if r.err != nil {
			line = fmt.Sprintf("%s: error: %v", r.N, r.err)
		} else {
			line = strings.TrimRight(r.N+": "+joinValues(r.Factors), " ")
		}
		if _, err := fmt.Fprintln(c.stdout, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *cli) printProgression(r domain.ProgressionResult) error {
	if c.output == outputJSON {
		return c.writeJSON(r)
	}

	_, err := fmt.Fprintf(c.stdout, "length %d (stop: %s)\n%s\n", r.Length, r.Stop, joinValues(r.Primes))
	return err
}

func joinValues(values []domain.Bounded64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}
