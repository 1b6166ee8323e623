package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/polisai/primecore/pkg/validate"
)

func newCallID() string {
	return uuid.NewString()
}

func (c *cli) newIsPrimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "is-prime N",
		Short: "Deterministic primality test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := validate.Parse("n", args[0])
			if err != nil {
				return err
			}
			prime, err := c.engine.Primality(c.withCall(cmd.Context()), n)
			if err != nil {
				return err
			}
			return c.printPrimality(n, prime, 0)
		},
	}
}

func (c *cli) newProbablePrimeCmd() *cobra.Command {
	var rounds int
	cmd := &cobra.Command{
		Use:   "probable-prime N",
		Short: "Miller-Rabin test with random bases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := validate.Parse("n", args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rounds") {
				rounds = c.engine.ProbableRounds()
			}
			prime, err := c.engine.ProbablePrimality(c.withCall(cmd.Context()), n, rounds)
			if err != nil {
				return err
			}
			return c.printPrimality(n, prime, rounds)
		},
	}
	cmd.Flags().IntVarP(&rounds, "rounds", "k", 0, "Number of rounds (defaults to engine.probable_rounds)")
	return cmd
}

func (c *cli) newFactorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "factor N...",
		Short: "Prime factorization",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]factorOutput, 0, len(args))
			for _, arg := range args {
				n, err := validate.Parse("n", arg)
				if err != nil {
					return err
				}
				factors, err := c.engine.Factorize(c.withCall(cmd.Context()), n)
				if err != nil {
					return err
				}
				results = append(results, newFactorOutput(n.String(), factors, nil))
			}
			return c.printFactors(results)
		},
	}
}

func (c *cli) newProgressionCmd() *cobra.Command {
	var maxTerms int
	cmd := &cobra.Command{
		Use:   "progression START DIFF",
		Short: "Longest initial run of primes in START, START+DIFF, ...",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := validate.Parse("start", args[0])
			if err != nil {
				return err
			}
			diff, err := validate.Parse("diff", args[1])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-terms") {
				maxTerms = c.engine.DefaultTerms()
			}
			result, err := c.engine.Progression(c.withCall(cmd.Context()), start, diff, maxTerms)
			if err != nil {
				return err
			}
			return c.printProgression(result)
		},
	}
	cmd.Flags().IntVarP(&maxTerms, "max-terms", "m", 0, "Term cap, at most 10000 (defaults to engine.default_terms)")
	return cmd
}

func (c *cli) newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE|-",
		Short: "Factorize one number per line concurrently",
		Long: `Factorize one number per line of FILE, or of standard input when FILE is "-".
Blank lines and lines starting with # are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := c.readBatch(args[0])
			if err != nil {
				return err
			}
			return c.runBatch(cmd, lines)
		},
	}
}

func (c *cli) readBatch(path string) ([]string, error) {
	var r io.Reader = c.stdin
	if path != "-" {
		//nolint:gosec // Batch file path is supplied by the operator
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open batch file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch input: %w", err)
	}
	return lines, nil
}

func (c *cli) runBatch(cmd *cobra.Command, lines []string) error {
	outputs := make([]factorOutput, len(lines))
	var inputs []validate.Number
	var slots []int

	for i, line := range lines {
		n, err := validate.Parse("n", line)
		if err != nil {
			outputs[i] = newFactorOutput(line, nil, err)
			continue
		}
		inputs = append(inputs, n)
		slots = append(slots, i)
	}

	results, err := c.engine.FactorizeBatch(c.withCall(cmd.Context()), inputs)
	if err != nil {
		return err
	}
	for j, r := range results {
		outputs[slots[j]] = newFactorOutput(r.Input, r.Factors, r.Err)
	}

	if err := c.printFactors(outputs); err != nil {
		return err
	}
	return batchError(outputs)
}

// batchError summarizes failed items, wrapping the first item error so
// the exit status reflects its kind.
func batchError(outputs []factorOutput) error {
	var first error
	failed := 0
	for _, o := range outputs {
		if o.err != nil {
			failed++
			if first == nil {
				first = o.err
			}
		}
	}
	if first == nil {
		return nil
	}
	return fmt.Errorf("%d of %d batch items failed, first: %w", failed, len(outputs), first)
}

