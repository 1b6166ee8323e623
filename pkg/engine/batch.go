package engine

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/polisai/primecore/pkg/domain"
	"github.com/polisai/primecore/pkg/validate"
)

// BatchResult is the outcome of one FactorizeBatch item. Err holds the
// item's own error; it does not abort the batch.
type BatchResult struct {
	Index   int
	Input   string
	Factors []domain.Bounded64
	Err     error
}

// FactorizeBatch factorizes inputs concurrently with at most Workers items
// in flight. Results are returned in input order. The returned error is
// non-nil only when ctx ends before every item has started.
func (e *Engine) FactorizeBatch(ctx context.Context, inputs []validate.Number) ([]BatchResult, error) {
	batchID := CallID(ctx)
	if batchID == "" {
		batchID = uuid.NewString()
	}
	logger := e.logger.With("operation", OpFactorizeBatch, "batch_id", batchID)
	start := time.Now()

	results := make([]BatchResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	logger.Info("batch started", "items", len(inputs), "workers", e.cfg.Workers)

	for i, in := range inputs {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if e.collector != nil {
				e.collector.BatchStarted()
				defer e.collector.BatchFinished()
			}

			itemCtx := WithCallID(gctx, batchID+"/"+strconv.Itoa(i))
			factors, err := e.Factorize(itemCtx, in)
			results[i] = BatchResult{Index: i, Input: in.String(), Factors: factors, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn("batch aborted", "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		logger.Warn("batch aborted", "error", err)
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	logger.Info("batch finished",
		"items", len(inputs),
		"failed", failed,
		"duration_ms", float64(time.Since(start))/float64(time.Millisecond),
	)
	return results, nil
}
