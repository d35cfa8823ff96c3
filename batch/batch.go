package batch

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"erlang-staffing/metrics"
	"erlang-staffing/models"
)

// Evaluator computes the result for a single request.
type Evaluator interface {
	Evaluate(in models.RequestInput) *models.Result
}

// Item pairs a parsed row with its result.
type Item struct {
	Row    models.BatchRow
	Result *models.Result
}

// Evaluate runs every row through eval using at most workers goroutines.
// Items come back in input order. Cancelling ctx stops rows that have not
// started yet and returns the context error.
func Evaluate(ctx context.Context, eval Evaluator, rows []models.BatchRow, workers int, logger *zap.Logger) ([]Item, error) {
	start := time.Now()
	defer func() {
		metrics.BatchDurationSeconds.Observe(time.Since(start).Seconds())
	}()
	metrics.ResetBatchGauges()

	if workers < 1 {
		workers = 1
	}
	logger.Info("Evaluating batch", zap.Int("rows", len(rows)), zap.Int("workers", workers))

	items := make([]Item, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, row := range rows {
		if gctx.Err() != nil {
			break
		}
		i, row := i, row // per-iteration copies (go 1.21 loop semantics)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			metrics.BatchRowsInFlight.Inc()
			defer metrics.BatchRowsInFlight.Dec()

			// each slot is written by exactly one goroutine
			items[i] = Item{Row: row, Result: eval.Evaluate(row.Input)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unreachable := 0
	for _, item := range items {
		if item.Result.Request != nil && !item.Result.Valid() {
			unreachable++
		}
	}
	metrics.BatchUnreachableRows.Set(float64(unreachable))
	logger.Info("Batch evaluated",
		zap.Int("rows", len(items)),
		zap.Int("unreachable", unreachable),
		zap.Duration("elapsed", time.Since(start)))

	return items, nil
}
