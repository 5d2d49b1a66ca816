package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/causelist/internal/model"
)

// Runner performs one lookup. *Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, req model.FetchRequest) (*model.Outcome, error)
}

// BatchResult is the result of one lookup in a batch.
type BatchResult struct {
	Request  model.FetchRequest
	Outcome  *model.Outcome
	Err      error
	Duration time.Duration
}

// BatchProcessor runs independent lookups concurrently. Lookups share no
// state, so one Runner serves every goroutine.
type BatchProcessor struct {
	// runner performs each lookup.
	runner Runner

	// concurrency is the maximum number of lookups in flight.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent lookups.
// Default is 2, one per side of the court.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(runner Runner, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		runner:      runner,
		concurrency: 2,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs every request and returns one result per request, in
// input order. A failed lookup is recorded in its result and does not stop
// the others. The error is non-nil only when ctx is cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, reqs []model.FetchRequest) ([]BatchResult, error) {
	bp.logger.Debug("starting batch",
		"total", len(reqs),
		"concurrency", bp.concurrency,
	)

	results := make([]BatchResult, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			start := time.Now()
			outcome, err := bp.runner.Run(ctx, req)

			// Each goroutine owns its own index.
			results[i] = BatchResult{
				Request:  req,
				Outcome:  outcome,
				Err:      err,
				Duration: time.Since(start),
			}

			if err != nil {
				bp.logger.Warn("lookup rejected",
					"date", req.Date,
					"side", req.Side.Key(),
					"error", err,
				)
			}
			return nil
		})
	}

	err := g.Wait()
	return results, err
}
