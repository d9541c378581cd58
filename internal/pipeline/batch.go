package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/urlcount/internal/model"
	"github.com/nao1215/urlcount/internal/source"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of lists counted at the same time.
const DefaultConcurrency = 4

// BatchProcessor counts multiple URL lists concurrently.
// It uses errgroup to manage goroutines and respect the concurrency limit.
type BatchProcessor struct {
	// reader loads every list of the batch.
	reader *source.Reader

	// concurrency is the maximum number of lists counted at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed results by job index.
	results []*model.Result
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent jobs.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithReader sets the reader used to load lists.
func WithReader(rd *source.Reader) BatchOption {
	return func(b *BatchProcessor) {
		if rd != nil {
			b.reader = rd
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		concurrency: DefaultConcurrency,
		results:     make([]*model.Result, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	if bp.reader == nil {
		bp.reader = source.NewReader()
	}

	return bp
}

// ProcessBatch counts every job and returns the results in job order.
// A job that fails is reported through its result, not the returned error;
// the error is non-nil only when ctx is cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, jobs []Job) ([]*model.Result, error) {
	startTime := time.Now()

	bp.mu.Lock()
	bp.results = make([]*model.Result, len(jobs))
	bp.mu.Unlock()

	completed := 0
	err := bp.ProcessBatchWithCallback(ctx, jobs, func(result *model.Result, index int) {
		bp.mu.Lock()
		bp.results[index] = result
		completed++
		done := completed
		bp.mu.Unlock()

		bp.logger.Info("source done",
			"source", result.Source,
			"completed", done,
			"total", len(jobs),
		)
	})

	bp.logger.Info("batch processing complete",
		"total_sources", len(jobs),
		"elapsed", time.Since(startTime),
	)

	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.results, err
}

// ProcessBatchWithCallback counts every job and calls callback as each
// result completes. The callback runs on the worker goroutine and must be
// safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	jobs []Job,
	callback func(result *model.Result, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total_sources", len(jobs),
		"concurrency", bp.concurrency,
	)
	return bp.run(ctx, jobs, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, jobs []Job, done func(*model.Result, int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Debug("counting source",
				"source", job.Name(),
				"index", i+1,
				"total", len(jobs),
			)

			result := job.Count(bp.reader)
			if result.Failed() {
				// Recorded on the result; other sources keep going.
				bp.logger.Warn("source failed",
					"source", job.Name(),
					"error", result.Error,
				)
			} else {
				bp.logger.Debug("source counted",
					"source", job.Name(),
					"unique", result.Unique,
				)
			}

			done(result, i)
			return nil
		})
	}

	return g.Wait()
}

// ProcessMerged loads every job concurrently and counts the union of all
// lists as one result labeled label. Unlike ProcessBatch, the first load
// failure aborts the merge and is returned.
func (bp *BatchProcessor) ProcessMerged(ctx context.Context, label string, jobs []Job) (*model.Result, error) {
	lists := make([][]string, len(jobs))
	ignored := make([]int, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			urls, n, err := job.load(bp.reader)
			if err != nil {
				return err
			}
			lists[i] = urls
			ignored[i] = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]string, 0)
	totalIgnored := 0
	for i := range jobs {
		merged = append(merged, lists[i]...)
		totalIgnored += ignored[i]
	}

	result := model.NewResult(label, merged)
	result.Ignored = totalIgnored

	bp.logger.Info("merged sources counted",
		"sources", len(jobs),
		"unique", result.Unique,
	)

	return result, nil
}
