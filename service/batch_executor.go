package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/logging"
)

// BatchExecutorImpl analyzes independent submissions on a bounded worker pool
type BatchExecutorImpl struct {
	service  domain.AnalysisService
	workers  int
	progress domain.ProgressReporter
	logger   *logrus.Logger
}

// NewBatchExecutor creates a batch executor.
// workers <= 0 uses the number of CPUs; progress may be nil.
func NewBatchExecutor(service domain.AnalysisService, workers int, progress domain.ProgressReporter, logger *logrus.Logger) *BatchExecutorImpl {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if progress == nil {
		progress = NewNoOpProgressReporter()
	}
	return &BatchExecutorImpl{
		service:  service,
		workers:  workers,
		progress: progress,
		logger:   logging.OrDiscard(logger),
	}
}

// Run analyzes every item and returns the results keyed by correlation id.
// A failing item does not affect the others; its error is kept in its result.
func (e *BatchExecutorImpl) Run(ctx context.Context, items []domain.BatchItem) (map[string]*domain.BatchResult, error) {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.CorrelationID == "" {
			return nil, domain.NewInvalidInputError("batch item without correlation id", nil)
		}
		if seen[item.CorrelationID] {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("duplicate correlation id %q", item.CorrelationID), nil)
		}
		seen[item.CorrelationID] = true
	}

	results := make(map[string]*domain.BatchResult, len(items))
	if len(items) == 0 {
		return results, nil
	}

	var mu sync.Mutex
	e.progress.Start(len(items))
	defer e.progress.Finish()

	p := pool.New().WithMaxGoroutines(e.workers)
	for _, item := range items {
		p.Go(func() {
			result := &domain.BatchResult{CorrelationID: item.CorrelationID}
			if err := ctx.Err(); err != nil {
				setBatchError(result, fmt.Errorf("batch cancelled: %w", err))
			} else if report, err := e.service.Analyze(ctx, item.Request); err != nil {
				setBatchError(result, err)
				e.logger.WithError(err).WithField("correlation_id", item.CorrelationID).Debug("batch item failed")
			} else {
				result.Report = report
			}

			mu.Lock()
			results[item.CorrelationID] = result
			mu.Unlock()
			e.progress.Increment()
		})
	}
	p.Wait()

	return results, nil
}

func setBatchError(result *domain.BatchResult, err error) {
	result.Error = err
	result.ErrorCode = domain.ErrorCode(err)
	result.ErrorMessage = err.Error()
}
