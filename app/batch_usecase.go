package app

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/logging"
)

// BatchInput selects the submission files of a batch run
type BatchInput struct {
	Paths      []string
	Language   domain.Language
	Options    domain.AnalysisOptions
	Format     domain.OutputFormat
	Writer     io.Writer
	OutputPath string
}

// BatchOutcome summarizes a batch run
type BatchOutcome struct {
	Results map[string]*domain.BatchResult
	Skipped []domain.SkippedFile
	Failed  int
}

// BatchUseCase analyzes a roster of submission files
type BatchUseCase struct {
	collector domain.SubmissionCollector
	executor  domain.BatchExecutor
	formatter domain.OutputFormatter
	writer    domain.ReportWriter
	store     domain.ReportStore
	logger    *logrus.Logger
}

// NewBatchUseCase creates a new batch use case. store may be nil.
func NewBatchUseCase(
	collector domain.SubmissionCollector,
	executor domain.BatchExecutor,
	formatter domain.OutputFormatter,
	writer domain.ReportWriter,
	store domain.ReportStore,
	logger *logrus.Logger,
) *BatchUseCase {
	return &BatchUseCase{
		collector: collector,
		executor:  executor,
		formatter: formatter,
		writer:    writer,
		store:     store,
		logger:    logging.OrDiscard(logger),
	}
}

// Execute collects, analyzes and renders every submission.
// Rejected submissions are reported in the output, not as an error.
func (uc *BatchUseCase) Execute(ctx context.Context, input BatchInput) (*BatchOutcome, error) {
	if len(input.Paths) == 0 {
		return nil, domain.NewInvalidInputError("no paths specified", nil)
	}
	if input.Writer == nil && input.OutputPath == "" {
		return nil, domain.NewInvalidInputError("no output writer specified", nil)
	}

	files, skipped, err := uc.collector.Collect(input.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to collect files: %w", err)
	}
	items, unreadable := uc.collector.BatchItems(files, input.Language, input.Options)
	skipped = append(skipped, unreadable...)
	for _, s := range skipped {
		uc.logger.WithField("path", s.Path).Warnf("skipping file: %s", s.Reason)
	}
	if len(items) == 0 {
		return nil, domain.NewInvalidInputError("no submission files found", nil)
	}

	results, err := uc.executor.Run(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("batch analysis failed: %w", err)
	}

	outcome := &BatchOutcome{Results: results, Skipped: skipped}
	for _, r := range results {
		if r.Report == nil {
			outcome.Failed++
			continue
		}
		if uc.store != nil {
			if err := uc.store.Save(ctx, r.Report); err != nil {
				return outcome, fmt.Errorf("failed to store report for %s: %w", r.CorrelationID, err)
			}
		}
	}

	output, err := uc.formatter.FormatBatch(results, input.Format)
	if err != nil {
		return outcome, fmt.Errorf("failed to format output: %w", err)
	}
	if err := uc.writer.Write(input.Writer, input.OutputPath, output); err != nil {
		return outcome, err
	}
	return outcome, nil
}
