package app

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/logging"
)

// AnalyzeInput is one submission plus how to present its report
type AnalyzeInput struct {
	Request    domain.AnalysisRequest
	Format     domain.OutputFormat
	Writer     io.Writer
	OutputPath string
}

// AnalyzeUseCase orchestrates the analysis of a single submission
type AnalyzeUseCase struct {
	service   domain.AnalysisService
	formatter domain.OutputFormatter
	writer    domain.ReportWriter
	store     domain.ReportStore
	logger    *logrus.Logger
}

// NewAnalyzeUseCase creates a new analyze use case. store may be nil.
func NewAnalyzeUseCase(
	service domain.AnalysisService,
	formatter domain.OutputFormatter,
	writer domain.ReportWriter,
	store domain.ReportStore,
	logger *logrus.Logger,
) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		service:   service,
		formatter: formatter,
		writer:    writer,
		store:     store,
		logger:    logging.OrDiscard(logger),
	}
}

// Execute analyzes, optionally stores, and renders one submission
func (uc *AnalyzeUseCase) Execute(ctx context.Context, input AnalyzeInput) (*domain.AnalysisReport, error) {
	if input.Writer == nil && input.OutputPath == "" {
		return nil, domain.NewInvalidInputError("no output writer specified", nil)
	}

	report, err := uc.service.Analyze(ctx, input.Request)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	if uc.store != nil {
		if err := uc.store.Save(ctx, report); err != nil {
			return report, fmt.Errorf("failed to store report: %w", err)
		}
		uc.logger.WithField("analysis_id", report.AnalysisID).Info("report stored")
	}

	output, err := uc.formatter.Format(report, input.Format)
	if err != nil {
		return report, fmt.Errorf("failed to format output: %w", err)
	}
	if err := uc.writer.Write(input.Writer, input.OutputPath, output); err != nil {
		return report, err
	}
	return report, nil
}
