package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/analyzer"
	"github.com/Gabzxcv/Syntaxy-FL/internal/config"
	"github.com/Gabzxcv/Syntaxy-FL/internal/logging"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
)

// Warning texts attached to reports
const (
	warningAssumedConfidence = "syntax was not validated: the generic lexical front-end was used, results are best effort"
	warningMetricsFailed     = "metrics unavailable: %v"
	warningSuggestionsFailed = "refactoring suggestions unavailable: %v"
)

// AnalysisServiceImpl runs the detection pipeline for one submission per call.
// It holds no per-call state and may be shared between goroutines.
type AnalysisServiceImpl struct {
	registry *parser.Registry
	config   config.AnalysisConfig
	logger   *logrus.Logger
	now      func() time.Time
}

// NewAnalysisService creates an analysis service.
// registry and logger may be nil; the built-in front-ends and a silent logger are used.
func NewAnalysisService(registry *parser.Registry, cfg config.AnalysisConfig, logger *logrus.Logger) *AnalysisServiceImpl {
	if registry == nil {
		registry = parser.DefaultRegistry()
	}
	return &AnalysisServiceImpl{
		registry: registry,
		config:   cfg,
		logger:   logging.OrDiscard(logger),
		now:      time.Now,
	}
}

// SupportedLanguages describes every registered front-end
func (s *AnalysisServiceImpl) SupportedLanguages() []domain.LanguageInfo {
	return s.registry.Languages()
}

// Analyze validates, normalizes, fingerprints and matches one submission,
// then computes metrics and suggestions for the clones found
func (s *AnalysisServiceImpl) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisReport, error) {
	if ctx == nil {
		return nil, domain.NewInvalidInputError("context cannot be nil", nil)
	}
	req.Language = domain.NormalizeLanguage(string(req.Language))
	if err := req.Validate(); err != nil {
		return nil, err
	}

	detector, err := s.detectorConfig(req.Options)
	if err != nil {
		return nil, err
	}

	start := s.now()
	budget := s.budget(req.Options)
	runCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	analysisID := uuid.New().String()
	log := s.logger.WithFields(logrus.Fields{
		"analysis_id": analysisID,
		"language":    req.Language,
		"mode":        detector.Mode,
	})

	report, err := s.run(runCtx, log, req, detector)
	if err != nil {
		err = s.budgetError(ctx, err, start, budget)
		log.WithError(err).WithField("error_class", domain.Classify(err)).Debug("analysis rejected")
		return nil, err
	}

	report.AnalysisID = analysisID
	report.Metadata = copyMetadata(req.Metadata)
	report.ExecutionTimeMs = s.now().Sub(start).Milliseconds()
	log.WithFields(logrus.Fields{
		"clones":     len(report.Clones),
		"elapsed_ms": report.ExecutionTimeMs,
	}).Debug("analysis finished")
	return report, nil
}

func (s *AnalysisServiceImpl) run(ctx context.Context, log *logrus.Entry, req domain.AnalysisRequest, detector *analyzer.Config) (*domain.AnalysisReport, error) {
	stage := func(name string, started time.Time) {
		log.WithFields(logrus.Fields{"stage": name, "elapsed_ms": s.now().Sub(started).Milliseconds()}).Debug("stage finished")
	}

	t := s.now()
	unit, err := s.registry.Validate(ctx, req.Source, req.Language, parser.Limits{MaxNodes: s.config.MaxNodes})
	if err != nil {
		return nil, err
	}
	stage("validate", t)

	t = s.now()
	blocks, err := analyzer.NewNormalizer(detector).Normalize(ctx, unit)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stage("normalize", t)

	t = s.now()
	index, err := analyzer.BuildIndex(ctx, blocks, detector)
	if err != nil {
		return nil, err
	}
	stage("index", t)

	t = s.now()
	clones, clusters, err := analyzer.NewMatcher(detector).Match(ctx, unit, index)
	if err != nil {
		return nil, err
	}
	stage("match", t)

	report := &domain.AnalysisReport{
		Language:        unit.Language,
		Mode:            detector.Mode,
		Confidence:      unit.Confidence,
		LinesOfCode:     len(unit.NonBlankLines()),
		ClonePercentage: analyzer.ClonePercentage(unit, clones),
		Clones:          clones,
		Suggestions:     []domain.RefactoringSuggestion{},
	}
	if report.Clones == nil {
		report.Clones = []domain.CloneMatch{}
	}
	if unit.Confidence == domain.ConfidenceAssumed {
		report.Warnings = append(report.Warnings, warningAssumedConfidence)
	}

	t = s.now()
	metrics, err := analyzer.ComputeMetrics(unit, report.ClonePercentage)
	if err != nil {
		log.WithError(err).Warn("metrics stage failed")
		report.Warnings = append(report.Warnings, fmt.Sprintf(warningMetricsFailed, err))
	} else {
		cc, mi := metrics.CyclomaticComplexity, metrics.MaintainabilityIndex
		report.CyclomaticComplexity = &cc
		report.MaintainabilityIndex = &mi
		report.Functions = metrics.Functions
	}
	stage("metrics", t)

	t = s.now()
	suggestions, err := analyzer.Suggest(unit, clusters)
	if err != nil {
		log.WithError(err).Warn("suggestion stage failed")
		report.Warnings = append(report.Warnings, fmt.Sprintf(warningSuggestionsFailed, err))
	} else if suggestions != nil {
		report.Suggestions = suggestions
	}
	stage("suggest", t)

	// Partial results are discarded once the budget is gone.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return report, nil
}

// detectorConfig applies per-request options over the configured defaults
func (s *AnalysisServiceImpl) detectorConfig(opts domain.AnalysisOptions) (*analyzer.Config, error) {
	detector := s.config.Detector()
	if opts.Mode != "" {
		detector.Mode = opts.Mode
	}
	if opts.SimilarityThreshold > 0 {
		detector.SimilarityThreshold = opts.SimilarityThreshold
	} else if opts.Mode != "" && s.config.Mode != string(opts.Mode) {
		// A configured threshold belongs to the configured mode.
		detector.SimilarityThreshold = 0
	}
	if err := detector.Validate(); err != nil {
		return nil, domain.NewInvalidInputError("invalid analysis options", err)
	}
	return detector, nil
}

func (s *AnalysisServiceImpl) budget(opts domain.AnalysisOptions) time.Duration {
	ms := s.config.MaxDurationMs
	if opts.MaxDurationMs > 0 {
		ms = opts.MaxDurationMs
	}
	if ms <= 0 {
		return time.Duration(config.DefaultConfig().Analysis.MaxDurationMs) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

// budgetError turns an expired analysis deadline into a TimeoutError.
// Cancellation by the caller is reported as such.
func (s *AnalysisServiceImpl) budgetError(parent context.Context, err error, start time.Time, budget time.Duration) error {
	elapsed := s.now().Sub(start).Milliseconds()

	var timeoutErr *domain.TimeoutError
	if errors.As(err, &timeoutErr) {
		timeoutErr.ElapsedMs = elapsed
		timeoutErr.BudgetMs = budget.Milliseconds()
		return timeoutErr
	}
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return &domain.TimeoutError{ElapsedMs: elapsed, BudgetMs: budget.Milliseconds()}
	}
	if parentErr := parent.Err(); parentErr != nil {
		return fmt.Errorf("analysis cancelled: %w", parentErr)
	}
	return err
}

func copyMetadata(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
