package domain

import (
	"context"
	"io"
	"strings"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// ParseOutputFormat validates a user supplied output format
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return OutputFormatText, nil
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV:
		return f, nil
	}
	return "", NewUnsupportedFormatError(s)
}

// AnalysisService runs the clone detection pipeline on one submission
type AnalysisService interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisReport, error)
	SupportedLanguages() []LanguageInfo
}

// BatchExecutor analyzes independent submissions concurrently
type BatchExecutor interface {
	Run(ctx context.Context, items []BatchItem) (map[string]*BatchResult, error)
}

// ReportStore persists finished reports; the analysis core never calls it
type ReportStore interface {
	Save(ctx context.Context, report *AnalysisReport) error
	Get(ctx context.Context, id string) (*AnalysisReport, error)
	List(ctx context.Context, limit int) ([]ReportSummary, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// OutputFormatter renders reports
type OutputFormatter interface {
	Format(report *AnalysisReport, format OutputFormat) (string, error)
	FormatBatch(results map[string]*BatchResult, format OutputFormat) (string, error)
	Write(report *AnalysisReport, format OutputFormat, writer io.Writer) error
}

// ProgressReporter reports batch progress
type ProgressReporter interface {
	Start(total int)
	Increment()
	Finish()
}

// ReportWriter sends rendered output to a file or a writer
type ReportWriter interface {
	Write(writer io.Writer, outputPath string, output string) error
}

// SkippedFile is a file left out of a batch and why
type SkippedFile struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// SubmissionCollector finds submission files and reads them into batch items
type SubmissionCollector interface {
	Collect(paths []string) ([]string, []SkippedFile, error)
	BatchItems(files []string, override Language, options AnalysisOptions) ([]BatchItem, []SkippedFile)
}
