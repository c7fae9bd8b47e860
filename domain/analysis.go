package domain

import (
	"fmt"
	"strings"
)

// Language identifies the declared language of a submission
type Language string

const (
	LanguagePython     Language = "python"
	LanguageJava       Language = "java"
	LanguageJavaScript Language = "javascript"
	LanguageGo         Language = "go"
	// LanguageGeneric selects the lexical front-end for C-family or unknown syntax
	LanguageGeneric Language = "generic"
)

// NormalizeLanguage trims and lower-cases a user supplied language name
func NormalizeLanguage(s string) Language {
	return Language(strings.ToLower(strings.TrimSpace(s)))
}

// Mode selects the normalization policy
type Mode string

const (
	ModeExact    Mode = "exact"
	ModeNearMiss Mode = "near_miss"
)

// ParseMode converts a string to a Mode, defaulting to near_miss when empty
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return ModeNearMiss, nil
	case ModeExact:
		return ModeExact, nil
	case ModeNearMiss, "near-miss", "nearmiss":
		return ModeNearMiss, nil
	}
	return "", NewValidationError(fmt.Sprintf("invalid mode %q: must be exact or near_miss", s))
}

// CloneType classifies how closely the members of a clone match
type CloneType string

const (
	CloneTypeExact    CloneType = "exact"
	CloneTypeRenamed  CloneType = "renamed"
	CloneTypeNearMiss CloneType = "near_miss"
)

// Severity ranks clone types; exact copies are the most severe
func (t CloneType) Severity() int {
	switch t {
	case CloneTypeExact:
		return 3
	case CloneTypeRenamed:
		return 2
	case CloneTypeNearMiss:
		return 1
	}
	return 0
}

// Confidence states how trustworthy the parse behind a report is
type Confidence string

const (
	// ConfidenceValidated means a full grammar accepted the submission
	ConfidenceValidated Confidence = "validated"
	// ConfidenceAssumed means only a lexical front-end was used
	ConfidenceAssumed Confidence = "assumed"
)

// Granularity of a clone fragment
type Granularity string

const (
	GranularityStatement  Granularity = "statement"
	GranularityBasicBlock Granularity = "basic_block"
	GranularityFunction   Granularity = "function"
)

// AnalysisOptions tunes a single analysis
type AnalysisOptions struct {
	Mode Mode `json:"mode" yaml:"mode"`
	// SimilarityThreshold overrides the mode default when > 0
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty" yaml:"similarity_threshold,omitempty"`
	// MaxDurationMs overrides the configured budget when > 0
	MaxDurationMs int64 `json:"max_duration_ms,omitempty" yaml:"max_duration_ms,omitempty"`
}

// AnalysisRequest is the input of AnalysisService.Analyze
type AnalysisRequest struct {
	Source   string            `json:"source" yaml:"source"`
	Language Language          `json:"language" yaml:"language"`
	Options  AnalysisOptions   `json:"options" yaml:"options"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Validate checks request fields that do not depend on parsing.
// Empty source is accepted.
func (r *AnalysisRequest) Validate() error {
	if r.Language == "" {
		return NewValidationError("language is required")
	}
	if r.Options.Mode != "" && r.Options.Mode != ModeExact && r.Options.Mode != ModeNearMiss {
		return NewValidationError(fmt.Sprintf("invalid mode %q: must be exact or near_miss", r.Options.Mode))
	}
	if r.Options.SimilarityThreshold < 0 || r.Options.SimilarityThreshold > 1 {
		return NewValidationError("similarity_threshold must be between 0 and 1")
	}
	if r.Options.MaxDurationMs < 0 {
		return NewValidationError("max_duration_ms must not be negative")
	}
	return nil
}

// LineRange is an inclusive, 1-based line interval
type LineRange struct {
	StartLine int `json:"start_line" yaml:"start_line"`
	EndLine   int `json:"end_line" yaml:"end_line"`
}

// Lines returns the number of lines covered
func (r LineRange) Lines() int {
	return r.EndLine - r.StartLine + 1
}

// Contains reports whether other lies within r
func (r LineRange) Contains(other LineRange) bool {
	return r.StartLine <= other.StartLine && other.EndLine <= r.EndLine
}

// Overlaps reports whether the two ranges share a line
func (r LineRange) Overlaps(other LineRange) bool {
	return r.StartLine <= other.EndLine && other.StartLine <= r.EndLine
}

// CloneMatch is a cluster of two or more similar fragments
type CloneMatch struct {
	ID                    string      `json:"clone_id" yaml:"clone_id"`
	Type                  CloneType   `json:"type" yaml:"type"`
	Granularity           Granularity `json:"granularity" yaml:"granularity"`
	Similarity            float64     `json:"similarity" yaml:"similarity"`
	Locations             []LineRange `json:"locations" yaml:"locations"`
	RepresentativeSnippet string      `json:"code_snippet" yaml:"code_snippet"`
}

// LinesCovered sums the lines of every location
func (c *CloneMatch) LinesCovered() int {
	total := 0
	for _, loc := range c.Locations {
		total += loc.Lines()
	}
	return total
}

// Explanation follows a remember/understand/apply learning progression
type Explanation struct {
	Remember   string `json:"remember" yaml:"remember"`
	Understand string `json:"understand" yaml:"understand"`
	Apply      string `json:"apply" yaml:"apply"`
}

// Refactoring types
const (
	RefactoringExtractMethod        = "Extract Method"
	RefactoringExtractFunction      = "Extract Function"
	RefactoringParameterizeFunction = "Parameterize Function"
)

// RefactoringSuggestion proposes how to remove one clone
type RefactoringSuggestion struct {
	ID              string      `json:"suggestion_id" yaml:"suggestion_id"`
	Priority        string      `json:"priority" yaml:"priority"`
	PriorityScore   float64     `json:"priority_score" yaml:"priority_score"`
	RefactoringType string      `json:"refactoring_type" yaml:"refactoring_type"`
	AffectedCloneID string      `json:"affected_clone_id" yaml:"affected_clone_id"`
	Explanation     Explanation `json:"explanation" yaml:"explanation"`
	BeforeCode      string      `json:"before_code" yaml:"before_code"`
	AfterCode       string      `json:"after_code" yaml:"after_code"`
}

// PriorityLabel buckets a priority score for display
func PriorityLabel(score float64) string {
	switch {
	case score >= 0.6:
		return "high"
	case score >= 0.3:
		return "medium"
	default:
		return "low"
	}
}

// FunctionMetrics holds per-function complexity
type FunctionMetrics struct {
	Name                 string `json:"name" yaml:"name"`
	StartLine            int    `json:"start_line" yaml:"start_line"`
	EndLine              int    `json:"end_line" yaml:"end_line"`
	LinesOfCode          int    `json:"lines_of_code" yaml:"lines_of_code"`
	CyclomaticComplexity int    `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
}

// AnalysisReport is the result of a successful analysis.
// CyclomaticComplexity and MaintainabilityIndex are nil only when metrics failed;
// a matching entry is then present in Warnings.
type AnalysisReport struct {
	AnalysisID           string                  `json:"analysis_id" yaml:"analysis_id"`
	Language             Language                `json:"language" yaml:"language"`
	Mode                 Mode                    `json:"mode" yaml:"mode"`
	Confidence           Confidence              `json:"confidence" yaml:"confidence"`
	LinesOfCode          int                     `json:"lines_of_code" yaml:"lines_of_code"`
	ClonePercentage      float64                 `json:"clone_percentage" yaml:"clone_percentage"`
	CyclomaticComplexity *float64                `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
	MaintainabilityIndex *float64                `json:"maintainability_index" yaml:"maintainability_index"`
	Clones               []CloneMatch            `json:"clones" yaml:"clones"`
	Suggestions          []RefactoringSuggestion `json:"refactoring_suggestions" yaml:"refactoring_suggestions"`
	Functions            []FunctionMetrics       `json:"functions,omitempty" yaml:"functions,omitempty"`
	Warnings             []string                `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Metadata             map[string]string       `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	ExecutionTimeMs      int64                   `json:"execution_time_ms" yaml:"execution_time_ms"`
}

// Clone returns a deep copy of the report
func (r *AnalysisReport) Clone() *AnalysisReport {
	if r == nil {
		return nil
	}
	out := *r
	if r.CyclomaticComplexity != nil {
		v := *r.CyclomaticComplexity
		out.CyclomaticComplexity = &v
	}
	if r.MaintainabilityIndex != nil {
		v := *r.MaintainabilityIndex
		out.MaintainabilityIndex = &v
	}
	if r.Clones != nil {
		out.Clones = make([]CloneMatch, len(r.Clones))
		for i, c := range r.Clones {
			c.Locations = append([]LineRange(nil), c.Locations...)
			out.Clones[i] = c
		}
	}
	if r.Suggestions != nil {
		out.Suggestions = append([]RefactoringSuggestion(nil), r.Suggestions...)
	}
	if r.Functions != nil {
		out.Functions = append([]FunctionMetrics(nil), r.Functions...)
	}
	if r.Warnings != nil {
		out.Warnings = append([]string(nil), r.Warnings...)
	}
	if r.Metadata != nil {
		out.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

// LanguageInfo describes a supported language
type LanguageInfo struct {
	Code       Language   `json:"code" yaml:"code"`
	Name       string     `json:"name" yaml:"name"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
	Extensions []string   `json:"extensions" yaml:"extensions"`
}

// ReportSummary is the listing form of a stored report
type ReportSummary struct {
	AnalysisID      string   `json:"analysis_id" yaml:"analysis_id"`
	Language        Language `json:"language" yaml:"language"`
	ClonePercentage float64  `json:"clone_percentage" yaml:"clone_percentage"`
	CloneCount      int      `json:"clone_count" yaml:"clone_count"`
	StoredAtUnixNs  int64    `json:"stored_at_unix_ns" yaml:"stored_at_unix_ns"`
}

// BatchItem is one submission of a batch run
type BatchItem struct {
	CorrelationID string          `json:"correlation_id" yaml:"correlation_id"`
	Request       AnalysisRequest `json:"request" yaml:"request"`
}

// BatchResult is the outcome of one batch item; exactly one of Report and Error is set
type BatchResult struct {
	CorrelationID string          `json:"correlation_id" yaml:"correlation_id"`
	Report        *AnalysisReport `json:"report,omitempty" yaml:"report,omitempty"`
	Error         error           `json:"-" yaml:"-"`
	ErrorCode     string          `json:"error_code,omitempty" yaml:"error_code,omitempty"`
	ErrorMessage  string          `json:"error,omitempty" yaml:"error,omitempty"`
}
