package domain

import (
	"errors"
	"fmt"
)

// DomainError represents errors in the domain layer
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// Domain error codes
const (
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeFileNotFound        = "FILE_NOT_FOUND"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeSyntaxError         = "SYNTAX_ERROR"
	ErrCodeUnsupportedLanguage = "UNSUPPORTED_LANGUAGE"
	ErrCodeTimeout             = "TIMEOUT"
	ErrCodeInvariantViolation  = "INTERNAL_INVARIANT_VIOLATION"
	ErrCodeAnalysisError       = "ANALYSIS_ERROR"
	ErrCodeConfigError         = "CONFIG_ERROR"
	ErrCodeOutputError         = "OUTPUT_ERROR"
	ErrCodeStoreError          = "STORE_ERROR"
	ErrCodeUnsupportedFormat   = "UNSUPPORTED_FORMAT"
)

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewNotFoundError reports a missing stored entity
func NewNotFoundError(what, id string) error {
	return NewDomainError(ErrCodeNotFound, fmt.Sprintf("%s not found: %s", what, id), nil)
}

// NewAnalysisError creates an analysis error
func NewAnalysisError(message string, cause error) error {
	return NewDomainError(ErrCodeAnalysisError, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewStoreError creates a report store error
func NewStoreError(message string, cause error) error {
	return NewDomainError(ErrCodeStoreError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}

// NewValidationError creates a validation error
func NewValidationError(message string) error {
	return NewDomainError(ErrCodeInvalidInput, message, nil)
}

// SyntaxError is returned when a submission does not parse in its declared language.
// Line and Column are 1-based.
type SyntaxError struct {
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Code returns the error code
func (e *SyntaxError) Code() string { return ErrCodeSyntaxError }

// UnsupportedLanguageError is returned when no front-end is registered for a language
type UnsupportedLanguageError struct {
	Language string `json:"language" yaml:"language"`
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %q", e.Language)
}

// Code returns the error code
func (e *UnsupportedLanguageError) Code() string { return ErrCodeUnsupportedLanguage }

// TimeoutError is returned when an analysis exceeds its time or node budget.
// Partial results are never returned alongside it.
type TimeoutError struct {
	ElapsedMs  int64 `json:"elapsed_ms" yaml:"elapsed_ms"`
	BudgetMs   int64 `json:"budget_ms" yaml:"budget_ms"`
	Nodes      int   `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	NodeBudget int   `json:"node_budget,omitempty" yaml:"node_budget,omitempty"`
}

func (e *TimeoutError) Error() string {
	if e.NodeBudget > 0 && e.Nodes > e.NodeBudget {
		return fmt.Sprintf("analysis aborted: %d syntax nodes exceed budget of %d", e.Nodes, e.NodeBudget)
	}
	return fmt.Sprintf("analysis timed out after %dms (budget %dms)", e.ElapsedMs, e.BudgetMs)
}

// Code returns the error code
func (e *TimeoutError) Code() string { return ErrCodeTimeout }

// InvariantViolationError signals a bug in the analysis pipeline
type InvariantViolationError struct {
	Message string `json:"message" yaml:"message"`
}

func (e *InvariantViolationError) Error() string {
	return "internal invariant violation: " + e.Message
}

// Code returns the error code
func (e *InvariantViolationError) Code() string { return ErrCodeInvariantViolation }

// NewInvariantViolation creates an invariant violation error
func NewInvariantViolation(format string, args ...any) error {
	return &InvariantViolationError{Message: fmt.Sprintf(format, args...)}
}

// ErrorClass separates caller mistakes from engine failures
type ErrorClass string

const (
	// ClassInputRejected is the 4xx-equivalent class
	ClassInputRejected ErrorClass = "input_rejected"
	// ClassInternal is the 5xx-equivalent class
	ClassInternal ErrorClass = "internal"
)

// Classify maps an error returned by the analysis pipeline to its class.
// Budget overruns are attributed to the input.
func Classify(err error) ErrorClass {
	var (
		syntaxErr      *SyntaxError
		unsupportedErr *UnsupportedLanguageError
		timeoutErr     *TimeoutError
		domainErr      DomainError
	)
	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &unsupportedErr), errors.As(err, &timeoutErr):
		return ClassInputRejected
	case errors.As(err, &domainErr):
		switch domainErr.Code {
		case ErrCodeInvalidInput, ErrCodeFileNotFound, ErrCodeNotFound, ErrCodeUnsupportedFormat, ErrCodeConfigError:
			return ClassInputRejected
		}
	}
	return ClassInternal
}

// ErrorCode returns the machine-readable code of err, or ErrCodeAnalysisError
func ErrorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	var domainErr DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ErrCodeAnalysisError
}
