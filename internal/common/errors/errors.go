// Package errors provides standardized error handling for the generation pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed       ErrorCode = "VALIDATION_FAILED"
	ErrCodeResearchFailed         ErrorCode = "RESEARCH_FAILED"
	ErrCodeScriptGenerationFailed ErrorCode = "SCRIPT_GENERATION_FAILED"
	ErrCodeProviderCallFailed     ErrorCode = "PROVIDER_CALL_FAILED"
	ErrCodeProviderTimeout        ErrorCode = "PROVIDER_TIMEOUT"
	ErrCodeDatabaseInsertFailed   ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDatabaseQueryFailed    ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeScriptNotFound         ErrorCode = "SCRIPT_NOT_FOUND"
	ErrCodeTemplateNotFound       ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeExportFormatInvalid    ErrorCode = "EXPORT_FORMAT_INVALID"
	ErrCodeWebSearchTimeout       ErrorCode = "WEB_SEARCH_TIMEOUT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// NewValidationError creates a non-retryable input validation error.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResearchError creates a non-retryable research stage error.
func NewResearchError(details string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResearchFailed,
		Message:   "Research phase failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewScriptGenerationError creates a non-retryable script stage error.
func NewScriptGenerationError(details string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScriptGenerationFailed,
		Message:   "Script generation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewProviderCallError creates a non-retryable provider transport error.
func NewProviderCallError(provider string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderCallFailed,
		Message:   "LLM provider call failed",
		Details:   fmt.Sprintf("provider: %s, error: %v", provider, cause),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewProviderTimeoutError creates a retryable provider deadline error.
func NewProviderTimeoutError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderTimeout,
		Message:   "LLM provider call timed out",
		Details:   fmt.Sprintf("provider: %s", provider),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertError creates a retryable database insert error.
func NewDatabaseInsertError(cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   cause.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewDatabaseQueryError creates a retryable database query error.
func NewDatabaseQueryError(cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseQueryFailed,
		Message:   "Database query failed",
		Details:   cause.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewScriptNotFoundError creates a non-retryable lookup error.
func NewScriptNotFoundError(scriptID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScriptNotFound,
		Message:   fmt.Sprintf("Script %s not found", scriptID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateNotFoundError creates a non-retryable template lookup error.
func NewTemplateNotFoundError(templateID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateNotFound,
		Message:   fmt.Sprintf("Template %s not found", templateID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExportFormatError creates a non-retryable export format error.
func NewExportFormatError(format string) *StandardError {
	return &StandardError{
		Code:      ErrCodeExportFormatInvalid,
		Message:   "Unsupported export format",
		Details:   fmt.Sprintf("format: %s", format),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWebSearchTimeoutError creates a retryable web search deadline error.
func NewWebSearchTimeoutError(query string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWebSearchTimeout,
		Message:   "Web search timed out",
		Details:   fmt.Sprintf("query: %s", query),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf extracts the ErrorCode from err, or empty when err is not a StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// HTTPStatus maps an error to the status code the API surfaces it with.
// Not-found lookups map to 404, validation to 400, everything else to 500.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case ErrCodeScriptNotFound, ErrCodeTemplateNotFound:
		return http.StatusNotFound
	case ErrCodeValidationFailed, ErrCodeExportFormatInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
