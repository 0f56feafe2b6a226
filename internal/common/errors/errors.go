// Package errors provides the structured error taxonomy shared by the
// matching engine, the essay pipeline and their transports.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode identifies the kind of failure. Callers branch on it.
type ErrorCode string

const (
	ErrCodeInvalidProfile ErrorCode = "INVALID_PROFILE"
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	ErrCodeEmptyCorpus  ErrorCode = "EMPTY_CORPUS"
	ErrCodeEmptyCatalog ErrorCode = "EMPTY_CATALOG"

	ErrCodeGenerationTimeout ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeGenerationEmpty   ErrorCode = "GENERATION_EMPTY"
	ErrCodeGenerationFailed  ErrorCode = "GENERATION_FAILED"
	ErrCodeEmbeddingFailed   ErrorCode = "EMBEDDING_FAILED"

	ErrCodeCorpusLoadFailed  ErrorCode = "CORPUS_LOAD_FAILED"
	ErrCodeCatalogLoadFailed ErrorCode = "CATALOG_LOAD_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the single error shape surfaced to callers.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches another StandardError by code, so errors.Is works against the
// sentinel values below.
func (e *StandardError) Is(target error) bool {
	var other *StandardError
	if !stderrors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidProfile    = &StandardError{Code: ErrCodeInvalidProfile}
	ErrInvalidRequest    = &StandardError{Code: ErrCodeInvalidRequest}
	ErrEmptyCorpus       = &StandardError{Code: ErrCodeEmptyCorpus}
	ErrEmptyCatalog      = &StandardError{Code: ErrCodeEmptyCatalog}
	ErrGenerationTimeout = &StandardError{Code: ErrCodeGenerationTimeout}
	ErrGenerationEmpty   = &StandardError{Code: ErrCodeGenerationEmpty}
	ErrGenerationFailed  = &StandardError{Code: ErrCodeGenerationFailed}
	ErrEmbeddingFailed   = &StandardError{Code: ErrCodeEmbeddingFailed}
)

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError is what a job worker throws back to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for job fail/throw variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewInvalidProfileError reports the fields that failed validation.
func NewInvalidProfileError(problems []string) *StandardError {
	return newError(ErrCodeInvalidProfile, "Student profile is invalid", strings.Join(problems, "; "), false, nil)
}

func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Request is invalid", details, false, nil)
}

func NewEmptyCorpusError(details string) *StandardError {
	return newError(ErrCodeEmptyCorpus, "No eligible scholarships in the corpus", details, false, nil)
}

func NewEmptyCatalogError() *StandardError {
	return newError(ErrCodeEmptyCatalog, "Strategy catalog has no entries", "", false, nil)
}

// NewGenerationTimeoutError is retryable once, by the orchestration layer.
func NewGenerationTimeoutError(timeout time.Duration, cause error) *StandardError {
	return newError(ErrCodeGenerationTimeout, "Essay generation timed out",
		fmt.Sprintf("timeout: %s", timeout), true, cause)
}

func NewGenerationEmptyError(details string) *StandardError {
	return newError(ErrCodeGenerationEmpty, "Essay generation returned no usable text", details, false, nil)
}

func NewGenerationFailedError(provider string, err error) *StandardError {
	return newError(ErrCodeGenerationFailed, fmt.Sprintf("Generation provider '%s' failed", provider),
		err.Error(), false, err)
}

func NewEmbeddingFailedError(provider string, err error) *StandardError {
	return newError(ErrCodeEmbeddingFailed, fmt.Sprintf("Embedding provider '%s' failed", provider),
		err.Error(), true, err)
}

func NewCorpusLoadFailedError(source string, err error) *StandardError {
	return newError(ErrCodeCorpusLoadFailed, "Scholarship corpus could not be loaded",
		fmt.Sprintf("source: %s, error: %s", source, err.Error()), false, err)
}

func NewCatalogLoadFailedError(path string, err error) *StandardError {
	return newError(ErrCodeCatalogLoadFailed, "Strategy catalog could not be loaded",
		fmt.Sprintf("path: %s, error: %s", path, err.Error()), false, err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 4. Lookup and Conversion
// ==========================

// AsStandardError finds a StandardError in the chain, or wraps err as an
// internal error. Nil in, nil out.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// CodeOf returns the error code carried by err, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	if stdErr := AsStandardError(err); stdErr != nil {
		return stdErr.Code
	}
	return ""
}

// GetRetryCount returns how many times an orchestrator may retry a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeEmbeddingFailed:
		return 2
	case ErrCodeGenerationTimeout:
		return 1
	default:
		return 0
	}
}

// HTTPStatus maps an error code to the status the API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidProfile, ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeGenerationTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeGenerationEmpty, ErrCodeGenerationFailed, ErrCodeEmbeddingFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ConvertToBPMNError converts a StandardError for the workflow engine.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes for dashboards and logs.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.HasPrefix(codeStr, "GENERATION") || strings.HasPrefix(codeStr, "EMBEDDING"):
		return "AI"
	case strings.Contains(codeStr, "CORPUS") || strings.Contains(codeStr, "CATALOG"):
		return "CONFIGURATION"
	default:
		return "OTHER"
	}
}
