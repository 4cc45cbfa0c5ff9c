// Package errors provides the request-level error taxonomy of the prediction service.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMissingField       ErrorCode = "MISSING_FIELD"
	ErrCodeUnknownCategory    ErrorCode = "UNKNOWN_CATEGORY"
	ErrCodeInvalidNumber      ErrorCode = "INVALID_NUMBER"
	ErrCodeDatasetUnavailable ErrorCode = "DATASET_UNAVAILABLE"
	ErrCodeArtifactInvalid    ErrorCode = "ARTIFACT_INVALID"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured, client-visible error.
// Message is rendered verbatim in the JSON error body.
type StandardError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Value   string    `json:"value,omitempty"`
	Details string    `json:"details,omitempty"`
}

func (e *StandardError) Error() string {
	return e.Message
}

// NewMissingFieldError reports a submitted field that is present but empty.
func NewMissingFieldError(field string) *StandardError {
	return &StandardError{
		Code:    ErrCodeMissingField,
		Message: fmt.Sprintf("Missing value for %s", field),
		Field:   field,
	}
}

// NewUnknownCategoryError reports a value outside the trained vocabulary.
func NewUnknownCategoryError(field, value string) *StandardError {
	return &StandardError{
		Code:    ErrCodeUnknownCategory,
		Message: fmt.Sprintf("Unknown value for %s: %s", field, value),
		Field:   field,
		Value:   value,
	}
}

// NewInvalidNumberError reports a numerical field that does not parse.
func NewInvalidNumberError(field, value string) *StandardError {
	return &StandardError{
		Code:    ErrCodeInvalidNumber,
		Message: fmt.Sprintf("Invalid numeric value for %s: %s", field, value),
		Field:   field,
		Value:   value,
	}
}

// NewDatasetUnavailableError reports an optional dataset that was not loaded.
func NewDatasetUnavailableError(dataset string) *StandardError {
	return &StandardError{
		Code:    ErrCodeDatasetUnavailable,
		Message: fmt.Sprintf("%s not available", dataset),
	}
}

// NewArtifactInvalidError reports a model artifact that failed validation.
// The message names the reason so startup failures are self-explanatory.
func NewArtifactInvalidError(artifact, details string) *StandardError {
	msg := fmt.Sprintf("invalid artifact %s", artifact)
	if details != "" {
		msg = fmt.Sprintf("%s: %s", msg, details)
	}
	return &StandardError{
		Code:    ErrCodeArtifactInvalid,
		Message: msg,
		Details: details,
	}
}

// NewInternalError wraps any other failure during request handling.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:    ErrCodeInternal,
		Message: err.Error(),
		Details: err.Error(),
	}
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsClientError reports whether the code describes bad request input
// rather than a server-side fault.
func IsClientError(code ErrorCode) bool {
	switch code {
	case ErrCodeMissingField, ErrCodeUnknownCategory, ErrCodeInvalidNumber:
		return true
	}
	return false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}
