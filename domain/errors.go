package domain

import (
	"errors"
	"fmt"
)

// Error codes surfaced to callers
const (
	// ErrCodeInvalidRequest is returned for malformed input; no analysis runs
	ErrCodeInvalidRequest = "INVALID_REQUEST"

	// ErrCodeInternalError is returned for unexpected failures during analysis
	ErrCodeInternalError = "INTERNAL_ERROR"

	// ErrCodeConfig is used internally for configuration loading failures
	ErrCodeConfig = "CONFIG_ERROR"
)

// DomainError is an error with a caller-visible code
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewInvalidRequestError creates an INVALID_REQUEST error
func NewInvalidRequestError(message string) *DomainError {
	return &DomainError{Code: ErrCodeInvalidRequest, Message: message}
}

// NewInternalError creates an INTERNAL_ERROR error wrapping the cause
func NewInternalError(message string, err error) *DomainError {
	return &DomainError{Code: ErrCodeInternalError, Message: message, Err: err}
}

// NewConfigError creates a CONFIG_ERROR error wrapping the cause
func NewConfigError(message string, err error) *DomainError {
	return &DomainError{Code: ErrCodeConfig, Message: message, Err: err}
}

// ErrorCode extracts the caller-visible code from an error, defaulting to
// INTERNAL_ERROR for anything that is not a DomainError.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternalError
}
