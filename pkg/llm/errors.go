package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies wrapper failures so callers never need to know
// collaborator-internal error types.
type ErrorType string

const (
	// ErrorTypeConfiguration indicates a missing or invalid credential or
	// construction input, detected before any network call.
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeAuthentication indicates the provider rejected the credential.
	ErrorTypeAuthentication ErrorType = "authentication"
	// ErrorTypeNotInitialized indicates an operation was invoked before its
	// required predecessor state exists.
	ErrorTypeNotInitialized ErrorType = "not_initialized"
	// ErrorTypeValidation indicates a supplied value fails a domain
	// constraint, such as an unknown model version.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeTypeMismatch indicates a supplied collaborator does not
	// satisfy the required capability.
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"
	// ErrorTypeEmbedding indicates the embedding step failed, wrapping the
	// retriever's underlying failure.
	ErrorTypeEmbedding ErrorType = "embedding"
	// ErrorTypeRetrieval indicates the retriever failed while fetching
	// context during generation.
	ErrorTypeRetrieval ErrorType = "retrieval"
	// ErrorTypeProvider indicates a generation call failed inside the
	// provider for a reason other than authentication.
	ErrorTypeProvider ErrorType = "provider"
)

// Error is a structured wrapper error with classification.
type Error struct {
	Type    ErrorType // Classification of the error
	Message string    // Human-readable message
	Cause   error     // Underlying collaborator error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new structured wrapper error.
func NewError(errType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Errorf creates a new structured wrapper error with a formatted message.
func Errorf(errType ErrorType, format string, args ...any) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// KindOf extracts the ErrorType from an error, or ErrorTypeProvider when the
// error did not originate from this package.
func KindOf(err error) ErrorType {
	var wErr *Error
	if errors.As(err, &wErr) {
		return wErr.Type
	}
	return ErrorTypeProvider
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, errType ErrorType) bool {
	var wErr *Error
	if errors.As(err, &wErr) {
		return wErr.Type == errType
	}
	return false
}

// ClassifyProviderError wraps an error surfaced by a provider SDK under the
// wrapper taxonomy. Already-classified errors pass through unchanged.
func ClassifyProviderError(err error) *Error {
	if err == nil {
		return nil
	}

	var wErr *Error
	if errors.As(err, &wErr) {
		return wErr
	}

	lower := strings.ToLower(err.Error())

	// Credential rejection (401, invalid key)
	if strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key") || strings.Contains(lower, "incorrect api key") ||
		strings.Contains(lower, "authentication") {
		return NewError(ErrorTypeAuthentication, "provider rejected credential", err)
	}

	// Unknown model on the provider side
	if strings.Contains(lower, "model") && (strings.Contains(lower, "not found") ||
		strings.Contains(lower, "does not exist")) {
		return NewError(ErrorTypeValidation, "model not available", err)
	}

	return NewError(ErrorTypeProvider, "provider call failed", err)
}
