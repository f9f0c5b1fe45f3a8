package core

import (
	"errors"
	"fmt"
)

// Error is a categorized failure carrying a machine-readable code.
type Error struct {
	Category ErrorCategory
	Code     string                 // Machine-readable code: malformed_spec, runner_invocation_failure, etc.
	Message  string                 // Human-readable message
	Details  map[string]interface{} // Additional context
	Cause    error                  // Underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code, so derived
// errors match the predefined values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause returns a copy of the error with the given cause
func (e *Error) WithCause(cause error) *Error {
	return &Error{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  e.Details,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Details:  e.Details,
		Cause:    e.Cause,
	}
}

// WithMessagef is WithMessage with formatting.
func (e *Error) WithMessagef(format string, args ...interface{}) *Error {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// WithDetails returns a copy of the error with additional details
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &Error{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  merged,
		Cause:    e.Cause,
	}
}

// Predefined errors
var (
	ErrMalformedSpec           = NewError(ErrCategorySpec, "malformed_spec", "malformed flow tree")
	ErrInvalidEnvironmentValue = NewError(ErrCategoryEnvironment, "invalid_environment_value", "invalid environment value")
	ErrSerializationIO         = NewError(ErrCategorySerialization, "serialization_io_failure", "failed to write script")
	ErrRunnerInvocation        = NewError(ErrCategoryRunner, "runner_invocation_failure", "automation runner failed")
	ErrInvalidConfig           = NewError(ErrCategoryConfig, "invalid_config", "invalid configuration")
)

// NewError creates a new Error with the given parameters
func NewError(category ErrorCategory, code, message string) *Error {
	return &Error{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// CategoryOf returns the category of the first *Error in err's chain,
// or ErrCategoryNone.
func CategoryOf(err error) ErrorCategory {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ErrCategoryNone
}
