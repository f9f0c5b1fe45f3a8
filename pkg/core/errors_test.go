package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{
		Category: ErrCategorySpec,
		Code:     "test_error",
		Message:  "test message",
	}

	if got := err.Error(); got != "test message" {
		t.Errorf("Error() = %q, want %q", got, "test message")
	}
}

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrSerializationIO.WithCause(cause)

	got := err.Error()
	if !strings.Contains(got, "failed to write script") {
		t.Errorf("Error() = %q, should contain the message", got)
	}
	if !strings.Contains(got, "disk full") {
		t.Errorf("Error() = %q, should contain the cause", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &Error{Message: "wrapper", Cause: cause}

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the cause")
	}
}

func TestError_IsMatchesCode(t *testing.T) {
	derived := ErrMalformedSpec.WithMessage("groups[0]: group has no stages")
	wrapped := fmt.Errorf("suite onboarding/negative: %w", derived)

	if !errors.Is(wrapped, ErrMalformedSpec) {
		t.Error("derived error should match ErrMalformedSpec")
	}
	if errors.Is(wrapped, ErrRunnerInvocation) {
		t.Error("derived error should not match ErrRunnerInvocation")
	}
	if errors.Is(wrapped, errors.New("malformed flow tree")) {
		t.Error("plain errors should never match")
	}
}

func TestError_WithCause(t *testing.T) {
	original := ErrRunnerInvocation
	cause := errors.New("exit status 1")

	newErr := original.WithCause(cause)

	if newErr.Cause != cause {
		t.Error("WithCause() did not set cause")
	}
	if newErr.Code != original.Code {
		t.Error("WithCause() changed code")
	}
	if original.Cause != nil {
		t.Error("WithCause() modified original error")
	}
}

func TestError_WithMessage(t *testing.T) {
	original := ErrInvalidEnvironmentValue
	newErr := original.WithMessagef("invalid URL format for %s", "GITEA_URL")

	if newErr.Message != "invalid URL format for GITEA_URL" {
		t.Errorf("Message = %q, want 'invalid URL format for GITEA_URL'", newErr.Message)
	}
	if newErr.Code != original.Code {
		t.Error("WithMessage() changed code")
	}
	if original.Message != "invalid environment value" {
		t.Error("WithMessage() modified original error")
	}
}

func TestError_WithDetails(t *testing.T) {
	original := &Error{
		Code:    "test",
		Message: "test",
		Details: map[string]interface{}{"existing": "value"},
	}

	newErr := original.WithDetails(map[string]interface{}{
		"exit_code": 2,
		"stderr":    "boom",
	})

	if newErr.Details["exit_code"] != 2 {
		t.Error("WithDetails() did not add new details")
	}
	if newErr.Details["existing"] != "value" {
		t.Error("WithDetails() did not preserve existing details")
	}
	if _, ok := original.Details["stderr"]; ok {
		t.Error("WithDetails() modified original error")
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err      *Error
		category ErrorCategory
		code     string
	}{
		{ErrMalformedSpec, ErrCategorySpec, "malformed_spec"},
		{ErrInvalidEnvironmentValue, ErrCategoryEnvironment, "invalid_environment_value"},
		{ErrSerializationIO, ErrCategorySerialization, "serialization_io_failure"},
		{ErrRunnerInvocation, ErrCategoryRunner, "runner_invocation_failure"},
		{ErrInvalidConfig, ErrCategoryConfig, "invalid_config"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Category != tt.category {
				t.Errorf("Category = %s, want %s", tt.err.Category, tt.category)
			}
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("Message should not be empty")
			}
		})
	}
}

func TestNewError(t *testing.T) {
	err := NewError(ErrCategoryConfig, "custom_error", "custom message")

	if err.Category != ErrCategoryConfig {
		t.Errorf("Category = %s, want %s", err.Category, ErrCategoryConfig)
	}
	if err.Code != "custom_error" {
		t.Errorf("Code = %s, want 'custom_error'", err.Code)
	}
	if err.Message != "custom message" {
		t.Errorf("Message = %s, want 'custom message'", err.Message)
	}
}

func TestCategoryOf(t *testing.T) {
	wrapped := fmt.Errorf("write auth/ssh: %w", ErrSerializationIO.WithCause(errors.New("read-only")))
	if got := CategoryOf(wrapped); got != ErrCategorySerialization {
		t.Errorf("CategoryOf() = %s, want serialization", got)
	}
	if got := CategoryOf(errors.New("plain")); got != ErrCategoryNone {
		t.Errorf("CategoryOf() = %s, want none", got)
	}
}
