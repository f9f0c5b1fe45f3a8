package core

// SuiteStatus is the outcome of generating one suite's script.
type SuiteStatus int

const (
	StatusPending SuiteStatus = iota // Not yet expanded
	StatusWritten                    // Script persisted
	StatusFailed                     // Expansion or serialization failed
	StatusSkipped                    // Not selected or dry run
)

// String returns the string representation of SuiteStatus
func (s SuiteStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusWritten:
		return "written"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// ErrorCategory classifies a failure by the boundary it came from.
type ErrorCategory int

const (
	ErrCategoryNone          ErrorCategory = iota // No error
	ErrCategorySpec                               // FlowTree violates a structural invariant
	ErrCategoryEnvironment                        // Environment value has the wrong shape
	ErrCategorySerialization                      // Script file could not be written
	ErrCategoryRunner                             // Automation runner failed or is missing
	ErrCategoryConfig                             // Invalid workspace configuration
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategorySpec:
		return "spec"
	case ErrCategoryEnvironment:
		return "environment"
	case ErrCategorySerialization:
		return "serialization"
	case ErrCategoryRunner:
		return "runner"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}
