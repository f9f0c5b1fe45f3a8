// Package report writes the generation manifest: a JSON record of one
// flowgen run listing every selected suite, its script and its size.
//
// The manifest is rewritten atomically after every suite update, so a
// consumer reading it mid-run always sees a complete document.
package report

import (
	"time"

	"github.com/viscouspot/maestro-flowgen/pkg/core"
)

// Version is the manifest schema version.
const Version = "1.0.0"

// Manifest is the top-level manifest document.
type Manifest struct {
	Version     string       `json:"version"`
	RunID       string       `json:"runId"`
	Status      string       `json:"status"`
	StartTime   time.Time    `json:"startTime"`
	EndTime     *time.Time   `json:"endTime,omitempty"`
	LastUpdated time.Time    `json:"lastUpdated"`
	App         App          `json:"app"`
	Workspace   string       `json:"workspace"`
	DryRun      bool         `json:"dryRun,omitempty"`
	Summary     Summary      `json:"summary"`
	Suites      []SuiteEntry `json:"suites"`
}

// App contains application information.
type App struct {
	ID string `json:"id"`
}

// Summary contains aggregated counts.
type Summary struct {
	Total   int `json:"total"`
	Written int `json:"written"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Pending int `json:"pending"`
	Units   int `json:"units"`
	Steps   int `json:"steps"`
}

// SuiteEntry is the manifest entry for one suite.
type SuiteEntry struct {
	Index  int     `json:"index"`  // Position in the selection
	Name   string  `json:"name"`   // Suite name
	Script string  `json:"script"` // Output script path
	Status string  `json:"status"`
	Groups int     `json:"groups"`
	Units  int     `json:"units"`
	Steps  int     `json:"steps"`
	Error  *string `json:"error,omitempty"`
}

// SuiteUpdate carries the outcome of one suite.
type SuiteUpdate struct {
	Status core.SuiteStatus
	Groups int
	Units  int
	Steps  int
	Err    error
}

// Run status values.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)
