package report

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/viscouspot/maestro-flowgen/pkg/core"
	"github.com/viscouspot/maestro-flowgen/pkg/fileutil"
)

// Selection describes one suite before generation starts.
type Selection struct {
	Name   string
	Script string
}

// NewManifest creates a manifest with every suite pending. An empty runID
// gets a fresh UUID.
func NewManifest(runID, appID, workspace string, suites []Selection) *Manifest {
	if runID == "" {
		runID = uuid.NewString()
	}
	m := &Manifest{
		Version:   Version,
		RunID:     runID,
		Status:    RunRunning,
		App:       App{ID: appID},
		Workspace: workspace,
		Suites:    make([]SuiteEntry, len(suites)),
	}
	for i, s := range suites {
		m.Suites[i] = SuiteEntry{
			Index:  i,
			Name:   s.Name,
			Script: s.Script,
			Status: core.StatusPending.String(),
		}
	}
	m.Summary = summarize(m.Suites)
	return m
}

// Writer provides thread-safe updates to a manifest and persists it after
// every change. An empty path keeps the manifest in memory only.
type Writer struct {
	mu       sync.Mutex
	path     string
	manifest *Manifest
	err      error
}

// NewWriter creates a Writer for m.
func NewWriter(path string, m *Manifest) *Writer {
	return &Writer{path: path, manifest: m}
}

// Start marks the run as started.
func (w *Writer) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	w.manifest.Status = RunRunning
	w.manifest.StartTime = now
	w.flushLocked()
}

// UpdateSuite records the outcome of the named suite.
func (w *Writer) UpdateSuite(name string, update SuiteUpdate) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.manifest.Suites {
		s := &w.manifest.Suites[i]
		if s.Name != name {
			continue
		}
		s.Status = update.Status.String()
		s.Groups = update.Groups
		s.Units = update.Units
		s.Steps = update.Steps
		if update.Err != nil {
			msg := update.Err.Error()
			s.Error = &msg
		}
		break
	}
	w.flushLocked()
}

// End marks the run as complete and returns the first write error seen.
func (w *Writer) End() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	w.manifest.EndTime = &now
	w.manifest.Status = computeRunStatus(w.manifest.Suites)
	w.flushLocked()
	return w.err
}

func (w *Writer) flushLocked() {
	w.manifest.LastUpdated = time.Now()
	w.manifest.Summary = summarize(w.manifest.Suites)

	if w.path == "" {
		return
	}
	if err := atomicWriteJSON(w.path, w.manifest); err != nil && w.err == nil {
		w.err = err
	}
}

func summarize(suites []SuiteEntry) Summary {
	var s Summary
	for _, e := range suites {
		s.Total++
		switch e.Status {
		case core.StatusWritten.String():
			s.Written++
		case core.StatusFailed.String():
			s.Failed++
		case core.StatusSkipped.String():
			s.Skipped++
		case core.StatusPending.String():
			s.Pending++
		}
		s.Units += e.Units
		s.Steps += e.Steps
	}
	return s
}

func computeRunStatus(suites []SuiteEntry) string {
	for _, e := range suites {
		if e.Status == core.StatusFailed.String() || e.Status == core.StatusPending.String() {
			return RunFailed
		}
	}
	return RunCompleted
}

// atomicWriteJSON writes v as indented JSON to path atomically.
func atomicWriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return core.ErrSerializationIO.WithMessagef("failed to encode %s", path).WithCause(err)
	}
	return fileutil.WriteAtomic(path, data, 0o644)
}
