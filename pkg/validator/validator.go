// Package validator checks that generated scripts only reference step
// files that exist. It follows runFlow references transitively and
// detects cycles.
package validator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	File    string
	Line    int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Result contains the validation result.
type Result struct {
	// Files is every flow file visited, scripts first, in discovery order.
	Files []string
	// Errors contains all validation errors found.
	Errors []error
}

// IsValid returns true if there are no validation errors.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

// Merge appends other's files and errors.
func (r *Result) Merge(other *Result) {
	r.Files = append(r.Files, other.Files...)
	r.Errors = append(r.Errors, other.Errors...)
}

// Validator validates generated scripts.
type Validator struct {
	recursive bool
}

// New creates a Validator. When recursive is false only the script's own
// runFlow targets are checked, not the targets' references.
func New(recursive bool) *Validator {
	return &Validator{recursive: recursive}
}

// Validate checks a script file, or every .yaml/.yml script under a directory.
func (v *Validator) Validate(path string) *Result {
	info, err := os.Stat(path)
	if err != nil {
		return &Result{Errors: []error{fileError(path, 0, "cannot access: %v", err)}}
	}
	if !info.IsDir() {
		return v.ValidateScripts([]string{path})
	}

	scripts, err := collectScripts(path)
	if err != nil {
		return &Result{Errors: []error{fileError(path, 0, "failed to scan directory: %v", err)}}
	}
	return v.ValidateScripts(scripts)
}

// ValidateScripts checks each script. A step file shared by several
// scripts is visited once.
func (v *Validator) ValidateScripts(paths []string) *Result {
	w := &walk{recursive: v.recursive, seen: map[string]bool{}, result: &Result{}}
	for _, p := range paths {
		w.visit(p, nil)
	}
	return w.result
}

func collectScripts(dir string) ([]string, error) {
	var scripts []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			scripts = append(scripts, path)
		}
		return nil
	})
	return scripts, err
}

type walk struct {
	recursive bool
	seen      map[string]bool
	result    *Result
}

func (w *walk) fail(err error) {
	w.result.Errors = append(w.result.Errors, err)
}

// visit checks path's runFlow targets. chain holds the files currently
// being visited, outermost first.
func (w *walk) visit(path string, chain []string) {
	for _, ancestor := range chain {
		if ancestor == path {
			cycle := append(append([]string(nil), chain...), path)
			w.fail(fileError(path, 0, "circular dependency detected: %s", strings.Join(cycle, " -> ")))
			return
		}
	}
	if w.seen[path] {
		return
	}
	w.seen[path] = true
	w.result.Files = append(w.result.Files, path)

	refs, err := ParseRefsFile(path)
	if err != nil {
		w.fail(fileError(path, 0, "parse error: %v", err))
		return
	}

	inner := append(append([]string(nil), chain...), path)
	for _, ref := range refs {
		target := ref.File
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		if _, err := os.Stat(target); err != nil {
			w.fail(fileError(path, ref.Line, "runFlow target not found: %s", ref.File))
			continue
		}
		if w.recursive {
			w.visit(target, inner)
		}
	}
}

func fileError(file string, line int, format string, args ...interface{}) *ValidationError {
	return &ValidationError{File: file, Line: line, Message: fmt.Sprintf(format, args...)}
}
