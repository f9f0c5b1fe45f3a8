// Package suites holds the GitSync UI test suites and the registry used to
// select them by name.
package suites

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/viscouspot/maestro-flowgen/pkg/core"
	ft "github.com/viscouspot/maestro-flowgen/pkg/flowtree"
)

// Suite is a named tree and the workspace-relative path (without extension)
// its script is written to.
type Suite struct {
	Name   string
	Output string
	Tree   ft.Tree
	When   string // JavaScript condition over environment variables; empty means always
}

// OutputPath returns the script path for the suite under workspace.
func (s Suite) OutputPath(workspace, ext string) string {
	return filepath.Join(workspace, s.Output) + "." + ext
}

// CheckOutput rejects an output path that is absolute, empty or climbs out
// of the workspace through "..".
func CheckOutput(name, output string) error {
	if filepath.IsLocal(filepath.FromSlash(output)) {
		return nil
	}
	return core.ErrMalformedSpec.
		WithMessagef("suite %s: output %q must stay inside the workspace", name, output).
		WithDetails(map[string]interface{}{"suite": name, "output": output})
}

// Registry is an ordered set of suites with unique names.
type Registry struct {
	suites []Suite
	byName map[string]int
}

// NewRegistry creates a registry from suites, rejecting duplicate names.
func NewRegistry(suites ...Suite) (*Registry, error) {
	r := &Registry{byName: make(map[string]int)}
	for _, s := range suites {
		if err := r.Add(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add appends a suite. Output defaults to the suite name and must stay
// inside the workspace.
func (r *Registry) Add(s Suite) error {
	if s.Name == "" {
		return fmt.Errorf("suite name is required")
	}
	if _, exists := r.byName[s.Name]; exists {
		return fmt.Errorf("duplicate suite %q", s.Name)
	}
	if s.Output == "" {
		s.Output = s.Name
	}
	if err := CheckOutput(s.Name, s.Output); err != nil {
		return err
	}
	r.byName[s.Name] = len(r.suites)
	r.suites = append(r.suites, s)
	return nil
}

// All returns every suite in registration order.
func (r *Registry) All() []Suite {
	out := make([]Suite, len(r.suites))
	copy(out, r.suites)
	return out
}

// Get returns the named suite.
func (r *Registry) Get(name string) (Suite, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Suite{}, false
	}
	return r.suites[i], true
}

// Select returns the named suites in registration order, or all suites when
// names is empty. Unknown names are an error listing what is available.
func (r *Registry) Select(names []string) ([]Suite, error) {
	if len(names) == 0 {
		return r.All(), nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := r.byName[n]; !ok {
			return nil, fmt.Errorf("unknown suite %q (available: %v)", n, r.Names())
		}
		want[n] = true
	}

	var out []Suite
	for _, s := range r.suites {
		if want[s.Name] {
			out = append(out, s)
		}
	}
	return out, nil
}

// Names returns the sorted suite names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.suites))
	for _, s := range r.suites {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns the GitSync suites in generation order.
func Builtin() []Suite {
	return []Suite{
		{Name: "onboarding/negative", Tree: OnboardingNegative()},
		{Name: "onboarding/positive", Tree: OnboardingPositive()},
		{Name: "auth/github", Tree: authSuite("github", "../clone/flows/list/assert")},
		{Name: "auth/gitea", Tree: authSuite("gitea", "../clone/flows/list/assert")},
		{Name: "auth/https", Tree: authSuite("https", "../clone/flows/list/assert_not")},
		{Name: "auth/ssh", Tree: authSuite("ssh", "../clone/flows/list/assert_not")},
	}
}
