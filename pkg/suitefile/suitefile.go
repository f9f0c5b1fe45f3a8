// Package suitefile loads suite definitions from YAML documents in the
// workspace, so suites can be added without rebuilding flowgen.
package suitefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/viscouspot/maestro-flowgen/pkg/core"
	ft "github.com/viscouspot/maestro-flowgen/pkg/flowtree"
	"github.com/viscouspot/maestro-flowgen/pkg/suites"
)

// Document is the on-disk form of a suite.
type Document struct {
	Name       string     `yaml:"name"`
	Output     string     `yaml:"output,omitempty"`
	When       string     `yaml:"when,omitempty"`
	Carry      string     `yaml:"carry,omitempty"`
	BeforeAll  []string   `yaml:"beforeAll,omitempty"`
	BeforeEach [][]string `yaml:"beforeEach,omitempty"`
	Groups     []Group    `yaml:"groups,omitempty"`
}

// Group is a named sequence of stages.
type Group struct {
	Name   string  `yaml:"name"`
	Stages []Stage `yaml:"stages"`
}

// Stage lists alternative variants.
type Stage struct {
	Variants []Variant `yaml:"variants"`
}

// Variant is either a plain step list or a {steps, accepted} mapping.
type Variant struct {
	Steps    []string `yaml:"steps"`
	Accepted bool     `yaml:"accepted,omitempty"`
}

// UnmarshalYAML implements custom unmarshaling for the short list form.
func (v *Variant) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		v.Accepted = false
		return node.Decode(&v.Steps)
	}

	type rawVariant Variant
	var raw rawVariant
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*v = Variant(raw)
	return nil
}

// Parse validates and converts one YAML suite definition.
func Parse(data []byte, source string) (suites.Suite, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return suites.Suite{}, core.ErrMalformedSpec.WithMessagef("%s: invalid YAML", source).WithCause(err)
	}
	if raw == nil {
		return suites.Suite{}, core.ErrMalformedSpec.WithMessagef("%s: empty suite definition", source)
	}
	if err := validateDocument(raw, source); err != nil {
		return suites.Suite{}, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return suites.Suite{}, core.ErrMalformedSpec.WithMessagef("%s: invalid suite definition", source).WithCause(err)
	}

	s, err := doc.Suite()
	if err != nil {
		return suites.Suite{}, fmt.Errorf("%s: %w", source, err)
	}
	return s, nil
}

// Suite converts the document into a validated suite.
func (d Document) Suite() (suites.Suite, error) {
	carry, err := ParseCarry(d.Carry)
	if err != nil {
		return suites.Suite{}, err
	}

	tree := ft.Tree{
		Setup: ft.Setup{BeforeAll: refs(d.BeforeAll)},
		Carry: carry,
	}
	for _, each := range d.BeforeEach {
		tree.Setup.BeforeEach = append(tree.Setup.BeforeEach, refs(each))
	}
	for _, g := range d.Groups {
		group := ft.Group{Name: g.Name}
		for _, st := range g.Stages {
			var stage ft.Stage
			for _, v := range st.Variants {
				stage.Variants = append(stage.Variants, ft.Variant{Steps: refs(v.Steps), Accepted: v.Accepted})
			}
			group.Stages = append(group.Stages, stage)
		}
		tree.Groups = append(tree.Groups, group)
	}

	if err := tree.Validate(); err != nil {
		return suites.Suite{}, err
	}
	output := d.Output
	if output == "" {
		output = d.Name
	}
	if err := suites.CheckOutput(d.Name, output); err != nil {
		return suites.Suite{}, err
	}
	return suites.Suite{Name: d.Name, Output: d.Output, Tree: tree, When: d.When}, nil
}

// ParseCarry maps the carry field onto a policy. Empty means replace.
func ParseCarry(s string) (ft.CarryPolicy, error) {
	switch s {
	case "", ft.CarryReplace.String():
		return ft.CarryReplace, nil
	case ft.CarryCumulative.String():
		return ft.CarryCumulative, nil
	default:
		return 0, core.ErrMalformedSpec.WithMessagef("carry: unknown policy %q", s)
	}
}

// LoadFile reads and parses a suite definition file.
func LoadFile(path string) (suites.Suite, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- suite paths come from workspace config
	if err != nil {
		return suites.Suite{}, core.ErrInvalidConfig.WithMessagef("failed to read suite %s", path).WithCause(err)
	}
	return Parse(data, path)
}

// LoadGlobs loads every file matching patterns, relative to workspace.
// Files are loaded in sorted order within each pattern and each file is
// loaded once.
func LoadGlobs(workspace string, patterns []string) ([]suites.Suite, error) {
	seen := make(map[string]bool)
	var out []suites.Suite

	for _, pattern := range patterns {
		full := pattern
		if !filepath.IsAbs(full) {
			full = filepath.Join(workspace, pattern)
		}
		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, core.ErrInvalidConfig.WithMessagef("invalid suite pattern %q", pattern).WithCause(err)
		}
		sort.Strings(matches)

		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true

			s, err := LoadFile(m)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
	}
	return out, nil
}

func refs(names []string) []ft.StepRef {
	if names == nil {
		return nil
	}
	return ft.Steps(names...)
}
