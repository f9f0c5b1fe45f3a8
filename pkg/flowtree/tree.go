// Package flowtree holds the declarative description of a test suite: a
// baseline setup, per-group setup overrides, and groups of decision stages
// whose variants are alternative step sequences.
package flowtree

// StepRef names one atomic test action, e.g. "welcome_dialog/positive".
type StepRef string

// Kill is the reset/teardown step that guarantees a cold app process.
const Kill StepRef = "kill"

// CarryPolicy controls how the accepted variant of a stage feeds the
// prefix replayed before the next stage.
type CarryPolicy int

const (
	// CarryReplace makes the accepted variant of the previous stage the
	// whole carried prefix.
	CarryReplace CarryPolicy = iota
	// CarryCumulative appends each accepted variant to the carried prefix,
	// replaying the accepted path through every prior stage of the group.
	CarryCumulative
)

// String returns the string representation of CarryPolicy
func (p CarryPolicy) String() string {
	switch p {
	case CarryReplace:
		return "replace"
	case CarryCumulative:
		return "cumulative"
	default:
		return "unknown"
	}
}

// Variant is one alternative path through a decision point.
type Variant struct {
	Steps    []StepRef
	Accepted bool // The path the suite commits to for later stages
}

// Stage is the set of mutually exclusive variants offered at one decision point.
type Stage struct {
	Variants []Variant
}

// Group is an isolated journey segment. Carried context never crosses groups.
type Group struct {
	Name   string
	Stages []Stage
}

// Setup is the global before-all sequence plus per-group overrides.
type Setup struct {
	BeforeAll  []StepRef
	BeforeEach [][]StepRef // Indexed by group position
}

// Tree is a complete suite specification.
type Tree struct {
	Setup  Setup
	Groups []Group
	Carry  CarryPolicy
}

// V builds an unmarked variant.
func V(steps ...StepRef) Variant {
	return Variant{Steps: steps}
}

// Accept builds a variant explicitly marked as the accepted path.
func Accept(steps ...StepRef) Variant {
	return Variant{Steps: steps, Accepted: true}
}

// S builds a stage from variants.
func S(variants ...Variant) Stage {
	return Stage{Variants: variants}
}

// Steps converts plain strings to step references.
func Steps(names ...string) []StepRef {
	refs := make([]StepRef, len(names))
	for i, n := range names {
		refs[i] = StepRef(n)
	}
	return refs
}

// Canonical returns the index of the accepted variant: the one marked
// Accepted, or the last declared when none is marked. It returns -1 for an
// empty stage. Stages with more than one marked variant are rejected by
// Tree.Validate; here the first marked one wins.
func (s Stage) Canonical() int {
	for i, v := range s.Variants {
		if v.Accepted {
			return i
		}
	}
	return len(s.Variants) - 1
}

// BeforeEachFor resolves the setup override for the group at index i: the
// override at i if supplied, else the last supplied override, else nothing.
func (s Setup) BeforeEachFor(i int) []StepRef {
	if len(s.BeforeEach) == 0 {
		return nil
	}
	if i < len(s.BeforeEach) {
		return s.BeforeEach[i]
	}
	return s.BeforeEach[len(s.BeforeEach)-1]
}

// VariantCount returns the number of variants across all stages of g.
func (g Group) VariantCount() int {
	n := 0
	for _, st := range g.Stages {
		n += len(st.Variants)
	}
	return n
}

// StageCount returns the number of stages across all groups.
func (t Tree) StageCount() int {
	n := 0
	for _, g := range t.Groups {
		n += len(g.Stages)
	}
	return n
}
