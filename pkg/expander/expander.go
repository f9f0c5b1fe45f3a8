// Package expander flattens a flowtree.Tree into self-contained runnable
// units. Each unit replays setup from a cold start, so the automation runner
// can execute it in isolation.
//
// Unit layout:
//
//	beforeAll, kill, beforeEach(group), carried, variant, kill
//
// The carried prefix is derived from the accepted variants of earlier stages
// in the same group and is reset at every group boundary.
package expander

import (
	"github.com/viscouspot/maestro-flowgen/pkg/flowtree"
)

// Unit is one flattened test case.
type Unit struct {
	Group      int // -1 for the setup-only preamble of a tree without groups
	Stage      int
	Variant    int
	Steps      []flowtree.StepRef
	EndOfGroup bool // Last unit of its group; serializers emit a separator after it
}

// Expand validates t and returns its runnable units in declaration order.
// On a malformed tree it returns core.ErrMalformedSpec and no units.
func Expand(t flowtree.Tree) ([]Unit, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if len(t.Groups) == 0 {
		return []Unit{{
			Group:   -1,
			Stage:   -1,
			Variant: -1,
			Steps:   concat(t.Setup.BeforeAll, []flowtree.StepRef{flowtree.Kill}),
		}}, nil
	}

	units := make([]Unit, 0, Count(t))
	for gi, g := range t.Groups {
		units = append(units, expandGroup(t, gi, g)...)
	}
	return units, nil
}

// Count returns the number of units Expand produces for a valid tree.
func Count(t flowtree.Tree) int {
	if len(t.Groups) == 0 {
		return 1
	}
	n := 0
	for _, g := range t.Groups {
		n += g.VariantCount()
	}
	return n
}

// expandGroup owns the carried prefix for one group; nothing leaks to the next.
func expandGroup(t flowtree.Tree, gi int, g flowtree.Group) []Unit {
	beforeEach := t.Setup.BeforeEachFor(gi)
	units := make([]Unit, 0, g.VariantCount())

	var carried []flowtree.StepRef
	for si, st := range g.Stages {
		for vi, v := range st.Variants {
			units = append(units, Unit{
				Group:   gi,
				Stage:   si,
				Variant: vi,
				Steps: concat(
					t.Setup.BeforeAll,
					[]flowtree.StepRef{flowtree.Kill},
					beforeEach,
					carried,
					v.Steps,
					[]flowtree.StepRef{flowtree.Kill},
				),
			})
		}
		carried = nextCarry(t.Carry, carried, st.Variants[st.Canonical()])
	}

	units[len(units)-1].EndOfGroup = true
	return units
}

func nextCarry(policy flowtree.CarryPolicy, carried []flowtree.StepRef, accepted flowtree.Variant) []flowtree.StepRef {
	if policy == flowtree.CarryCumulative {
		return concat(carried, accepted.Steps)
	}
	return concat(accepted.Steps)
}

// concat always allocates, so units never share backing arrays with the tree
// or with each other.
func concat(parts ...[]flowtree.StepRef) []flowtree.StepRef {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]flowtree.StepRef, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
