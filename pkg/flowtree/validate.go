package flowtree

import (
	"fmt"

	"github.com/viscouspot/maestro-flowgen/pkg/core"
)

// Validate checks the structural invariants: every group, stage and variant
// is non-empty, no step reference is blank, and at most one variant per
// stage is marked accepted. Violations are core.ErrMalformedSpec.
func (t Tree) Validate() error {
	for i, ref := range t.Setup.BeforeAll {
		if ref == "" {
			return malformed(fmt.Sprintf("setup.beforeAll[%d]", i), "empty step reference")
		}
	}
	for i, seq := range t.Setup.BeforeEach {
		for j, ref := range seq {
			if ref == "" {
				return malformed(fmt.Sprintf("setup.beforeEach[%d][%d]", i, j), "empty step reference")
			}
		}
	}

	for gi, g := range t.Groups {
		gloc := fmt.Sprintf("groups[%d]", gi)
		if len(g.Stages) == 0 {
			return malformed(gloc, "group has no stages")
		}
		for si, st := range g.Stages {
			sloc := fmt.Sprintf("%s.stages[%d]", gloc, si)
			if len(st.Variants) == 0 {
				return malformed(sloc, "stage has no variants")
			}
			accepted := 0
			for vi, v := range st.Variants {
				vloc := fmt.Sprintf("%s.variants[%d]", sloc, vi)
				if len(v.Steps) == 0 {
					return malformed(vloc, "variant has no steps")
				}
				for ri, ref := range v.Steps {
					if ref == "" {
						return malformed(fmt.Sprintf("%s.steps[%d]", vloc, ri), "empty step reference")
					}
				}
				if v.Accepted {
					accepted++
				}
			}
			if accepted > 1 {
				return malformed(sloc, fmt.Sprintf("%d variants marked accepted, want at most one", accepted))
			}
		}
	}

	if t.Carry != CarryReplace && t.Carry != CarryCumulative {
		return malformed("carry", fmt.Sprintf("unknown carry policy %d", t.Carry))
	}
	return nil
}

func malformed(location, msg string) error {
	return core.ErrMalformedSpec.
		WithMessagef("%s: %s", location, msg).
		WithDetails(map[string]interface{}{"location": location})
}
