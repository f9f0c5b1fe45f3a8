// Package alias maps step references to the flow files Maestro runs.
package alias

import (
	"strings"

	"github.com/viscouspot/maestro-flowgen/pkg/flowtree"
)

const (
	// DefaultStepsDir holds the suite's own step flows.
	DefaultStepsDir = "flows"
	// DefaultExtension is the flow file extension.
	DefaultExtension = "yaml"
	// ParentPrefix marks a reference that leaves the suite's namespace.
	ParentPrefix = "../"
	// CommonDir holds flows shared by every suite.
	CommonDir = "../common"
)

// DefaultReserved lists the shared steps that live in CommonDir.
var DefaultReserved = []flowtree.StepRef{
	"disable_all_files_access",
	"clear_state",
	flowtree.Kill,
	"back",
	"launch_stls_no_perms",
	"launch_notif_perm",
}

// Options configures a Resolver. Zero values fall back to the defaults.
type Options struct {
	StepsDir  string
	Extension string
	Aliases   map[string]string // Extra or overriding reserved locators
}

// Resolver turns step references into runFlow locators: a reserved-name
// table first, then the generic naming rule.
type Resolver struct {
	table    map[flowtree.StepRef]string
	stepsDir string
	ext      string
}

// New creates a Resolver with the default reserved table plus opts.Aliases.
func New(opts Options) *Resolver {
	r := &Resolver{
		table:    make(map[flowtree.StepRef]string),
		stepsDir: strings.TrimSuffix(opts.StepsDir, "/"),
		ext:      strings.TrimPrefix(opts.Extension, "."),
	}
	if r.stepsDir == "" {
		r.stepsDir = DefaultStepsDir
	}
	if r.ext == "" {
		r.ext = DefaultExtension
	}

	for _, name := range DefaultReserved {
		r.table[name] = CommonDir + "/" + string(name) + "." + r.ext
	}
	for name, loc := range opts.Aliases {
		r.table[flowtree.StepRef(name)] = loc
	}
	return r
}

// Resolve returns the locator for ref.
func (r *Resolver) Resolve(ref flowtree.StepRef) string {
	if loc, ok := r.table[ref]; ok {
		return loc
	}
	name := string(ref)
	if strings.HasPrefix(name, ParentPrefix) {
		return name + "." + r.ext
	}
	return r.stepsDir + "/" + name + "." + r.ext
}
