// Package env collects, validates and exports the variables generated
// scripts read at run time.
package env

import (
	"errors"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/viscouspot/maestro-flowgen/pkg/core"
)

// Mask replaces values wherever variables are printed.
const Mask = "********"

// Rule checks the shape of values whose key ends with Suffix.
type Rule struct {
	Suffix  string
	Pattern *regexp.Regexp
}

// Rules are matched in order; the first suffix that matches decides.
var Rules = []Rule{
	{Suffix: "_PROTOCOL_URL", Pattern: regexp.MustCompile(`^ssh://[^@]+@[\w.-]+(?:\.[\w\.-]+)+[/\w\.-]+\.git$`)},
	{Suffix: "_AT_URL", Pattern: regexp.MustCompile(`^git@[\w.-]+:[\w\.-]+/[\w\.-]+\.git$`)},
	{Suffix: "_URL", Pattern: regexp.MustCompile(`^https://[\w.-]+(?:\.[\w\.-]+)+[/\w\.-]*$`)},
}

// Vars is a set of environment variables keyed by name.
type Vars map[string]string

// Collect merges sources, later ones winning: base (config), the dotenv
// file at envFile, then overrides (command line). A missing envFile is
// not an error.
func Collect(base map[string]string, envFile string, overrides map[string]string) (Vars, error) {
	vars := Vars{}
	for k, v := range base {
		vars[k] = v
	}

	if envFile != "" {
		fromFile, err := godotenv.Read(envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, core.ErrInvalidEnvironmentValue.
				WithMessagef("failed to read %s", envFile).
				WithCause(err).
				WithDetails(map[string]interface{}{"file": envFile})
		default:
			for k, v := range fromFile {
				vars[k] = v
			}
		}
	}

	for k, v := range overrides {
		vars[k] = v
	}
	return vars, nil
}

// Keys returns variable names in sorted order.
func (v Vars) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks every key ending in _URL against its shape rule.
// Offending values are never included in the error.
func (v Vars) Validate() error {
	for _, key := range v.Keys() {
		rule, ok := RuleFor(key)
		if !ok {
			continue
		}
		if !rule.Pattern.MatchString(v[key]) {
			return core.ErrInvalidEnvironmentValue.
				WithMessagef("%s does not match the expected %s shape", key, rule.Suffix).
				WithDetails(map[string]interface{}{"key": key, "rule": rule.Suffix})
		}
	}
	return nil
}

// RuleFor returns the rule that applies to key, if any.
func RuleFor(key string) (Rule, bool) {
	for _, r := range Rules {
		if strings.HasSuffix(key, r.Suffix) {
			return r, true
		}
	}
	return Rule{}, false
}

// Inject exports every variable into the process environment.
func (v Vars) Inject() error {
	for _, key := range v.Keys() {
		if err := os.Setenv(key, v[key]); err != nil {
			return core.ErrInvalidEnvironmentValue.
				WithMessagef("failed to export %s", key).
				WithCause(err)
		}
	}
	return nil
}

// Masked returns KEY=******** lines in key order.
func (v Vars) Masked() []string {
	lines := make([]string, 0, len(v))
	for _, key := range v.Keys() {
		lines = append(lines, key+"="+Mask)
	}
	return lines
}
