package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/viscouspot/maestro-flowgen/pkg/core"
	"github.com/viscouspot/maestro-flowgen/pkg/env"
	"github.com/viscouspot/maestro-flowgen/pkg/expander"
	"github.com/viscouspot/maestro-flowgen/pkg/jsengine"
	"github.com/viscouspot/maestro-flowgen/pkg/logger"
	"github.com/viscouspot/maestro-flowgen/pkg/report"
	"github.com/viscouspot/maestro-flowgen/pkg/script"
	"github.com/viscouspot/maestro-flowgen/pkg/suites"
	"github.com/viscouspot/maestro-flowgen/pkg/validator"
)

// envFlags are shared by generate and run.
var envFlags = []cli.Flag{
	&cli.StringSliceFlag{
		Name:    "env",
		Aliases: []string{"e"},
		Usage:   "Environment variables (KEY=VALUE), exported to the runner",
	},
	&cli.StringFlag{
		Name:  "env-file",
		Usage: "Dotenv file (default: envFile from config, else <workspace>/.env)",
	},
}

var generateCommand = &cli.Command{
	Name:      "generate",
	Usage:     "Expand suites and write their Maestro scripts",
	ArgsUsage: "[suite...]",
	Description: `Expands every selected suite into self-contained test cases and
writes one script per suite under the workspace.

Suites are selected by argument, else by 'include' in flowgen.yaml, else all.
Environment values are checked before anything is written; every selected
suite is expanded before the first script is written.

Examples:
  flowgen generate
  flowgen generate onboarding/negative auth/github
  flowgen generate --dry-run auth/ssh
  flowgen generate --manifest out/manifest.json --strict`,
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print scripts to stdout instead of writing them",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Fail when a written script references a missing step file",
		},
		&cli.StringFlag{
			Name:  "manifest",
			Usage: "Write a JSON manifest of the run to this file",
		},
	}, envFlags...),
	Action: runGenerate,
}

// generateOptions configures one generation pass.
type generateOptions struct {
	names    []string
	env      []string
	envFile  string
	dryRun   bool
	strict   bool
	manifest string
}

// planned is a suite ready to be written.
type planned struct {
	suite suites.Suite
	path  string
	units []expander.Unit
}

func (p planned) stepCount() int {
	n := 0
	for _, u := range p.units {
		n += len(u.Steps)
	}
	return n
}

func runGenerate(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}

	_, err = s.generate(generateOptions{
		names:    c.Args().Slice(),
		env:      c.StringSlice("env"),
		envFile:  c.String("env-file"),
		dryRun:   c.Bool("dry-run"),
		strict:   c.Bool("strict"),
		manifest: c.String("manifest"),
	})
	return err
}

// prepareEnv collects and checks environment variables, then exports them
// unless this is a dry run.
func (s *session) prepareEnv(opts generateOptions) (env.Vars, error) {
	envFile := opts.envFile
	if envFile == "" {
		envFile = s.cfg.ResolveEnvFile(s.workspace)
	}

	vars, err := env.Collect(s.cfg.Env, envFile, parseEnvVars(opts.env))
	if err != nil {
		return nil, err
	}
	if err := vars.Validate(); err != nil {
		return nil, err
	}
	if !opts.dryRun {
		if err := vars.Inject(); err != nil {
			return nil, err
		}
	}
	if len(vars) > 0 {
		logger.Info("environment: %s", strings.Join(vars.Masked(), " "))
	}
	return vars, nil
}

// applicable drops suites whose when condition is false for vars.
func (s *session) applicable(selected []suites.Suite, vars env.Vars) ([]suites.Suite, []suites.Suite, error) {
	var keep, skipped []suites.Suite
	var engine *jsengine.Engine
	for _, st := range selected {
		if st.When == "" {
			keep = append(keep, st)
			continue
		}
		if engine == nil {
			engine = jsengine.New(vars)
		}
		ok, err := engine.EvalBool(st.When)
		if err != nil {
			return nil, nil, core.ErrMalformedSpec.
				WithMessagef("suite %s: when %q", st.Name, st.When).
				WithCause(err)
		}
		if !ok {
			logger.Info("skip %s: when %q is false", st.Name, st.When)
			skipped = append(skipped, st)
			continue
		}
		keep = append(keep, st)
	}
	return keep, skipped, nil
}

// plan expands every suite, stopping at the first malformed tree.
func (s *session) plan(selected []suites.Suite) ([]planned, error) {
	out := make([]planned, 0, len(selected))
	for _, st := range selected {
		units, err := expander.Expand(st.Tree)
		if err != nil {
			return nil, fmt.Errorf("suite %s: %w", st.Name, err)
		}
		out = append(out, planned{suite: st, path: s.scriptPath(st), units: units})
	}
	return out, nil
}

// generate runs one pass and returns the suites that were written (or
// printed, for a dry run).
func (s *session) generate(opts generateOptions) ([]planned, error) {
	runID := uuid.NewString()
	start := time.Now()
	logger.Info("run %s: generate in %s", runID, s.workspace)

	selected, err := s.selectSuites(opts.names)
	if err != nil {
		return nil, err
	}
	vars, err := s.prepareEnv(opts)
	if err != nil {
		return nil, err
	}
	selected, skipped, err := s.applicable(selected, vars)
	if err != nil {
		return nil, err
	}
	for _, st := range skipped {
		printWarn(s.errOut, "%s skipped: when %q is false", st.Name, st.When)
	}
	plan, err := s.plan(selected)
	if err != nil {
		return nil, err
	}

	selections := make([]report.Selection, 0, len(plan)+len(skipped))
	for _, p := range plan {
		selections = append(selections, report.Selection{Name: p.suite.Name, Script: p.path})
	}
	for _, st := range skipped {
		selections = append(selections, report.Selection{Name: st.Name, Script: s.scriptPath(st)})
	}
	manifest := report.NewManifest(runID, s.cfg.AppID, s.workspace, selections)
	manifest.DryRun = opts.dryRun
	mw := report.NewWriter(opts.manifest, manifest)
	mw.Start()
	for _, st := range skipped {
		mw.UpdateSuite(st.Name, report.SuiteUpdate{Status: core.StatusSkipped})
	}

	if len(plan) == 0 {
		printWarn(s.errOut, "no suites to generate")
		return nil, mw.End()
	}

	emitter := script.NewEmitter(s.cfg.AppID, s.resolver)

	if opts.dryRun {
		for _, p := range plan {
			fmt.Fprintf(s.out, "# %s\n", s.rel(p.path))
			if err := emitter.Write(s.out, p.units); err != nil {
				return nil, err
			}
			mw.UpdateSuite(p.suite.Name, report.SuiteUpdate{
				Status: core.StatusSkipped,
				Groups: len(p.suite.Tree.Groups),
				Units:  len(p.units),
				Steps:  p.stepCount(),
			})
		}
		return plan, mw.End()
	}

	bar := newProgressBar(len(plan), s.errOut)
	for i, p := range plan {
		if err := emitter.WriteFile(p.path, p.units); err != nil {
			logger.Error("write %s: %v", p.path, err)
			mw.UpdateSuite(p.suite.Name, report.SuiteUpdate{Status: core.StatusFailed, Err: err})
			for _, rest := range plan[i+1:] {
				mw.UpdateSuite(rest.suite.Name, report.SuiteUpdate{Status: core.StatusSkipped})
			}
			_ = mw.End()
			_ = bar.Exit()
			printFail(s.errOut, "%s: %v", p.suite.Name, err)
			return plan[:i], err
		}
		logger.Info("wrote %s (%d units)", p.path, len(p.units))
		mw.UpdateSuite(p.suite.Name, report.SuiteUpdate{
			Status: core.StatusWritten,
			Groups: len(p.suite.Tree.Groups),
			Units:  len(p.units),
			Steps:  p.stepCount(),
		})
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	for _, p := range plan {
		printOK(s.out, "%-24s %3d units  %s", p.suite.Name, len(p.units), s.rel(p.path))
	}

	if err := mw.End(); err != nil {
		return plan, err
	}
	if opts.manifest != "" {
		printOK(s.out, "manifest %s", opts.manifest)
	}
	logger.Info("run %s: %d scripts in %s", runID, len(plan), time.Since(start).Round(time.Millisecond))

	if opts.strict {
		if err := s.checkScripts(plan, false); err != nil {
			return plan, err
		}
	}
	return plan, nil
}

// checkScripts reports missing step files for the given scripts.
func (s *session) checkScripts(plan []planned, recursive bool) error {
	paths := make([]string, len(plan))
	for i, p := range plan {
		paths[i] = p.path
	}
	return s.reportCheck(validator.New(recursive).ValidateScripts(paths))
}

// reportCheck prints the outcome of a step file check.
func (s *session) reportCheck(result *validator.Result) error {
	if result.IsValid() {
		printOK(s.out, "%d file(s) checked, every step reference exists", len(result.Files))
		return nil
	}
	for _, e := range result.Errors {
		printFail(s.errOut, "%v", e)
	}
	return fmt.Errorf("%d missing step reference(s)", len(result.Errors))
}
