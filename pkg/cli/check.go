package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/viscouspot/maestro-flowgen/pkg/suites"
	"github.com/viscouspot/maestro-flowgen/pkg/validator"
)

var checkCommand = &cli.Command{
	Name:      "check",
	Usage:     "Report step files referenced by generated scripts that do not exist",
	ArgsUsage: "[suite|path...]",
	Description: `Arguments naming a suite check that suite's generated script. Any other
argument is a script file, or a directory whose .yaml/.yml scripts are all
checked. Without arguments every selected suite is checked.

Examples:
  flowgen check
  flowgen check auth/github
  flowgen check onboarding/ --recursive`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "recursive",
			Usage: "Also follow runFlow references inside step files",
		},
	},
	Action: runCheck,
}

func runCheck(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}

	var names, paths []string
	for _, arg := range c.Args().Slice() {
		if _, ok := s.registry.Get(arg); ok {
			names = append(names, arg)
			continue
		}
		if _, err := os.Stat(arg); err != nil {
			return fmt.Errorf("unknown suite or path %q (suites: %v)", arg, s.registry.Names())
		}
		paths = append(paths, arg)
	}

	var selected []suites.Suite
	if len(names) > 0 || len(paths) == 0 {
		if selected, err = s.selectSuites(names); err != nil {
			return err
		}
	}

	var present []string
	missing := 0
	for _, st := range selected {
		path := s.scriptPath(st)
		if _, err := os.Stat(path); err != nil {
			printWarn(s.errOut, "%s: script %s not generated", st.Name, s.rel(path))
			missing++
			continue
		}
		present = append(present, path)
	}

	v := validator.New(c.Bool("recursive"))
	result := v.ValidateScripts(present)
	for _, p := range paths {
		result.Merge(v.Validate(p))
	}

	if err := s.reportCheck(result); err != nil {
		return err
	}
	if missing > 0 {
		return fmt.Errorf("%d script(s) not generated; run 'flowgen generate'", missing)
	}
	return nil
}
