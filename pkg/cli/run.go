package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/viscouspot/maestro-flowgen/pkg/runner"
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "Generate every selected suite, then run them with Maestro",
	ArgsUsage: "[path]",
	Description: `Generates scripts exactly like 'flowgen generate', then invokes the
configured runner (default: maestro test) on path, or on the workspace when
path is omitted. Exported environment variables are inherited by the runner.

Examples:
  flowgen run
  flowgen run auth/github.yaml -e GITHUB_URL=https://github.com/ViscousPot/GitSync.git`,
	Flags:  envFlags,
	Action: runRun,
}

func runRun(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}

	if _, err := s.generate(generateOptions{
		env:     c.StringSlice("env"),
		envFile: c.String("env-file"),
	}); err != nil {
		return err
	}

	path := s.workspace
	if c.NArg() > 0 {
		path = c.Args().First()
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.New(runner.Config{
		Binary: s.cfg.Runner.Binary,
		Args:   s.cfg.Runner.Args,
		Stdout: s.out,
		Stderr: s.errOut,
	})
	infoColor.Fprintf(s.out, "\n▶ %s\n", strings.Join(r.CommandLine(path), " "))
	if err := r.Run(ctx, path); err != nil {
		return err
	}
	printOK(s.out, "runner finished")
	return nil
}
