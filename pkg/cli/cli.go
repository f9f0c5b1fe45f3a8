// Package cli provides the command-line interface for flowgen.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/viscouspot/maestro-flowgen/pkg/config"
	"github.com/viscouspot/maestro-flowgen/pkg/core"
	"github.com/viscouspot/maestro-flowgen/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "workspace",
		Aliases: []string{"w"},
		Usage:   "Directory scripts are generated into (default: ./.maestro if present, else cwd)",
		EnvVars: []string{config.EnvWorkspace},
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "Path to flowgen.yaml (default: looked up in the workspace)",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Mirror debug logging to stderr",
		EnvVars: []string{"FLOWGEN_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Append logs to this file",
		EnvVars: []string{"FLOWGEN_LOG_FILE"},
	},
	&cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable ANSI colors",
	},
}

// NewApp builds the flowgen application.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "flowgen",
		Usage:   "Generate Maestro UI test scripts from flow trees",
		Version: Version,
		Description: `flowgen expands each test suite's flow tree into self-contained test
cases and writes them as Maestro scripts, one per suite.

Examples:
  flowgen generate
  flowgen generate auth/github -e GITHUB_URL=https://github.com/ViscousPot/GitSync.git
  flowgen run
  flowgen graph onboarding/negative --output negative.dot`,
		Flags:     GlobalFlags,
		Before:    setup,
		After:     teardown,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Commands: []*cli.Command{
			generateCommand,
			runCommand,
			listCommand,
			graphCommand,
			checkCommand,
		},
	}
}

// Execute runs the CLI.
func Execute() {
	if err := NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", failColor.Sprint("Error:"), err)
		os.Exit(exitCode(err))
	}
}

func setup(c *cli.Context) error {
	if c.Bool("no-color") {
		color.NoColor = true
	}
	if path := c.String("log-file"); path != "" {
		if err := logger.Init(path); err != nil {
			return err
		}
	}
	if c.Bool("verbose") {
		logger.SetConsole(c.App.ErrWriter, true)
	}
	return nil
}

func teardown(*cli.Context) error {
	logger.Close()
	return nil
}

// exitCode passes the runner's exit status through; everything else is 1.
func exitCode(err error) int {
	if core.CategoryOf(err) != core.ErrCategoryRunner {
		return 1
	}
	var ce *core.Error
	if errors.As(err, &ce) {
		if code, ok := ce.Details["exit_code"].(int); ok && code > 0 {
			return code
		}
	}
	return 1
}
