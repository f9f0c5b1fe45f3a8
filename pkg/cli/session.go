package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/viscouspot/maestro-flowgen/pkg/alias"
	"github.com/viscouspot/maestro-flowgen/pkg/config"
	"github.com/viscouspot/maestro-flowgen/pkg/logger"
	"github.com/viscouspot/maestro-flowgen/pkg/suitefile"
	"github.com/viscouspot/maestro-flowgen/pkg/suites"
)

// session is the resolved workspace state shared by every command.
type session struct {
	workspace string
	cfg       *config.Config
	registry  *suites.Registry
	resolver  *alias.Resolver
	out       io.Writer
	errOut    io.Writer
}

func newSession(c *cli.Context) (*session, error) {
	workspace, err := filepath.Abs(config.ResolveWorkspace(c.String("workspace")))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}

	var cfg *config.Config
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(workspace)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	registry, err := suites.NewRegistry(suites.Builtin()...)
	if err != nil {
		return nil, err
	}
	loaded, err := suitefile.LoadGlobs(workspace, cfg.Suites)
	if err != nil {
		return nil, err
	}
	for _, s := range loaded {
		if err := registry.Add(s); err != nil {
			return nil, fmt.Errorf("suite file: %w", err)
		}
	}

	logger.Debug("workspace %s, %d suites (%d from files)", workspace, len(registry.All()), len(loaded))

	return &session{
		workspace: workspace,
		cfg:       cfg,
		registry:  registry,
		resolver: alias.New(alias.Options{
			StepsDir:  cfg.StepsDir,
			Extension: cfg.Extension,
			Aliases:   cfg.Aliases,
		}),
		out:    c.App.Writer,
		errOut: c.App.ErrWriter,
	}, nil
}

// selectSuites resolves command arguments, falling back to the config's
// include list, then to every suite.
func (s *session) selectSuites(names []string) ([]suites.Suite, error) {
	if len(names) == 0 {
		names = s.cfg.Include
	}
	return s.registry.Select(names)
}

func (s *session) scriptPath(suite suites.Suite) string {
	return suite.OutputPath(s.workspace, s.cfg.Extension)
}

// rel shortens path for display.
func (s *session) rel(path string) string {
	if r, err := filepath.Rel(s.workspace, path); err == nil {
		return r
	}
	return path
}
