// Package config handles workspace configuration for flowgen.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/viscouspot/maestro-flowgen/pkg/core"
)

// Defaults
const (
	DefaultAppID     = "com.viscouspot.gitsync"
	DefaultStepsDir  = "flows"
	DefaultExtension = "yaml"
	DefaultEnvFile   = ".env"
	DefaultRunner    = "maestro"
)

// DefaultRunnerArgs precede the path argument passed to the runner.
var DefaultRunnerArgs = []string{"test"}

// FileNames are tried in order by LoadFromDir.
var FileNames = []string{"flowgen.yaml", "flowgen.yml", "config.yaml", "config.yml"}

// Config represents the workspace configuration (flowgen.yaml).
type Config struct {
	// Script output
	AppID     string            `yaml:"appId"`     // Written into every script header
	StepsDir  string            `yaml:"stepsDir"`  // Directory of suite-local step flows
	Extension string            `yaml:"extension"` // Flow file extension
	Aliases   map[string]string `yaml:"aliases"`   // Reserved step -> locator overrides

	// Suite selection
	Suites  []string `yaml:"suites"`  // Glob patterns for suite definition files
	Include []string `yaml:"include"` // Suite names to generate (empty = all)

	// Environment
	Env     map[string]string `yaml:"env"`     // Lowest-precedence variables
	EnvFile string            `yaml:"envFile"` // Dotenv file, relative to the workspace

	// Runner invocation
	Runner Runner `yaml:"runner"`
}

// Runner describes the automation runner command line.
type Runner struct {
	Binary string   `yaml:"binary"`
	Args   []string `yaml:"args"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.AppID == "" {
		c.AppID = DefaultAppID
	}
	if c.StepsDir == "" {
		c.StepsDir = DefaultStepsDir
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if c.EnvFile == "" {
		c.EnvFile = DefaultEnvFile
	}
	if c.Runner.Binary == "" {
		c.Runner.Binary = DefaultRunner
	}
	if c.Runner.Args == nil {
		c.Runner.Args = append([]string(nil), DefaultRunnerArgs...)
	}
}

// Validate rejects configurations that cannot produce a usable script.
func (c *Config) Validate() error {
	for name, loc := range c.Aliases {
		if name == "" || loc == "" {
			return core.ErrInvalidConfig.WithMessagef("alias %q -> %q: name and locator are required", name, loc)
		}
	}
	if filepath.IsAbs(c.StepsDir) {
		return core.ErrInvalidConfig.WithMessagef("stepsDir %q must be relative to the suite", c.StepsDir)
	}
	return nil
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, core.ErrInvalidConfig.WithMessagef("invalid config %s", path).WithCause(err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFromDir looks for one of FileNames in the directory.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range FileNames {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		}
	}

	// No config file found, return defaults
	return Default(), nil
}

// ResolveEnvFile returns the dotenv path relative to workspace.
func (c *Config) ResolveEnvFile(workspace string) string {
	if filepath.IsAbs(c.EnvFile) {
		return c.EnvFile
	}
	return filepath.Join(workspace, c.EnvFile)
}
