package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/viscouspot/maestro-flowgen/pkg/core"
)

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "flowgen.yaml")

	content := `
appId: com.example.app
stepsDir: steps
suites:
  - "suites/*.yaml"
include:
  - auth/github
env:
  GITHUB_URL: https://github.com/a/b.git
aliases:
  kill: ../shared/kill
runner:
  binary: /opt/maestro/bin/maestro
  args: [test, --format, junit]
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AppID != "com.example.app" {
		t.Errorf("expected appId com.example.app, got %s", cfg.AppID)
	}
	if cfg.StepsDir != "steps" {
		t.Errorf("expected stepsDir steps, got %s", cfg.StepsDir)
	}
	if len(cfg.Suites) != 1 || cfg.Suites[0] != "suites/*.yaml" {
		t.Errorf("expected suites [suites/*.yaml], got %v", cfg.Suites)
	}
	if len(cfg.Include) != 1 || cfg.Include[0] != "auth/github" {
		t.Errorf("expected include [auth/github], got %v", cfg.Include)
	}
	if cfg.Env["GITHUB_URL"] != "https://github.com/a/b.git" {
		t.Errorf("expected env GITHUB_URL, got %v", cfg.Env)
	}
	if cfg.Aliases["kill"] != "../shared/kill" {
		t.Errorf("expected kill alias, got %v", cfg.Aliases)
	}
	if cfg.Runner.Binary != "/opt/maestro/bin/maestro" {
		t.Errorf("expected runner binary, got %s", cfg.Runner.Binary)
	}
	if len(cfg.Runner.Args) != 3 {
		t.Errorf("expected 3 runner args, got %v", cfg.Runner.Args)
	}
	// Unset fields still get defaults
	if cfg.Extension != DefaultExtension {
		t.Errorf("expected default extension, got %s", cfg.Extension)
	}
	if cfg.EnvFile != DefaultEnvFile {
		t.Errorf("expected default envFile, got %s", cfg.EnvFile)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/flowgen.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "flowgen.yaml")
	if err := os.WriteFile(configPath, []byte("appId: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("expected invalid config error, got %v", err)
	}
}

func TestLoad_AbsoluteStepsDir(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "flowgen.yaml")
	if err := os.WriteFile(configPath, []byte("stepsDir: /abs/flows\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(configPath)
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("expected invalid config error, got %v", err)
	}
}

func TestLoad_EmptyAlias(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "flowgen.yaml")
	if err := os.WriteFile(configPath, []byte("aliases:\n  kill: \"\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for empty alias locator")
	}
}

func TestLoadFromDir_NoConfig(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppID != DefaultAppID {
		t.Errorf("expected default appId, got %s", cfg.AppID)
	}
	if cfg.Runner.Binary != DefaultRunner {
		t.Errorf("expected default runner, got %s", cfg.Runner.Binary)
	}
	if len(cfg.Runner.Args) != 1 || cfg.Runner.Args[0] != "test" {
		t.Errorf("expected runner args [test], got %v", cfg.Runner.Args)
	}
}

func TestLoadFromDir_PrefersFlowgenYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("appId: from.config\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "flowgen.yaml"), []byte("appId: from.flowgen\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppID != "from.flowgen" {
		t.Errorf("expected from.flowgen, got %s", cfg.AppID)
	}
}

func TestLoadFromDir_FallsBackToConfigYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("appId: from.yml\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppID != "from.yml" {
		t.Errorf("expected from.yml, got %s", cfg.AppID)
	}
}

func TestResolveEnvFile(t *testing.T) {
	cfg := Default()
	if got := cfg.ResolveEnvFile("/ws"); got != filepath.Join("/ws", ".env") {
		t.Errorf("ResolveEnvFile() = %q", got)
	}

	cfg.EnvFile = "/etc/flowgen.env"
	if got := cfg.ResolveEnvFile("/ws"); got != "/etc/flowgen.env" {
		t.Errorf("ResolveEnvFile() = %q, want absolute path unchanged", got)
	}
}
