package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveWorkspace_Explicit(t *testing.T) {
	t.Setenv(EnvWorkspace, "/from/env")

	got := ResolveWorkspace("/explicit")
	if got != "/explicit" {
		t.Errorf("ResolveWorkspace() = %q, want %q", got, "/explicit")
	}
}

func TestResolveWorkspace_EnvVar(t *testing.T) {
	t.Setenv(EnvWorkspace, "/custom/path")

	got := ResolveWorkspace("")
	if got != "/custom/path" {
		t.Errorf("ResolveWorkspace() = %q, want %q", got, "/custom/path")
	}
}

func TestResolveWorkspace_MaestroDir(t *testing.T) {
	t.Setenv(EnvWorkspace, "")
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, MaestroDir), 0755); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	got := ResolveWorkspace("")
	if filepath.Base(got) != MaestroDir {
		t.Errorf("ResolveWorkspace() = %q, want .maestro directory", got)
	}
}

func TestResolveWorkspace_FallbackToCwd(t *testing.T) {
	t.Setenv(EnvWorkspace, "")
	dir := t.TempDir()
	chdir(t, dir)

	got := ResolveWorkspace("")
	cwd, _ := os.Getwd()
	if got != cwd {
		t.Errorf("ResolveWorkspace() = %q, want %q", got, cwd)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
