package config

import (
	"os"
	"path/filepath"
)

// EnvWorkspace overrides workspace discovery.
const EnvWorkspace = "FLOWGEN_WORKSPACE"

// MaestroDir is the conventional Maestro workspace directory.
const MaestroDir = ".maestro"

// ResolveWorkspace returns the directory scripts are generated into.
//
// Resolution order:
//  1. explicit (the --workspace flag)
//  2. $FLOWGEN_WORKSPACE environment variable
//  3. ./.maestro if it exists
//  4. Current working directory
func ResolveWorkspace(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if env := os.Getenv(EnvWorkspace); env != "" {
		return env
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	if info, err := os.Stat(filepath.Join(cwd, MaestroDir)); err == nil && info.IsDir() {
		return filepath.Join(cwd, MaestroDir)
	}

	return cwd
}
