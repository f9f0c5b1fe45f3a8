// Package fileutil holds file helpers shared by the script and manifest
// writers.
package fileutil

import (
	"os"
	"path/filepath"

	"github.com/viscouspot/maestro-flowgen/pkg/core"
)

// WriteAtomic writes data to path through a temporary file in the same
// directory and renames it into place, so readers see either the old file
// or the complete new one. Missing parent directories are created.
// Failures are core.ErrSerializationIO.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return writeError(path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return writeError(path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return writeError(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return writeError(path, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return writeError(path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return writeError(path, err)
	}
	return nil
}

func writeError(path string, cause error) error {
	return core.ErrSerializationIO.
		WithMessagef("failed to write %s", path).
		WithDetails(map[string]interface{}{"path": path}).
		WithCause(cause)
}
