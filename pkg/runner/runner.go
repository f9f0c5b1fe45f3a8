// Package runner invokes the external automation runner on generated scripts.
package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/viscouspot/maestro-flowgen/pkg/core"
	"github.com/viscouspot/maestro-flowgen/pkg/logger"
)

// Default command line: maestro test <path>
const (
	DefaultBinary = "maestro"
	stderrTail    = 4096
)

// Config describes the runner command line.
type Config struct {
	Binary string   // Executable name or path
	Args   []string // Arguments placed before the path

	Stdout io.Writer // Defaults to os.Stdout
	Stderr io.Writer // Defaults to os.Stderr
}

// Runner runs the automation tool as a child process.
type Runner struct {
	binary string
	args   []string
	stdout io.Writer
	stderr io.Writer
}

// New creates a runner. An empty binary means maestro with args [test].
func New(cfg Config) *Runner {
	r := &Runner{
		binary: cfg.Binary,
		args:   cfg.Args,
		stdout: cfg.Stdout,
		stderr: cfg.Stderr,
	}
	if r.binary == "" {
		r.binary = DefaultBinary
		if r.args == nil {
			r.args = []string{"test"}
		}
	}
	if r.stdout == nil {
		r.stdout = os.Stdout
	}
	if r.stderr == nil {
		r.stderr = os.Stderr
	}
	return r
}

// CommandLine returns the argv used for path.
func (r *Runner) CommandLine(path string) []string {
	argv := make([]string, 0, len(r.args)+2)
	argv = append(argv, r.binary)
	argv = append(argv, r.args...)
	return append(argv, path)
}

// Run executes the runner against path and waits for it to exit.
// The child inherits the process environment. Stdout is streamed; stderr
// is streamed and the tail is kept for the error.
func (r *Runner) Run(ctx context.Context, path string) error {
	argv := r.CommandLine(path)
	logger.Info("runner: %s", strings.Join(argv, " "))

	tail := &tailBuffer{max: stderrTail}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //#nosec G204 -- runner binary comes from workspace config
	cmd.Env = os.Environ()
	cmd.Stdout = r.stdout
	cmd.Stderr = io.MultiWriter(r.stderr, tail)

	err := cmd.Run()
	if err == nil {
		logger.Info("runner: exited 0")
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	logger.Error("runner: %v (exit code %d)", err, exitCode)

	details := map[string]interface{}{
		"command":   strings.Join(argv, " "),
		"exit_code": exitCode,
		"stderr":    tail.String(),
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return core.ErrRunnerInvocation.WithMessage("automation runner interrupted").WithCause(ctxErr).WithDetails(details)
	}
	if exitCode == -1 {
		return core.ErrRunnerInvocation.WithMessagef("failed to start %s", argv[0]).WithCause(err).WithDetails(details)
	}
	return core.ErrRunnerInvocation.WithMessagef("%s exited with code %d", argv[0], exitCode).WithCause(err).WithDetails(details)
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
