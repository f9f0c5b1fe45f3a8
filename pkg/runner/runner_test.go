package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/viscouspot/maestro-flowgen/pkg/core"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestNew_Defaults(t *testing.T) {
	r := New(Config{})
	got := r.CommandLine(".")
	want := []string{"maestro", "test", "."}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCommandLine_Custom(t *testing.T) {
	r := New(Config{Binary: "/opt/maestro", Args: []string{"test", "--format", "junit"}})
	got := strings.Join(r.CommandLine("flows"), " ")
	if got != "/opt/maestro test --format junit flows" {
		t.Errorf("unexpected command line %q", got)
	}
}

func TestRun_Success(t *testing.T) {
	requireShell(t)
	var stdout, stderr bytes.Buffer
	r := New(Config{Binary: "sh", Args: []string{"-c", `echo "ran $0"`}, Stdout: &stdout, Stderr: &stderr})

	if err := r.Run(context.Background(), "workspace"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != "ran workspace" {
		t.Errorf("expected %q on stdout, got %q", "ran workspace", got)
	}
}

func TestRun_InheritsEnvironment(t *testing.T) {
	requireShell(t)
	t.Setenv("GITHUB_URL", "https://github.com/a/b.git")
	var stdout bytes.Buffer
	r := New(Config{Binary: "sh", Args: []string{"-c", `printf %s "$GITHUB_URL"`}, Stdout: &stdout, Stderr: &bytes.Buffer{}})

	if err := r.Run(context.Background(), "."); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stdout.String() != "https://github.com/a/b.git" {
		t.Errorf("expected env value passed through, got %q", stdout.String())
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	requireShell(t)
	var stdout, stderr bytes.Buffer
	r := New(Config{Binary: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}, Stdout: &stdout, Stderr: &stderr})

	err := r.Run(context.Background(), ".")
	if !errors.Is(err, core.ErrRunnerInvocation) {
		t.Fatalf("expected runner invocation error, got %v", err)
	}

	var ce *core.Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected *core.Error, got %T", err)
	}
	if ce.Details["exit_code"] != 3 {
		t.Errorf("expected exit_code 3, got %v", ce.Details["exit_code"])
	}
	if !strings.Contains(ce.Details["stderr"].(string), "boom") {
		t.Errorf("expected captured stderr, got %v", ce.Details["stderr"])
	}
	if !strings.Contains(stderr.String(), "boom") {
		t.Errorf("expected stderr streamed, got %q", stderr.String())
	}
}

func TestRun_MissingBinary(t *testing.T) {
	r := New(Config{Binary: "flowgen-no-such-runner", Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})

	err := r.Run(context.Background(), ".")
	if !errors.Is(err, core.ErrRunnerInvocation) {
		t.Fatalf("expected runner invocation error, got %v", err)
	}
	var ce *core.Error
	if errors.As(err, &ce) && ce.Details["exit_code"] != -1 {
		t.Errorf("expected exit_code -1, got %v", ce.Details["exit_code"])
	}
}

func TestRun_Cancelled(t *testing.T) {
	requireShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(Config{Binary: "sh", Args: []string{"-c", "sleep 5"}, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	err := r.Run(ctx, ".")
	if !errors.Is(err, core.ErrRunnerInvocation) {
		t.Fatalf("expected runner invocation error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

func TestTailBuffer(t *testing.T) {
	tb := &tailBuffer{max: 4}
	_, _ = tb.Write([]byte("abc"))
	_, _ = tb.Write([]byte("def"))
	if tb.String() != "cdef" {
		t.Errorf("expected cdef, got %q", tb.String())
	}
}
