package runner

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/thoreinstein/mcpi/internal/errors"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExec_Run(t *testing.T) {
	skipWithoutShell(t)

	r := &Exec{}
	res, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo out; echo err >&2"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "out" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "out")
	}
	if strings.TrimSpace(res.Stderr) != "err" {
		t.Errorf("Stderr = %q, want %q", res.Stderr, "err")
	}
}

func TestExec_Run_Failure(t *testing.T) {
	skipWithoutShell(t)

	r := &Exec{}
	res, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo broken >&2; exit 3"}})
	if err == nil {
		t.Fatal("Run() expected error")
	}
	if !errors.Is(err, errors.ErrUpstreamFailure) {
		t.Errorf("error kind = %v, want upstream failure", errors.Kind(err))
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}

	details := strings.Join(errors.Details(err), "\n")
	if !strings.Contains(details, "broken") {
		t.Errorf("details %q do not include stderr", details)
	}
}

func TestExec_Run_Timeout(t *testing.T) {
	skipWithoutShell(t)

	r := &Exec{Timeout: 50 * time.Millisecond}
	_, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "sleep 5"}})
	if !errors.Is(err, errors.ErrUpstreamFailure) {
		t.Errorf("error = %v, want upstream failure", err)
	}
}

func TestExec_Run_Cancelled(t *testing.T) {
	skipWithoutShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Exec{}
	_, err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "sleep 5"}})
	if !errors.Is(err, errors.ErrCancelled) {
		t.Errorf("error = %v, want cancelled", err)
	}
}

func TestCommand_String(t *testing.T) {
	c := Command{Name: "npm", Args: []string{"install", "-g", "pkg"}}
	if got := c.String(); got != "npm install -g pkg" {
		t.Errorf("String() = %q", got)
	}
}
