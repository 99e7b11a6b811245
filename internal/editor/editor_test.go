package editor

import (
	"os/exec"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestCommand(t *testing.T) {
	hasNano := func(string) (string, error) { return "/usr/bin/nano", nil }
	noNano := func(string) (string, error) { return "", exec.ErrNotFound }

	tests := []struct {
		name     string
		vars     map[string]string
		lookPath func(string) (string, error)
		want     []string
	}{
		{"editor wins", map[string]string{"EDITOR": "nvim", "VISUAL": "code"}, hasNano, []string{"nvim"}},
		{"visual", map[string]string{"VISUAL": "code"}, hasNano, []string{"code"}},
		{"arguments split", map[string]string{"EDITOR": "code --wait"}, hasNano, []string{"code", "--wait"}},
		{"blank treated as unset", map[string]string{"EDITOR": "  ", "VISUAL": "emacs"}, hasNano, []string{"emacs"}},
		{"nano fallback", nil, hasNano, []string{"nano"}},
		{"vi fallback", nil, noNano, []string{"vi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Command(env(tt.vars), tt.lookPath)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Command() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	t.Setenv("EDITOR", "true")
	if err := Open(t.Context(), "/nonexistent/file"); err != nil {
		t.Errorf("Open() error = %v", err)
	}

	t.Setenv("EDITOR", "false")
	if err := Open(t.Context(), "/nonexistent/file"); err == nil {
		t.Error("Open() with failing editor should error")
	}
}
