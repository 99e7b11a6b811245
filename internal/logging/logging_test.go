package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"logfmt", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew_TextOutcomeLine(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: slog.LevelInfo, Format: FormatText, Out: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("server added", "id", "filesystem", "client", "claude-code", "scope", "user-mcp", "written", 2)
	logger.Debug("spawn", "cmd", "npm")

	out := buf.String()
	for _, want := range []string{"INFO", "server added", "id=filesystem", "client=claude-code", "scope=user-mcp", "written=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
	if strings.Contains(out, "spawn") {
		t.Errorf("debug record written at info level: %q", out)
	}
}

func TestNew_JSONOutcomeLine(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: slog.LevelInfo, Format: FormatJSON, Out: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("server disabled", "id", "github", "scope", "project-mcp")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if rec["msg"] != "server disabled" || rec["id"] != "github" || rec["scope"] != "project-mcp" {
		t.Errorf("record = %v", rec)
	}
}

// Any key naming a secret is masked, including a bare "key".
func TestNew_TextMasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: slog.LevelInfo, Out: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("binding env", "id", "github", "GITHUB_TOKEN", "ghp_0123456789", "key", "plainvalue", "arg", "ghp_abcdefgh")

	out := buf.String()
	for _, want := range []string{"id=github", "GITHUB_TOKEN=****6789", "key=****alue", "arg=****efgh"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
	if strings.Contains(out, "ghp_") {
		t.Errorf("token leaked: %q", out)
	}
}

func TestNew_LogFileMirrorsAsJSON(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "mcpi.log")

	logger, err := New(Options{Level: slog.LevelDebug, Format: FormatText, Out: &buf, File: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.With("client", "cursor").Debug("scope loaded", "scope", "user-mcp", "servers", 3)

	if !strings.Contains(buf.String(), "client=cursor") {
		t.Errorf("terminal output = %q", buf.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("log file is not JSON: %v\n%s", err, data)
	}
	if rec["client"] != "cursor" || rec["scope"] != "user-mcp" || rec["servers"] != float64(3) {
		t.Errorf("file record = %v", rec)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Errorf("log file mode = %o, want no group or other access", perm)
	}
}

func TestNew_LogFileError(t *testing.T) {
	_, err := New(Options{File: filepath.Join(t.TempDir(), "missing", "mcpi.log")})
	if err == nil {
		t.Fatal("New() with an unopenable log file should fail")
	}
}

func TestTee_EnabledIsAnyHandler(t *testing.T) {
	var warn, debug bytes.Buffer
	h := tee{
		NewHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
		NewHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}
	if !h.Enabled(t.Context(), slog.LevelDebug) {
		t.Fatal("tee should be enabled when any handler is")
	}

	logger := slog.New(h).WithGroup("install")
	logger.Debug("planned", "method", "git-clone")

	if warn.Len() != 0 {
		t.Errorf("warn handler got a debug record: %q", warn.String())
	}
	if !strings.Contains(debug.String(), "install.method=git-clone") {
		t.Errorf("debug handler output = %q", debug.String())
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{7, LevelTrace},
	}
	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	if !logger.Enabled(t.Context(), LevelTrace) {
		t.Error("ForTest logger should record trace output")
	}
	logger.Log(t.Context(), LevelTrace, "spawn", "cmd", "uv", "args", "tool install mcp-server-git")
}

func TestColorEnabled(t *testing.T) {
	env := func(vars map[string]string) func(string) (string, bool) {
		return func(k string) (string, bool) {
			v, ok := vars[k]
			return v, ok
		}
	}
	tests := []struct {
		name string
		tty  bool
		vars map[string]string
		want bool
	}{
		{"terminal", true, map[string]string{"TERM": "xterm-256color"}, true},
		{"not a terminal", false, nil, false},
		{"NO_COLOR empty still counts", true, map[string]string{"NO_COLOR": ""}, false},
		{"dumb terminal", true, map[string]string{"TERM": "dumb"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := colorEnabled(tt.tty, env(tt.vars)); got != tt.want {
				t.Errorf("colorEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTTY_NonFile(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("a buffer is never a terminal")
	}
}
