package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/thoreinstein/mcpi/internal/errors"
)

// Format is the --log-format value.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts "text", "json", or "" (text).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return f, nil
	}
	return "", errors.Newf("unknown log format %q", s)
}

// Options describes where mcpi logs.
type Options struct {
	Level  slog.Level
	Format Format

	// Out receives the primary stream, normally stderr.
	Out io.Writer

	// File, when set, is appended to as JSON at the same level, whatever
	// Format says. It is created 0600 since records can carry server
	// arguments.
	File string
}

// New builds the logger for one mcpi invocation.
func New(opts Options) (*slog.Logger, error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	ho := &slog.HandlerOptions{Level: opts.Level}

	var primary slog.Handler
	if opts.Format == FormatJSON {
		primary = slog.NewJSONHandler(out, ho)
	} else {
		primary = NewHandler(out, ho)
	}
	if opts.File == "" {
		return slog.New(primary), nil
	}

	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, errors.Wrap(err, "opening log file")
	}
	return slog.New(tee{primary, slog.NewJSONHandler(f, ho)}), nil
}

// testWriter sends each log line to t.Log.
type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// ForTest returns a trace-level logger that writes through t.Log, so output
// shows up only for failing tests or under -v.
func ForTest(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(NewHandler(testWriter{t: t}, &slog.HandlerOptions{Level: LevelTrace}))
}
