// Package editor launches the user's text editor on a file.
package editor

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/mcpi/internal/errors"
)

// Command returns the editor command line to run. $EDITOR wins over
// $VISUAL; with neither set, nano is used when installed, then vi. The
// variables may carry arguments, e.g. EDITOR="code --wait".
func Command(getenv func(string) string, lookPath func(string) (string, error)) []string {
	for _, key := range []string{"EDITOR", "VISUAL"} {
		if fields := strings.Fields(getenv(key)); len(fields) > 0 {
			return fields
		}
	}
	if _, err := lookPath("nano"); err == nil {
		return []string{"nano"}
	}
	return []string{"vi"}
}

// Open runs the editor on path attached to the terminal and waits for it to
// exit.
func Open(ctx context.Context, path string) error {
	args := append(Command(os.Getenv, exec.LookPath), path)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", args[0])
	}
	return nil
}
