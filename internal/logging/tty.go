package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is a terminal. Anything with an Fd method, such
// as *os.File, is checked; other writers never are.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorEnabled decides whether the handler colors its output. NO_COLOR (any
// value, see no-color.org) and TERM=dumb switch colors off even on a
// terminal.
func colorEnabled(isTTY bool, lookupEnv func(string) (string, bool)) bool {
	if _, ok := lookupEnv("NO_COLOR"); ok {
		return false
	}
	if v, _ := lookupEnv("TERM"); v == "dumb" {
		return false
	}
	return isTTY
}

func supportsColor(w io.Writer) bool {
	return colorEnabled(IsTTY(w), os.LookupEnv)
}
