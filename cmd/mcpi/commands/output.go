package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/client"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/manager"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	header = color.New(color.FgCyan, color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return errors.Wrap(enc.Encode(v), "encoding output")
}

func stateColor(s client.State) string {
	switch s {
	case client.StateEnabled:
		return green(string(s))
	case client.StateDisabled:
		return yellow(string(s))
	default:
		return gray(string(s))
	}
}

// printOutcome renders one intent result.
func printOutcome(w io.Writer, o *manager.Outcome) {
	target := fmt.Sprintf("%s/%s", o.Client, o.Scope)
	switch o.Status {
	case manager.StatusNoOp:
		fmt.Fprintf(w, "%s %s: already %s in %s\n", gray("-"), o.ID, o.To, target)
	case manager.StatusPlanned:
		fmt.Fprintf(w, "%s %s: would %s in %s (%s -> %s)\n", yellow("~"), o.ID, o.Intent, target, o.From, o.To)
	default:
		fmt.Fprintf(w, "%s %s: %s in %s (%s -> %s)\n", green("✓"), o.ID, pastTense(o.Intent), target, o.From, stateColor(o.To))
	}

	if a := o.Artifact; a != nil {
		for _, c := range a.Planned {
			verb := "ran"
			if a.DryRun {
				verb = "would run"
			}
			fmt.Fprintf(w, "    %s %s\n", gray(verb), c)
		}
		if a.BackupPath != "" {
			fmt.Fprintf(w, "    %s %s\n", gray("previous install saved to"), a.BackupPath)
		}
	}
	for _, p := range o.Planned {
		action := "update"
		if p.Creates {
			action = "create"
		}
		fmt.Fprintf(w, "    %s %s (%d bytes)\n", gray("would "+action), p.Path, p.Bytes)
	}
	for _, b := range o.Backups {
		fmt.Fprintf(w, "    %s %s\n", gray("backup"), b)
	}
	for _, warn := range o.Warnings {
		fmt.Fprintf(w, "    %s %s\n", yellow("warning:"), warn)
	}
}

func pastTense(intent string) string {
	switch intent {
	case "add":
		return "added"
	case "remove":
		return "removed"
	case "enable":
		return "enabled"
	case "disable":
		return "disabled"
	case "update":
		return "updated"
	}
	return intent
}

// report prints a batch summary and returns the error the command exits
// with. batchErr is set when the batch stopped early.
func report(w io.Writer, s *manager.Summary, batchErr error) error {
	if flags.JSON() {
		if err := writeJSON(w, s); err != nil {
			return err
		}
	} else {
		for _, o := range s.Outcomes {
			printOutcome(w, o)
		}
	}
	if batchErr != nil {
		return batchErr
	}
	return s.Err()
}

// ReportError prints err with its details, hints, and suggestion.
func ReportError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", red("Error:"), err)
	for _, d := range errors.Details(err) {
		for _, line := range strings.Split(d, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	for _, h := range errors.Hints(err) {
		fmt.Fprintf(w, "%s %s\n", bold("Hint:"), h)
	}
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "%s %s\n", bold("Suggestion:"), exitErr.Suggestion)
	}
}

// parseKV parses repeated key=value flag values.
func parseKV(flag string, values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(values))
	for _, v := range values {
		k, val, ok := strings.Cut(v, "=")
		if !ok || k == "" {
			err := errors.Newf("invalid --%s %q: expected key=value", flag, v)
			return nil, errors.NewUsageError(err, "")
		}
		out[k] = val
	}
	return out, nil
}
