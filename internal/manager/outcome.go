package manager

import (
	"github.com/thoreinstein/mcpi/internal/client"
	"github.com/thoreinstein/mcpi/internal/install"
	"github.com/thoreinstein/mcpi/internal/mcp"
	"github.com/thoreinstein/mcpi/pkg/fileutil"
)

// Status summarizes what an intent did.
type Status string

const (
	// StatusApplied means files were written.
	StatusApplied Status = "applied"

	// StatusNoOp means the requested state already held.
	StatusNoOp Status = "noop"

	// StatusPlanned means a dry run computed the writes without making them.
	StatusPlanned Status = "planned"
)

// Outcome is the result of one write intent on one server.
type Outcome struct {
	Intent string       `json:"intent"`
	Client string       `json:"client"`
	Scope  string       `json:"scope"`
	ID     string       `json:"id"`
	Status Status       `json:"status"`
	From   client.State `json:"from"`
	To     client.State `json:"to"`
	Spec   mcp.Spec     `json:"spec"`

	Artifact *install.Artifact `json:"artifact,omitempty"`

	// Backups are sibling copies of the files replaced.
	Backups []string `json:"backups,omitempty"`

	// Written lists the files replaced; Planned the writes a dry run would make.
	Written []string                `json:"written,omitempty"`
	Planned []fileutil.PlannedWrite `json:"planned,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

func outcomeFrom(intent string, c *client.Change, dryRun bool) *Outcome {
	o := &Outcome{
		Intent: intent,
		Client: c.Client,
		Scope:  c.Scope,
		ID:     c.ID,
		From:   c.From,
		To:     c.To,
		Spec:   c.Spec,
	}
	switch {
	case c.NoOp:
		o.Status = StatusNoOp
	case dryRun:
		o.Status = StatusPlanned
	default:
		o.Status = StatusApplied
	}
	if c.Commit != nil {
		o.Backups = c.Commit.BackupPaths
		o.Written = c.Commit.Written
		o.Planned = c.Commit.Planned
	}
	return o
}
