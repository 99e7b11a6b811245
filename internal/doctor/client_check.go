package doctor

import (
	"fmt"

	"github.com/thoreinstein/mcpi/internal/client"
	"github.com/thoreinstein/mcpi/internal/errors"
)

// ClientCheck reads every scope of one client and reports scope files
// that fail to parse or that list an id as both enabled and disabled.
type ClientCheck struct {
	adapter *client.Adapter
}

var _ Check = (*ClientCheck)(nil)

// NewClientCheck creates a check for a.
func NewClientCheck(a *client.Adapter) *ClientCheck {
	return &ClientCheck{adapter: a}
}

func (c *ClientCheck) Name() string     { return "client:" + c.adapter.Name() }
func (c *ClientCheck) Category() string { return "client" }

func (c *ClientCheck) Run() *CheckResult {
	status := c.adapter.Detect()
	scopes := make([]map[string]any, 0, len(c.adapter.Scopes()))
	var broken []string
	servers := 0

	for _, s := range c.adapter.Scopes() {
		entry := map[string]any{
			"scope":    s.Name,
			"path":     s.Location(),
			"readonly": s.ReadOnly,
		}
		records, err := c.adapter.List(s.Name)
		if err != nil {
			entry["error"] = err.Error()
			if files := errors.Details(err); len(files) > 0 {
				entry["files"] = files
			}
			broken = append(broken, s.Name)
		} else {
			entry["servers"] = len(records)
			servers += len(records)
		}
		scopes = append(scopes, entry)
	}

	details := map[string]any{"status": string(status), "scopes": scopes}

	if len(broken) > 0 {
		res := result(c, SeverityError, fmt.Sprintf("%s: %d scope(s) in an inconsistent state", c.adapter.DisplayName(), len(broken)))
		res.Details = details
		res.FixHint = "repair or remove the listed files by hand; mcpi refuses to overwrite them"
		return res
	}
	if status == client.StatusNotInstalled {
		res := result(c, SeverityInfo, c.adapter.DisplayName()+" does not appear to be installed")
		res.Details = details
		return res
	}
	res := result(c, SeverityPass, fmt.Sprintf("%s: %d server(s) across %d scopes", c.adapter.DisplayName(), servers, len(scopes)))
	res.Details = details
	return res
}

// Targets lists the files and directories of adapters for the permission
// check: the config directory, every scope file, and every disabled-set file.
func Targets(adapters ...*client.Adapter) []Target {
	var out []Target
	for _, a := range adapters {
		if dir := a.ConfigDir(); dir != "" {
			out = append(out, Target{Path: dir, Owner: a.Name(), Dir: true})
		}
		for _, s := range a.Scopes() {
			out = append(out, Target{Path: s.Path, Owner: a.Name()})
			if s.DisabledPath != "" {
				out = append(out, Target{Path: s.DisabledPath, Owner: a.Name()})
			}
		}
	}
	return out
}
