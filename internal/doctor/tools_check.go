package doctor

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/thoreinstein/mcpi/internal/runner"
)

// Tool is an external program an installation method depends on.
type Tool struct {
	Name string

	// Methods lists the installation methods that need the tool.
	Methods []string
}

// DefaultTools are the programs the built-in installers shell out to.
var DefaultTools = []Tool{
	{Name: "npm", Methods: []string{"js-pkg"}},
	{Name: "npx", Methods: []string{"js-pkg"}},
	{Name: "node", Methods: []string{"git-clone"}},
	{Name: "uv", Methods: []string{"py-pkg"}},
	{Name: "python3", Methods: []string{"py-pkg"}},
	{Name: "git", Methods: []string{"git-clone"}},
}

// ToolsCheck probes PATH for the installers' external tools.
type ToolsCheck struct {
	ctx    context.Context
	runner runner.Runner
	tools  []Tool
}

var _ Check = (*ToolsCheck)(nil)

// NewToolsCheck creates a check probing tools with r.
func NewToolsCheck(ctx context.Context, r runner.Runner, tools []Tool) *ToolsCheck {
	return &ToolsCheck{ctx: ctx, runner: r, tools: tools}
}

func (c *ToolsCheck) Name() string     { return "tools" }
func (c *ToolsCheck) Category() string { return "tools" }

// Run looks up every tool concurrently. A missing tool only warns: it
// blocks some installation methods, not mcpi itself.
func (c *ToolsCheck) Run() *CheckResult {
	found := make(map[string]string, len(c.tools))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(c.ctx)
	g.SetLimit(4)
	for _, t := range c.tools {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := c.runner.LookPath(t.Name)
			if err != nil {
				return nil
			}
			mu.Lock()
			found[t.Name] = path
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result(c, SeverityError, "tool probe interrupted: "+err.Error())
	}

	var missing []string
	blocked := map[string]bool{}
	tools := make(map[string]any, len(c.tools))
	for _, t := range c.tools {
		if p, ok := found[t.Name]; ok {
			tools[t.Name] = p
			continue
		}
		tools[t.Name] = nil
		missing = append(missing, t.Name)
		for _, m := range t.Methods {
			blocked[m] = true
		}
	}

	if len(missing) == 0 {
		res := result(c, SeverityPass, fmt.Sprintf("all %d tools found on PATH", len(c.tools)))
		res.Details = map[string]any{"tools": tools}
		return res
	}

	methods := make([]string, 0, len(blocked))
	for _, t := range c.tools {
		for _, m := range t.Methods {
			if blocked[m] && !slices.Contains(methods, m) {
				methods = append(methods, m)
			}
		}
	}
	res := result(c, SeverityWarning, "not found on PATH: "+strings.Join(missing, ", "))
	res.Details = map[string]any{"tools": tools, "affected_methods": methods}
	res.FixHint = "install the missing tools to use recipes with the affected methods"
	return res
}
