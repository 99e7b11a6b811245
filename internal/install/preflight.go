package install

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/thoreinstein/mcpi/internal/runner"
)

// maxProbes bounds concurrent PATH lookups.
const maxProbes = 4

// tool is an executable that must be on PATH.
type tool struct {
	name string
	hint string
}

// probeTools looks up every tool concurrently and returns a blocker per
// missing tool, in input order.
func probeTools(ctx context.Context, r runner.Runner, tools []tool) []Blocker {
	missing := make([]bool, len(tools))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxProbes)
	for i, t := range tools {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := r.LookPath(t.name); err != nil {
				mu.Lock()
				missing[i] = true
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return []Blocker{{Reason: "preflight interrupted: " + err.Error()}}
	}

	var blockers []Blocker
	for i, t := range tools {
		if missing[i] {
			blockers = append(blockers, Blocker{Reason: t.name + " not found on PATH", Hint: t.hint})
		}
	}
	return blockers
}
