package flow

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/passgridgo/internal/ctxlog"
	"github.com/vk/passgridgo/internal/pass"
	"github.com/vk/passgridgo/internal/props"
	"github.com/vk/passgridgo/internal/qdag"
)

// Run walks the controller tree against the graph and property set,
// executing every pass in policy order. A failing pass aborts the walk;
// mutations already applied to the graph persist.
func Run(ctx context.Context, root *Controller, g *qdag.Graph, ps *props.Set, cb Callback) error {
	r := &runner{ps: ps, cb: cb}
	return r.eval(ctx, root, g)
}

// runner carries the per-run evaluator state: the shared property set, the
// optional callback, and the monotonically increasing pass count.
type runner struct {
	ps    *props.Set
	cb    Callback
	count int
}

func (r *runner) eval(ctx context.Context, c *Controller, g *qdag.Graph) error {
	logger := ctxlog.FromContext(ctx)

	switch c.kind {
	case kindSequence:
		return r.evalItems(ctx, c.items, g)

	case kindConditional:
		if !c.pred(r.ps) {
			logger.Debug("Condition false, skipping pass set.")
			return nil
		}
		return r.evalItems(ctx, c.items, g)

	case kindDoWhile:
		for i := 0; i < c.maxIterations; i++ {
			if err := r.evalItems(ctx, c.items, g); err != nil {
				return err
			}
			if !c.pred(r.ps) {
				return nil
			}
		}
		// The ceiling is a hard stop, never an error.
		logger.Debug("Loop reached its iteration ceiling.", "max_iterations", c.maxIterations)
		return nil
	}
	return pass.Configf("unknown flow controller kind %d", c.kind)
}

func (r *runner) evalItems(ctx context.Context, items []Item, g *qdag.Graph) error {
	for _, item := range items {
		switch v := item.(type) {
		case pass.Pass:
			if err := r.runPass(ctx, v, g); err != nil {
				return err
			}
		case *Controller:
			if err := r.eval(ctx, v, g); err != nil {
				return err
			}
		default:
			return pass.Configf("%T is neither a pass nor a flow controller", v)
		}
	}
	return nil
}

func (r *runner) runPass(ctx context.Context, p pass.Pass, g *qdag.Graph) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running pass.", "pass", p.Name(), "kind", p.Kind().String(), "count", r.count)

	started := time.Now()
	if err := p.Run(ctx, g, r.ps); err != nil {
		return fmt.Errorf("pass %q failed: %w", p.Name(), err)
	}
	elapsed := time.Since(started)

	if r.cb != nil {
		r.cb(Event{
			Pass:       p,
			Graph:      g,
			Elapsed:    elapsed,
			Properties: r.ps,
			Count:      r.count,
		})
	}
	r.count++
	return nil
}
