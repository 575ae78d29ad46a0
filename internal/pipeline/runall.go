package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vk/passgridgo/internal/ctxlog"
	"github.com/vk/passgridgo/internal/qdag"
)

// RunAll executes the schedule over several independent graphs on a worker
// pool. Each graph gets its own freshly compiled controller tree and
// property set; the manager's static configuration is shared read-only
// across workers.
//
// Results are returned in caller order regardless of completion order. If
// any run fails, the joined errors are returned alongside the partial
// results; failed slots hold nil.
func (m *Manager) RunAll(ctx context.Context, graphs []*qdag.Graph, workers int, opts ...RunOption) ([]*qdag.Graph, error) {
	logger := ctxlog.FromContext(ctx)

	cfg := runConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(graphs) {
		workers = len(graphs)
	}

	type job struct {
		index int
		graph *qdag.Graph
	}

	jobs := make(chan job)
	results := make([]*qdag.Graph, len(graphs))
	errs := make([]error, len(graphs))

	var wg sync.WaitGroup
	logger.Debug("Starting pipeline worker pool.", "workers", workers, "graphs", len(graphs))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			workerLogger := logger.With("workerID", workerID)
			for j := range jobs {
				workerLogger.Debug("Worker picked up graph.", "graph", j.graph.Name)
				out, _, err := m.runOne(ctx, j.graph, cfg)
				if err != nil {
					workerLogger.Error("Pipeline run failed.", "graph", j.graph.Name, "error", err)
					errs[j.index] = fmt.Errorf("graph %q: %w", j.graph.Name, err)
					continue
				}
				results[j.index] = out
			}
		}(i)
	}

	for i, g := range graphs {
		jobs <- job{index: i, graph: g}
	}
	close(jobs)
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return results, err
	}
	return results, nil
}
