package app

import (
	"context"
	"fmt"

	"github.com/vk/passgridgo/internal/calib"
	"github.com/vk/passgridgo/internal/ctxlog"
	"github.com/vk/passgridgo/internal/flow"
	"github.com/vk/passgridgo/internal/model"
	"github.com/vk/passgridgo/internal/pass"
	"github.com/vk/passgridgo/internal/pipeline"
	"github.com/vk/passgridgo/internal/qdag"
	"github.com/vk/passgridgo/internal/sched"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	graphs, err := model.LoadCircuits(ctx, a.config.CircuitPath)
	if err != nil {
		return fmt.Errorf("failed to load circuits: %w", err)
	}
	if len(graphs) == 0 {
		a.logger.Warn("No circuits found, nothing to schedule.", "path", a.config.CircuitPath)
		return nil
	}
	a.logger.Debug("Circuits loaded.", "count", len(graphs))

	var table *calib.Durations
	if a.config.CalibPath != "" {
		table, err = calib.Load(a.config.CalibPath)
		if err != nil {
			return fmt.Errorf("failed to load calibration table: %w", err)
		}
		a.logger.Debug("Calibration table loaded.", "entries", table.Len(), "unit", table.Unit())
	}

	manager, err := a.buildPipeline(table)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	a.logger.Info("Scheduling circuits.", "count", len(graphs), "schedule", a.config.Schedule, "workers", a.config.WorkerCount)
	scheduled, err := manager.RunAll(ctx, graphs, a.config.WorkerCount)
	if err != nil {
		return fmt.Errorf("scheduling failed: %w", err)
	}
	a.logger.Info("Scheduling finished.")

	for _, g := range scheduled {
		a.printSchedule(g)
	}
	return nil
}

// buildPipeline assembles the default staged pipeline with the configured
// scheduling pass in the scheduling stage.
func (a *App) buildPipeline(table *calib.Durations) (*pipeline.Staged, error) {
	var schedPass pass.Pass
	if a.config.Schedule == "alap" {
		schedPass = sched.NewALAP(table)
	} else {
		schedPass = sched.NewASAP(table)
	}

	schedStage := pipeline.New()
	if err := schedStage.Append([]flow.Item{schedPass}); err != nil {
		return nil, err
	}

	return pipeline.NewStaged(pipeline.DefaultStages, map[string]*pipeline.Manager{
		"scheduling": schedStage,
	})
}

// printSchedule writes one circuit's schedule as a plain table.
func (a *App) printSchedule(g *qdag.Graph) {
	fmt.Fprintf(a.out, "circuit %s: span %g %s\n", g.Name, g.Span, g.Unit)
	for _, op := range g.Ops() {
		start, stop := 0.0, 0.0
		if op.StartTime != nil {
			start = *op.StartTime
		}
		if op.Duration != nil {
			stop = start + *op.Duration
		}
		fmt.Fprintf(a.out, "  %-10s q%v", op.Kind, op.Qargs)
		if len(op.Cargs) > 0 {
			fmt.Fprintf(a.out, " c%v", op.Cargs)
		}
		fmt.Fprintf(a.out, "  [%g, %g]\n", start, stop)
	}
}
