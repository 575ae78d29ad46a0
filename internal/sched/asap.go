package sched

import (
	"context"

	"github.com/vk/passgridgo/internal/calib"
	"github.com/vk/passgridgo/internal/ctxlog"
	"github.com/vk/passgridgo/internal/pass"
	"github.com/vk/passgridgo/internal/props"
	"github.com/vk/passgridgo/internal/qdag"
)

// ASAP schedules every operation as early as possible, packing the program
// toward t=0 and padding the remaining slack with trailing delays.
type ASAP struct {
	pass.Meta
	durations *calib.Durations
}

// NewASAP creates the pass. The calibration table may be nil, in which case
// every operation must already carry a resolved duration.
func NewASAP(durations *calib.Durations) *ASAP {
	return &ASAP{durations: durations}
}

// Name implements pass.Pass.
func (p *ASAP) Name() string { return "ASAPSchedule" }

// Kind implements pass.Pass.
func (p *ASAP) Kind() pass.Kind { return pass.Transformation }

// Run implements pass.Pass. It rebuilds the graph's operation sequence with
// start times assigned and delays inserted, then annotates span and unit.
func (p *ASAP) Run(ctx context.Context, g *qdag.Graph, ps *props.Set) error {
	if err := checkPhysical(g, "ASAP"); err != nil {
		return err
	}
	logger := ctxlog.FromContext(ctx)
	unit := timeUnit(ps, p.durations)

	// Per-wire availability. Qubit wires have a single timestamp; clbit
	// wires keep the readable/writeable pair apart.
	qubitFree := make([]float64, g.Qubits)
	clbitReadable := make([]float64, g.Clbits)
	clbitWriteable := make([]float64, g.Clbits)

	scratch := qdag.New(g.Name, g.Qubits, g.Clbits)
	for _, op := range g.TopologicalOps() {
		duration, err := resolveDuration(op, p.durations)
		if err != nil {
			return err
		}
		isWriter := op.Kind == qdag.KindMeasure

		// Writers are gated on the writeable timestamp and may overlap a
		// pending value as long as their own write lands afterwards, so
		// their clbit constraint applies to the stop time. Readers need the
		// value at their start.
		clbitFree := clbitReadable
		offset := 0.0
		if isWriter {
			clbitFree = clbitWriteable
			offset = duration
		}

		start := 0.0
		for _, q := range op.Qargs {
			if qubitFree[q] > start {
				start = qubitFree[q]
			}
		}
		for _, c := range clbitConstraints(op) {
			if t := clbitFree[c] - offset; t > start {
				start = t
			}
		}
		stop := start + duration

		// Pad every involved qubit wire up to the start time.
		for _, q := range op.Qargs {
			if gap := start - qubitFree[q]; gap > 0 {
				if err := applyDelayBack(scratch, q, qubitFree[q], gap); err != nil {
					return err
				}
			}
		}

		st := start
		op.StartTime = &st
		if _, err := scratch.ApplyBack(op); err != nil {
			return err
		}

		for _, q := range op.Qargs {
			qubitFree[q] = stop
		}
		for _, c := range op.Cargs {
			clbitReadable[c] = stop
			clbitWriteable[c] = stop
		}
		// A conditioned read holds the wire against later writers until the
		// read has begun.
		for _, c := range op.Condition {
			if start > clbitWriteable[c] {
				clbitWriteable[c] = start
			}
		}
	}

	span := 0.0
	for _, t := range qubitFree {
		if t > span {
			span = t
		}
	}
	for c := 0; c < g.Clbits; c++ {
		if clbitReadable[c] > span {
			span = clbitReadable[c]
		}
		if clbitWriteable[c] > span {
			span = clbitWriteable[c]
		}
	}

	// Trailing idle fill so every qubit wire ends at the span. Clbit wires
	// are never padded.
	for q := 0; q < g.Qubits; q++ {
		if gap := span - qubitFree[q]; gap > 0 {
			if err := applyDelayBack(scratch, q, qubitFree[q], gap); err != nil {
				return err
			}
		}
	}

	if err := g.Adopt(scratch); err != nil {
		return err
	}
	g.Span = span
	g.Unit = unit
	ps.Put(timeUnitKey, unit)

	logger.Debug("ASAP schedule complete.", "graph", g.Name, "span", span, "unit", unit, "ops", g.NumOps())
	return nil
}

// applyDelayBack appends a delay of the given length on one qubit wire.
func applyDelayBack(g *qdag.Graph, qubit int, start, duration float64) error {
	d, s := duration, start
	_, err := g.ApplyBack(&qdag.Op{
		Kind:      qdag.KindDelay,
		Qargs:     []int{qubit},
		Duration:  &d,
		StartTime: &s,
	})
	return err
}
