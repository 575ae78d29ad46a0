package sched

import (
	"context"

	"github.com/vk/passgridgo/internal/calib"
	"github.com/vk/passgridgo/internal/ctxlog"
	"github.com/vk/passgridgo/internal/pass"
	"github.com/vk/passgridgo/internal/props"
	"github.com/vk/passgridgo/internal/qdag"
)

// ALAP schedules the stop time of every operation as late as possible,
// packing the program toward the end of the schedule and padding the
// remaining slack with leading delays.
type ALAP struct {
	pass.Meta
	durations *calib.Durations
}

// NewALAP creates the pass. The calibration table may be nil, in which case
// every operation must already carry a resolved duration.
func NewALAP(durations *calib.Durations) *ALAP {
	return &ALAP{durations: durations}
}

// Name implements pass.Pass.
func (p *ALAP) Name() string { return "ALAPSchedule" }

// Kind implements pass.Pass.
func (p *ALAP) Kind() pass.Kind { return pass.Transformation }

// Run implements pass.Pass. The walk is the mirror of ASAP: operations are
// visited in reverse topological order with time measured backward from the
// end of the schedule, and delays are inserted at the front of each wire.
// Once the span is known, the reversed timestamps are converted back to
// forward start times.
func (p *ALAP) Run(ctx context.Context, g *qdag.Graph, ps *props.Set) error {
	if err := checkPhysical(g, "ALAP"); err != nil {
		return err
	}
	logger := ctxlog.FromContext(ctx)
	unit := timeUnit(ps, p.durations)

	// Availability in reversed time: distance from the schedule end.
	qubitFree := make([]float64, g.Qubits)
	clbitReadable := make([]float64, g.Clbits)
	clbitWriteable := make([]float64, g.Clbits)

	// Reversed stop times per applied operation, converted to forward start
	// times once the span is known.
	revStop := make(map[*qdag.Op]float64)

	scratch := qdag.New(g.Name, g.Qubits, g.Clbits)
	ops := g.TopologicalOps()
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		duration, err := resolveDuration(op, p.durations)
		if err != nil {
			return err
		}
		isWriter := op.Kind == qdag.KindMeasure

		// The dual of the ASAP rule: in reversed time a reader's constraint
		// attaches to its (forward) start, which is its reversed stop, so
		// the offset lands on non-writers here.
		clbitFree := clbitReadable
		offset := duration
		if isWriter {
			clbitFree = clbitWriteable
			offset = 0
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

		// Pad the gap on each involved qubit wire. ApplyFront puts the
		// delay after this operation in program order, which in forward
		// time is exactly where the idle gap sits.
		for _, q := range op.Qargs {
			if gap := start - qubitFree[q]; gap > 0 {
				delay, err := applyDelayFront(scratch, q, gap)
				if err != nil {
					return err
				}
				revStop[delay] = start
			}
		}

		if _, err := scratch.ApplyFront(op); err != nil {
			return err
		}
		revStop[op] = stop

		for _, q := range op.Qargs {
			qubitFree[q] = stop
		}
		for _, c := range op.Cargs {
			clbitReadable[c] = stop
			clbitWriteable[c] = stop
		}
		// The read moment in reversed coordinates is the reversed stop time,
		// so the write barrier lands there (the dual of the forward rule).
		for _, c := range op.Condition {
			if stop > clbitWriteable[c] {
				clbitWriteable[c] = stop
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

	// Leading idle fill: every qubit wire starts idle until its first
	// operation. Clbit wires are never padded.
	for q := 0; q < g.Qubits; q++ {
		if gap := span - qubitFree[q]; gap > 0 {
			delay, err := applyDelayFront(scratch, q, gap)
			if err != nil {
				return err
			}
			revStop[delay] = span
		}
	}

	// Convert reversed stop times to forward start times.
	for _, op := range scratch.Ops() {
		st := span - revStop[op]
		op.StartTime = &st
	}

	if err := g.Adopt(scratch); err != nil {
		return err
	}
	g.Span = span
	g.Unit = unit
	ps.Put(timeUnitKey, unit)

	logger.Debug("ALAP schedule complete.", "graph", g.Name, "span", span, "unit", unit, "ops", g.NumOps())
	return nil
}

// applyDelayFront prepends a delay of the given length on one qubit wire and
// returns the created operation.
func applyDelayFront(g *qdag.Graph, qubit int, duration float64) (*qdag.Op, error) {
	d := duration
	op := &qdag.Op{
		Kind:     qdag.KindDelay,
		Qargs:    []int{qubit},
		Duration: &d,
	}
	if _, err := g.ApplyFront(op); err != nil {
		return nil, err
	}
	return op, nil
}
