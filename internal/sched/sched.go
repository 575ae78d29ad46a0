package sched

import (
	"math"

	"github.com/vk/passgridgo/internal/calib"
	"github.com/vk/passgridgo/internal/pass"
	"github.com/vk/passgridgo/internal/props"
	"github.com/vk/passgridgo/internal/qdag"
)

// timeUnitKey is the property-set key carrying the schedule's time unit.
// Scheduling passes honor a unit set by an earlier pass and record the one
// they used.
const timeUnitKey = "time_unit"

// checkPhysical verifies the scheduling precondition: the graph must declare
// physical qubit wires.
func checkPhysical(g *qdag.Graph, schedule string) error {
	if g.Qubits < 1 {
		return pass.Configf("%s schedule runs on physical circuits only: graph %q declares no qubits", schedule, g.Name)
	}
	return nil
}

// timeUnit picks the unit for this scheduling run: an explicit property-set
// value wins, then the calibration table's unit, then the default.
func timeUnit(ps *props.Set, table *calib.Durations) string {
	if unit, err := ps.String(timeUnitKey); err == nil && unit != "" {
		return unit
	}
	if table != nil {
		return table.Unit()
	}
	return calib.DefaultUnit
}

// resolveDuration returns the operation's duration, consulting the
// calibration table when the graph does not carry one. The resolved value is
// written back onto the operation.
func resolveDuration(op *qdag.Op, table *calib.Durations) (float64, error) {
	if op.Duration != nil {
		if math.IsNaN(*op.Duration) {
			return 0, pass.Resolutionf("parameterized duration of %q on qubits %v is not bounded", op.Kind, op.Qargs)
		}
		return *op.Duration, nil
	}
	if table != nil {
		if d, ok := table.Lookup(op.Kind, op.Qargs, op.Params); ok {
			op.Duration = &d
			return d, nil
		}
	}
	return 0, pass.Resolutionf("duration of %q on qubits %v is not found", op.Kind, op.Qargs)
}

// clbitConstraints returns the clbit wires an operation synchronizes on:
// its explicit clbit arguments plus its condition bits.
func clbitConstraints(op *qdag.Op) []int {
	if len(op.Condition) == 0 {
		return op.Cargs
	}
	bits := make([]int, 0, len(op.Cargs)+len(op.Condition))
	bits = append(bits, op.Cargs...)
	bits = append(bits, op.Condition...)
	return bits
}
