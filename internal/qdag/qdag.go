package qdag

import (
	"fmt"
)

// Reserved operation kinds with engine-level semantics.
const (
	// KindDelay marks explicit idle time on a qubit wire. Scheduling passes
	// insert delays to pad gaps; a delay occupies its qubits for its full
	// duration and touches no clbits.
	KindDelay = "delay"

	// KindMeasure is the writer kind: its defining effect is producing a new
	// value on its clbits. Scheduling treats measure clbit access through the
	// writeable timestamp rather than the readable one.
	KindMeasure = "measure"
)

// Op is a single operation node in the program graph.
type Op struct {
	// Kind names the operation ("h", "cx", "measure", "delay", ...).
	Kind string
	// Qargs lists the qubit wires the operation occupies, in order.
	Qargs []int
	// Cargs lists the clbit wires the operation accesses, in order.
	Cargs []int
	// Params holds numeric operation parameters, if any.
	Params []float64
	// Condition lists clbits whose values must be known before the
	// operation may execute. Empty for unconditioned operations.
	Condition []int
	// Duration is the operation's length in the graph's time unit. Nil means
	// unresolved; scheduling resolves it from the calibration table.
	Duration *float64
	// StartTime is the scheduled start, set by a scheduling pass. Nil until
	// the graph has been scheduled.
	StartTime *float64
}

// Clone returns a deep copy of the operation.
func (o *Op) Clone() *Op {
	c := &Op{
		Kind:      o.Kind,
		Qargs:     append([]int(nil), o.Qargs...),
		Cargs:     append([]int(nil), o.Cargs...),
		Params:    append([]float64(nil), o.Params...),
		Condition: append([]int(nil), o.Condition...),
	}
	if o.Duration != nil {
		d := *o.Duration
		c.Duration = &d
	}
	if o.StartTime != nil {
		t := *o.StartTime
		c.StartTime = &t
	}
	return c
}

// Graph is the mutable program artifact a pipeline run operates on.
//
// Operations live in an append-only arena; program order is kept as a list of
// arena indices so insertions at either end never move existing records.
type Graph struct {
	// Name identifies the program, carried through transformations.
	Name string
	// Qubits is the number of quantum wires, indexed 0..Qubits-1.
	Qubits int
	// Clbits is the number of classical wires, indexed 0..Clbits-1.
	Clbits int

	// Span is the total schedule length. Meaningful only once Unit is set.
	Span float64
	// Unit is the time unit of Span and all durations ("dt", "ns", ...).
	// A non-empty Unit signals that the graph is schedule-annotated.
	Unit string

	arena []*Op // all operations ever applied, by stable index
	order []int // arena indices in program order
}

// New creates an empty graph with the given wire counts.
func New(name string, qubits, clbits int) *Graph {
	return &Graph{Name: name, Qubits: qubits, Clbits: clbits}
}

// NumOps returns the number of operations in the program.
func (g *Graph) NumOps() int {
	return len(g.order)
}

// Ops returns the operations in program order. The returned slice is fresh;
// the Op records are shared with the graph.
func (g *Graph) Ops() []*Op {
	ops := make([]*Op, len(g.order))
	for i, idx := range g.order {
		ops[i] = g.arena[idx]
	}
	return ops
}

// IsScheduled reports whether a scheduling pass has annotated the graph.
func (g *Graph) IsScheduled() bool {
	return g.Unit != ""
}

// checkWires validates that every wire the operation references exists in the
// graph's declared wire sets.
func (g *Graph) checkWires(op *Op) error {
	for _, q := range op.Qargs {
		if q < 0 || q >= g.Qubits {
			return fmt.Errorf("operation %q references qubit %d outside [0, %d)", op.Kind, q, g.Qubits)
		}
	}
	for _, c := range op.Cargs {
		if c < 0 || c >= g.Clbits {
			return fmt.Errorf("operation %q references clbit %d outside [0, %d)", op.Kind, c, g.Clbits)
		}
	}
	for _, c := range op.Condition {
		if c < 0 || c >= g.Clbits {
			return fmt.Errorf("operation %q condition references clbit %d outside [0, %d)", op.Kind, c, g.Clbits)
		}
	}
	return nil
}

// ApplyBack appends the operation to the end of the program. It returns the
// operation's stable arena index.
func (g *Graph) ApplyBack(op *Op) (int, error) {
	if err := g.checkWires(op); err != nil {
		return 0, err
	}
	idx := len(g.arena)
	g.arena = append(g.arena, op)
	g.order = append(g.order, idx)
	return idx, nil
}

// ApplyFront prepends the operation to the start of the program. It returns
// the operation's stable arena index.
func (g *Graph) ApplyFront(op *Op) (int, error) {
	if err := g.checkWires(op); err != nil {
		return 0, err
	}
	idx := len(g.arena)
	g.arena = append(g.arena, op)
	g.order = append([]int{idx}, g.order...)
	return idx, nil
}

// Copy returns a deep copy of the graph. Passes that need isolation must
// copy explicitly; the engine never does.
func (g *Graph) Copy() *Graph {
	c := &Graph{
		Name:   g.Name,
		Qubits: g.Qubits,
		Clbits: g.Clbits,
		Span:   g.Span,
		Unit:   g.Unit,
		arena:  make([]*Op, len(g.arena)),
		order:  append([]int(nil), g.order...),
	}
	for i, op := range g.arena {
		c.arena[i] = op.Clone()
	}
	return c
}

// Adopt replaces g's program with other's, keeping g's identity. Used by
// passes that rebuild the operation sequence (scheduling) to publish their
// result into the caller's graph in place.
func (g *Graph) Adopt(other *Graph) error {
	if other.Qubits != g.Qubits || other.Clbits != g.Clbits {
		return fmt.Errorf("cannot adopt program with %d qubits / %d clbits into graph with %d / %d",
			other.Qubits, other.Clbits, g.Qubits, g.Clbits)
	}
	g.arena = other.arena
	g.order = other.order
	return nil
}
