package qdag

import "container/heap"

// TopologicalOps returns the operations in a deterministic topological order.
//
// Dependency edges are derived from wire overlap: an operation depends on the
// most recent earlier operation touching each of its wires (qubits, clbits,
// and condition clbits alike). The order is computed with Kahn's algorithm,
// breaking ties by program position, so the result is stable across runs and
// identical for structurally identical graphs.
func (g *Graph) TopologicalOps() []*Op {
	n := len(g.order)
	if n == 0 {
		return nil
	}

	// Derive edges by walking program order and remembering the last
	// operation seen on every wire.
	succs := make([][]int, n)   // positions depending on position i
	indegree := make([]int, n)  // unsatisfied dependency count per position
	lastQubit := make([]int, g.Qubits)
	lastClbit := make([]int, g.Clbits)
	for i := range lastQubit {
		lastQubit[i] = -1
	}
	for i := range lastClbit {
		lastClbit[i] = -1
	}

	addEdge := func(from, to int) {
		succs[from] = append(succs[from], to)
		indegree[to]++
	}

	for pos, idx := range g.order {
		op := g.arena[idx]
		for _, q := range op.Qargs {
			if prev := lastQubit[q]; prev >= 0 && prev != pos {
				addEdge(prev, pos)
			}
			lastQubit[q] = pos
		}
		for _, c := range op.Cargs {
			if prev := lastClbit[c]; prev >= 0 && prev != pos {
				addEdge(prev, pos)
			}
			lastClbit[c] = pos
		}
		for _, c := range op.Condition {
			if prev := lastClbit[c]; prev >= 0 && prev != pos {
				addEdge(prev, pos)
			}
			lastClbit[c] = pos
		}
	}

	ready := &intHeap{}
	for pos := 0; pos < n; pos++ {
		if indegree[pos] == 0 {
			heap.Push(ready, pos)
		}
	}

	out := make([]*Op, 0, n)
	for ready.Len() > 0 {
		pos := heap.Pop(ready).(int)
		out = append(out, g.arena[g.order[pos]])
		for _, succ := range succs[pos] {
			indegree[succ]--
			if indegree[succ] == 0 {
				heap.Push(ready, succ)
			}
		}
	}
	return out
}

// intHeap is a min-heap of program positions, used for the smallest-position
// tie-break in TopologicalOps.
type intHeap []int

func (h intHeap) Len() int            { return len(h) }
func (h intHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x any)         { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
