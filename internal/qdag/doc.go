// Package qdag implements the program graph that pipeline passes operate on:
// a directed acyclic graph of operations over quantum wires (qubits) and
// classical wires (clbits).
//
// # Why qdag Exists
//
// Passes need one mutable artifact they can all agree on. The Graph here is
// that artifact: it owns the declared wire sets, an arena of operation records
// addressed by stable indices, and the schedule annotations (span, time unit)
// that scheduling passes produce.
//
// Dependencies between operations are not stored as explicit edges. They are
// derived from wire overlap: two operations touching the same qubit or clbit
// are ordered by their position in the program. TopologicalOps materializes
// that ordering deterministically, breaking ties by insertion order, so every
// pass sees the same walk over the same graph.
//
// # Mutation Model
//
// The Graph is mutated in place by transformation passes. Operations are held
// in an append-only arena; program order is a separate index list, so
// ApplyFront and ApplyBack never invalidate an existing index. A pass that
// needs isolation must call Copy explicitly; the engine never copies the
// graph on its own.
package qdag
