// Package sched implements the instruction-timing scheduler passes: ASAP
// (as soon as possible) and ALAP (as late as possible).
//
// Both are transformation passes. They assign a start time to every
// operation, insert explicit delay operations so that all qubit wires end at
// the same instant, and annotate the graph with its total span and time unit.
// Durations missing from the graph are resolved from a calibration table;
// a duration that cannot be resolved aborts the pass.
//
// The two algorithms are duals: ASAP walks the graph forward and accumulates
// slack as trailing delays, ALAP walks it backward and accumulates slack as
// leading delays. For the same graph and calibration table they produce the
// same total span, and re-running either on its own output is a no-op.
//
// Classical wires carry asymmetric availability: a conditioned operation
// waits for the wire's readable time, while a measure (the operation that
// writes the wire) is gated on its writeable time and advances both on
// completion. A conditioned read blocks later writers until the read has
// started. Clbit wires are never padded with delays; only qubit wires
// receive idle fill.
package sched
