// Package pipeline implements the pass manager: the ordered, validated
// schedule of pass sets a pipeline run executes, and the staged variant that
// composes named phases into one linear schedule.
//
// # Execution Model
//
// A Manager holds static configuration only. Every call to Run compiles the
// accumulated pass sets into a fresh flow-controller tree and a fresh
// property set, so a single configured Manager can drive any number of runs,
// including concurrent runs over independent graphs via RunAll. The static
// configuration must not be mutated while runs are in flight.
//
// # Pass Sets
//
// One Append call adds one pass set: an ordered list of passes (or nested
// flow controllers) plus optional flow-control options. A set with a
// repeat-while predicate becomes a bounded do-while loop; a set with a
// condition predicate is skipped entirely when the predicate is false;
// otherwise the set runs exactly once. Within a set, passes run strictly in
// list order, and a failing pass aborts the whole run without rollback.
package pipeline
