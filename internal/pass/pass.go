// Package pass defines the contract every pipeline pass implements, plus the
// error taxonomy shared by the whole engine.
//
// A pass is one unit of pipeline work. The engine distinguishes two
// capability kinds: an Analysis pass reads the graph and writes only the
// property set; a Transformation pass may rewrite both. The distinction is a
// documented contract, not a structural enforcement; the closed Kind enum
// exists so tooling and callbacks can report what a pass claims to do.
package pass

import (
	"context"

	"github.com/vk/passgridgo/internal/props"
	"github.com/vk/passgridgo/internal/qdag"
)

// Kind is the capability class of a pass.
type Kind int

const (
	// Analysis passes read the graph and write results to the property set.
	Analysis Kind = iota
	// Transformation passes may mutate the graph in place.
	Transformation
)

// String returns the human-readable kind name.
func (k Kind) String() string {
	switch k {
	case Analysis:
		return "analysis"
	case Transformation:
		return "transformation"
	}
	return "unknown"
}

// Pass is a single unit of pipeline work, executed by the flow engine
// against the current graph and the run's property set.
//
// Run mutates the graph in place (Transformation) or leaves it alone
// (Analysis). A non-nil error aborts the entire pipeline run; mutations
// already applied by earlier passes persist.
type Pass interface {
	// Name identifies the pass in logs and callbacks.
	Name() string
	// Kind reports the pass's declared capability class.
	Kind() Kind
	// Run executes the pass.
	Run(ctx context.Context, g *qdag.Graph, ps *props.Set) error
}

// Meta is an embeddable declaration of a pass's informational contract:
// property-set keys it requires from earlier passes and keys it preserves.
// The engine does not resolve or enforce these; they document intent.
type Meta struct {
	RequiresKeys  []string
	PreservesKeys []string
}

// Requires returns the property-set keys the pass expects to exist.
func (m Meta) Requires() []string { return m.RequiresKeys }

// Preserves returns the property-set keys the pass leaves untouched.
func (m Meta) Preserves() []string { return m.PreservesKeys }
