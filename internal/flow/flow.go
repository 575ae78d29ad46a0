// Package flow implements the control-flow combinators the pipeline engine
// executes passes with: plain sequences, conditional skips, and bounded
// repeat-while loops.
//
// Controllers form a small recursive tagged union interpreted by one
// tree-walking evaluator. A Sequence's items may themselves be controllers,
// so arbitrary nesting composes without any inheritance machinery.
package flow

import (
	"time"

	"github.com/vk/passgridgo/internal/pass"
	"github.com/vk/passgridgo/internal/props"
	"github.com/vk/passgridgo/internal/qdag"
)

// DefaultMaxIteration is the hard ceiling a DoWhile loop stops at when no
// explicit ceiling is configured. Reaching it is not an error.
const DefaultMaxIteration = 1000

// Predicate decides control flow. It must be a pure function of the
// property set.
type Predicate func(*props.Set) bool

// Item is one element of a controller: either a pass.Pass or a nested
// *Controller. ValidateItem enforces this at configuration time.
type Item any

// ValidateItem checks that v is a legal controller element.
func ValidateItem(v Item) error {
	switch v.(type) {
	case pass.Pass, *Controller:
		return nil
	}
	return pass.Configf("%T is neither a pass nor a flow controller", v)
}

// kind tags the controller variants.
type kind int

const (
	kindSequence kind = iota
	kindConditional
	kindDoWhile
)

// Controller wraps an ordered list of items with an execution policy.
type Controller struct {
	kind          kind
	items         []Item
	pred          Predicate
	maxIterations int
}

// Sequence returns a controller that runs its items exactly once, in order.
func Sequence(items ...Item) *Controller {
	return &Controller{kind: kindSequence, items: items}
}

// Conditional returns a controller that runs its items once if pred is true
// against the current property set, and skips them entirely otherwise.
func Conditional(pred Predicate, items ...Item) *Controller {
	return &Controller{kind: kindConditional, items: items, pred: pred}
}

// DoWhile returns a controller that runs its items, then repeats while pred
// is true, stopping unconditionally after maxIterations repetitions.
// maxIterations <= 0 selects DefaultMaxIteration.
func DoWhile(pred Predicate, maxIterations int, items ...Item) *Controller {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIteration
	}
	return &Controller{kind: kindDoWhile, items: items, pred: pred, maxIterations: maxIterations}
}

// Items returns the controller's elements in order.
func (c *Controller) Items() []Item {
	return append([]Item(nil), c.items...)
}

// Validate checks every item of the controller tree, returning a ConfigError
// for the first illegal element.
func (c *Controller) Validate() error {
	for _, item := range c.items {
		if err := ValidateItem(item); err != nil {
			return err
		}
		if nested, ok := item.(*Controller); ok {
			if err := nested.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Event describes one completed pass, delivered to the run callback.
type Event struct {
	// Pass is the pass that just ran.
	Pass pass.Pass
	// Graph is the graph immediately after the pass.
	Graph *qdag.Graph
	// Elapsed is the pass's wall-clock duration.
	Elapsed time.Duration
	// Properties is the run's property set at this point.
	Properties *props.Set
	// Count increases monotonically across the whole run, starting at 0.
	Count int
}

// Callback observes pass completion. It is invoked synchronously on the
// executing goroutine immediately after every pass.
type Callback func(Event)
