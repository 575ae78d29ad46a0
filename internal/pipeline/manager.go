package pipeline

import (
	"context"

	"github.com/vk/passgridgo/internal/ctxlog"
	"github.com/vk/passgridgo/internal/flow"
	"github.com/vk/passgridgo/internal/pass"
	"github.com/vk/passgridgo/internal/props"
	"github.com/vk/passgridgo/internal/qdag"
)

// passSet is one appended unit of configuration: items plus the
// flow-control options that wrap them.
type passSet struct {
	items        []flow.Item
	condition    flow.Predicate
	repeatWhile  flow.Predicate
	maxIteration int
}

// clone copies the set so managers never share mutable slices.
func (s passSet) clone() passSet {
	s.items = append([]flow.Item(nil), s.items...)
	return s
}

// SetOption configures one pass set at Append or Replace time.
type SetOption func(*passSet)

// WithCondition makes the set run once if pred is true against the property
// set, and skip entirely otherwise.
func WithCondition(pred flow.Predicate) SetOption {
	return func(s *passSet) { s.condition = pred }
}

// WithRepeatWhile makes the set repeat while pred is true, bounded by the
// iteration ceiling. A set with both a repeat-while and a condition uses the
// repeat-while policy.
func WithRepeatWhile(pred flow.Predicate) SetOption {
	return func(s *passSet) { s.repeatWhile = pred }
}

// WithMaxIteration overrides the iteration ceiling for this set.
func WithMaxIteration(n int) SetOption {
	return func(s *passSet) { s.maxIteration = n }
}

// PassSetInfo is the introspection view of one configured pass set.
type PassSetInfo struct {
	// Items are the set's passes and nested controllers, in order.
	Items []flow.Item
	// HasCondition reports a conditional-skip predicate on the set.
	HasCondition bool
	// HasRepeatWhile reports a repeat-while predicate on the set.
	HasRepeatWhile bool
	// MaxIteration is the set's iteration ceiling (0 = manager default).
	MaxIteration int
}

// Manager is an ordered schedule of pass sets. The zero value is not usable;
// construct with New.
type Manager struct {
	sets         []passSet
	maxIteration int
	lastProps    *props.Set
}

// New creates an empty manager with the default iteration ceiling.
func New() *Manager {
	return &Manager{maxIteration: flow.DefaultMaxIteration}
}

// NewWithMaxIteration creates an empty manager whose do-while sets stop at
// the given ceiling unless they carry their own.
func NewWithMaxIteration(n int) *Manager {
	if n <= 0 {
		n = flow.DefaultMaxIteration
	}
	return &Manager{maxIteration: n}
}

// validateItems rejects any element that is neither a pass nor a controller,
// naming the offending position.
func validateItems(items []flow.Item) error {
	if len(items) == 0 {
		return pass.Configf("a pass set must contain at least one pass")
	}
	for i, item := range items {
		if err := flow.ValidateItem(item); err != nil {
			return pass.Configf("pass set element %d: %v", i, err)
		}
		if nested, ok := item.(*flow.Controller); ok {
			if err := nested.Validate(); err != nil {
				return pass.Configf("pass set element %d: %v", i, err)
			}
		}
	}
	return nil
}

// Append adds one pass set to the end of the schedule.
func (m *Manager) Append(items []flow.Item, opts ...SetOption) error {
	if err := validateItems(items); err != nil {
		return err
	}
	set := passSet{items: append([]flow.Item(nil), items...)}
	for _, opt := range opts {
		opt(&set)
	}
	m.sets = append(m.sets, set)
	return nil
}

// Replace swaps out the pass set at the given 0-based index.
func (m *Manager) Replace(index int, items []flow.Item, opts ...SetOption) error {
	if index < 0 || index >= len(m.sets) {
		return pass.Configf("index to replace %d does not exist (%d pass sets)", index, len(m.sets))
	}
	if err := validateItems(items); err != nil {
		return err
	}
	set := passSet{items: append([]flow.Item(nil), items...)}
	for _, opt := range opts {
		opt(&set)
	}
	m.sets[index] = set
	return nil
}

// Remove deletes the pass set at the given 0-based index.
func (m *Manager) Remove(index int) error {
	if index < 0 || index >= len(m.sets) {
		return pass.Configf("index to remove %d does not exist (%d pass sets)", index, len(m.sets))
	}
	m.sets = append(m.sets[:index], m.sets[index+1:]...)
	return nil
}

// Len returns the number of configured pass sets.
func (m *Manager) Len() int {
	return len(m.sets)
}

// PassSets returns the configured schedule in order, for introspection.
func (m *Manager) PassSets() []PassSetInfo {
	infos := make([]PassSetInfo, len(m.sets))
	for i, s := range m.sets {
		infos[i] = PassSetInfo{
			Items:          append([]flow.Item(nil), s.items...),
			HasCondition:   s.condition != nil,
			HasRepeatWhile: s.repeatWhile != nil,
			MaxIteration:   s.maxIteration,
		}
	}
	return infos
}

// Extend appends all of other's pass sets to m, preserving their order and
// flow-control options. Nothing is deduplicated or reordered.
func (m *Manager) Extend(other *Manager) {
	for _, s := range other.sets {
		m.sets = append(m.sets, s.clone())
	}
}

// compile builds a fresh flow-controller tree for one run.
func (m *Manager) compile() *flow.Controller {
	controllers := make([]flow.Item, 0, len(m.sets))
	for _, s := range m.sets {
		ceiling := s.maxIteration
		if ceiling <= 0 {
			ceiling = m.maxIteration
		}
		switch {
		case s.repeatWhile != nil:
			controllers = append(controllers, flow.DoWhile(s.repeatWhile, ceiling, s.items...))
		case s.condition != nil:
			controllers = append(controllers, flow.Conditional(s.condition, s.items...))
		default:
			controllers = append(controllers, flow.Sequence(s.items...))
		}
	}
	return flow.Sequence(controllers...)
}

// runConfig carries per-run options.
type runConfig struct {
	callback   flow.Callback
	outputName string
}

// RunOption configures one call to Run or RunAll.
type RunOption func(*runConfig)

// WithCallback registers an observer invoked synchronously after every pass.
func WithCallback(cb flow.Callback) RunOption {
	return func(c *runConfig) { c.callback = cb }
}

// WithOutputName renames the resulting graph.
func WithOutputName(name string) RunOption {
	return func(c *runConfig) { c.outputName = name }
}

// Run executes the schedule against one graph. The graph is mutated in place
// and returned. With zero pass sets and no options the graph passes through
// untouched.
//
// Run records the property set for inspection via Properties; it must not be
// called concurrently with itself. Use RunAll for parallel fan-out.
func (m *Manager) Run(ctx context.Context, g *qdag.Graph, opts ...RunOption) (*qdag.Graph, error) {
	cfg := runConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(m.sets) == 0 && cfg.outputName == "" && cfg.callback == nil {
		return g, nil
	}
	out, ps, err := m.runOne(ctx, g, cfg)
	m.lastProps = ps
	return out, err
}

// runOne executes the schedule with a fresh controller tree and property
// set. It is safe for concurrent use: the manager's static configuration is
// only read.
func (m *Manager) runOne(ctx context.Context, g *qdag.Graph, cfg runConfig) (*qdag.Graph, *props.Set, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Pipeline run starting.", "graph", g.Name, "pass_sets", len(m.sets))

	ps := props.New()
	if err := flow.Run(ctx, m.compile(), g, ps, cfg.callback); err != nil {
		return nil, ps, err
	}
	if cfg.outputName != "" {
		g.Name = cfg.outputName
	}
	logger.Debug("Pipeline run finished.", "graph", g.Name)
	return g, ps, nil
}

// Properties returns the property set accumulated by the most recent Run.
// It is nil before the first run and reset by the next one.
func (m *Manager) Properties() *props.Set {
	return m.lastProps
}
