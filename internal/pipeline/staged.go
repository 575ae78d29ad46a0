package pipeline

import (
	"context"
	"strings"
	"unicode"

	"github.com/vk/passgridgo/internal/flow"
	"github.com/vk/passgridgo/internal/pass"
	"github.com/vk/passgridgo/internal/props"
	"github.com/vk/passgridgo/internal/qdag"
)

// DefaultStages are the six fixed phases of a physical-circuit compilation
// pipeline, in execution order.
var DefaultStages = []string{"init", "layout", "routing", "translation", "optimization", "scheduling"}

// stageNameBlacklist are the punctuation characters a stage name must not
// contain, on top of whitespace.
const stageNameBlacklist = "!@#$%^&*()+=[]{};:'\",<>/?\\|`~.-"

// Staged is a pass manager composed from named, ordered stages. Each stage
// owns three optional manager slots (pre, stage, post) and the whole thing
// flattens into one linear Manager, recomputed whenever a slot changes.
//
// Pass-level mutation is deliberately unavailable at this level: only whole
// slots can be replaced, so the stage structure always stays truthful.
type Staged struct {
	stages    []string
	slots     map[string]*Manager
	flattened *Manager
}

// validStageName rejects empty names and names containing whitespace or
// blacklisted punctuation.
func validStageName(name string) error {
	if name == "" {
		return pass.Configf("stage name must not be empty")
	}
	for _, r := range name {
		if unicode.IsSpace(r) {
			return pass.Configf("stage name %q must not contain whitespace", name)
		}
		if strings.ContainsRune(stageNameBlacklist, r) {
			return pass.Configf("stage name %q must not contain %q", name, r)
		}
	}
	return nil
}

// NewStaged creates a staged manager over the given stage names (nil selects
// DefaultStages) with optional initial slot assignments. Assignment keys are
// a stage name, or a stage name prefixed with "pre_" or "post_"; anything
// else is a configuration error.
func NewStaged(stages []string, assignments map[string]*Manager) (*Staged, error) {
	if stages == nil {
		stages = DefaultStages
	}
	seen := make(map[string]bool, len(stages))
	for _, name := range stages {
		if err := validStageName(name); err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, pass.Configf("duplicate stage name %q", name)
		}
		seen[name] = true
	}

	s := &Staged{
		stages: append([]string(nil), stages...),
		slots:  make(map[string]*Manager),
	}
	for slot, m := range assignments {
		if err := s.SetStage(slot, m); err != nil {
			return nil, err
		}
	}
	s.flatten()
	return s, nil
}

// checkSlot validates a slot key against the declared stages.
func (s *Staged) checkSlot(slot string) error {
	name := slot
	if rest, ok := strings.CutPrefix(slot, "pre_"); ok {
		name = rest
	} else if rest, ok := strings.CutPrefix(slot, "post_"); ok {
		name = rest
	}
	for _, declared := range s.stages {
		if declared == name {
			return nil
		}
	}
	return pass.Configf("unknown stage slot %q: stage %q is not in the declared stage list", slot, name)
}

// SetStage assigns a whole manager to the named slot ("routing",
// "pre_routing", "post_routing", ...), replacing any previous assignment.
// Assigning nil clears the slot. The flattened view is recomputed.
func (s *Staged) SetStage(slot string, m *Manager) error {
	if err := s.checkSlot(slot); err != nil {
		return err
	}
	if m == nil {
		delete(s.slots, slot)
	} else {
		s.slots[slot] = m
	}
	s.flatten()
	return nil
}

// Stage returns the manager assigned to the slot, if any.
func (s *Staged) Stage(slot string) (*Manager, bool) {
	if err := s.checkSlot(slot); err != nil {
		return nil, false
	}
	m, ok := s.slots[slot]
	return m, ok
}

// Stages returns the declared stage names in order.
func (s *Staged) Stages() []string {
	return append([]string(nil), s.stages...)
}

// flatten rebuilds the linear manager: pre, stage, post per stage, stages in
// declared order.
func (s *Staged) flatten() {
	m := New()
	for _, name := range s.stages {
		for _, slot := range []string{"pre_" + name, name, "post_" + name} {
			if assigned, ok := s.slots[slot]; ok {
				m.Extend(assigned)
			}
		}
	}
	s.flattened = m
}

// Flattened returns the current linear view of the staged schedule.
func (s *Staged) Flattened() *Manager {
	return s.flattened
}

// Run executes the flattened schedule against one graph, with the same
// contract as Manager.Run.
func (s *Staged) Run(ctx context.Context, g *qdag.Graph, opts ...RunOption) (*qdag.Graph, error) {
	return s.flattened.Run(ctx, g, opts...)
}

// RunAll executes the flattened schedule over several graphs, with the same
// contract as Manager.RunAll.
func (s *Staged) RunAll(ctx context.Context, graphs []*qdag.Graph, workers int, opts ...RunOption) ([]*qdag.Graph, error) {
	return s.flattened.RunAll(ctx, graphs, workers, opts...)
}

// Properties returns the property set accumulated by the most recent Run.
func (s *Staged) Properties() *props.Set {
	return s.flattened.Properties()
}

// Append is disallowed on a staged manager; replace a whole stage slot
// instead.
func (s *Staged) Append([]flow.Item, ...SetOption) error {
	return pass.Configf("cannot append passes to a staged pass manager; assign a stage slot instead")
}

// Replace is disallowed on a staged manager; replace a whole stage slot
// instead.
func (s *Staged) Replace(int, []flow.Item, ...SetOption) error {
	return pass.Configf("cannot replace passes on a staged pass manager; assign a stage slot instead")
}

// Remove is disallowed on a staged manager; replace a whole stage slot
// instead.
func (s *Staged) Remove(int) error {
	return pass.Configf("cannot remove passes from a staged pass manager; assign a stage slot instead")
}

// Extend is disallowed on a staged manager; replace a whole stage slot
// instead.
func (s *Staged) Extend(*Manager) error {
	return pass.Configf("cannot extend a staged pass manager; assign a stage slot instead")
}
