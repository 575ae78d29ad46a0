package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/passgridgo/internal/flow"
	"github.com/vk/passgridgo/internal/pass"
	"github.com/vk/passgridgo/internal/qdag"
)

// singleSetManager wraps one append pass in a fresh manager.
func singleSetManager(t *testing.T, kind string) *Manager {
	t.Helper()
	m := New()
	require.NoError(t, m.Append([]flow.Item{&appendPass{kind: kind}}))
	return m
}

func TestNewStaged_DefaultStages(t *testing.T) {
	t.Parallel()

	s, err := NewStaged(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultStages, s.Stages())
}

func TestNewStaged_InvalidStageNames(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		stages []string
	}{
		{name: "whitespace", stages: []string{"my stage"}},
		{name: "tab", stages: []string{"my\tstage"}},
		{name: "punctuation", stages: []string{"stage!"}},
		{name: "empty", stages: []string{""}},
		{name: "duplicate", stages: []string{"a", "a"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewStaged(tc.stages, nil)
			require.Error(t, err)
			var cfgErr *pass.ConfigError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestNewStaged_UnknownSlotAssignment(t *testing.T) {
	t.Parallel()

	_, err := NewStaged([]string{"alpha"}, map[string]*Manager{
		"pre_unknown": New(),
	})
	require.Error(t, err)
	var cfgErr *pass.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "pre_unknown")
}

func TestStaged_SetStageUnknown(t *testing.T) {
	t.Parallel()

	s, err := NewStaged([]string{"alpha"}, nil)
	require.NoError(t, err)

	require.Error(t, s.SetStage("beta", New()))
	require.Error(t, s.SetStage("post_beta", New()))
	require.NoError(t, s.SetStage("pre_alpha", New()))
}

func TestStaged_FlatteningOrder(t *testing.T) {
	t.Parallel()

	// Flattening is always pre -> stage -> post per stage, stages in
	// declared order, regardless of assignment order.
	s, err := NewStaged([]string{"alpha", "beta"}, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetStage("post_beta", singleSetManager(t, "post-beta")))
	require.NoError(t, s.SetStage("beta", singleSetManager(t, "beta")))
	require.NoError(t, s.SetStage("pre_alpha", singleSetManager(t, "pre-alpha")))
	require.NoError(t, s.SetStage("alpha", singleSetManager(t, "alpha")))

	g := qdag.New("test", 1, 0)
	out, err := s.Run(context.Background(), g)
	require.NoError(t, err)

	var kinds []string
	for _, op := range out.Ops() {
		kinds = append(kinds, op.Kind)
	}
	assert.Equal(t, []string{"pre-alpha", "alpha", "beta", "post-beta"}, kinds)
}

func TestStaged_ReassignmentReflattens(t *testing.T) {
	t.Parallel()

	s, err := NewStaged([]string{"alpha"}, map[string]*Manager{
		"alpha": singleSetManager(t, "old"),
	})
	require.NoError(t, err)
	require.NoError(t, s.SetStage("alpha", singleSetManager(t, "new")))

	g := qdag.New("test", 1, 0)
	out, err := s.Run(context.Background(), g)
	require.NoError(t, err)
	require.Equal(t, 1, out.NumOps())
	assert.Equal(t, "new", out.Ops()[0].Kind)
}

func TestStaged_ClearSlot(t *testing.T) {
	t.Parallel()

	s, err := NewStaged([]string{"alpha"}, map[string]*Manager{
		"alpha": singleSetManager(t, "x"),
	})
	require.NoError(t, err)
	require.NoError(t, s.SetStage("alpha", nil))
	assert.Equal(t, 0, s.Flattened().Len())
}

func TestStaged_PassLevelMutationDisallowed(t *testing.T) {
	t.Parallel()

	s, err := NewStaged(nil, nil)
	require.NoError(t, err)

	var cfgErr *pass.ConfigError
	err = s.Append([]flow.Item{&appendPass{kind: "x"}})
	require.Error(t, err)
	assert.True(t, errors.As(err, &cfgErr))

	err = s.Replace(0, []flow.Item{&appendPass{kind: "x"}})
	require.Error(t, err)
	assert.True(t, errors.As(err, &cfgErr))

	err = s.Remove(0)
	require.Error(t, err)
	assert.True(t, errors.As(err, &cfgErr))

	err = s.Extend(New())
	require.Error(t, err)
	assert.True(t, errors.As(err, &cfgErr))
}

func TestStaged_Stage(t *testing.T) {
	t.Parallel()

	m := singleSetManager(t, "x")
	s, err := NewStaged([]string{"alpha"}, map[string]*Manager{"alpha": m})
	require.NoError(t, err)

	got, ok := s.Stage("alpha")
	require.True(t, ok)
	assert.Same(t, m, got)

	_, ok = s.Stage("pre_alpha")
	assert.False(t, ok)
	_, ok = s.Stage("nonexistent")
	assert.False(t, ok)
}
