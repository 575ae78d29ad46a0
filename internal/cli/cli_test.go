package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PositionalPath(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{"circuits/"}, out)
	require.NoError(t, err)
	require.False(t, exit)
	require.NotNil(t, cfg)
	assert.Equal(t, "circuits/", cfg.CircuitPath)
	assert.Equal(t, "asap", cfg.Schedule)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestParse_Flags(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{
		"--circuit", "bell.hcl",
		"--calib", "device.yaml",
		"--schedule", "ALAP",
		"--log-level", "debug",
		"--log-format", "json",
		"--workers", "8",
	}, out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "bell.hcl", cfg.CircuitPath)
	assert.Equal(t, "device.yaml", cfg.CalibPath)
	assert.Equal(t, "alap", cfg.Schedule)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 8, cfg.WorkerCount)
}

func TestParse_ShorthandPath(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, _, err := Parse([]string{"-c", "bell.hcl"}, out)
	require.NoError(t, err)
	assert.Equal(t, "bell.hcl", cfg.CircuitPath)
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, exit, err := Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_InvalidValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
	}{
		{name: "bad schedule", args: []string{"--schedule", "greedy", "x.hcl"}},
		{name: "bad log level", args: []string{"--log-level", "verbose", "x.hcl"}},
		{name: "bad log format", args: []string{"--log-format", "xml", "x.hcl"}},
		{name: "unknown flag", args: []string{"--frobnicate", "x.hcl"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := &bytes.Buffer{}
			_, _, err := Parse(tc.args, out)
			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
