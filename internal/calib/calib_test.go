package calib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurations_LookupFallback(t *testing.T) {
	t.Parallel()

	d := New("dt")
	d.Add("x", nil, nil, 10)
	d.Add("x", []int{1}, nil, 12)
	d.Add("rx", []int{0}, []float64{1.5}, 30)

	// Exact (kind, qubits, params) match.
	v, ok := d.Lookup("rx", []int{0}, []float64{1.5})
	require.True(t, ok)
	assert.Equal(t, 30.0, v)

	// Falls back from params to the (kind, qubits) entry.
	v, ok = d.Lookup("x", []int{1}, []float64{0.1})
	require.True(t, ok)
	assert.Equal(t, 12.0, v)

	// Falls back to the kind-wide default.
	v, ok = d.Lookup("x", []int{0}, nil)
	require.True(t, ok)
	assert.Equal(t, 10.0, v)

	_, ok = d.Lookup("cz", []int{0, 1}, nil)
	assert.False(t, ok)
}

func TestDurations_DefaultUnit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultUnit, New("").Unit())
	assert.Equal(t, "ns", New("ns").Unit())
}

func TestParse(t *testing.T) {
	t.Parallel()

	data := []byte(`
unit: ns
durations:
  - op: h
    duration: 35
  - op: cx
    qubits: [0, 1]
    duration: 300
  - op: rx
    qubits: [0]
    params: [1.57]
    duration: 60
`)
	table, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "ns", table.Unit())
	assert.Equal(t, 3, table.Len())

	v, ok := table.Lookup("cx", []int{0, 1}, nil)
	require.True(t, ok)
	assert.Equal(t, 300.0, v)

	v, ok = table.Lookup("h", []int{4}, nil)
	require.True(t, ok)
	assert.Equal(t, 35.0, v)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		data string
	}{
		{name: "not yaml", data: "{{{"},
		{name: "missing op name", data: "durations:\n  - duration: 10\n"},
		{name: "missing duration", data: "durations:\n  - op: h\n"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tc.data))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "calib.yaml")
	require.NoError(t, os.WriteFile(path, []byte("unit: dt\ndurations:\n  - op: x\n    duration: 20\n"), 0600))

	table, err := Load(path)
	require.NoError(t, err)
	v, ok := table.Lookup("x", nil, nil)
	require.True(t, ok)
	assert.Equal(t, 20.0, v)

	_, err = Load(filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
}
