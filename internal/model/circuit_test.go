package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/passgridgo/internal/qdag"
)

// writeCircuit drops an HCL file into a temp dir and returns its path.
func writeCircuit(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadCircuits(t *testing.T) {
	t.Parallel()

	path := writeCircuit(t, "bell.hcl", `
circuit "bell" {
  qubits = 2
  clbits = 2

  op "h" {
    qubits = [0]
  }

  op "cx" {
    qubits = [0, 1]
  }

  op "measure" {
    qubits = [1]
    clbits = [1]
  }
}
`)

	graphs, err := LoadCircuits(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, graphs, 1)

	g := graphs[0]
	assert.Equal(t, "bell", g.Name)
	assert.Equal(t, 2, g.Qubits)
	assert.Equal(t, 2, g.Clbits)
	require.Equal(t, 3, g.NumOps())

	ops := g.Ops()
	assert.Equal(t, "h", ops[0].Kind)
	assert.Equal(t, []int{0, 1}, ops[1].Qargs)
	assert.Equal(t, qdag.KindMeasure, ops[2].Kind)
	assert.Equal(t, []int{1}, ops[2].Cargs)
}

func TestLoadCircuits_ParamsDurationCondition(t *testing.T) {
	t.Parallel()

	path := writeCircuit(t, "cond.hcl", `
circuit "cond" {
  qubits = 2
  clbits = 1

  op "measure" {
    qubits   = [0]
    clbits   = [0]
    duration = 20
  }

  op "rx" {
    qubits    = [1]
    params    = [1.57, 3]
    condition = [0]
    duration  = 8.5
  }
}
`)

	graphs, err := LoadCircuits(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, graphs, 1)

	ops := graphs[0].Ops()
	require.Len(t, ops, 2)

	require.NotNil(t, ops[0].Duration)
	assert.Equal(t, 20.0, *ops[0].Duration)

	rx := ops[1]
	assert.Equal(t, []float64{1.57, 3}, rx.Params)
	assert.Equal(t, []int{0}, rx.Condition)
	require.NotNil(t, rx.Duration)
	assert.Equal(t, 8.5, *rx.Duration)
}

func TestLoadCircuits_MultipleFilesAggregated(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`
circuit "a" {
  qubits = 1
}
`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(`
circuit "b" {
  qubits = 1
}
`), 0600))

	graphs, err := LoadCircuits(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, graphs, 2)
	// Discovery is sorted, so aggregation order is stable.
	assert.Equal(t, "a", graphs[0].Name)
	assert.Equal(t, "b", graphs[1].Name)
}

func TestLoadCircuits_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
	}{
		{name: "syntax error", content: `circuit "x" {`},
		{name: "missing qubits attribute", content: `circuit "x" {}`},
		{name: "wire out of range", content: `
circuit "x" {
  qubits = 1
  op "h" {
    qubits = [4]
  }
}
`},
		{name: "params not numeric", content: `
circuit "x" {
  qubits = 1
  op "rx" {
    qubits = [0]
    params = ["oops"]
  }
}
`},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeCircuit(t, "bad.hcl", tc.content)
			_, err := LoadCircuits(context.Background(), path)
			require.Error(t, err)
		})
	}
}

func TestLoadCircuits_EmptyDir(t *testing.T) {
	t.Parallel()

	graphs, err := LoadCircuits(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, graphs)
}
