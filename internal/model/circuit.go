package model

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/passgridgo/internal/ctxlog"
	"github.com/vk/passgridgo/internal/fsutil"
	"github.com/vk/passgridgo/internal/qdag"
)

// hclCircuitFile is the top-level structure of a circuit file for decoding.
type hclCircuitFile struct {
	Circuits []*hclCircuit `hcl:"circuit,block"`
}

type hclCircuit struct {
	Name   string   `hcl:"name,label"`
	Qubits int      `hcl:"qubits"`
	Clbits int      `hcl:"clbits,optional"`
	Ops    []*hclOp `hcl:"op,block"`
}

type hclOp struct {
	Kind      string         `hcl:"kind,label"`
	Qubits    []int          `hcl:"qubits"`
	Clbits    []int          `hcl:"clbits,optional"`
	Condition []int          `hcl:"condition,optional"`
	Duration  *float64       `hcl:"duration,optional"`
	Params    hcl.Expression `hcl:"params,optional"`
}

// paramsFromExpr evaluates an op's params expression into a numeric list.
func paramsFromExpr(expr hcl.Expression) ([]float64, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate params: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	listVal, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		return nil, fmt.Errorf("params must be a list of numbers: %w", err)
	}
	params := make([]float64, 0, listVal.LengthInt())
	for _, v := range listVal.AsValueSlice() {
		f, _ := v.AsBigFloat().Float64()
		params = append(params, f)
	}
	return params, nil
}

// graphFromHCL builds one program graph from a decoded circuit block.
func graphFromHCL(c *hclCircuit, filePath string) (*qdag.Graph, error) {
	if c.Qubits < 0 || c.Clbits < 0 {
		return nil, fmt.Errorf("circuit %q in %s declares negative wire counts", c.Name, filePath)
	}
	g := qdag.New(c.Name, c.Qubits, c.Clbits)
	for i, o := range c.Ops {
		params, err := paramsFromExpr(o.Params)
		if err != nil {
			return nil, fmt.Errorf("circuit %q op %d (%s) in %s: %w", c.Name, i, o.Kind, filePath, err)
		}
		op := &qdag.Op{
			Kind:      o.Kind,
			Qargs:     o.Qubits,
			Cargs:     o.Clbits,
			Condition: o.Condition,
			Params:    params,
		}
		if o.Duration != nil {
			d := *o.Duration
			op.Duration = &d
		}
		if _, err := g.ApplyBack(op); err != nil {
			return nil, fmt.Errorf("circuit %q op %d in %s: %w", c.Name, i, filePath, err)
		}
	}
	return g, nil
}

// circuitsFromFile parses a single HCL file and returns the graphs found in it.
func circuitsFromFile(filePath string, parser *hclparse.Parser) ([]*qdag.Graph, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
	}

	var parsed hclCircuitFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
	}

	graphs := make([]*qdag.Graph, 0, len(parsed.Circuits))
	for _, c := range parsed.Circuits {
		g, err := graphFromHCL(c, filePath)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}

// LoadCircuits finds and parses all .hcl circuit files under the given path
// (a single file or a directory walked recursively).
func LoadCircuits(ctx context.Context, path string) ([]*qdag.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading circuits from path", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find circuit files in %s: %w", path, err)
	}
	if len(files) == 0 {
		logger.Warn("No .hcl circuit files found in path", "path", path)
		return nil, nil
	}

	parser := hclparse.NewParser()
	var graphs []*qdag.Graph
	for _, file := range files {
		fromFile, err := circuitsFromFile(file, parser)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, fromFile...)
	}
	logger.Debug("Circuits loaded.", "count", len(graphs))
	return graphs, nil
}
