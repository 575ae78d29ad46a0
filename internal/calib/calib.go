// Package calib provides the calibration table scheduling passes resolve
// operation durations from: a lookup keyed by operation kind, the physical
// qubit indices involved, and the operation's numeric parameters.
//
// Tables are loaded from YAML files so device calibration dumps can be
// consumed directly. Lookup falls back from the most specific entry
// (kind, qubits, params) through (kind, qubits) to a kind-wide default.
package calib

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultUnit is the time unit assumed when a table does not declare one.
const DefaultUnit = "dt"

// Durations maps operations to resolved durations in a single time unit.
type Durations struct {
	unit    string
	entries map[string]float64
}

// New creates an empty table with the given time unit. An empty unit selects
// DefaultUnit.
func New(unit string) *Durations {
	if unit == "" {
		unit = DefaultUnit
	}
	return &Durations{unit: unit, entries: make(map[string]float64)}
}

// Unit returns the table's time unit.
func (d *Durations) Unit() string { return d.unit }

// Len returns the number of entries in the table.
func (d *Durations) Len() int { return len(d.entries) }

// Add records a duration for the given operation kind. Qubits and params may
// be nil to register a kind-wide default.
func (d *Durations) Add(kind string, qubits []int, params []float64, duration float64) {
	d.entries[key(kind, qubits, params)] = duration
}

// Lookup resolves the duration for an operation, trying the most specific
// entry first: (kind, qubits, params), then (kind, qubits), then the
// kind-wide default.
func (d *Durations) Lookup(kind string, qubits []int, params []float64) (float64, bool) {
	if v, ok := d.entries[key(kind, qubits, params)]; ok {
		return v, true
	}
	if len(params) > 0 {
		if v, ok := d.entries[key(kind, qubits, nil)]; ok {
			return v, true
		}
	}
	if len(qubits) > 0 || len(params) > 0 {
		if v, ok := d.entries[key(kind, nil, nil)]; ok {
			return v, true
		}
	}
	return 0, false
}

// key builds the composite map key for one entry.
func key(kind string, qubits []int, params []float64) string {
	var sb strings.Builder
	sb.WriteString(kind)
	sb.WriteByte('|')
	for i, q := range qubits {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(q))
	}
	sb.WriteByte('|')
	for i, p := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(p, 'g', -1, 64))
	}
	return sb.String()
}

// yamlFile is the on-disk table layout.
type yamlFile struct {
	Unit      string      `yaml:"unit"`
	Durations []yamlEntry `yaml:"durations"`
}

type yamlEntry struct {
	Op       string    `yaml:"op"`
	Qubits   []int     `yaml:"qubits"`
	Params   []float64 `yaml:"params"`
	Duration *float64  `yaml:"duration"`
}

// Parse builds a table from YAML data.
func Parse(data []byte) (*Durations, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode calibration YAML: %w", err)
	}

	table := New(f.Unit)
	for i, e := range f.Durations {
		if e.Op == "" {
			return nil, fmt.Errorf("calibration entry %d is missing an op name", i)
		}
		if e.Duration == nil {
			return nil, fmt.Errorf("calibration entry %d (%s) is missing a duration", i, e.Op)
		}
		table.Add(e.Op, e.Qubits, e.Params, *e.Duration)
	}
	return table, nil
}

// Load reads and parses a calibration table file.
func Load(path string) (*Durations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calibration file %s: %w", path, err)
	}
	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("calibration file %s: %w", path, err)
	}
	return table, nil
}
