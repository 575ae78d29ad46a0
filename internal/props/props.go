// Package props implements the property set: a string-keyed heterogeneous
// scratch space shared by every pass within a single pipeline run.
//
// A fresh Set is created by the pass manager for each run and handed to every
// pass in turn. Passes communicate exclusively through it: analysis passes
// deposit results, flow-control predicates read them, and the caller can
// inspect the final Set after the run completes.
//
// The Set is not safe for concurrent use. The engine runs passes strictly
// sequentially and gives every concurrent pipeline run its own Set, so no
// locking is needed here.
package props

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound reports a key with no value in the set.
var ErrNotFound = errors.New("property not found")

// ErrWrongType reports a value present under the key but of a different type
// than the accessor expected.
var ErrWrongType = errors.New("property has wrong type")

// Set is the shared mutable scratch space for one pipeline run.
type Set struct {
	values map[string]any
}

// New creates an empty property set.
func New() *Set {
	return &Set{values: make(map[string]any)}
}

// Put stores a value under the given key, replacing any previous value.
func (s *Set) Put(key string, value any) {
	s.values[key] = value
}

// Get returns the raw value stored under key, and whether it exists.
func (s *Set) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Delete removes the key from the set. Deleting an absent key is a no-op.
func (s *Set) Delete(key string) {
	delete(s.values, key)
}

// Has reports whether the key holds a value.
func (s *Set) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Len returns the number of stored properties.
func (s *Set) Len() int {
	return len(s.values)
}

// Keys returns all stored keys in sorted order.
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Int returns the int stored under key.
func (s *Set) Int(key string) (int, error) {
	v, ok := s.values[key]
	if !ok {
		return 0, fmt.Errorf("property %q: %w", key, ErrNotFound)
	}
	i, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("property %q holds %T, want int: %w", key, v, ErrWrongType)
	}
	return i, nil
}

// Float returns the float64 stored under key. Stored ints are widened.
func (s *Set) Float(key string) (float64, error) {
	v, ok := s.values[key]
	if !ok {
		return 0, fmt.Errorf("property %q: %w", key, ErrNotFound)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, fmt.Errorf("property %q holds %T, want float64: %w", key, v, ErrWrongType)
}

// Bool returns the bool stored under key.
func (s *Set) Bool(key string) (bool, error) {
	v, ok := s.values[key]
	if !ok {
		return false, fmt.Errorf("property %q: %w", key, ErrNotFound)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("property %q holds %T, want bool: %w", key, v, ErrWrongType)
	}
	return b, nil
}

// String returns the string stored under key.
func (s *Set) String(key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", fmt.Errorf("property %q: %w", key, ErrNotFound)
	}
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("property %q holds %T, want string: %w", key, v, ErrWrongType)
	}
	return str, nil
}
