// Package ast defines the configuration model consumed by the target compiler.
// A Metric is the resolved, per-series configuration: a base series, an optional
// target override, and any number of function keys mapped to raw arguments.
package ast

import "sort"

// Reserved metric keys understood by the compiler
const (
	// KeySeries holds the base series path
	KeySeries = "series"
	// KeyTarget holds a fully formed expression that bypasses compilation
	KeyTarget = "target"
)

// SourceLocation tracks where a metric was declared in a graph definition file
type SourceLocation struct {
	Line   int // Line number (1-indexed)
	Column int // Column number (1-indexed)
}

// IsZero reports whether the location is unknown
func (l SourceLocation) IsZero() bool {
	return l.Line == 0 && l.Column == 0
}

// Metric is the configuration for one target series.
//
// Keys keep their insertion order. Setting an existing key replaces its value
// without moving it, which gives parent/child merges the same shape as the
// parent definition with child-only keys appended.
type Metric struct {
	Name string         // Section or series name (informational)
	File string         // Definition file (optional)
	Loc  SourceLocation // Declaration position (optional)

	keys   []string
	values map[string]any
}

// NewMetric creates an empty metric configuration
func NewMetric(name string) *Metric {
	return &Metric{
		Name:   name,
		values: make(map[string]any),
	}
}

// FromMap builds a metric from an unordered map. Keys are inserted in sorted
// order so that the result does not depend on Go map iteration.
func FromMap(values map[string]any) *Metric {
	m := NewMetric("")
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.Set(k, values[k])
	}
	return m
}

// Set stores a value and returns the metric for chaining
func (m *Metric) Set(key string, value any) *Metric {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

// Get returns the value stored under key
func (m *Metric) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes a key
func (m *Metric) Delete(key string) {
	if _, exists := m.values[key]; !exists {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Pop removes key and returns its value, or def when the key is absent
func (m *Metric) Pop(key string, def any) any {
	v, ok := m.values[key]
	if !ok {
		return def
	}
	m.Delete(key)
	return v
}

// Has reports whether key is present
func (m *Metric) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in insertion order
func (m *Metric) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of keys
func (m *Metric) Len() int {
	return len(m.keys)
}

// Clone returns a shallow copy of the metric
func (m *Metric) Clone() *Metric {
	c := NewMetric(m.Name)
	c.File = m.File
	c.Loc = m.Loc
	for _, k := range m.keys {
		c.Set(k, m.values[k])
	}
	return c
}

// Merge overlays other onto a copy of m. Values from other win.
func (m *Metric) Merge(other *Metric) *Metric {
	out := m.Clone()
	if other == nil {
		return out
	}
	for _, k := range other.keys {
		out.Set(k, other.values[k])
	}
	return out
}

// ToMap returns the values as a plain map
func (m *Metric) ToMap() map[string]any {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = m.values[k]
	}
	return out
}
