package inference

import (
	"github.com/ajitpratap0/typeinfer/pkg/frame"
)

// TypeMapping is an ordered, read-only column → label assignment.
type TypeMapping struct {
	names  []string
	labels map[string]frame.DType
}

// MappingEntry is one column assignment.
type MappingEntry struct {
	Column string
	Label  frame.DType
}

// NewTypeMapping builds a mapping from entries. A repeated column keeps its
// first position and takes the last label.
func NewTypeMapping(entries ...MappingEntry) *TypeMapping {
	m := &TypeMapping{labels: make(map[string]frame.DType, len(entries))}
	for _, e := range entries {
		if _, ok := m.labels[e.Column]; !ok {
			m.names = append(m.names, e.Column)
		}
		m.labels[e.Column] = e.Label
	}
	return m
}

// Len returns the number of mapped columns.
func (m *TypeMapping) Len() int { return len(m.names) }

// Get returns the label assigned to column.
func (m *TypeMapping) Get(column string) (frame.DType, bool) {
	l, ok := m.labels[column]
	return l, ok
}

// Entries returns the assignments in order.
func (m *TypeMapping) Entries() []MappingEntry {
	out := make([]MappingEntry, len(m.names))
	for i, n := range m.names {
		out[i] = MappingEntry{Column: n, Label: m.labels[n]}
	}
	return out
}

// Map returns a copy of the assignments keyed by column.
func (m *TypeMapping) Map() map[string]string {
	out := make(map[string]string, len(m.labels))
	for k, v := range m.labels {
		out[k] = string(v)
	}
	return out
}
