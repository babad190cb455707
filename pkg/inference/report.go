package inference

import (
	"math"
	"time"

	"github.com/ajitpratap0/typeinfer/pkg/frame"
)

// Report describes a frame and the label the classifier assigns to each of
// its columns.
type Report struct {
	TotalRows        int            `json:"total_rows"`
	TotalColumns     int            `json:"total_columns"`
	MemoryUsageBytes int64          `json:"memory_usage_bytes"`
	Columns          []ColumnReport `json:"columns"`
}

// ColumnReport is one column of a Report.
type ColumnReport struct {
	Name                string `json:"name"`
	CurrentType         string `json:"current_type"`
	CurrentDisplayType  string `json:"current_display_type"`
	InferredType        string `json:"inferred_type"`
	InferredDisplayType string `json:"inferred_display_type"`
	NonNullCount        int    `json:"non_null_count"`
	NullCount           int    `json:"null_count"`
	UniqueCount         int    `json:"unique_count"`
	SampleValues        []any  `json:"sample_values"`
	// Classified is false when no rule matched; InferredType then reads
	// object but the column is left out of InferredMapping.
	Classified bool `json:"-"`
}

// Column returns the entry for name.
func (r *Report) Column(name string) (*ColumnReport, bool) {
	for i := range r.Columns {
		if r.Columns[i].Name == name {
			return &r.Columns[i], true
		}
	}
	return nil, false
}

// InferredMapping returns the labels of the classified columns in column
// order.
func (r *Report) InferredMapping() *TypeMapping {
	entries := make([]MappingEntry, 0, len(r.Columns))
	for _, c := range r.Columns {
		if !c.Classified {
			continue
		}
		entries = append(entries, MappingEntry{Column: c.Name, Label: frame.DType(c.InferredType)})
	}
	return NewTypeMapping(entries...)
}

// reportValue turns a cell into something every JSON encoder accepts.
func reportValue(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsInf(x, 0) {
			return frame.Format(x)
		}
		return x
	case time.Time:
		return frame.Format(x)
	case time.Duration, complex128:
		return frame.Format(x)
	default:
		return v
	}
}
