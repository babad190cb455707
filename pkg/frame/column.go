package frame

import (
	"sort"
	"time"
)

const (
	// stringHeaderBytes is the per-cell overhead of a string header.
	stringHeaderBytes = 16
	// cellRefBytes is the per-cell reference size of an object column.
	cellRefBytes = 8
)

// Column is a named, typed sequence of cells.
type Column struct {
	Name  string
	DType DType
	// Values holds one cell per row; nil marks a null.
	Values []any
	// Categories is the sorted dictionary of a category column.
	Categories []string
}

// NewColumn creates a column. The values slice is used as-is.
func NewColumn(name string, dtype DType, values []any) *Column {
	return &Column{Name: name, DType: dtype, Values: values}
}

// NewCategoryColumn relabels values as a category column and builds its
// dictionary. Values are not modified.
func NewCategoryColumn(name string, values []any) *Column {
	seen := make(map[string]struct{})
	cats := make([]string, 0)
	for _, v := range values {
		if IsNull(v) {
			continue
		}
		s := Format(v)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		cats = append(cats, s)
	}
	sort.Strings(cats)
	return &Column{Name: name, DType: Category, Values: values, Categories: cats}
}

// Len returns the number of rows.
func (c *Column) Len() int { return len(c.Values) }

// Clone returns a copy that shares no slices with c.
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, DType: c.DType}
	out.Values = make([]any, len(c.Values))
	copy(out.Values, c.Values)
	if c.Categories != nil {
		out.Categories = make([]string, len(c.Categories))
		copy(out.Categories, c.Categories)
	}
	return out
}

// Head returns up to n non-null cells in row order.
func (c *Column) Head(n int) []any {
	if n < 0 {
		n = 0
	}
	out := make([]any, 0, n)
	for _, v := range c.Values {
		if len(out) >= n {
			break
		}
		if !IsNull(v) {
			out = append(out, v)
		}
	}
	return out
}

// NullCount returns the number of null cells.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if IsNull(v) {
			n++
		}
	}
	return n
}

// NonNullCount returns the number of non-null cells.
func (c *Column) NonNullCount() int {
	return len(c.Values) - c.NullCount()
}

// AllNull reports whether every cell is null. An empty column is all null.
func (c *Column) AllNull() bool {
	for _, v := range c.Values {
		if !IsNull(v) {
			return false
		}
	}
	return true
}

// UniqueCount returns the number of distinct non-null cells.
func (c *Column) UniqueCount() int {
	seen := make(map[any]struct{})
	for _, v := range c.Values {
		if IsNull(v) {
			continue
		}
		seen[Key(v)] = struct{}{}
	}
	return len(seen)
}

// MemoryUsage estimates the bytes held by the column, including string
// payloads and the category dictionary.
func (c *Column) MemoryUsage() int64 {
	n := int64(len(c.Values))
	switch c.DType {
	case Int64, Float64, Datetime, Timedelta:
		return n * 8
	case Complex:
		return n * 16
	case Bool:
		return n
	case Category:
		var total int64
		for _, s := range c.Categories {
			total += stringHeaderBytes + int64(len(s))
		}
		return total + n*codeWidth(len(c.Categories))
	default:
		var total int64
		for _, v := range c.Values {
			total += cellRefBytes + cellBytes(v)
		}
		return total
	}
}

// codeWidth returns the smallest signed integer width that can index k
// categories (with -1 reserved for null).
func codeWidth(k int) int64 {
	switch {
	case k < 1<<7:
		return 1
	case k < 1<<15:
		return 2
	default:
		return 4
	}
}

// cellBytes returns the payload size of a boxed cell.
func cellBytes(v any) int64 {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return stringHeaderBytes + int64(len(x))
	case bool:
		return 1
	case complex128:
		return 16
	case time.Time:
		return 24
	default:
		return 8
	}
}
