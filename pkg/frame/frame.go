package frame

import (
	"github.com/ajitpratap0/typeinfer/pkg/errors"
)

// indexBytes is the fixed footprint of the implicit row index.
const indexBytes = 128

// Frame is an ordered set of equal-length columns.
type Frame struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a frame from columns. Column names must be unique and every
// column must have the same length.
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{
		columns: make([]*Column, 0, len(cols)),
		index:   make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if c == nil {
			return nil, errors.Newf(errors.ErrorTypeValidation, "column %d is nil", i)
		}
		if _, dup := f.index[c.Name]; dup {
			return nil, errors.Newf(errors.ErrorTypeValidation, "duplicate column %q", c.Name)
		}
		if i == 0 {
			f.rows = c.Len()
		} else if c.Len() != f.rows {
			return nil, errors.Newf(errors.ErrorTypeValidation, "column %q has %d rows, expected %d", c.Name, c.Len(), f.rows)
		}
		f.index[c.Name] = i
		f.columns = append(f.columns, c)
	}
	return f, nil
}

// MustNew is New that panics on error. Intended for tests and fixtures.
func MustNew(cols ...*Column) *Frame {
	f, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return f
}

// NumRows returns the row count.
func (f *Frame) NumRows() int { return f.rows }

// NumCols returns the column count.
func (f *Frame) NumCols() int { return len(f.columns) }

// Columns returns the columns in order. The slice must not be modified.
func (f *Frame) Columns() []*Column { return f.columns }

// ColumnAt returns the i-th column.
func (f *Frame) ColumnAt(i int) *Column { return f.columns[i] }

// Column looks up a column by name.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.columns[i], true
}

// Has reports whether the frame has a column named name.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.columns))
	for i, c := range f.columns {
		out[i] = c.Name
	}
	return out
}

// Row returns the cells of row i in column order.
func (f *Frame) Row(i int) []any {
	out := make([]any, len(f.columns))
	for j, c := range f.columns {
		out[j] = c.Values[i]
	}
	return out
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	cols := make([]*Column, len(f.columns))
	for i, c := range f.columns {
		cols[i] = c.Clone()
	}
	out := &Frame{columns: cols, index: make(map[string]int, len(cols)), rows: f.rows}
	for i, c := range cols {
		out.index[c.Name] = i
	}
	return out
}

// Replace swaps the column with the same name in place.
func (f *Frame) Replace(col *Column) error {
	i, ok := f.index[col.Name]
	if !ok {
		return errors.Newf(errors.ErrorTypeNotFound, "column %q not found", col.Name)
	}
	if col.Len() != f.rows {
		return errors.Newf(errors.ErrorTypeValidation, "column %q has %d rows, expected %d", col.Name, col.Len(), f.rows)
	}
	f.columns[i] = col
	return nil
}

// DTypes returns the native label of every column in order.
func (f *Frame) DTypes() []DType {
	out := make([]DType, len(f.columns))
	for i, c := range f.columns {
		out[i] = c.DType
	}
	return out
}

// MemoryUsage estimates the bytes held by the frame.
func (f *Frame) MemoryUsage() int64 {
	total := int64(indexBytes)
	for _, c := range f.columns {
		total += c.MemoryUsage()
	}
	return total
}
