package frame

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/typeinfer/pkg/errors"
)

func TestNewValidatesShape(t *testing.T) {
	_, err := New(
		NewColumn("a", Object, []any{"x", "y"}),
		NewColumn("b", Object, []any{"x"}),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "b" has 1 rows`)

	_, err = New(
		NewColumn("a", Object, []any{"x"}),
		NewColumn("a", Object, []any{"y"}),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestFrameAccessors(t *testing.T) {
	f := MustNew(
		NewColumn("id", Int64, []any{int64(1), int64(2)}),
		NewColumn("name", Object, []any{"a", nil}),
	)

	assert.Equal(t, 2, f.NumRows())
	assert.Equal(t, 2, f.NumCols())
	assert.Equal(t, []string{"id", "name"}, f.Names())
	assert.Equal(t, []DType{Int64, Object}, f.DTypes())
	assert.Equal(t, []any{int64(2), nil}, f.Row(1))

	c, ok := f.Column("name")
	require.True(t, ok)
	assert.Equal(t, 1, c.NullCount())
	assert.Equal(t, 1, c.NonNullCount())
	assert.False(t, f.Has("missing"))
}

func TestCloneIsIndependent(t *testing.T) {
	f := MustNew(NewColumn("a", Object, []any{"x", "y"}))
	g := f.Clone()

	g.ColumnAt(0).Values[0] = "changed"
	assert.Equal(t, "x", f.ColumnAt(0).Values[0])

	require.NoError(t, g.Replace(NewColumn("a", Int64, []any{int64(1), int64(2)})))
	assert.Equal(t, Object, f.ColumnAt(0).DType)
	assert.Equal(t, Int64, g.ColumnAt(0).DType)
}

func TestReplaceRejectsUnknownOrRagged(t *testing.T) {
	f := MustNew(NewColumn("a", Object, []any{"x", "y"}))
	err := f.Replace(NewColumn("b", Object, []any{"x", "y"}))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	err = f.Replace(NewColumn("a", Object, []any{"x"}))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestIsNull(t *testing.T) {
	assert.True(t, IsNull(nil))
	assert.True(t, IsNull(math.NaN()))
	assert.False(t, IsNull(""))
	assert.False(t, IsNull(0.0))
	assert.False(t, IsNull(false))
}

func TestColumnStatistics(t *testing.T) {
	ts := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	c := NewColumn("mixed", Object, []any{"a", "a", nil, "b", ts, ts, math.NaN()})

	assert.Equal(t, 2, c.NullCount())
	assert.Equal(t, 3, c.UniqueCount())
	assert.Equal(t, []any{"a", "a"}, c.Head(2))
	assert.Equal(t, []any{"a", "a", "b", ts, ts}, c.Head(10))
	assert.False(t, c.AllNull())
	assert.True(t, NewColumn("e", Object, nil).AllNull())
	assert.True(t, NewColumn("n", Object, []any{nil, nil}).AllNull())
}

func TestCategoryColumnDictionary(t *testing.T) {
	c := NewCategoryColumn("dept", []any{"IT", "HR", "IT", nil, "Finance"})
	assert.Equal(t, Category, c.DType)
	assert.Equal(t, []string{"Finance", "HR", "IT"}, c.Categories)
	assert.Equal(t, []any{"IT", "HR", "IT", nil, "Finance"}, c.Values)
}

func TestMemoryUsageIsContentAware(t *testing.T) {
	short := NewColumn("s", Object, []any{"a", "b"})
	long := NewColumn("s", Object, []any{"aaaaaaaaaa", "bbbbbbbbbb"})
	assert.Greater(t, long.MemoryUsage(), short.MemoryUsage())
	assert.Equal(t, int64(2*(8+16+1)), short.MemoryUsage())

	ints := NewColumn("i", Int64, []any{int64(1), int64(2), int64(3)})
	assert.Equal(t, int64(24), ints.MemoryUsage())

	bools := NewColumn("b", Bool, []any{true, false})
	assert.Equal(t, int64(2), bools.MemoryUsage())

	cat := NewCategoryColumn("c", []any{"x", "y", "x", "x"})
	assert.Equal(t, int64(2*(16+1)+4), cat.MemoryUsage())

	f := MustNew(ints, bools)
	assert.Equal(t, int64(128+24+2), f.MemoryUsage())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "True"},
		{false, "False"},
		{int64(-3), "-3"},
		{1.0, "1.0"},
		{0.5, "0.5"},
		{1234567.0, "1234567.0"},
		{1e16, "1e+16"},
		{math.NaN(), "nan"},
		{time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), "2020-01-15 00:00:00"},
		{time.Second, "1s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in), "Format(%#v)", tt.in)
	}
}
