package inference

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajitpratap0/typeinfer/pkg/frame"
)

func strs(values ...string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func TestSampleCapsAndSkipsNulls(t *testing.T) {
	values := make([]any, 0, 250)
	for i := 0; i < 250; i++ {
		if i%2 == 0 {
			values = append(values, nil)
			continue
		}
		values = append(values, fmt.Sprint(i))
	}
	col := frame.NewColumn("n", frame.Object, values)

	sample := Sample(col, DefaultSampleSize)
	assert.Len(t, sample, 100)
	assert.Equal(t, "1", sample[0])
	assert.Equal(t, "199", sample[99])

	short := frame.NewColumn("s", frame.Object, strs("a", "b"))
	assert.Equal(t, strs("a", "b"), Sample(short, DefaultSampleSize))
}

func TestMeetsThresholdZeroDenominator(t *testing.T) {
	assert.True(t, meetsThreshold(0, 0, DefaultMatchRatio))
	assert.True(t, meetsThreshold(4, 5, DefaultMatchRatio))
	assert.False(t, meetsThreshold(3, 5, DefaultMatchRatio))

	// Non-string cells never enter the counts, so every content checker
	// passes vacuously.
	nonText := []any{int64(1), 2.5, true}
	assert.True(t, IsBoolean(nonText))
	assert.True(t, IsInteger(nonText))
	assert.True(t, IsFloat(nonText))
	assert.True(t, IsDate(nonText))
	assert.True(t, IsBoolean(strs("", "")))
}

func TestIsBoolean(t *testing.T) {
	assert.True(t, IsBoolean(strs("Yes", "no", "Y", "0", "maybe")))
	assert.True(t, IsBoolean(strs("TRUE", "false", "t", "F", "n", "1")))
	assert.False(t, IsBoolean(strs("yes", "maybe", "perhaps")))
	assert.False(t, IsBoolean(strs(" yes", " no")), "tokens are not trimmed")
}

func TestIsInteger(t *testing.T) {
	assert.True(t, IsInteger(strs("1", " 2 ", "-3", "+4", "x")))
	assert.True(t, IsInteger(strs("", "", "7")))
	assert.True(t, IsInteger(strs("99999999999999999999")))
	assert.False(t, IsInteger(strs("1.5", "2.5")))
	assert.False(t, IsInteger(strs("1", "a", "b")))
}

func TestIsFloat(t *testing.T) {
	assert.True(t, IsFloat(strs("1.5", "2", "abc", "nan", "1e3")))
	assert.True(t, IsFloat(strs("50000.50", "62000.75", "48000.00")))
	assert.False(t, IsFloat(strs("1.5", "a", "b")))
}

func TestIsDate(t *testing.T) {
	assert.True(t, IsDate(strs(
		"2020-01-15",
		"01/15/2020",
		"1-15-20",
		"15 January 2020",
		"January 15, 2020",
	)))
	assert.True(t, IsDate(strs("2020-01-15T10:30:00Z", "2020-1-5 extra text")))
	assert.False(t, IsDate(strs("hello", "world", "2020-01-15")))
}

func TestIsCategorical(t *testing.T) {
	depts := []string{"IT", "HR", "Finance", "Sales", "Legal"}
	values := make([]any, 200)
	for i := range values {
		values[i] = depts[i%len(depts)]
	}
	assert.True(t, IsCategorical(frame.NewColumn("dept", frame.Object, values)))

	unique := make([]any, 30)
	for i := range unique {
		unique[i] = fmt.Sprintf("name-%d", i)
	}
	assert.False(t, IsCategorical(frame.NewColumn("name", frame.Object, unique)))

	lowRatio := make([]any, 1000)
	for i := range lowRatio {
		lowRatio[i] = fmt.Sprintf("code-%d", i%25)
	}
	assert.True(t, IsCategorical(frame.NewColumn("code", frame.Object, lowRatio)))

	ints := frame.NewColumn("i", frame.Int64, []any{int64(1), int64(1)})
	assert.False(t, IsCategorical(ints))
}
