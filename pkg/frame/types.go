// Package frame provides the in-memory tabular container that the inference
// engine classifies and converts.
//
// A Frame is an ordered list of named columns of equal length. Every column
// carries a native type label (DType) and a slice of cells. A cell is either
// nil (null) or a scalar whose Go type matches the label:
//
//	object           string (or any scalar when mixed)
//	int64            int64
//	float64          float64 (NaN counts as null)
//	datetime64[ns]   time.Time
//	bool             bool
//	category         string, plus the sorted category dictionary
//	timedelta64[ns]  time.Duration
//	complex128       complex128
//
// Cells are immutable scalars, so cloning a frame copies slices only.
package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DType is a native column type label.
type DType string

const (
	Object    DType = "object"
	Int64     DType = "int64"
	Float64   DType = "float64"
	Datetime  DType = "datetime64[ns]"
	Bool      DType = "bool"
	Category  DType = "category"
	Timedelta DType = "timedelta64[ns]"
	Complex   DType = "complex128"
)

func (d DType) String() string { return string(d) }

// IsGeneric reports whether d is the untyped text label.
func (d DType) IsGeneric() bool { return d == Object }

// IsNull reports whether v is a missing value.
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	default:
		return false
	}
}

// timeKey and durationKey keep time values from colliding with int64 keys.
type timeKey struct{ ns int64 }
type durationKey struct{ ns int64 }

// Key returns a comparable key for v so that equal cells map to the same key.
func Key(v any) any {
	switch x := v.(type) {
	case time.Time:
		return timeKey{x.UnixNano()}
	case time.Duration:
		return durationKey{int64(x)}
	case float32:
		return float64(x)
	case int:
		return int64(x)
	case int32:
		return int64(x)
	default:
		return v
	}
}

// Format renders a cell the way a dataframe prints it: floats always carry a
// fractional part, booleans are capitalised, nulls are empty.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case time.Time:
		return formatTime(x)
	case time.Duration:
		return x.String()
	case complex128:
		return strconv.FormatComplex(x, 'g', -1, 128)
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatTime(t time.Time) string {
	if t.Nanosecond() != 0 {
		return t.Format("2006-01-02 15:04:05.999999999")
	}
	return t.Format("2006-01-02 15:04:05")
}
