package inference

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ajitpratap0/typeinfer/pkg/errors"
	"github.com/ajitpratap0/typeinfer/pkg/frame"
)

// ConversionStatus is the outcome of converting one column.
type ConversionStatus string

const (
	StatusConverted ConversionStatus = "converted"
	StatusFailed    ConversionStatus = "failed"
	StatusSkipped   ConversionStatus = "skipped"
)

// ColumnResult reports what happened to one mapped column.
type ColumnResult struct {
	Column string           `json:"column"`
	Target frame.DType      `json:"target"`
	Status ConversionStatus `json:"status"`
	Err    error            `json:"-"`
}

// Error returns the failure message, or "" on success.
func (r ColumnResult) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// convertColumn builds the converted version of col. Datetime and boolean
// targets coerce bad cells to null; every other target fails the whole
// column on the first bad cell.
func convertColumn(col *frame.Column, target frame.DType) (*frame.Column, error) {
	switch target {
	case frame.Datetime:
		return coerceEach(col, target, coerceDatetime), nil
	case frame.Bool:
		return coerceEach(col, target, coerceBool), nil
	case frame.Category:
		return frame.NewCategoryColumn(col.Name, cloneValues(col.Values)), nil
	case frame.Object:
		return frame.NewColumn(col.Name, frame.Object, cloneValues(col.Values)), nil
	case frame.Int64:
		return castEach(col, target, castInt64)
	case frame.Float64:
		return castEach(col, target, castFloat64)
	case frame.Timedelta:
		return castEach(col, target, castTimedelta)
	case frame.Complex:
		return castEach(col, target, castComplex)
	default:
		return nil, errors.Newf(errors.ErrorTypeConversion, "unsupported target type %q", target)
	}
}

func cloneValues(values []any) []any {
	out := make([]any, len(values))
	copy(out, values)
	return out
}

func coerceEach(col *frame.Column, target frame.DType, fn func(any) any) *frame.Column {
	out := make([]any, len(col.Values))
	for i, v := range col.Values {
		if frame.IsNull(v) {
			continue
		}
		out[i] = fn(v)
	}
	return frame.NewColumn(col.Name, target, out)
}

func castEach(col *frame.Column, target frame.DType, fn func(any) (any, error)) (*frame.Column, error) {
	out := make([]any, len(col.Values))
	for i, v := range col.Values {
		c, err := fn(v)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConversion, fmt.Sprintf("row %d", i))
		}
		out[i] = c
	}
	return frame.NewColumn(col.Name, target, out), nil
}

func castError(v any, target frame.DType) error {
	if frame.IsNull(v) {
		return errors.Newf(errors.ErrorTypeConversion, "cannot convert null to %s", target)
	}
	return errors.Newf(errors.ErrorTypeConversion, "cannot cast %q to %s", frame.Format(v), target)
}

func coerceDatetime(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x
	case string:
		t, err := parseDate(x)
		if err != nil {
			return nil
		}
		return t
	case int64:
		return time.Unix(0, x).UTC()
	case int:
		return time.Unix(0, int64(x)).UTC()
	case float64:
		if math.IsInf(x, 0) {
			return nil
		}
		return time.Unix(0, int64(x)).UTC()
	default:
		return nil
	}
}

func coerceBool(v any) any {
	b, ok := booleanVocabulary[strings.ToLower(strings.TrimSpace(frame.Format(v)))]
	if !ok {
		return nil
	}
	return b
}

// castInt64 rejects nulls: an integer column cannot hold a missing value.
func castInt64(v any) (any, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case bool:
		if x {
			return int64(1), nil
		}
		return int64(0), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x >= math.MaxInt64 || x < math.MinInt64 {
			return nil, castError(v, frame.Int64)
		}
		return int64(x), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return nil, castError(v, frame.Int64)
		}
		return n, nil
	case time.Time:
		return x.UnixNano(), nil
	case time.Duration:
		return int64(x), nil
	default:
		return nil, castError(v, frame.Int64)
	}
}

func castFloat64(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case bool:
		if x {
			return 1.0, nil
		}
		return 0.0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, castError(v, frame.Float64)
		}
		return f, nil
	default:
		return nil, castError(v, frame.Float64)
	}
}

func castTimedelta(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case time.Duration:
		return x, nil
	case int64:
		return time.Duration(x), nil
	case int:
		return time.Duration(x), nil
	case float64:
		if math.IsNaN(x) {
			return nil, nil
		}
		if math.IsInf(x, 0) {
			return nil, castError(v, frame.Timedelta)
		}
		return time.Duration(x), nil
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(x))
		if err != nil {
			return nil, castError(v, frame.Timedelta)
		}
		return d, nil
	default:
		return nil, castError(v, frame.Timedelta)
	}
}

func castComplex(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case complex128:
		return x, nil
	case float64:
		return complex(x, 0), nil
	case int64:
		return complex(float64(x), 0), nil
	case int:
		return complex(float64(x), 0), nil
	case bool:
		if x {
			return complex(1, 0), nil
		}
		return complex(0, 0), nil
	case string:
		c, err := strconv.ParseComplex(strings.TrimSpace(x), 128)
		if err != nil {
			return nil, castError(v, frame.Complex)
		}
		return c, nil
	default:
		return nil, castError(v, frame.Complex)
	}
}
