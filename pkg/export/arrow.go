package export

import (
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/typeinfer/pkg/frame"
)

// dtypeMetadataKey records the native label of each field.
const dtypeMetadataKey = "typeinfer.dtype"

// arrowType maps a native label to its Arrow type.
func arrowType(dtype frame.DType) arrow.DataType {
	switch dtype {
	case frame.Int64:
		return arrow.PrimitiveTypes.Int64
	case frame.Float64:
		return arrow.PrimitiveTypes.Float64
	case frame.Bool:
		return arrow.FixedWidthTypes.Boolean
	case frame.Datetime:
		return arrow.FixedWidthTypes.Timestamp_ns
	case frame.Timedelta:
		return arrow.FixedWidthTypes.Duration_ns
	case frame.Category:
		return &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int32, ValueType: arrow.BinaryTypes.String}
	default:
		return arrow.BinaryTypes.String
	}
}

// ArrowSchema builds the Arrow schema for f.
func ArrowSchema(f *frame.Frame) *arrow.Schema {
	fields := make([]arrow.Field, f.NumCols())
	for i, col := range f.Columns() {
		fields[i] = arrow.Field{
			Name:     col.Name,
			Type:     arrowType(col.DType),
			Nullable: true,
			Metadata: arrow.NewMetadata([]string{dtypeMetadataKey}, []string{string(col.DType)}),
		}
	}
	return arrow.NewSchema(fields, nil)
}

// WriteArrow writes f as an Arrow IPC file holding one record batch.
func WriteArrow(w io.Writer, f *frame.Frame) error {
	pool := memory.NewGoAllocator()
	schema := ArrowSchema(f)

	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	for i, col := range f.Columns() {
		if err := appendColumn(builder.Field(i), col); err != nil {
			return fmt.Errorf("failed to append column %s: %w", col.Name, err)
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(pool))
	if err != nil {
		return fmt.Errorf("failed to create Arrow writer: %w", err)
	}
	if err := fw.Write(record); err != nil {
		return fmt.Errorf("failed to write record batch: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("failed to close Arrow writer: %w", err)
	}
	return nil
}

func appendColumn(builder array.Builder, col *frame.Column) error {
	for _, v := range col.Values {
		if frame.IsNull(v) {
			builder.AppendNull()
			continue
		}
		if err := appendArrowValue(builder, v); err != nil {
			return err
		}
	}
	return nil
}

// appendArrowValue appends one non-null cell. Cells that do not fit the
// builder's type are appended as null.
func appendArrowValue(builder array.Builder, value interface{}) error {
	switch b := builder.(type) {
	case *array.BooleanBuilder:
		if v, ok := value.(bool); ok {
			b.Append(v)
		} else {
			b.AppendNull()
		}

	case *array.Int64Builder:
		switch v := value.(type) {
		case int:
			b.Append(int64(v))
		case int64:
			b.Append(v)
		default:
			b.AppendNull()
		}

	case *array.Float64Builder:
		if v, ok := value.(float64); ok {
			b.Append(v)
		} else {
			b.AppendNull()
		}

	case *array.TimestampBuilder:
		if v, ok := value.(time.Time); ok {
			b.Append(arrow.Timestamp(v.UnixNano()))
		} else {
			b.AppendNull()
		}

	case *array.DurationBuilder:
		if v, ok := value.(time.Duration); ok {
			b.Append(arrow.Duration(v))
		} else {
			b.AppendNull()
		}

	case *array.BinaryDictionaryBuilder:
		return b.AppendString(frame.Format(value))

	case *array.StringBuilder:
		b.Append(frame.Format(value))

	default:
		return fmt.Errorf("unsupported builder type: %T", builder)
	}

	return nil
}
