package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/typeinfer/pkg/errors"
	"github.com/ajitpratap0/typeinfer/pkg/frame"
)

const utf8BOM = "\ufeff"

// rawTable is a header plus rows of cell text. Rows may be shorter than the
// header. times holds spreadsheet cells that are already timestamps.
type rawTable struct {
	header []string
	rows   [][]string
	times  map[cellRef]time.Time
}

// cellRef addresses a data cell; row 0 is the first row after the header.
type cellRef struct {
	row, col int
}

// parseDelimited reads delimited text. Stray quotes inside unquoted fields
// are kept as text; rows wider than the header are parse errors.
func parseDelimited(src io.Reader, delimiter rune) (*rawTable, error) {
	r := csv.NewReader(src)
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrorTypeFile, "no columns to parse from file")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "error tokenizing data")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	table := &rawTable{header: header}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "error tokenizing data")
		}
		if len(rec) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, errors.Newf(errors.ErrorTypeParse,
				"error tokenizing data: expected %d fields in line %d, saw %d", len(header), line, len(rec))
		}
		table.rows = append(table.rows, rec)
	}
	return table, nil
}

// tableFromRows uses the first row as header. Rows wider than the header
// get unnamed columns; trailing empty rows are dropped.
func tableFromRows(rows [][]string) *rawTable {
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return &rawTable{}
	}
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	header := make([]string, width)
	copy(header, rows[0])
	return &rawTable{header: header, rows: rows[1:]}
}

// build turns the table into a frame, applying null tokens and native
// typing.
func (l *Loader) build(t *rawTable) (*frame.Frame, error) {
	names := mangleHeader(t.header)
	cols := make([]*frame.Column, len(names))
	for j, name := range names {
		values := make([]any, len(t.rows))
		in := newInterner(maxInterned)
		for i, row := range t.rows {
			if j >= len(row) {
				continue
			}
			if _, isNull := l.nulls[row[j]]; isNull {
				continue
			}
			if ts, ok := t.times[cellRef{row: i, col: j}]; ok {
				values[i] = ts
				continue
			}
			values[i] = in.cell(row[j])
		}
		size, hits, misses := in.stats()
		l.logger.Debug("interned column cells",
			zap.String("column", name),
			zap.Int("distinct", size),
			zap.Int("hits", hits),
			zap.Int("misses", misses))

		dtype := frame.Object
		if l.cfg.NativeTypes {
			dtype, values = nativeType(values)
		}
		cols[j] = frame.NewColumn(name, dtype, values)
	}
	return frame.New(cols...)
}

// mangleHeader names blank headers "Unnamed: i" and suffixes duplicates
// with ".1", ".2" and so on.
func mangleHeader(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		out[i] = h
	}

	used := make(map[string]bool, len(out))
	counts := make(map[string]int)
	for i, name := range out {
		if !used[name] {
			used[name] = true
			continue
		}
		k := counts[name]
		var candidate string
		for {
			k++
			candidate = fmt.Sprintf("%s.%d", name, k)
			if !used[candidate] {
				break
			}
		}
		counts[name] = k
		out[i] = candidate
		used[candidate] = true
	}
	return out
}

var boolTokens = map[string]bool{
	"True": true, "TRUE": true, "true": true,
	"False": false, "FALSE": false, "false": false,
}

// nativeType types a column of cell text the way a dataframe reader does.
// Integers need a column without nulls; a column with nulls and whole
// numbers reads as float64. A column of spreadsheet dates is datetime; one
// mixing dates with text stays object. All-null columns stay object.
func nativeType(values []any) (frame.DType, []any) {
	nonNull, times, hasNull := 0, 0, false
	for _, v := range values {
		switch v.(type) {
		case nil:
			hasNull = true
		case time.Time:
			times++
			nonNull++
		default:
			nonNull++
		}
	}
	if nonNull == 0 {
		return frame.Object, values
	}
	if times > 0 {
		if times == nonNull {
			return frame.Datetime, values
		}
		return frame.Object, values
	}

	if !hasNull {
		if ints, ok := convertAll(values, parseInt); ok {
			return frame.Int64, ints
		}
	}
	if floats, ok := convertAll(values, parseFloat); ok {
		return frame.Float64, floats
	}
	if !hasNull {
		if bools, ok := convertAll(values, parseBool); ok {
			return frame.Bool, bools
		}
	}
	return frame.Object, values
}

func convertAll(values []any, parse func(string) (any, bool)) ([]any, bool) {
	out := make([]any, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		c, ok := parse(v.(string))
		if !ok {
			return nil, false
		}
		out[i] = c
	}
	return out, true
}

func parseInt(s string) (any, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil
}

func parseFloat(s string) (any, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

func parseBool(s string) (any, bool) {
	b, ok := boolTokens[strings.TrimSpace(s)]
	return b, ok
}
