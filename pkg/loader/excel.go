package loader

import (
	"fmt"
	"strconv"
	"time"
	"unicode"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/ajitpratap0/typeinfer/pkg/errors"
)

// readXLSX reads the named sheet, or the first one, of an OOXML workbook.
// Cells are read unformatted; cells styled with a date number format become
// timestamps and boolean cells read TRUE or FALSE.
func readXLSX(path, sheet string) (*rawTable, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open workbook")
	}
	defer wb.Close()

	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New(errors.ErrorTypeParse, "workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := wb.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, fmt.Sprintf("failed to read sheet %q", sheet))
	}

	date1904 := false
	if props, err := wb.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	sr := &styleReader{wb: wb, sheet: sheet, dateStyles: make(map[int]bool)}

	times := make(map[cellRef]time.Time)
	for r := 1; r < len(rows); r++ {
		for c, v := range rows[r] {
			if v == "" {
				continue
			}
			serial, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				continue
			}
			if (v == "1" || v == "0") && sr.isBool(cell) {
				rows[r][c] = "FALSE"
				if v == "1" {
					rows[r][c] = "TRUE"
				}
				continue
			}
			if !sr.isDate(cell) {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			times[cellRef{row: r - 1, col: c}] = t
		}
	}

	table := tableFromRows(rows)
	if len(times) > 0 {
		table.times = times
	}
	return table, nil
}

// styleReader answers per-cell style questions for one sheet, caching the
// date verdict per style index.
type styleReader struct {
	wb         *excelize.File
	sheet      string
	dateStyles map[int]bool
}

func (s *styleReader) isBool(cell string) bool {
	typ, err := s.wb.GetCellType(s.sheet, cell)
	return err == nil && typ == excelize.CellTypeBool
}

func (s *styleReader) isDate(cell string) bool {
	idx, err := s.wb.GetCellStyle(s.sheet, cell)
	if err != nil || idx == 0 {
		return false
	}
	if d, ok := s.dateStyles[idx]; ok {
		return d
	}
	d := false
	if style, err := s.wb.GetStyle(idx); err == nil {
		if style.CustomNumFmt != nil {
			d = isDateFormatCode(*style.CustomNumFmt)
		} else {
			d = isDateNumFmt(style.NumFmt)
		}
	}
	s.dateStyles[idx] = d
	return d
}

// isDateNumFmt reports whether a built-in number format id renders a date
// or time. 27-36 and 50-58 are the East Asian date formats.
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code has date or time
// tokens outside quoted literals, escapes and bracketed sections.
func isDateFormatCode(code string) bool {
	inQuote, inBracket, escaped := false, false, false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		default:
			switch unicode.ToLower(r) {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}

// readXLS reads the named sheet, or the first one, of a legacy BIFF
// workbook.
func readXLS(path, sheet string) (table *rawTable, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrorTypeParse, "malformed workbook: %v", r)
		}
	}()

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open workbook")
	}

	var ws *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		s := wb.GetSheet(i)
		if s != nil && (sheet == "" || s.Name == sheet) {
			ws = s
			break
		}
	}
	if ws == nil {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "sheet %q not found", sheet)
	}

	rows := make([][]string, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for c := 0; c <= row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, trimTrailingEmpty(cells))
	}
	return tableFromRows(rows), nil
}

func trimTrailingEmpty(cells []string) []string {
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}
