package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ajitpratap0/typeinfer/pkg/compression"
	"github.com/ajitpratap0/typeinfer/pkg/config"
	"github.com/ajitpratap0/typeinfer/pkg/errors"
	"github.com/ajitpratap0/typeinfer/pkg/frame"
	"github.com/ajitpratap0/typeinfer/pkg/testutil"
)

func newTestLoader(t *testing.T) *Loader {
	return New(config.Default().Loader, testutil.TestLogger(t))
}

func load(t *testing.T, name, content string) (*frame.Frame, error) {
	path := testutil.WriteFile(t, name, content)
	return newTestLoader(t).Load(testutil.TestContext(t), path)
}

func column(t *testing.T, f *frame.Frame, name string) *frame.Column {
	t.Helper()
	c, ok := f.Column(name)
	require.True(t, ok, "column %s", name)
	return c
}

func TestLoadCSVNativeTypes(t *testing.T) {
	f, err := load(t, "employees.csv", testutil.CSV(",",
		[]string{"id", "name", "salary", "active", "joined", "bonus"},
		[]string{"1", "Alice", "50000.50", "True", "2020-01-15", ""},
		[]string{"2", "Bob", "62000.75", "False", "2019-05-20", "100"},
		[]string{"3", "Carol", "48000.00", "True", "2021-03-10", "200"},
	))
	require.NoError(t, err)
	assert.Equal(t, 3, f.NumRows())
	assert.Equal(t, []frame.DType{
		frame.Int64, frame.Object, frame.Float64, frame.Bool, frame.Object, frame.Float64,
	}, f.DTypes())

	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, column(t, f, "id").Values)
	assert.Equal(t, []any{"Alice", "Bob", "Carol"}, column(t, f, "name").Values)
	assert.Equal(t, []any{true, false, true}, column(t, f, "active").Values)
	assert.Equal(t, []any{nil, 100.0, 200.0}, column(t, f, "bonus").Values)
}

func TestLoadCSVWithoutNativeTypes(t *testing.T) {
	cfg := config.Default().Loader
	cfg.NativeTypes = false
	path := testutil.WriteFile(t, "raw.csv", "id,flag\n1,True\n2,False\n")

	f, err := New(cfg, testutil.TestLogger(t)).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []frame.DType{frame.Object, frame.Object}, f.DTypes())
	assert.Equal(t, []any{"1", "2"}, column(t, f, "id").Values)
}

func TestLoadCSVFallsBackToSemicolon(t *testing.T) {
	f, err := load(t, "prices.csv", "name;price\nA;1,5\nB;2,25\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "price"}, f.Names())
	assert.Equal(t, []any{"1,5", "2,25"}, column(t, f, "price").Values)
}

func TestLoadCSVKeepsCommaWhenItParses(t *testing.T) {
	f, err := load(t, "single.csv", "a;b\n1;2\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"a;b"}, f.Names())
}

func TestLoadCSVBothDelimitersFail(t *testing.T) {
	_, err := load(t, "broken.csv", "a,b\n1,2,3;4;5\n")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParse))
}

func TestLoadCSVKeepsBareQuotes(t *testing.T) {
	f, err := load(t, "people.csv", "name,height\nAl,5'10\"\nBo,6'1\"\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "height"}, f.Names())
	assert.Equal(t, []any{"5'10\"", "6'1\""}, column(t, f, "height").Values)
}

func TestLoadCSVPadsShortRows(t *testing.T) {
	f, err := load(t, "short.csv", "a,b,c\n1,2\n3,4,5\n")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2), int64(4)}, column(t, f, "b").Values)
	assert.Equal(t, []any{nil, 5.0}, column(t, f, "c").Values)
}

func TestLoadCSVNullTokens(t *testing.T) {
	f, err := load(t, "nulls.csv", "a,b,c\nNA,x,N/A\n1,null,\n")
	require.NoError(t, err)
	assert.Equal(t, []any{nil, 1.0}, column(t, f, "a").Values)
	assert.Equal(t, []any{"x", nil}, column(t, f, "b").Values)

	c := column(t, f, "c")
	assert.Equal(t, frame.Object, c.DType)
	assert.True(t, c.AllNull())
}

func TestLoadCSVHeaderMangling(t *testing.T) {
	f, err := load(t, "dupes.csv", "\ufeff,a,a\n1,2,3\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"Unnamed: 0", "a", "a.1"}, f.Names())
}

func TestMangleHeader(t *testing.T) {
	assert.Equal(t, []string{"a", "a.1", "a.2"}, mangleHeader([]string{"a", "a.1", "a"}))
	assert.Equal(t, []string{"x", "Unnamed: 1", "x.1"}, mangleHeader([]string{"x", " ", "x"}))
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	f, err := load(t, "empty_rows.csv", "a,b\n")
	require.NoError(t, err)
	assert.Equal(t, 0, f.NumRows())
	assert.Equal(t, []frame.DType{frame.Object, frame.Object}, f.DTypes())
}

func TestLoadErrors(t *testing.T) {
	_, err := load(t, "data.json", "{}")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFormat))
	assert.Contains(t, err.Error(), "unsupported file extension: json")

	_, err = load(t, "empty.csv", "")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	_, err = newTestLoader(t).Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	_, err = load(t, "garbage.xls", "not a workbook")
	assert.Error(t, err)

	_, err = load(t, "garbage.xlsx", "not a workbook")
	assert.Error(t, err)
}

func TestLoadHonoursCancellation(t *testing.T) {
	path := testutil.WriteFile(t, "a.csv", "a\n1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestLoader(t).Load(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadCompressedCSV(t *testing.T) {
	content := testutil.CSV(",", []string{"id", "v"}, []string{"1", "a"}, []string{"2", "b"})
	for _, alg := range []compression.Algorithm{compression.Gzip, compression.Zstd, compression.LZ4, compression.Snappy} {
		t.Run(string(alg), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.csv"+alg.Extension())
			fh, err := os.Create(path)
			require.NoError(t, err)
			w, err := compression.NewWriter(fh, alg, compression.Default)
			require.NoError(t, err)
			_, err = w.Write([]byte(content))
			require.NoError(t, err)
			require.NoError(t, w.Close())
			require.NoError(t, fh.Close())

			f, err := newTestLoader(t).Load(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, []any{int64(1), int64(2)}, column(t, f, "id").Values)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	format, alg, err := DetectFormat("Report.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, format)
	assert.Equal(t, compression.None, alg)

	format, alg, err = DetectFormat("data.csv.zst")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)
	assert.Equal(t, compression.Zstd, alg)

	_, _, err = DetectFormat("book.xlsx.gz")
	assert.True(t, errors.IsType(err, errors.ErrorTypeFormat))
}

func writeWorkbook(t *testing.T, sheets map[string][][]interface{}, order ...string) string {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, wb.SetSheetName("Sheet1", name))
		} else {
			_, err := wb.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			row := row
			require.NoError(t, wb.SetSheetRow(name, cell, &row))
		}
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, wb.SaveAs(path))
	return path
}

func TestLoadXLSX(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Staff": {
			{"id", "name", "score", "dept"},
			{1, "Alice", 9.5, "IT"},
			{2, "Bob", 7.25, "HR"},
			{3, "Carol", 8, "IT"},
		},
		"Other": {
			{"x"},
			{"only"},
		},
	}, "Staff", "Other")

	f, err := newTestLoader(t).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "score", "dept"}, f.Names())
	assert.Equal(t, 3, f.NumRows())
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, column(t, f, "id").Values)
	assert.Equal(t, []any{9.5, 7.25, 8.0}, column(t, f, "score").Values)
	assert.Equal(t, []any{"IT", "HR", "IT"}, column(t, f, "dept").Values)

	cfg := config.Default().Loader
	cfg.Sheet = "Other"
	f, err = New(cfg, testutil.TestLogger(t)).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, f.Names())

	cfg.Sheet = "Missing"
	_, err = New(cfg, testutil.TestLogger(t)).Load(context.Background(), path)
	assert.Error(t, err)
}

func TestLoadXLSXReadsRawValues(t *testing.T) {
	wb := excelize.NewFile()
	defer wb.Close()

	const sheet = "Sheet1"
	money, err := wb.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)
	shortDate, err := wb.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	isoFmt := "yyyy-mm-dd"
	isoDate, err := wb.NewStyle(&excelize.Style{CustomNumFmt: &isoFmt})
	require.NoError(t, err)

	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]interface{}{"amount", "when", "booked", "paid"}))
	amounts := []float64{1234.5, 2500, 99999.25}
	for i, amount := range amounts {
		row := i + 2
		require.NoError(t, wb.SetCellFloat(sheet, fmt.Sprintf("A%d", row), amount, -1, 64))
		require.NoError(t, wb.SetCellFloat(sheet, fmt.Sprintf("B%d", row), float64(43845+i), -1, 64))
		require.NoError(t, wb.SetCellFloat(sheet, fmt.Sprintf("C%d", row), float64(43845+i), -1, 64))
		require.NoError(t, wb.SetCellBool(sheet, fmt.Sprintf("D%d", row), i%2 == 0))
	}
	require.NoError(t, wb.SetCellStyle(sheet, "A2", "A4", money))
	require.NoError(t, wb.SetCellStyle(sheet, "B2", "B4", shortDate))
	require.NoError(t, wb.SetCellStyle(sheet, "C2", "C4", isoDate))

	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	require.NoError(t, wb.SaveAs(path))

	f, err := newTestLoader(t).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []frame.DType{frame.Float64, frame.Datetime, frame.Datetime, frame.Bool}, f.DTypes())
	assert.Equal(t, []any{1234.5, 2500.0, 99999.25}, column(t, f, "amount").Values)
	assert.Equal(t, []any{true, false, true}, column(t, f, "paid").Values)

	for _, name := range []string{"when", "booked"} {
		col := column(t, f, name)
		assert.Zero(t, col.NullCount(), name)
		first, ok := col.Values[0].(time.Time)
		require.True(t, ok, name)
		assert.True(t, first.Equal(time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)), "%s: %v", name, first)
	}
}

func TestIsDateFormatCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"yyyy-mm-dd", true},
		{"d-mmm-yy", true},
		{"[h]:mm:ss", true},
		{"#,##0.00", false},
		{"0.00E+00", false},
		{`#,##0 "days"`, false},
		{`[Red]#,##0`, false},
		{"General", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isDateFormatCode(tt.code), tt.code)
	}
	assert.True(t, isDateNumFmt(14))
	assert.True(t, isDateNumFmt(22))
	assert.False(t, isDateNumFmt(4))
}

func TestTableFromRowsWidensHeader(t *testing.T) {
	table := tableFromRows([][]string{{"a"}, {"1", "2"}, {}, {}})
	assert.Equal(t, []string{"a", ""}, table.header)
	assert.Len(t, table.rows, 1)

	f, err := newTestLoader(t).build(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "Unnamed: 1"}, f.Names())
}

func TestLoadReader(t *testing.T) {
	f, err := newTestLoader(t).LoadReader(context.Background(), strings.NewReader("a,b\nx,1\n"))
	require.NoError(t, err)
	assert.Equal(t, []frame.DType{frame.Object, frame.Int64}, f.DTypes())
}

func TestInternerSharesRepeatedCells(t *testing.T) {
	in := newInterner(2)
	a := in.cell("IT")
	b := in.cell("IT")
	assert.Equal(t, "IT", a)
	assert.Equal(t, a, b)
	size, hits, misses := in.stats()
	assert.Equal(t, 1, size)
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	in.cell("HR")
	in.cell("Finance")
	assert.Equal(t, "Finance", in.cell("Finance"))
	size, hits, misses = in.stats()
	assert.Equal(t, 2, size)
	assert.Equal(t, 1, hits)
	assert.Equal(t, 4, misses)
}
