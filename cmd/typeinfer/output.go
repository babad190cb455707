package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ajitpratap0/typeinfer/pkg/export"
	"github.com/ajitpratap0/typeinfer/pkg/frame"
	"github.com/ajitpratap0/typeinfer/pkg/inference"
	"github.com/ajitpratap0/typeinfer/pkg/store"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printReport(w io.Writer, name string, size int64, r *inference.Report) {
	fmt.Fprintf(w, "%s: %s rows, %d columns, %s on disk, %s in memory\n",
		name, humanize.Comma(int64(r.TotalRows)), r.TotalColumns,
		humanize.Bytes(uint64(size)), humanize.Bytes(uint64(r.MemoryUsageBytes)))

	tw := newTable(w)
	fmt.Fprintln(tw, "COLUMN\tCURRENT\tINFERRED\tNON-NULL\tNULLS\tUNIQUE\tSAMPLE")
	for _, c := range r.Columns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Name, c.CurrentDisplayType, c.InferredDisplayType,
			humanize.Comma(int64(c.NonNullCount)), humanize.Comma(int64(c.NullCount)),
			humanize.Comma(int64(c.UniqueCount)), sampleText(c.SampleValues))
	}
	_ = tw.Flush()
}

func sampleText(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = frame.Format(v)
	}
	return strings.Join(parts, ", ")
}

func printResults(w io.Writer, results []inference.ColumnResult) {
	if len(results) == 0 {
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "COLUMN\tTARGET\tSTATUS\tERROR")
	for _, r := range results {
		msg := ""
		if r.Err != nil {
			msg = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Column, inference.DisplayName(r.Target), r.Status, msg)
	}
	_ = tw.Flush()
}

func printPaths(w io.Writer, p *export.Paths) {
	fmt.Fprintf(w, "wrote %s\n", p.CSV)
	if p.Arrow != "" {
		fmt.Fprintf(w, "wrote %s\n", p.Arrow)
	}
	if p.Report != "" {
		fmt.Fprintf(w, "wrote %s\n", p.Report)
	}
}

func printFiles(w io.Writer, files []store.ProcessedFile, now time.Time) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tFILE\tROWS\tCOLUMNS\tSIZE\tUPLOADED\tPROCESSED")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			f.ID, f.FileName, humanize.Comma(int64(f.RowCount)), f.ColumnCount,
			humanize.Bytes(uint64(f.FileSize)), humanize.RelTime(f.UploadedAt, now, "ago", "from now"),
			orDash(f.ProcessedPath))
	}
	_ = tw.Flush()
}

func printFile(w io.Writer, f *store.ProcessedFile, cols []store.ColumnMetadata) {
	fmt.Fprintf(w, "%s (%s)\n", f.FileName, f.ID)
	fmt.Fprintf(w, "  original:  %s\n", f.OriginalPath)
	fmt.Fprintf(w, "  processed: %s\n", orDash(f.ProcessedPath))
	fmt.Fprintf(w, "  uploaded:  %s\n", f.UploadedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "  size:      %s, %s rows, %d columns\n",
		humanize.Bytes(uint64(f.FileSize)), humanize.Comma(int64(f.RowCount)), f.ColumnCount)

	tw := newTable(w)
	fmt.Fprintln(tw, "COLUMN\tORIGINAL\tINFERRED\tAPPLIED\tNULLS\tUNIQUE")
	for _, c := range cols {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
			c.ColumnName, c.OriginalType, c.InferredType, orDash(c.AppliedType), c.NullCount, c.UniqueCount)
	}
	_ = tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
