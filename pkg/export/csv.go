// Package export writes converted frames and their reports to disk.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajitpratap0/typeinfer/pkg/compression"
	"github.com/ajitpratap0/typeinfer/pkg/errors"
	"github.com/ajitpratap0/typeinfer/pkg/frame"
)

// processedPrefix marks files written after type conversion.
const processedPrefix = "processed_"

// ProcessedName returns the file name used for the converted copy of name.
// Any compression suffix on the input is dropped.
func ProcessedName(name string) string {
	_, inner := compression.FromPath(filepath.Base(name))
	return processedPrefix + inner
}

// WriteCSV writes f as CSV with a header row. Nulls are empty cells.
func WriteCSV(w io.Writer, f *frame.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Names()); err != nil {
		return err
	}
	record := make([]string, f.NumCols())
	for i := 0; i < f.NumRows(); i++ {
		for j, v := range f.Row(i) {
			record[j] = frame.Format(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes f to path, compressed with algorithm. The algorithm's
// extension is appended to path unless already present. It returns the path
// written.
func WriteCSVFile(path string, f *frame.Frame, algorithm compression.Algorithm) (string, error) {
	ext := algorithm.Extension()
	if ext != "" && !strings.HasSuffix(strings.ToLower(path), ext) {
		path += ext
	}

	fh, err := os.Create(path) //nolint:gosec // G304: path is chosen by the caller
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeFile, "failed to create output file")
	}

	zw, err := compression.NewWriter(fh, algorithm, compression.Default)
	if err != nil {
		fh.Close()
		return "", errors.Wrap(err, errors.ErrorTypeConfig, "failed to create compressor")
	}
	if err := WriteCSV(zw, f); err != nil {
		zw.Close()
		fh.Close()
		return "", errors.Wrap(err, errors.ErrorTypeFile, "failed to write csv")
	}
	if err := zw.Close(); err != nil {
		fh.Close()
		return "", errors.Wrap(err, errors.ErrorTypeFile, "failed to flush compressor")
	}
	if err := fh.Close(); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeFile, "failed to close output file")
	}
	return path, nil
}
