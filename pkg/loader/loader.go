// Package loader reads CSV and spreadsheet files into frames.
//
// Delimited text is parsed with each configured delimiter in turn (comma,
// then semicolon by default). A delimiter is abandoned only on a parse
// failure, such as a row wider than the header. Excel files are read from
// their first sheet with raw cell values; date-formatted cells become
// timestamps. Inputs may carry a compression suffix (".csv.gz", ".csv.zst",
// ".csv.lz4", ".csv.sz").
package loader

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/typeinfer/pkg/compression"
	"github.com/ajitpratap0/typeinfer/pkg/config"
	"github.com/ajitpratap0/typeinfer/pkg/errors"
	"github.com/ajitpratap0/typeinfer/pkg/frame"
	"github.com/ajitpratap0/typeinfer/pkg/logger"
)

// Format is a supported input format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLS  Format = "xls"
	FormatXLSX Format = "xlsx"
)

// DefaultNullValues are the cell contents read as missing.
var DefaultNullValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// Loader reads files into frames.
type Loader struct {
	cfg        config.LoaderConfig
	logger     *zap.Logger
	delimiters []rune
	nulls      map[string]struct{}
}

// New creates a loader. Empty delimiter or null lists fall back to the
// defaults.
func New(cfg config.LoaderConfig, log *zap.Logger) *Loader {
	delims := cfg.DelimiterRunes()
	if len(delims) == 0 {
		delims = []rune{',', ';'}
	}
	tokens := cfg.NullValues
	if len(tokens) == 0 {
		tokens = DefaultNullValues
	}
	nulls := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		nulls[t] = struct{}{}
	}
	return &Loader{
		cfg:        cfg,
		logger:     logger.OrNop(log).With(zap.String("component", "loader")),
		delimiters: delims,
		nulls:      nulls,
	}
}

// DetectFormat returns the input format and compression of path from its
// extensions.
func DetectFormat(path string) (Format, compression.Algorithm, error) {
	alg, inner := compression.FromPath(path)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(inner)), ".")
	switch Format(ext) {
	case FormatCSV:
		return FormatCSV, alg, nil
	case FormatXLS, FormatXLSX:
		if alg != compression.None {
			return "", "", errors.Newf(errors.ErrorTypeFormat, "compressed spreadsheets are not supported: %s", path)
		}
		return Format(ext), alg, nil
	default:
		return "", "", errors.Newf(errors.ErrorTypeFormat, "unsupported file extension: %s", ext)
	}
}

// Load reads path into a frame.
func (l *Loader) Load(ctx context.Context, path string) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, alg, err := DetectFormat(path)
	if err != nil {
		l.logger.Error("error reading file", zap.String("file", path), zap.Error(err))
		return nil, err
	}

	var table *rawTable
	switch format {
	case FormatCSV:
		table, err = l.readCSVFile(path, alg)
	case FormatXLSX:
		table, err = readXLSX(path, l.cfg.Sheet)
	case FormatXLS:
		table, err = readXLS(path, l.cfg.Sheet)
	}
	if err != nil {
		l.logger.Error("error reading file", zap.String("file", path), zap.Error(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := l.build(table)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, path)
	}
	l.logger.Info("loaded file",
		zap.String("file", path),
		zap.String("format", string(format)),
		zap.Int("rows", f.NumRows()),
		zap.Int("columns", f.NumCols()))
	return f, nil
}

func (l *Loader) readCSVFile(path string, alg compression.Algorithm) (*rawTable, error) {
	fh, err := os.Open(path) //nolint:gosec // G304: path is chosen by the caller
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open file")
	}
	defer fh.Close()

	r, err := compression.NewReader(fh, alg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open compressed stream")
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read file")
	}
	return l.readDelimited(data)
}

// readDelimited parses delimited text, trying each configured delimiter
// until one parses cleanly.
func (l *Loader) readDelimited(data []byte) (*rawTable, error) {
	var lastErr error
	for i, d := range l.delimiters {
		table, err := parseDelimited(bytes.NewReader(data), d)
		if err == nil {
			return table, nil
		}
		if !errors.IsType(err, errors.ErrorTypeParse) {
			return nil, err
		}
		lastErr = err
		if i < len(l.delimiters)-1 {
			l.logger.Warn("parse failed, retrying with next delimiter",
				zap.String("delimiter", string(d)),
				zap.Error(err))
		}
	}
	return nil, lastErr
}

// LoadReader parses delimited text from r.
func (l *Loader) LoadReader(ctx context.Context, r io.Reader) (*frame.Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read input")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, err := l.readDelimited(data)
	if err != nil {
		return nil, err
	}
	return l.build(table)
}
