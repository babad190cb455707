package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/typeinfer/pkg/compression"
	"github.com/ajitpratap0/typeinfer/pkg/config"
	"github.com/ajitpratap0/typeinfer/pkg/errors"
	"github.com/ajitpratap0/typeinfer/pkg/frame"
	"github.com/ajitpratap0/typeinfer/pkg/inference"
	"github.com/ajitpratap0/typeinfer/pkg/logger"
	"github.com/ajitpratap0/typeinfer/pkg/metrics"
	"github.com/ajitpratap0/typeinfer/pkg/observability"
)

// Paths lists the files written by one export. Empty fields were not written.
type Paths struct {
	CSV    string `json:"csv"`
	Arrow  string `json:"arrow,omitempty"`
	Report string `json:"report,omitempty"`
}

// Exporter writes processed frames under a directory.
type Exporter struct {
	dir       string
	algorithm compression.Algorithm
	arrow     bool
	logger    *zap.Logger
}

// New creates an exporter from cfg. An empty cfg.Dir writes next to the
// working directory.
func New(cfg config.ExportConfig, log *zap.Logger) (*Exporter, error) {
	alg, err := compression.Parse(cfg.Compression)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid export compression")
	}
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	return &Exporter{
		dir:       dir,
		algorithm: alg,
		arrow:     cfg.Arrow,
		logger:    logger.OrNop(log).With(zap.String("component", "export")),
	}, nil
}

// Export writes f as processed_<name> under the exporter's directory, plus an
// Arrow file and the report when requested. sourcePath names the input file.
func (x *Exporter) Export(ctx context.Context, sourcePath string, f *frame.Frame, report *inference.Report) (*Paths, error) {
	_, span := observability.StartSpan(ctx, "typeinfer.export",
		attribute.String("file", sourcePath),
		attribute.String("compression", string(x.algorithm)))
	defer span.End()

	timer := metrics.NewTimer("export")
	defer timer.ObserveDuration()

	if err := os.MkdirAll(x.dir, 0o750); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create export directory")
	}

	name := ProcessedName(sourcePath)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	paths := &Paths{}

	csvPath, err := WriteCSVFile(filepath.Join(x.dir, base+".csv"), f, x.algorithm)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	paths.CSV = csvPath

	if x.arrow {
		paths.Arrow = filepath.Join(x.dir, base+".arrow")
		if err := writeArrowFile(paths.Arrow, f); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	if report != nil {
		paths.Report = filepath.Join(x.dir, base+".report.json")
		if err := WriteReportFile(paths.Report, report); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	x.logger.Info("exported file",
		zap.String("source", sourcePath),
		zap.String("csv", paths.CSV),
		zap.String("arrow", paths.Arrow),
		zap.String("report", paths.Report))
	return paths, nil
}

func writeArrowFile(path string, f *frame.Frame) error {
	fh, err := os.Create(path) //nolint:gosec // G304: path is derived from the export directory
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create arrow file")
	}
	if err := WriteArrow(fh, f); err != nil {
		fh.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write arrow file")
	}
	return fh.Close()
}
