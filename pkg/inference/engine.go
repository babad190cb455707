package inference

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/typeinfer/pkg/errors"
	"github.com/ajitpratap0/typeinfer/pkg/frame"
	"github.com/ajitpratap0/typeinfer/pkg/logger"
	"github.com/ajitpratap0/typeinfer/pkg/metrics"
	"github.com/ajitpratap0/typeinfer/pkg/observability"
)

// Loader reads a file into a frame.
type Loader interface {
	Load(ctx context.Context, path string) (*frame.Frame, error)
}

// Engine classifies, converts and profiles frames.
type Engine struct {
	logger *zap.Logger
	opts   Options
	rules  []Rule
	loader Loader
}

// NewEngine creates an engine. A nil logger discards logs; a nil loader
// limits the engine to in-memory frames.
func NewEngine(log *zap.Logger, opts Options, ld Loader) *Engine {
	return &Engine{
		logger: logger.OrNop(log).With(zap.String("component", "inference")),
		opts:   opts,
		rules:  DefaultRules(opts),
		loader: ld,
	}
}

// WithRules returns a copy of the engine that classifies with rules.
func (e *Engine) WithRules(rules []Rule) *Engine {
	c := *e
	c.rules = rules
	return &c
}

// Options returns the engine's thresholds.
func (e *Engine) Options() Options { return e.opts }

// Classify returns the label for col. ok is false when no rule matched.
func (e *Engine) Classify(col *frame.Column) (frame.DType, bool) {
	label, rule, ok := classify(col, e.rules, e.opts.SampleSize)
	if ok {
		e.logger.Debug("classified column",
			zap.String("column", col.Name),
			zap.String("type", string(label)),
			zap.String("rule", rule))
	} else {
		e.logger.Debug("column matched no rule", zap.String("column", col.Name))
	}
	return label, ok
}

// Infer classifies every column of f. Columns no rule matches are absent
// from the mapping.
func (e *Engine) Infer(f *frame.Frame) *TypeMapping {
	entries := make([]MappingEntry, 0, f.NumCols())
	for _, col := range f.Columns() {
		label, ok := e.Classify(col)
		if !ok {
			metrics.ColumnsClassified.WithLabelValues("unmapped").Inc()
			continue
		}
		metrics.ColumnsClassified.WithLabelValues(string(label)).Inc()
		entries = append(entries, MappingEntry{Column: col.Name, Label: label})
	}
	return NewTypeMapping(entries...)
}

// Convert returns a copy of f with every mapped column cast to its label,
// plus one result per mapping entry. f is never modified. A column that
// fails keeps its original values; a mapped column missing from f is
// skipped.
func (e *Engine) Convert(f *frame.Frame, mapping *TypeMapping) (*frame.Frame, []ColumnResult) {
	out := f.Clone()
	results := make([]ColumnResult, 0, mapping.Len())
	for _, entry := range mapping.Entries() {
		res := e.convertOne(out, entry)
		metrics.Conversions.WithLabelValues(string(entry.Label), string(res.Status)).Inc()
		results = append(results, res)
	}
	return out, results
}

func (e *Engine) convertOne(f *frame.Frame, entry MappingEntry) (res ColumnResult) {
	res = ColumnResult{Column: entry.Column, Target: entry.Label}
	col, ok := f.Column(entry.Column)
	if !ok {
		e.logger.Warn("column not found in frame", zap.String("column", entry.Column))
		res.Status = StatusSkipped
		res.Err = errors.Newf(errors.ErrorTypeNotFound, "column %s not found", entry.Column)
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			res.Status = StatusFailed
			res.Err = errors.Newf(errors.ErrorTypeInternal, "panic converting column %s: %v", entry.Column, r)
			e.logger.Error("error converting column",
				zap.String("column", entry.Column),
				zap.String("type", string(entry.Label)),
				zap.Any("panic", r))
		}
	}()

	converted, err := convertColumn(col, entry.Label)
	if err == nil {
		err = f.Replace(converted)
	}
	if err != nil {
		res.Status = StatusFailed
		res.Err = errors.Wrap(err, errors.ErrorTypeConversion, fmt.Sprintf("column %s", entry.Column))
		e.logger.Error("error converting column",
			zap.String("column", entry.Column),
			zap.String("type", string(entry.Label)),
			zap.Error(err))
		return res
	}

	res.Status = StatusConverted
	e.logger.Info("converted column",
		zap.String("column", entry.Column),
		zap.String("type", string(entry.Label)))
	return res
}

// Profile builds a report for f. It does not modify f.
func (e *Engine) Profile(f *frame.Frame) *Report {
	r := &Report{
		TotalRows:        f.NumRows(),
		TotalColumns:     f.NumCols(),
		MemoryUsageBytes: f.MemoryUsage(),
		Columns:          make([]ColumnReport, 0, f.NumCols()),
	}
	mapping := e.Infer(f)
	for _, col := range f.Columns() {
		inferred, ok := mapping.Get(col.Name)
		if !ok {
			inferred = frame.Object
		}
		samples := col.Head(e.opts.ReportSampleValues)
		values := make([]any, len(samples))
		for i, v := range samples {
			values[i] = reportValue(v)
		}
		r.Columns = append(r.Columns, ColumnReport{
			Name:                col.Name,
			CurrentType:         string(col.DType),
			CurrentDisplayType:  DisplayName(col.DType),
			InferredType:        string(inferred),
			InferredDisplayType: DisplayName(inferred),
			NonNullCount:        col.NonNullCount(),
			NullCount:           col.NullCount(),
			UniqueCount:         col.UniqueCount(),
			SampleValues:        values,
			Classified:          ok,
		})
	}
	return r
}

// Result is the outcome of one processing request.
type Result struct {
	Frame *frame.Frame
	// Initial profiles the frame as loaded.
	Initial *Report
	// Report profiles the returned frame. It is Initial when nothing was applied.
	Report      *Report
	Conversions []ColumnResult
}

// Process loads path, profiles it and, when apply is set, converts the frame
// to the inferred labels and profiles it again.
func (e *Engine) Process(ctx context.Context, path string, apply bool) (*frame.Frame, *Report, error) {
	res, err := e.Run(ctx, path, apply)
	if err != nil {
		return nil, nil, err
	}
	return res.Frame, res.Report, nil
}

// Run is Process, also returning the pre-conversion report and the
// per-column conversion results.
func (e *Engine) Run(ctx context.Context, path string, apply bool) (*Result, error) {
	ctx, span := observability.StartSpan(ctx, "typeinfer.process",
		attribute.String("file", path),
		attribute.Bool("apply", apply))
	defer span.End()

	log := e.logger.With(zap.String("file", path))
	format := formatOf(path)

	f, err := e.load(ctx, path)
	if err != nil {
		metrics.FilesProcessed.WithLabelValues(format, "failure").Inc()
		span.RecordError(err)
		log.Error("failed to load file", zap.Error(err))
		return nil, err
	}

	res := &Result{Frame: f, Initial: e.profile(ctx, f)}
	res.Report = res.Initial
	if apply {
		if err := ctx.Err(); err != nil {
			metrics.FilesProcessed.WithLabelValues(format, "failure").Inc()
			span.RecordError(err)
			return nil, err
		}
		res.Frame, res.Conversions = e.convert(ctx, f, res.Initial.InferredMapping())
		logResults(log, res.Conversions)
		res.Report = e.profile(ctx, res.Frame)
	}

	metrics.FilesProcessed.WithLabelValues(format, "success").Inc()
	span.SetAttribute("rows", res.Frame.NumRows())
	span.SetAttribute("columns", res.Frame.NumCols())
	log.Info("processed file",
		zap.Int("rows", res.Report.TotalRows),
		zap.Int("columns", res.Report.TotalColumns),
		zap.Bool("applied", apply))
	return res, nil
}

// ApplyTypes loads path and converts it to user-chosen types. displayTypes
// maps column names to friendly names ("Integer") or raw labels ("int64").
// Unknown names are skipped with a warning.
func (e *Engine) ApplyTypes(ctx context.Context, path string, displayTypes map[string]string) (*frame.Frame, *Report, []ColumnResult, error) {
	ctx, span := observability.StartSpan(ctx, "typeinfer.apply_types",
		attribute.String("file", path),
		attribute.Int("columns", len(displayTypes)))
	defer span.End()

	log := e.logger.With(zap.String("file", path))
	format := formatOf(path)

	f, err := e.load(ctx, path)
	if err != nil {
		metrics.FilesProcessed.WithLabelValues(format, "failure").Inc()
		span.RecordError(err)
		return nil, nil, nil, err
	}

	mapping := e.mappingFromDisplay(f, displayTypes)
	f, results := e.convert(ctx, f, mapping)
	logResults(log, results)
	report := e.profile(ctx, f)

	metrics.FilesProcessed.WithLabelValues(format, "success").Inc()
	return f, report, results, nil
}

// mappingFromDisplay orders frame columns first, then names the frame lacks
// so the converter reports them as skipped.
func (e *Engine) mappingFromDisplay(f *frame.Frame, displayTypes map[string]string) *TypeMapping {
	names := make([]string, 0, len(displayTypes))
	for _, n := range f.Names() {
		if _, ok := displayTypes[n]; ok {
			names = append(names, n)
		}
	}
	var missing []string
	for n := range displayTypes {
		if !f.Has(n) {
			missing = append(missing, n)
		}
	}
	sort.Strings(missing)
	names = append(names, missing...)

	entries := make([]MappingEntry, 0, len(names))
	for _, n := range names {
		label, ok := LabelForDisplay(displayTypes[n])
		if !ok {
			e.logger.Warn("unknown type name",
				zap.String("column", n),
				zap.String("type", displayTypes[n]))
			continue
		}
		entries = append(entries, MappingEntry{Column: n, Label: label})
	}
	return NewTypeMapping(entries...)
}

func (e *Engine) load(ctx context.Context, path string) (*frame.Frame, error) {
	if e.loader == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "engine has no loader")
	}
	ctx, span := observability.StartSpan(ctx, "typeinfer.load")
	defer span.End()

	timer := metrics.NewTimer("load")
	f, err := e.loader.Load(ctx, path)
	timer.ObserveDuration()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	metrics.RowsLoaded.WithLabelValues(formatOf(path)).Add(float64(f.NumRows()))
	return f, nil
}

func (e *Engine) profile(ctx context.Context, f *frame.Frame) *Report {
	_, span := observability.StartSpan(ctx, "typeinfer.profile")
	defer span.End()

	timer := metrics.NewTimer("profile")
	defer timer.ObserveDuration()
	return e.Profile(f)
}

func (e *Engine) convert(ctx context.Context, f *frame.Frame, mapping *TypeMapping) (*frame.Frame, []ColumnResult) {
	_, span := observability.StartSpan(ctx, "typeinfer.convert")
	defer span.End()

	timer := metrics.NewTimer("convert")
	defer timer.ObserveDuration()

	out, results := e.Convert(f, mapping)
	for _, r := range results {
		if r.Status == StatusFailed {
			span.AddEvent("conversion_failed",
				attribute.String("column", r.Column),
				attribute.String("type", string(r.Target)))
		}
	}
	return out, results
}

func logResults(log *zap.Logger, results []ColumnResult) {
	var converted, failed, skipped int
	for _, r := range results {
		switch r.Status {
		case StatusConverted:
			converted++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	log.Info("conversion finished",
		zap.Int("converted", converted),
		zap.Int("failed", failed),
		zap.Int("skipped", skipped))
}

func formatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
