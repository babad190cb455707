// Package typeinfer infers the data type of every column in a CSV or Excel
// file from a bounded sample of its values, and optionally converts the file
// to those types.
//
// # Architecture
//
// A file flows through four stages:
//
//	file → loader → frame → inference (classify, convert, profile) → report
//
// The loader (pkg/loader) reads CSV, XLS and XLSX files into a frame
// (pkg/frame), an ordered set of equal-length typed columns. The inference
// engine (pkg/inference) samples each text column and runs a fixed chain of
// checkers: boolean, integer, decimal, date, category. The first match wins.
// The converter casts each column on its own, so one bad column never fails
// the whole file. The profiler reports counts, samples and current versus
// inferred type per column.
//
// # Quick Start
//
//	cfg := config.Default()
//	ld := loader.New(cfg.Loader, log)
//	engine := inference.NewEngine(log, inference.OptionsFromConfig(cfg.Inference), ld)
//
//	f, report, err := engine.Process(ctx, "people.csv", true)
//	if err != nil {
//	    return err
//	}
//	for _, c := range report.Columns {
//	    fmt.Println(c.Name, c.InferredDisplayType)
//	}
//
// # Command Line
//
//	typeinfer infer people.csv                      # print the report
//	typeinfer infer people.csv --apply --export-dir out --compression zstd --arrow
//	typeinfer apply-types people.csv --type age=Integer --type joined=Date/Time
//	typeinfer infer people.csv --apply --store      # record metadata in SQLite
//	typeinfer history
//	typeinfer types
//
// # Configuration
//
// Configuration is a YAML file with inference, loader, export, store and
// observability sections (see pkg/config). Environment variables override
// it with the TYPEINFER_ prefix, e.g. TYPEINFER_INFERENCE_SAMPLE_SIZE=500.
// ${VAR_NAME} inside the file is substituted from the environment.
//
// # Supporting Packages
//
//   - pkg/export: processed CSV (optionally compressed), Arrow IPC, JSON report
//   - pkg/compression: gzip, zstd, lz4 and snappy streams
//   - pkg/store: processed-file and column metadata in SQLite or Postgres
//   - pkg/logger, pkg/errors, pkg/metrics, pkg/observability: zap logging,
//     typed errors, Prometheus collectors and OpenTelemetry tracing
package typeinfer
