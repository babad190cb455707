// Package metrics provides Prometheus collectors for typeinfer.
//
// # Overview
//
// The metrics package provides:
//   - Pre-defined metrics for loading, classification and conversion
//   - A Timer for latency tracking
//   - A textfile dump for one-shot CLI runs
//
// # Basic Usage
//
//	// Record a classified column
//	metrics.ColumnsClassified.WithLabelValues("int64").Inc()
//
//	// Track processing latency
//	timer := metrics.NewTimer("classify")
//	mapping := engine.Infer(f)
//	timer.ObserveDuration()
//
// # Metric Types
//
// Counter: Monotonically increasing values (e.g., total files processed)
// Histogram: Distribution of values (e.g., per-stage latency)
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FilesProcessed tracks files run through the engine.
	// Labels: format (csv/xls/xlsx), status (success/failure)
	//
	// Example:
	//	metrics.FilesProcessed.WithLabelValues("csv", "success").Inc()
	FilesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typeinfer_files_processed_total",
			Help: "Total number of files processed",
		},
		[]string{"format", "status"},
	)

	// RowsLoaded tracks rows read from input files.
	RowsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typeinfer_rows_loaded_total",
			Help: "Total number of rows loaded",
		},
		[]string{"format"},
	)

	// ColumnsClassified tracks classifier decisions per label. Columns the
	// classifier leaves unmapped are counted under "unmapped".
	ColumnsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typeinfer_columns_classified_total",
			Help: "Total number of columns classified, by inferred label",
		},
		[]string{"type"},
	)

	// Conversions tracks per-column conversion outcomes.
	// Labels: type (target label), status (converted/failed/skipped)
	Conversions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typeinfer_conversions_total",
			Help: "Total number of column conversions, by target and outcome",
		},
		[]string{"type", "status"},
	)

	// ProcessingLatency tracks the distribution of stage latencies in nanoseconds.
	// Labels: operation (load/classify/convert/profile/export)
	ProcessingLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "typeinfer_processing_latency_nanoseconds",
			Help: "Processing latency in nanoseconds",
			Buckets: []float64{
				1e4, // 10μs
				1e5, // 100μs
				1e6, // 1ms
				1e7, // 10ms
				1e8, // 100ms
				1e9, // 1s
				1e10,
			},
		},
		[]string{"operation"},
	)
)

// Timer measures one operation and reports it to ProcessingLatency.
type Timer struct {
	start     time.Time
	operation string
}

// NewTimer creates a new timer and starts timing immediately.
//
// Example:
//
//	timer := metrics.NewTimer("load")
//	f, err := loader.Load(ctx, path)
//	logger.Info("loaded", zap.Duration("duration", timer.ObserveDuration()))
func NewTimer(operation string) *Timer {
	return &Timer{
		start:     time.Now(),
		operation: operation,
	}
}

// Stop returns the elapsed duration since creation without recording it.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed time under the timer's operation and
// returns it.
func (t *Timer) ObserveDuration() time.Duration {
	d := time.Since(t.start)
	ProcessingLatency.WithLabelValues(t.operation).Observe(float64(d.Nanoseconds()))
	return d
}

// WriteTextfile dumps every registered metric to path in the Prometheus
// text exposition format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
