// Package config provides the unified configuration for typeinfer.
//
// The configuration is organized into sections:
//   - Inference: sample size and classification thresholds
//   - Loader: delimiters, null tokens, spreadsheet sheet selection
//   - Export: where converted datasets are written and how
//   - Store: the metadata store backend
//   - Observability: logging, metrics and tracing
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.Inference.SampleSize = 500
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
)

// Config is the root configuration.
type Config struct {
	Inference     InferenceConfig     `yaml:"inference" json:"inference" mapstructure:"inference"`
	Loader        LoaderConfig        `yaml:"loader" json:"loader" mapstructure:"loader"`
	Export        ExportConfig        `yaml:"export" json:"export" mapstructure:"export"`
	Store         StoreConfig         `yaml:"store" json:"store" mapstructure:"store"`
	Observability ObservabilityConfig `yaml:"observability" json:"observability" mapstructure:"observability"`
}

// InferenceConfig controls the classifier and profiler.
type InferenceConfig struct {
	// SampleSize caps the number of non-null values each checker sees
	SampleSize int `yaml:"sample_size" json:"sample_size" mapstructure:"sample_size"`
	// MatchRatio is the share of the sample a content checker must match
	MatchRatio float64 `yaml:"match_ratio" json:"match_ratio" mapstructure:"match_ratio"`
	// CategoricalRatio is the unique/total ratio below which text is categorical
	CategoricalRatio float64 `yaml:"categorical_ratio" json:"categorical_ratio" mapstructure:"categorical_ratio"`
	// CategoricalMaxUnique is the unique count below which text is categorical
	CategoricalMaxUnique int `yaml:"categorical_max_unique" json:"categorical_max_unique" mapstructure:"categorical_max_unique"`
	// ReportSampleValues caps the sample values shown per column in a report
	ReportSampleValues int `yaml:"report_sample_values" json:"report_sample_values" mapstructure:"report_sample_values"`
}

// LoaderConfig controls how files become frames.
type LoaderConfig struct {
	// Delimiters are tried in order for delimited text
	Delimiters []string `yaml:"delimiters" json:"delimiters" mapstructure:"delimiters"`
	// Sheet selects a spreadsheet sheet by name; empty means the first sheet
	Sheet string `yaml:"sheet" json:"sheet" mapstructure:"sheet"`
	// NativeTypes types numeric and True/False columns while reading
	NativeTypes bool `yaml:"native_types" json:"native_types" mapstructure:"native_types"`
	// NullValues overrides the tokens read as missing
	NullValues []string `yaml:"null_values" json:"null_values" mapstructure:"null_values"`
}

// ExportConfig controls converted dataset output.
type ExportConfig struct {
	// Dir is where processed files are written; empty disables export
	Dir string `yaml:"dir" json:"dir" mapstructure:"dir"`
	// Compression is one of none, gzip, zstd, lz4, snappy
	Compression string `yaml:"compression" json:"compression" mapstructure:"compression"`
	// Arrow also writes an Arrow IPC file next to the CSV
	Arrow bool `yaml:"arrow" json:"arrow" mapstructure:"arrow"`
}

// StoreConfig selects the metadata store.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Kind    string `yaml:"kind" json:"kind" mapstructure:"kind"`
	DSN     string `yaml:"dsn" json:"dsn" mapstructure:"dsn"`
}

// ObservabilityConfig contains logging, metrics and tracing settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
	LogEncoding string `yaml:"log_encoding" json:"log_encoding" mapstructure:"log_encoding"`
	Development bool   `yaml:"development" json:"development" mapstructure:"development"`
	// MetricsFile receives a Prometheus text dump after each command
	MetricsFile       string  `yaml:"metrics_file" json:"metrics_file" mapstructure:"metrics_file"`
	EnableTracing     bool    `yaml:"enable_tracing" json:"enable_tracing" mapstructure:"enable_tracing"`
	TracingSampleRate float64 `yaml:"tracing_sample_rate" json:"tracing_sample_rate" mapstructure:"tracing_sample_rate"`
}

// Default returns a configuration with the documented defaults.
func Default() *Config {
	return &Config{
		Inference: InferenceConfig{
			SampleSize:           100,
			MatchRatio:           0.8,
			CategoricalRatio:     0.05,
			CategoricalMaxUnique: 20,
			ReportSampleValues:   5,
		},
		Loader: LoaderConfig{
			Delimiters:  []string{",", ";"},
			NativeTypes: true,
		},
		Export: ExportConfig{
			Compression: "none",
		},
		Store: StoreConfig{
			Enabled: false,
			Kind:    "sqlite",
			DSN:     "file:typeinfer.db",
		},
		Observability: ObservabilityConfig{
			LogLevel:          "info",
			LogEncoding:       "console",
			TracingSampleRate: 1.0,
		},
	}
}

// Validate validates the configuration for correctness.
func (c *Config) Validate() error {
	in := c.Inference
	if in.SampleSize <= 0 {
		return fmt.Errorf("inference.sample_size must be positive")
	}
	if in.MatchRatio < 0 || in.MatchRatio > 1 {
		return fmt.Errorf("inference.match_ratio must be within [0, 1]")
	}
	if in.CategoricalRatio < 0 || in.CategoricalRatio > 1 {
		return fmt.Errorf("inference.categorical_ratio must be within [0, 1]")
	}
	if in.CategoricalMaxUnique < 0 {
		return fmt.Errorf("inference.categorical_max_unique cannot be negative")
	}
	if in.ReportSampleValues < 0 {
		return fmt.Errorf("inference.report_sample_values cannot be negative")
	}
	if len(c.Loader.Delimiters) == 0 {
		return fmt.Errorf("loader.delimiters must not be empty")
	}
	for _, d := range c.Loader.Delimiters {
		if len([]rune(d)) != 1 {
			return fmt.Errorf("loader.delimiters entry %q must be a single character", d)
		}
	}
	switch c.Export.Compression {
	case "", "none", "gzip", "zstd", "lz4", "snappy":
	default:
		return fmt.Errorf("export.compression %q is not supported", c.Export.Compression)
	}
	if c.Store.Enabled {
		if c.Store.Kind == "" {
			return fmt.Errorf("store.kind is required when the store is enabled")
		}
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required when the store is enabled")
		}
	}
	if c.Observability.TracingSampleRate < 0 || c.Observability.TracingSampleRate > 1 {
		return fmt.Errorf("observability.tracing_sample_rate must be within [0, 1]")
	}
	return nil
}

// DelimiterRunes returns the configured delimiters as runes.
func (l *LoaderConfig) DelimiterRunes() []rune {
	out := make([]rune, 0, len(l.Delimiters))
	for _, d := range l.Delimiters {
		r := []rune(d)
		if len(r) == 1 {
			out = append(out, r[0])
		}
	}
	return out
}
