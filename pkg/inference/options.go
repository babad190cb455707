package inference

import "github.com/ajitpratap0/typeinfer/pkg/config"

const (
	// DefaultSampleSize caps the number of non-null values each checker sees.
	DefaultSampleSize = 100
	// DefaultMatchRatio is the share of the sample a content rule must match.
	DefaultMatchRatio = 0.8
	// DefaultCategoricalRatio is the unique/total ratio below which a text
	// column is categorical.
	DefaultCategoricalRatio = 0.05
	// DefaultCategoricalMaxUnique is the unique count below which a text
	// column is categorical.
	DefaultCategoricalMaxUnique = 20
	// DefaultReportSampleValues caps the sample values listed per column.
	DefaultReportSampleValues = 5
)

// Options tunes classification and profiling.
type Options struct {
	SampleSize           int
	MatchRatio           float64
	CategoricalRatio     float64
	CategoricalMaxUnique int
	ReportSampleValues   int
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{
		SampleSize:           DefaultSampleSize,
		MatchRatio:           DefaultMatchRatio,
		CategoricalRatio:     DefaultCategoricalRatio,
		CategoricalMaxUnique: DefaultCategoricalMaxUnique,
		ReportSampleValues:   DefaultReportSampleValues,
	}
}

// OptionsFromConfig maps the inference config section onto Options.
func OptionsFromConfig(c config.InferenceConfig) Options {
	return Options{
		SampleSize:           c.SampleSize,
		MatchRatio:           c.MatchRatio,
		CategoricalRatio:     c.CategoricalRatio,
		CategoricalMaxUnique: c.CategoricalMaxUnique,
		ReportSampleValues:   c.ReportSampleValues,
	}
}
