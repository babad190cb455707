package inference

import (
	"github.com/ajitpratap0/typeinfer/pkg/frame"
)

// Rule is one step of the classification chain.
type Rule struct {
	Name  string
	Label frame.DType
	// Match receives the full column and its sample.
	Match func(col *frame.Column, sample []any) bool
}

// DefaultRules returns the classification chain for opts. Order matters:
// boolean before integer keeps 1/0 flags boolean, integer before float keeps
// whole numbers integral, and categorical runs last.
func DefaultRules(opts Options) []Rule {
	text := func(ok func(string) bool) func(*frame.Column, []any) bool {
		return func(_ *frame.Column, sample []any) bool {
			return matchText(sample, opts.MatchRatio, ok)
		}
	}
	return []Rule{
		{Name: "boolean", Label: frame.Bool, Match: text(isBooleanText)},
		{Name: "integer", Label: frame.Int64, Match: text(isIntegerText)},
		{Name: "float", Label: frame.Float64, Match: text(isFloatText)},
		{Name: "date", Label: frame.Datetime, Match: text(isDateText)},
		{
			Name:  "categorical",
			Label: frame.Category,
			Match: func(col *frame.Column, _ []any) bool {
				return isCategorical(col, opts.CategoricalRatio, opts.CategoricalMaxUnique)
			},
		},
	}
}

// classify runs the chain on one column. The rule name is "native" for
// columns that already carry a specific label, "all_null" for empty ones and
// "" when nothing matched.
func classify(col *frame.Column, rules []Rule, sampleSize int) (frame.DType, string, bool) {
	if !col.DType.IsGeneric() {
		return col.DType, "native", true
	}
	if col.AllNull() {
		return frame.Object, "all_null", true
	}
	sample := Sample(col, sampleSize)
	for _, r := range rules {
		if r.Match(col, sample) {
			return r.Label, r.Name, true
		}
	}
	return "", "", false
}
