package inference

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/ajitpratap0/typeinfer/pkg/frame"
)

// booleanVocabulary maps every accepted lowercase token to its value.
var booleanVocabulary = map[string]bool{
	"true": true, "false": false,
	"t": true, "f": false,
	"yes": true, "no": false,
	"y": true, "n": false,
	"1": true, "0": false,
}

// datePatterns are matched at the start of a value only; trailing text is
// allowed.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}`),               // YYYY-MM-DD
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}`),             // MM/DD/YY or MM/DD/YYYY
	regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{2,4}`),             // MM-DD-YY or MM-DD-YYYY
	regexp.MustCompile(`^\d{1,2}\s+[A-Za-z]{3,9}\s+\d{2,4}`),   // DD Month YYYY
	regexp.MustCompile(`^[A-Za-z]{3,9}\s+\d{1,2},?\s+\d{2,4}`), // Month DD, YYYY
}

// Sample returns up to limit non-null values of col in row order.
func Sample(col *frame.Column, limit int) []any {
	return col.Head(limit)
}

// meetsThreshold reports matched >= ratio*total. With total == 0 it holds.
func meetsThreshold(matched, total int, ratio float64) bool {
	return float64(matched) >= ratio*float64(total)
}

// matchText applies ok to the non-empty strings in sample and checks the
// ratio. Values of any other Go type are ignored entirely.
func matchText(sample []any, ratio float64, ok func(string) bool) bool {
	matched, total := 0, 0
	for _, v := range sample {
		s, isString := v.(string)
		if !isString || s == "" {
			continue
		}
		total++
		if ok(s) {
			matched++
		}
	}
	return meetsThreshold(matched, total, ratio)
}

func isBooleanText(s string) bool {
	_, ok := booleanVocabulary[strings.ToLower(s)]
	return ok
}

// isIntegerText accepts decimal integers of any magnitude; values outside
// int64 pass here and fail at conversion.
func isIntegerText(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil || errors.Is(err, strconv.ErrRange)
}

func isFloatText(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil || errors.Is(err, strconv.ErrRange)
}

func isDateText(s string) bool {
	for _, p := range datePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	_, err := parseDate(s)
	return err == nil
}

// dateLayouts cover the recognised shapes month first. Dash-separated
// month-first dates are not understood by dateparse.
var dateLayouts = []string{
	"2006-1-2",
	"1/2/2006",
	"1/2/06",
	"1-2-2006",
	"1-2-06",
	"1-2-2006 15:04:05",
	"1-2-2006 15:04",
	"1-2-06 15:04:05",
	"1-2-06 15:04",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
}

// parseDate parses a date in UTC, trying the fixed layouts before
// dateparse's free-form parser.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return dateparse.ParseIn(s, time.UTC)
}

// IsBoolean reports whether the sample reads as boolean flags.
func IsBoolean(sample []any) bool {
	return matchText(sample, DefaultMatchRatio, isBooleanText)
}

// IsInteger reports whether the sample reads as integers.
func IsInteger(sample []any) bool {
	return matchText(sample, DefaultMatchRatio, isIntegerText)
}

// IsFloat reports whether the sample reads as decimal numbers.
func IsFloat(sample []any) bool {
	return matchText(sample, DefaultMatchRatio, isFloatText)
}

// IsDate reports whether the sample reads as dates.
func IsDate(sample []any) bool {
	return matchText(sample, DefaultMatchRatio, isDateText)
}

// IsCategorical reports whether a text column has low cardinality. It looks
// at the whole column, not a sample.
func IsCategorical(col *frame.Column) bool {
	return isCategorical(col, DefaultCategoricalRatio, DefaultCategoricalMaxUnique)
}

func isCategorical(col *frame.Column, ratio float64, maxUnique int) bool {
	if col.DType != frame.Object || col.Len() == 0 {
		return false
	}
	unique := col.UniqueCount()
	return float64(unique)/float64(col.Len()) < ratio || unique < maxUnique
}
