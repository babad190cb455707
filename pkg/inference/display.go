package inference

import (
	"strings"

	"github.com/ajitpratap0/typeinfer/pkg/frame"
)

// displayNames lists the user-facing name of every label, in menu order.
var displayNames = []struct {
	label frame.DType
	name  string
}{
	{frame.Object, "Text"},
	{frame.Int64, "Integer"},
	{frame.Float64, "Decimal"},
	{frame.Datetime, "Date/Time"},
	{frame.Bool, "Boolean"},
	{frame.Category, "Category"},
	{frame.Timedelta, "Time Duration"},
	{frame.Complex, "Complex Number"},
}

// DisplayName returns the friendly name of label. Unknown labels are
// returned unchanged.
func DisplayName(label frame.DType) string {
	for _, d := range displayNames {
		if d.label == label {
			return d.name
		}
	}
	return string(label)
}

// LabelForDisplay maps a friendly name back to its label. Raw labels are
// accepted as well. Matching ignores case and surrounding space.
func LabelForDisplay(name string) (frame.DType, bool) {
	name = strings.TrimSpace(name)
	for _, d := range displayNames {
		if strings.EqualFold(d.name, name) || strings.EqualFold(string(d.label), name) {
			return d.label, true
		}
	}
	return "", false
}

// DisplayTypes returns the friendly names in menu order.
func DisplayTypes() []string {
	out := make([]string, len(displayNames))
	for i, d := range displayNames {
		out[i] = d.name
	}
	return out
}

// Labels returns every label the converter understands, in menu order.
func Labels() []frame.DType {
	out := make([]frame.DType, len(displayNames))
	for i, d := range displayNames {
		out[i] = d.label
	}
	return out
}
