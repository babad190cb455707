package export

import (
	"io"
	"os"

	"github.com/ajitpratap0/typeinfer/pkg/errors"
	"github.com/ajitpratap0/typeinfer/pkg/inference"
	jsonpool "github.com/ajitpratap0/typeinfer/pkg/json"
)

// WriteReportJSON encodes report to w. An empty indent writes compact JSON.
func WriteReportJSON(w io.Writer, report *inference.Report, indent string) error {
	return jsonpool.MarshalToWriter(w, report, indent)
}

// WriteReportFile writes report as indented JSON to path.
func WriteReportFile(path string, report *inference.Report) error {
	fh, err := os.Create(path) //nolint:gosec // G304: path is chosen by the caller
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create report file")
	}
	if err := WriteReportJSON(fh, report, "  "); err != nil {
		fh.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write report")
	}
	return fh.Close()
}
