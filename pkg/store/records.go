package store

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ajitpratap0/typeinfer/pkg/inference"
)

// RecordFromReport builds the file record and its column records from the
// report of a freshly loaded file.
func RecordFromReport(path string, size int64, report *inference.Report) (*ProcessedFile, []ColumnMetadata) {
	f := &ProcessedFile{
		ID:           uuid.NewString(),
		FileName:     filepath.Base(path),
		OriginalPath: path,
		UploadedAt:   time.Now().UTC(),
		FileSize:     size,
		RowCount:     report.TotalRows,
		ColumnCount:  report.TotalColumns,
	}

	cols := make([]ColumnMetadata, len(report.Columns))
	for i, c := range report.Columns {
		cols[i] = ColumnMetadata{
			ID:           uuid.NewString(),
			FileID:       f.ID,
			Position:     i,
			ColumnName:   c.Name,
			OriginalType: c.CurrentType,
			InferredType: c.InferredType,
			NullCount:    c.NullCount,
			UniqueCount:  c.UniqueCount,
		}
	}
	return f, cols
}

// AppliedTypes returns the label each converted column ended up with.
func AppliedTypes(results []inference.ColumnResult) map[string]string {
	out := make(map[string]string, len(results))
	for _, r := range results {
		if r.Status == inference.StatusConverted {
			out[r.Column] = string(r.Target)
		}
	}
	return out
}
