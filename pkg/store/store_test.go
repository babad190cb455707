package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/typeinfer/pkg/config"
	"github.com/ajitpratap0/typeinfer/pkg/errors"
	"github.com/ajitpratap0/typeinfer/pkg/frame"
	"github.com/ajitpratap0/typeinfer/pkg/inference"
)

// stubRepo records calls made through the Repository interface.
type stubRepo struct {
	Repository
	schemaErr error
	ensured   bool
	closed    bool
}

func (r *stubRepo) EnsureSchema(context.Context) error {
	r.ensured = true
	return r.schemaErr
}

func (r *stubRepo) Close() { r.closed = true }

func TestOpen(t *testing.T) {
	repo := &stubRepo{}
	Register("stub-ok", func(context.Context, config.StoreConfig) (Repository, error) { return repo, nil })

	got, err := Open(context.Background(), config.StoreConfig{Kind: "stub-ok", DSN: "x"})
	require.NoError(t, err)
	assert.Same(t, repo, got)
	assert.True(t, repo.ensured)
	assert.Contains(t, Kinds(), "stub-ok")
}

func TestOpenClosesOnSchemaFailure(t *testing.T) {
	repo := &stubRepo{schemaErr: assert.AnError}
	Register("stub-bad-schema", func(context.Context, config.StoreConfig) (Repository, error) { return repo, nil })

	_, err := Open(context.Background(), config.StoreConfig{Kind: "stub-bad-schema"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeStorage))
	assert.True(t, repo.closed)
}

func TestOpenUnknownKind(t *testing.T) {
	Register("stub-listed", func(context.Context, config.StoreConfig) (Repository, error) { return &stubRepo{}, nil })
	_, err := Open(context.Background(), config.StoreConfig{Kind: "nosuch"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	assert.Contains(t, err.Error(), "stub-listed")

	_, err = Open(context.Background(), config.StoreConfig{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestRegisterPanics(t *testing.T) {
	noop := func(context.Context, config.StoreConfig) (Repository, error) { return nil, nil }
	assert.Panics(t, func() { Register("", noop) })
	assert.Panics(t, func() { Register("stub-nil", nil) })

	Register("stub-dup", noop)
	assert.Panics(t, func() { Register("stub-dup", noop) })
}

func TestRecordFromReport(t *testing.T) {
	report := &inference.Report{
		TotalRows:    10,
		TotalColumns: 2,
		Columns: []inference.ColumnReport{
			{Name: "id", CurrentType: "int64", InferredType: "int64", UniqueCount: 10},
			{Name: "dept", CurrentType: "object", InferredType: "category", NullCount: 2, UniqueCount: 3},
		},
	}

	f, cols := RecordFromReport("/uploads/staff.csv", 512, report)
	_, err := uuid.Parse(f.ID)
	require.NoError(t, err)
	assert.Equal(t, "staff.csv", f.FileName)
	assert.Equal(t, "/uploads/staff.csv", f.OriginalPath)
	assert.Equal(t, int64(512), f.FileSize)
	assert.Equal(t, 10, f.RowCount)
	assert.Equal(t, 2, f.ColumnCount)
	assert.False(t, f.UploadedAt.IsZero())

	require.Len(t, cols, 2)
	assert.Equal(t, f.ID, cols[1].FileID)
	assert.Equal(t, 1, cols[1].Position)
	assert.Equal(t, "object", cols[1].OriginalType)
	assert.Equal(t, "category", cols[1].InferredType)
	assert.Equal(t, 2, cols[1].NullCount)
	assert.NotEqual(t, cols[0].ID, cols[1].ID)
}

func TestAppliedTypes(t *testing.T) {
	results := []inference.ColumnResult{
		{Column: "a", Target: frame.Int64, Status: inference.StatusConverted},
		{Column: "b", Target: frame.Float64, Status: inference.StatusFailed},
		{Column: "c", Target: frame.Bool, Status: inference.StatusSkipped},
	}
	assert.Equal(t, map[string]string{"a": "int64"}, AppliedTypes(results))
}

func TestNotFound(t *testing.T) {
	err := NotFound("abc")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
	assert.Contains(t, err.Error(), "abc")
}
