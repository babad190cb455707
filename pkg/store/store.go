// Package store persists processed-file and column metadata records.
//
// Backends register themselves by kind from an init function; import the
// backend package for its side effect and call Open:
//
//	import _ "github.com/ajitpratap0/typeinfer/pkg/store/sqlite"
//
//	repo, err := store.Open(ctx, cfg.Store)
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ajitpratap0/typeinfer/pkg/config"
	"github.com/ajitpratap0/typeinfer/pkg/errors"
)

// ProcessedFile describes one input file and its converted copy.
type ProcessedFile struct {
	ID            string    `json:"id"`
	FileName      string    `json:"file_name"`
	OriginalPath  string    `json:"original_path"`
	ProcessedPath string    `json:"processed_path,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
	FileSize      int64     `json:"file_size"`
	RowCount      int       `json:"row_count"`
	ColumnCount   int       `json:"column_count"`
}

// ColumnMetadata describes one column of a processed file. AppliedType is
// empty until a type has been applied to the column.
type ColumnMetadata struct {
	ID           string `json:"id"`
	FileID       string `json:"file_id"`
	Position     int    `json:"position"`
	ColumnName   string `json:"column_name"`
	OriginalType string `json:"original_type"`
	InferredType string `json:"inferred_type"`
	AppliedType  string `json:"applied_type,omitempty"`
	NullCount    int    `json:"null_count"`
	UniqueCount  int    `json:"unique_count"`
}

// Repository is implemented by every metadata backend.
type Repository interface {
	// EnsureSchema creates the tables when they do not exist.
	EnsureSchema(ctx context.Context) error

	SaveProcessedFile(ctx context.Context, f *ProcessedFile) error
	// SaveColumns inserts columns, replacing rows with the same ID.
	SaveColumns(ctx context.Context, cols []ColumnMetadata) error

	// GetProcessedFile returns an ErrorTypeNotFound error for unknown IDs.
	GetProcessedFile(ctx context.Context, id string) (*ProcessedFile, error)
	// ListProcessedFiles returns up to limit files, newest first. A limit
	// of zero or less returns every file.
	ListProcessedFiles(ctx context.Context, limit int) ([]ProcessedFile, error)
	// ListColumns returns the columns of a file in column order.
	ListColumns(ctx context.Context, fileID string) ([]ColumnMetadata, error)

	SetProcessedPath(ctx context.Context, fileID, path string) error
	// SetAppliedTypes records the applied label per column name. Names the
	// file does not have are ignored.
	SetAppliedTypes(ctx context.Context, fileID string, applied map[string]string) error

	Close()
}

// Factory opens a backend for cfg.
type Factory func(ctx context.Context, cfg config.StoreConfig) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under kind. Registering the same kind
// twice panics.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("store: Register called with empty kind")
	}
	if f == nil {
		panic("store: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("store: factory already registered for kind=%q", kind))
	}
	factories[kind] = f
}

// Kinds returns the registered backend kinds, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Open opens the backend named by cfg.Kind and ensures its schema.
func Open(ctx context.Context, cfg config.StoreConfig) (Repository, error) {
	if cfg.Kind == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "store: missing kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported store kind %s (registered: %s)",
			cfg.Kind, strings.Join(Kinds(), ", "))
	}
	repo, err := f(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, "failed to open store")
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, "failed to create schema")
	}
	return repo, nil
}

// NotFound builds the error backends return for unknown file IDs.
func NotFound(id string) error {
	return errors.Newf(errors.ErrorTypeNotFound, "processed file %s not found", id).
		WithDetail("id", id)
}
