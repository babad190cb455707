// Package postgres implements store.Repository on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ajitpratap0/typeinfer/pkg/config"
	"github.com/ajitpratap0/typeinfer/pkg/store"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS processed_files (
		id             UUID PRIMARY KEY,
		file_name      TEXT NOT NULL,
		original_path  TEXT NOT NULL,
		processed_path TEXT,
		uploaded_at    TIMESTAMPTZ NOT NULL,
		file_size      BIGINT NOT NULL,
		row_count      INTEGER NOT NULL,
		column_count   INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS column_metadata (
		id            UUID PRIMARY KEY,
		file_id       UUID NOT NULL REFERENCES processed_files(id) ON DELETE CASCADE,
		position      INTEGER NOT NULL,
		column_name   TEXT NOT NULL,
		original_type TEXT NOT NULL,
		inferred_type TEXT NOT NULL,
		applied_type  TEXT,
		null_count    INTEGER NOT NULL,
		unique_count  INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_column_metadata_file ON column_metadata(file_id, position)`,
}

const fileColumns = `id::text, file_name, original_path, COALESCE(processed_path, ''), uploaded_at, file_size, row_count, column_count`

// Repo implements store.Repository for Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

func init() {
	store.Register("postgres", New)
}

// New connects a pool to cfg.DSN.
func New(ctx context.Context, cfg config.StoreConfig) (store.Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Repo{pool: pool}, nil
}

// Close closes the connection pool.
func (r *Repo) Close() {
	r.pool.Close()
}

func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func (r *Repo) SaveProcessedFile(ctx context.Context, f *store.ProcessedFile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO processed_files
			(id, file_name, original_path, processed_path, uploaded_at, file_size, row_count, column_count)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			file_name = EXCLUDED.file_name,
			original_path = EXCLUDED.original_path,
			processed_path = EXCLUDED.processed_path,
			uploaded_at = EXCLUDED.uploaded_at,
			file_size = EXCLUDED.file_size,
			row_count = EXCLUDED.row_count,
			column_count = EXCLUDED.column_count`,
		f.ID, f.FileName, f.OriginalPath, f.ProcessedPath, f.UploadedAt, f.FileSize, f.RowCount, f.ColumnCount)
	if err != nil {
		return fmt.Errorf("insert processed file %s: %w", f.ID, err)
	}
	return nil
}

// SaveColumns sends every row in one batch.
func (r *Repo) SaveColumns(ctx context.Context, cols []store.ColumnMetadata) error {
	if len(cols) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, c := range cols {
		batch.Queue(`
			INSERT INTO column_metadata
				(id, file_id, position, column_name, original_type, inferred_type, applied_type, null_count, unique_count)
			VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				position = EXCLUDED.position,
				column_name = EXCLUDED.column_name,
				original_type = EXCLUDED.original_type,
				inferred_type = EXCLUDED.inferred_type,
				applied_type = EXCLUDED.applied_type,
				null_count = EXCLUDED.null_count,
				unique_count = EXCLUDED.unique_count`,
			c.ID, c.FileID, c.Position, c.ColumnName, c.OriginalType, c.InferredType,
			c.AppliedType, c.NullCount, c.UniqueCount)
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert columns: %w", err)
	}
	return nil
}

func (r *Repo) GetProcessedFile(ctx context.Context, id string) (*store.ProcessedFile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+fileColumns+` FROM processed_files WHERE id::text = $1`, id)
	f, err := scanFile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.NotFound(id)
	}
	return f, err
}

func (r *Repo) ListProcessedFiles(ctx context.Context, limit int) ([]store.ProcessedFile, error) {
	q := `SELECT ` + fileColumns + ` FROM processed_files ORDER BY uploaded_at DESC, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.ProcessedFile
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *Repo) ListColumns(ctx context.Context, fileID string) ([]store.ColumnMetadata, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, file_id::text, position, column_name, original_type, inferred_type,
			COALESCE(applied_type, ''), null_count, unique_count
		FROM column_metadata WHERE file_id::text = $1 ORDER BY position`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.ColumnMetadata
	for rows.Next() {
		var c store.ColumnMetadata
		if err := rows.Scan(&c.ID, &c.FileID, &c.Position, &c.ColumnName,
			&c.OriginalType, &c.InferredType, &c.AppliedType, &c.NullCount, &c.UniqueCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) SetProcessedPath(ctx context.Context, fileID, path string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE processed_files SET processed_path = NULLIF($1, '') WHERE id::text = $2`, path, fileID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.NotFound(fileID)
	}
	return nil
}

func (r *Repo) SetAppliedTypes(ctx context.Context, fileID string, applied map[string]string) error {
	if len(applied) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for name, label := range applied {
		if _, err := tx.Exec(ctx,
			`UPDATE column_metadata SET applied_type = $1 WHERE file_id::text = $2 AND column_name = $3`,
			label, fileID, name); err != nil {
			return fmt.Errorf("update column %s: %w", name, err)
		}
	}
	return tx.Commit(ctx)
}

func scanFile(row pgx.Row) (*store.ProcessedFile, error) {
	var f store.ProcessedFile
	if err := row.Scan(&f.ID, &f.FileName, &f.OriginalPath, &f.ProcessedPath, &f.UploadedAt,
		&f.FileSize, &f.RowCount, &f.ColumnCount); err != nil {
		return nil, err
	}
	f.UploadedAt = f.UploadedAt.UTC()
	return &f, nil
}
