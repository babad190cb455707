// Package sqlite implements store.Repository on modernc.org/sqlite.
//
// SQLite has no timestamp type, so upload times are stored as RFC3339 text in
// UTC with nanosecond precision.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ajitpratap0/typeinfer/pkg/config"
	"github.com/ajitpratap0/typeinfer/pkg/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS processed_files (
	id             TEXT PRIMARY KEY,
	file_name      TEXT NOT NULL,
	original_path  TEXT NOT NULL,
	processed_path TEXT,
	uploaded_at    TEXT NOT NULL,
	file_size      INTEGER NOT NULL,
	row_count      INTEGER NOT NULL,
	column_count   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS column_metadata (
	id            TEXT PRIMARY KEY,
	file_id       TEXT NOT NULL REFERENCES processed_files(id) ON DELETE CASCADE,
	position      INTEGER NOT NULL,
	column_name   TEXT NOT NULL,
	original_type TEXT NOT NULL,
	inferred_type TEXT NOT NULL,
	applied_type  TEXT,
	null_count    INTEGER NOT NULL,
	unique_count  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_column_metadata_file ON column_metadata(file_id, position);
`

// Repo implements store.Repository for SQLite.
type Repo struct {
	db *sql.DB
}

func init() {
	store.Register("sqlite", New)
}

// New opens the database named by cfg.DSN.
func New(ctx context.Context, cfg config.StoreConfig) (store.Repository, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	// a single connection keeps in-memory databases alive across calls
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() { _ = r.db.Close() }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *Repo) SaveProcessedFile(ctx context.Context, f *store.ProcessedFile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO processed_files
			(id, file_name, original_path, processed_path, uploaded_at, file_size, row_count, column_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_name = excluded.file_name,
			original_path = excluded.original_path,
			processed_path = excluded.processed_path,
			uploaded_at = excluded.uploaded_at,
			file_size = excluded.file_size,
			row_count = excluded.row_count,
			column_count = excluded.column_count`,
		f.ID, f.FileName, f.OriginalPath, nullString(f.ProcessedPath),
		formatTime(f.UploadedAt), f.FileSize, f.RowCount, f.ColumnCount)
	if err != nil {
		return fmt.Errorf("insert processed file %s: %w", f.ID, err)
	}
	return nil
}

func (r *Repo) SaveColumns(ctx context.Context, cols []store.ColumnMetadata) error {
	if len(cols) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO column_metadata
			(id, file_id, position, column_name, original_type, inferred_type, applied_type, null_count, unique_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			position = excluded.position,
			column_name = excluded.column_name,
			original_type = excluded.original_type,
			inferred_type = excluded.inferred_type,
			applied_type = excluded.applied_type,
			null_count = excluded.null_count,
			unique_count = excluded.unique_count`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range cols {
		if _, err := stmt.ExecContext(ctx, c.ID, c.FileID, c.Position, c.ColumnName,
			c.OriginalType, c.InferredType, nullString(c.AppliedType), c.NullCount, c.UniqueCount); err != nil {
			return fmt.Errorf("insert column %s: %w", c.ColumnName, err)
		}
	}
	return tx.Commit()
}

func (r *Repo) GetProcessedFile(ctx context.Context, id string) (*store.ProcessedFile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, file_name, original_path, processed_path, uploaded_at, file_size, row_count, column_count
		FROM processed_files WHERE id = ?`, id)
	f, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFound(id)
	}
	return f, err
}

func (r *Repo) ListProcessedFiles(ctx context.Context, limit int) ([]store.ProcessedFile, error) {
	q := `SELECT id, file_name, original_path, processed_path, uploaded_at, file_size, row_count, column_count
		FROM processed_files ORDER BY uploaded_at DESC, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
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
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, file_id, position, column_name, original_type, inferred_type, applied_type, null_count, unique_count
		FROM column_metadata WHERE file_id = ? ORDER BY position`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.ColumnMetadata
	for rows.Next() {
		var c store.ColumnMetadata
		var applied sql.NullString
		if err := rows.Scan(&c.ID, &c.FileID, &c.Position, &c.ColumnName,
			&c.OriginalType, &c.InferredType, &applied, &c.NullCount, &c.UniqueCount); err != nil {
			return nil, err
		}
		c.AppliedType = applied.String
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) SetProcessedPath(ctx context.Context, fileID, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE processed_files SET processed_path = ? WHERE id = ?`,
		nullString(path), fileID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.NotFound(fileID)
	}
	return nil
}

func (r *Repo) SetAppliedTypes(ctx context.Context, fileID string, applied map[string]string) error {
	if len(applied) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for name, label := range applied {
		if _, err := tx.ExecContext(ctx,
			`UPDATE column_metadata SET applied_type = ? WHERE file_id = ? AND column_name = ?`,
			label, fileID, name); err != nil {
			return fmt.Errorf("update column %s: %w", name, err)
		}
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*store.ProcessedFile, error) {
	var f store.ProcessedFile
	var processed sql.NullString
	var uploaded string
	if err := s.Scan(&f.ID, &f.FileName, &f.OriginalPath, &processed, &uploaded,
		&f.FileSize, &f.RowCount, &f.ColumnCount); err != nil {
		return nil, err
	}
	f.ProcessedPath = processed.String
	t, err := parseTime(uploaded)
	if err != nil {
		return nil, fmt.Errorf("file %s: %w", f.ID, err)
	}
	f.UploadedAt = t
	return &f, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// timeLayout has a fixed-width fraction so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime accepts RFC3339 text and the "YYYY-MM-DD HH:MM:SS" form SQLite's
// own date functions produce.
func parseTime(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
