// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kraklabs/roam/internal/model"
)

// UpsertFile inserts or replaces (by path) a File row inside tx, returning
// its id. Re-index replaces whole-file contents transactionally (§3).
func UpsertFile(ctx context.Context, tx *sql.Tx, f model.File) (int64, error) {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO files (path, language, line_count, file_role, hash)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			language=excluded.language,
			line_count=excluded.line_count,
			file_role=excluded.file_role,
			hash=excluded.hash
	`, f.Path, nullable(f.Language), f.LineCount, string(f.FileRole), nullable(f.Hash))
	if err != nil {
		return 0, err
	}
	return FileIDByPath(ctx, tx, f.Path)
}

// FileIDByPath looks up a file's id by its normalized path within a tx.
func FileIDByPath(ctx context.Context, q Queryer, path string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM files WHERE path = ?`, path).Scan(&id)
	return id, err
}

// DeleteSymbolsForFile removes every symbol owned by fileID (and their
// edges, cascading manually since SQLite foreign keys don't cascade deletes
// unless declared ON DELETE CASCADE) ahead of re-ingesting that file.
func DeleteSymbolsForFile(ctx context.Context, tx *sql.Tx, fileID int64) error {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM symbols WHERE file_id = ?`, fileID)
	if err != nil {
		return err
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM edges WHERE source_id=? OR target_id=?`, id, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM graph_metrics WHERE symbol_id=?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM symbol_metrics WHERE symbol_id=?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM clusters WHERE symbol_id=?`, id); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM symbols WHERE file_id = ?`, fileID)
	return err
}

// GetFile loads one file row by id.
func GetFile(ctx context.Context, q Queryer, id int64) (model.File, error) {
	var f model.File
	var lang, hash sql.NullString
	err := q.QueryRowContext(ctx, `SELECT id, path, language, line_count, file_role, hash FROM files WHERE id=?`, id).
		Scan(&f.ID, &f.Path, &lang, &f.LineCount, &f.FileRole, &hash)
	f.Language = lang.String
	f.Hash = hash.String
	return f, err
}

// AllFiles returns every file row, ordered by path.
func AllFiles(ctx context.Context, q Queryer) ([]model.File, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, path, language, line_count, file_role, hash FROM files ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.File
	for rows.Next() {
		var f model.File
		var lang, hash sql.NullString
		if err := rows.Scan(&f.ID, &f.Path, &lang, &f.LineCount, &f.FileRole, &hash); err != nil {
			return nil, err
		}
		f.Language = lang.String
		f.Hash = hash.String
		out = append(out, f)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Queryer is satisfied by *sql.DB, *sql.Tx, and *sql.Conn; query helpers
// accept it so they can run against either a live transaction or a
// read-only pooled handle.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")
