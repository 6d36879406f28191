// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"

	"github.com/kraklabs/roam/internal/model"
)

// InsertSymbol persists a new Symbol row and returns its assigned id.
func InsertSymbol(ctx context.Context, tx *sql.Tx, s model.Symbol) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO symbols
			(file_id, name, qualified_name, kind, signature, line_start, line_end,
			 docstring, visibility, is_exported, parent_name, default_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.FileID, s.Name, s.QualifiedName, string(s.Kind), nullable(s.Signature),
		s.LineStart, s.LineEnd, nullable(s.Docstring), string(s.Visibility),
		boolToInt(s.IsExported), nullable(s.ParentName), nullable(s.DefaultValue))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func scanSymbol(rows *sql.Rows) (model.Symbol, error) {
	var s model.Symbol
	var sig, doc, parent, def sql.NullString
	var exported int
	err := rows.Scan(&s.ID, &s.FileID, &s.Name, &s.QualifiedName, &s.Kind, &sig,
		&s.LineStart, &s.LineEnd, &doc, &s.Visibility, &exported, &parent, &def)
	s.Signature = sig.String
	s.Docstring = doc.String
	s.ParentName = parent.String
	s.DefaultValue = def.String
	s.IsExported = exported != 0
	return s, err
}

const symbolColumns = `id, file_id, name, qualified_name, kind, signature, line_start, line_end, docstring, visibility, is_exported, parent_name, default_value`

// SymbolsForFile returns every symbol owned by fileID, ordered by line_start
// (the Resolver's "per-file list of symbols sorted by line_start", §4.2).
func SymbolsForFile(ctx context.Context, q Queryer, fileID int64) ([]model.Symbol, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+symbolColumns+` FROM symbols WHERE file_id=? ORDER BY line_start`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Symbol
	for rows.Next() {
		s, err := scanSymbol(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// AllSymbols returns every symbol in the store, ordered by id ascending —
// the deterministic ordering the Resolver and QueryEngine rely on (§8).
func AllSymbols(ctx context.Context, q Queryer) ([]model.Symbol, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+symbolColumns+` FROM symbols ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Symbol
	for rows.Next() {
		s, err := scanSymbol(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSymbol loads one symbol row by id.
func GetSymbol(ctx context.Context, q Queryer, id int64) (model.Symbol, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+symbolColumns+` FROM symbols WHERE id=?`, id)
	if err != nil {
		return model.Symbol{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		return model.Symbol{}, ErrNotFound
	}
	return scanSymbol(rows)
}

// SymbolsByIDs loads symbols for a set of ids, chunked via batched_in.
func SymbolsByIDs(ctx context.Context, db *sql.DB, ids []int64) ([]model.Symbol, error) {
	var out []model.Symbol
	err := QueryBatchedIn(ctx, db, ids, `SELECT `+symbolColumns+` FROM symbols WHERE id IN ({ph})`, BatchOpts{}, func(rows *sql.Rows) error {
		s, err := scanSymbol(rows)
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	return out, err
}
