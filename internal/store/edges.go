// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"

	"github.com/kraklabs/roam/internal/model"
)

// InsertEdge persists one Edge, relying on the UNIQUE(source_id,target_id,kind)
// constraint to enforce the exact-triple de-duplication invariant (§3, §8).
// Inserting a duplicate is a silent no-op.
func InsertEdge(ctx context.Context, tx *sql.Tx, e model.Edge) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO edges (source_id, target_id, kind, line)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source_id, target_id, kind) DO NOTHING
	`, e.SourceID, e.TargetID, string(e.Kind), e.Line)
	return err
}

func scanEdge(rows *sql.Rows) (model.Edge, error) {
	var e model.Edge
	err := rows.Scan(&e.ID, &e.SourceID, &e.TargetID, &e.Kind, &e.Line)
	return e, err
}

const edgeColumns = `id, source_id, target_id, kind, line`

// AllEdges returns every edge, ordered by source id then kind (§8 determinism).
func AllEdges(ctx context.Context, q Queryer) ([]model.Edge, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+edgeColumns+` FROM edges ORDER BY source_id, kind, target_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// EdgesInto returns edges whose target_id is symbolID.
func EdgesInto(ctx context.Context, q Queryer, symbolID int64) ([]model.Edge, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+edgeColumns+` FROM edges WHERE target_id=? ORDER BY source_id`, symbolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// EdgesFrom returns edges whose source_id is symbolID.
func EdgesFrom(ctx context.Context, q Queryer, symbolID int64) ([]model.Edge, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+edgeColumns+` FROM edges WHERE source_id=? ORDER BY target_id`, symbolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// InDegreeCounts returns in-degree (multi-edge count) for a set of symbol ids.
func InDegreeCounts(ctx context.Context, db *sql.DB, ids []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(ids))
	err := QueryBatchedIn(ctx, db, ids,
		`SELECT target_id, COUNT(*) FROM edges WHERE target_id IN ({ph}) GROUP BY target_id`,
		BatchOpts{}, func(rows *sql.Rows) error {
			var id int64
			var n int
			if err := rows.Scan(&id, &n); err != nil {
				return err
			}
			out[id] = n
			return nil
		})
	return out, err
}

// ReplaceFileEdges recomputes the file_edges aggregation table from the
// current edges table (§4.2's second pass): count edges (source_file,
// target_file) across all kinds, discarding intra-file edges.
func ReplaceFileEdges(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM file_edges`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO file_edges (source_file_id, target_file_id, kind, symbol_count)
		SELECT sf.file_id, tf.file_id, 'imports', COUNT(*)
		FROM edges e
		JOIN symbols sf ON sf.id = e.source_id
		JOIN symbols tf ON tf.id = e.target_id
		WHERE sf.file_id <> tf.file_id
		GROUP BY sf.file_id, tf.file_id
	`)
	return err
}

// AllFileEdges returns every file_edges row.
func AllFileEdges(ctx context.Context, q Queryer) ([]model.FileEdge, error) {
	rows, err := q.QueryContext(ctx, `SELECT source_file_id, target_file_id, kind, symbol_count FROM file_edges`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.FileEdge
	for rows.Next() {
		var fe model.FileEdge
		if err := rows.Scan(&fe.SourceFileID, &fe.TargetFileID, &fe.Kind, &fe.SymbolCount); err != nil {
			return nil, err
		}
		out = append(out, fe)
	}
	return out, rows.Err()
}
