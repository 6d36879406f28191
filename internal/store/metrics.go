// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"

	"github.com/kraklabs/roam/internal/model"
)

// ReplaceGraphMetrics clears and repopulates graph_metrics inside tx —
// called once per index run after GraphAnalytics completes (§2 flow).
func ReplaceGraphMetrics(ctx context.Context, tx *sql.Tx, rows []model.GraphMetrics) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM graph_metrics`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO graph_metrics (symbol_id, pagerank, in_degree, out_degree, betweenness) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.SymbolID, r.PageRank, r.InDegree, r.OutDegree, r.Betweenness); err != nil {
			return err
		}
	}
	return nil
}

// AllGraphMetrics returns every graph_metrics row.
func AllGraphMetrics(ctx context.Context, q Queryer) (map[int64]model.GraphMetrics, error) {
	rows, err := q.QueryContext(ctx, `SELECT symbol_id, pagerank, in_degree, out_degree, betweenness FROM graph_metrics`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]model.GraphMetrics)
	for rows.Next() {
		var m model.GraphMetrics
		if err := rows.Scan(&m.SymbolID, &m.PageRank, &m.InDegree, &m.OutDegree, &m.Betweenness); err != nil {
			return nil, err
		}
		out[m.SymbolID] = m
	}
	return out, rows.Err()
}

// ReplaceSymbolMetrics clears and repopulates symbol_metrics inside tx.
func ReplaceSymbolMetrics(ctx context.Context, tx *sql.Tx, rows []model.SymbolMetrics) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM symbol_metrics`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO symbol_metrics
			(symbol_id, cognitive_complexity, nesting_depth, param_count, line_count,
			 return_count, bool_op_count, callback_depth, cyclomatic_density,
			 halstead_volume, halstead_difficulty, halstead_effort, halstead_bugs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.SymbolID, r.CognitiveComplexity, r.NestingDepth,
			r.ParamCount, r.LineCount, r.ReturnCount, r.BoolOpCount, r.CallbackDepth,
			r.CyclomaticDensity, r.HalsteadVolume, r.HalsteadDifficulty, r.HalsteadEffort, r.HalsteadBugs); err != nil {
			return err
		}
	}
	return nil
}

// AllSymbolMetrics returns every symbol_metrics row keyed by symbol id.
func AllSymbolMetrics(ctx context.Context, q Queryer) (map[int64]model.SymbolMetrics, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT symbol_id, cognitive_complexity, nesting_depth, param_count, line_count,
			return_count, bool_op_count, callback_depth, cyclomatic_density,
			halstead_volume, halstead_difficulty, halstead_effort, halstead_bugs
		FROM symbol_metrics
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]model.SymbolMetrics)
	for rows.Next() {
		var m model.SymbolMetrics
		if err := rows.Scan(&m.SymbolID, &m.CognitiveComplexity, &m.NestingDepth, &m.ParamCount,
			&m.LineCount, &m.ReturnCount, &m.BoolOpCount, &m.CallbackDepth, &m.CyclomaticDensity,
			&m.HalsteadVolume, &m.HalsteadDifficulty, &m.HalsteadEffort, &m.HalsteadBugs); err != nil {
			return nil, err
		}
		out[m.SymbolID] = m
	}
	return out, rows.Err()
}

// ReplaceClusters clears and repopulates the clusters table inside tx.
func ReplaceClusters(ctx context.Context, tx *sql.Tx, rows []model.Cluster) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM clusters`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO clusters (symbol_id, cluster_id, cluster_label) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.SymbolID, r.ClusterID, nullable(r.ClusterLabel)); err != nil {
			return err
		}
	}
	return nil
}

// AllClusters returns every clusters row keyed by symbol id.
func AllClusters(ctx context.Context, q Queryer) (map[int64]model.Cluster, error) {
	rows, err := q.QueryContext(ctx, `SELECT symbol_id, cluster_id, cluster_label FROM clusters`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]model.Cluster)
	for rows.Next() {
		var c model.Cluster
		var label sql.NullString
		if err := rows.Scan(&c.SymbolID, &c.ClusterID, &label); err != nil {
			return nil, err
		}
		c.ClusterLabel = label.String
		out[c.SymbolID] = c
	}
	return out, rows.Err()
}
