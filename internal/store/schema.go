// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package store

import "database/sql"

// schemaStatements creates every table named in §3 if it does not already
// exist. Re-running this on an already-initialized database is a no-op.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		language TEXT,
		line_count INTEGER NOT NULL DEFAULT 0,
		file_role TEXT NOT NULL DEFAULT 'source',
		hash TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS symbols (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_id INTEGER NOT NULL REFERENCES files(id),
		name TEXT NOT NULL,
		qualified_name TEXT NOT NULL,
		kind TEXT NOT NULL,
		signature TEXT,
		line_start INTEGER NOT NULL DEFAULT 0,
		line_end INTEGER NOT NULL DEFAULT 0,
		docstring TEXT,
		visibility TEXT NOT NULL DEFAULT 'public',
		is_exported INTEGER NOT NULL DEFAULT 0,
		parent_name TEXT,
		default_value TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_id)`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name)`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_qname ON symbols(qualified_name)`,
	`CREATE TABLE IF NOT EXISTS edges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_id INTEGER NOT NULL REFERENCES symbols(id),
		target_id INTEGER NOT NULL REFERENCES symbols(id),
		kind TEXT NOT NULL,
		line INTEGER NOT NULL DEFAULT 0,
		UNIQUE(source_id, target_id, kind)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id)`,
	`CREATE TABLE IF NOT EXISTS file_edges (
		source_file_id INTEGER NOT NULL REFERENCES files(id),
		target_file_id INTEGER NOT NULL REFERENCES files(id),
		kind TEXT NOT NULL DEFAULT 'imports',
		symbol_count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (source_file_id, target_file_id, kind)
	)`,
	`CREATE TABLE IF NOT EXISTS graph_metrics (
		symbol_id INTEGER PRIMARY KEY REFERENCES symbols(id),
		pagerank REAL NOT NULL DEFAULT 0,
		in_degree INTEGER NOT NULL DEFAULT 0,
		out_degree INTEGER NOT NULL DEFAULT 0,
		betweenness REAL NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS symbol_metrics (
		symbol_id INTEGER PRIMARY KEY REFERENCES symbols(id),
		cognitive_complexity INTEGER NOT NULL DEFAULT 0,
		nesting_depth INTEGER NOT NULL DEFAULT 0,
		param_count INTEGER NOT NULL DEFAULT 0,
		line_count INTEGER NOT NULL DEFAULT 0,
		return_count INTEGER NOT NULL DEFAULT 0,
		bool_op_count INTEGER NOT NULL DEFAULT 0,
		callback_depth INTEGER NOT NULL DEFAULT 0,
		cyclomatic_density REAL NOT NULL DEFAULT 0,
		halstead_volume REAL NOT NULL DEFAULT 0,
		halstead_difficulty REAL NOT NULL DEFAULT 0,
		halstead_effort REAL NOT NULL DEFAULT 0,
		halstead_bugs REAL NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS clusters (
		symbol_id INTEGER PRIMARY KEY REFERENCES symbols(id),
		cluster_id INTEGER NOT NULL,
		cluster_label TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS file_stats (
		file_id INTEGER PRIMARY KEY REFERENCES files(id),
		commit_count INTEGER NOT NULL DEFAULT 0,
		total_churn INTEGER NOT NULL DEFAULT 0,
		distinct_authors INTEGER NOT NULL DEFAULT 0,
		complexity REAL NOT NULL DEFAULT 0,
		health_score REAL NOT NULL DEFAULT 0,
		cochange_entropy REAL NOT NULL DEFAULT 0,
		cognitive_load REAL NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS git_cochanges (
		file_id_a INTEGER NOT NULL REFERENCES files(id),
		file_id_b INTEGER NOT NULL REFERENCES files(id),
		cochange_count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (file_id_a, file_id_b),
		CHECK (file_id_a < file_id_b)
	)`,
	`CREATE TABLE IF NOT EXISTS git_commits (
		sha TEXT PRIMARY KEY,
		author TEXT,
		timestamp INTEGER NOT NULL DEFAULT 0,
		message TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS git_file_changes (
		sha TEXT NOT NULL REFERENCES git_commits(sha),
		file_id INTEGER NOT NULL REFERENCES files(id),
		additions INTEGER NOT NULL DEFAULT 0,
		deletions INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (sha, file_id)
	)`,
	`CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		metrics_json TEXT NOT NULL,
		extra_json TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(timestamp)`,
}

func createSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
