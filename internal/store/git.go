// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"

	"github.com/kraklabs/roam/internal/model"
)

// UpsertGitCommit inserts a commit's metadata, ignoring duplicates (commits
// are re-ingested idempotently when the log window overlaps a prior run).
func UpsertGitCommit(ctx context.Context, tx *sql.Tx, c model.GitCommit) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO git_commits (sha, author, timestamp, message) VALUES (?, ?, ?, ?)
		ON CONFLICT(sha) DO NOTHING
	`, c.SHA, nullable(c.Author), c.Timestamp, nullable(c.Message))
	return err
}

// InsertGitFileChange records one file's churn within one commit.
func InsertGitFileChange(ctx context.Context, tx *sql.Tx, c model.GitFileChange) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO git_file_changes (sha, file_id, additions, deletions) VALUES (?, ?, ?, ?)
		ON CONFLICT(sha, file_id) DO UPDATE SET additions=excluded.additions, deletions=excluded.deletions
	`, c.SHA, c.FileID, c.Additions, c.Deletions)
	return err
}

// UpsertGitCochange increments the cochange counter for an unordered file
// pair, enforcing the a < b invariant (§3) at the call site.
func UpsertGitCochange(ctx context.Context, tx *sql.Tx, a, b int64, delta int) error {
	if a == b {
		return nil
	}
	if a > b {
		a, b = b, a
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO git_cochanges (file_id_a, file_id_b, cochange_count) VALUES (?, ?, ?)
		ON CONFLICT(file_id_a, file_id_b) DO UPDATE SET cochange_count = cochange_count + excluded.cochange_count
	`, a, b, delta)
	return err
}

// CochangesForFile returns every cochange pair involving fileID, ordered by
// count descending (§4.6.4 Coupling).
func CochangesForFile(ctx context.Context, q Queryer, fileID int64) ([]model.GitCochange, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT file_id_a, file_id_b, cochange_count FROM git_cochanges
		WHERE file_id_a = ? OR file_id_b = ?
		ORDER BY cochange_count DESC
	`, fileID, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.GitCochange
	for rows.Next() {
		var c model.GitCochange
		if err := rows.Scan(&c.FileIDA, &c.FileIDB, &c.CochangeCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ChurnTotals is one file's aggregated commit/churn/author counts.
type ChurnTotals struct {
	CommitCount     int
	TotalChurn      int
	DistinctAuthors int
}

// FileChurnTotals aggregates commit_count, total_churn, and distinct_authors
// per file from git_file_changes joined against git_commits (the churn half
// of FileStats, §3).
func FileChurnTotals(ctx context.Context, q Queryer) (map[int64]ChurnTotals, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT fc.file_id, COUNT(DISTINCT fc.sha), SUM(fc.additions + fc.deletions), COUNT(DISTINCT c.author)
		FROM git_file_changes fc
		JOIN git_commits c ON c.sha = fc.sha
		GROUP BY fc.file_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]ChurnTotals)
	for rows.Next() {
		var fileID int64
		var t ChurnTotals
		if err := rows.Scan(&fileID, &t.CommitCount, &t.TotalChurn, &t.DistinctAuthors); err != nil {
			return nil, err
		}
		out[fileID] = t
	}
	return out, rows.Err()
}

// AllGitCochanges returns every git_cochanges row.
func AllGitCochanges(ctx context.Context, q Queryer) ([]model.GitCochange, error) {
	rows, err := q.QueryContext(ctx, `SELECT file_id_a, file_id_b, cochange_count FROM git_cochanges`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.GitCochange
	for rows.Next() {
		var c model.GitCochange
		if err := rows.Scan(&c.FileIDA, &c.FileIDB, &c.CochangeCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AllFileStats returns every file_stats row keyed by file id.
func AllFileStats(ctx context.Context, q Queryer) (map[int64]model.FileStats, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT file_id, commit_count, total_churn, distinct_authors, complexity, health_score, cochange_entropy, cognitive_load
		FROM file_stats
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]model.FileStats)
	for rows.Next() {
		var s model.FileStats
		if err := rows.Scan(&s.FileID, &s.CommitCount, &s.TotalChurn, &s.DistinctAuthors,
			&s.Complexity, &s.HealthScore, &s.CochangeEntropy, &s.CognitiveLoad); err != nil {
			return nil, err
		}
		out[s.FileID] = s
	}
	return out, rows.Err()
}

// FileStatsFor loads the file_stats row for a file, or a zero value if absent.
func FileStatsFor(ctx context.Context, q Queryer, fileID int64) (model.FileStats, error) {
	var s model.FileStats
	s.FileID = fileID
	err := q.QueryRowContext(ctx, `
		SELECT commit_count, total_churn, distinct_authors, complexity, health_score, cochange_entropy, cognitive_load
		FROM file_stats WHERE file_id=?
	`, fileID).Scan(&s.CommitCount, &s.TotalChurn, &s.DistinctAuthors, &s.Complexity, &s.HealthScore, &s.CochangeEntropy, &s.CognitiveLoad)
	if err == sql.ErrNoRows {
		return s, nil
	}
	return s, err
}

// UpsertFileStats writes one file's aggregate churn/health stats.
func UpsertFileStats(ctx context.Context, tx *sql.Tx, s model.FileStats) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO file_stats (file_id, commit_count, total_churn, distinct_authors, complexity, health_score, cochange_entropy, cognitive_load)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET
			commit_count=excluded.commit_count, total_churn=excluded.total_churn,
			distinct_authors=excluded.distinct_authors, complexity=excluded.complexity,
			health_score=excluded.health_score, cochange_entropy=excluded.cochange_entropy,
			cognitive_load=excluded.cognitive_load
	`, s.FileID, s.CommitCount, s.TotalChurn, s.DistinctAuthors, s.Complexity, s.HealthScore, s.CochangeEntropy, s.CognitiveLoad)
	return err
}
