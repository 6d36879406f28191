// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/kraklabs/roam/internal/model"
)

// InsertSnapshot persists one aggregate-metrics row, round-tripping unknown
// keys via the extra_json blob (§8 Snapshot round-trip).
func InsertSnapshot(ctx context.Context, tx *sql.Tx, s model.Snapshot) (int64, error) {
	metricsJSON, err := json.Marshal(s.Metrics)
	if err != nil {
		return 0, err
	}
	var extraJSON []byte
	if s.Extra != nil {
		extraJSON, err = json.Marshal(s.Extra)
		if err != nil {
			return 0, err
		}
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO snapshots (timestamp, metrics_json, extra_json) VALUES (?, ?, ?)`,
		s.Timestamp, string(metricsJSON), nullableBytes(extraJSON))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// RecentSnapshots returns up to limit snapshots ordered oldest-first, the
// shape FitnessEngine's trend/anomaly detectors consume.
func RecentSnapshots(ctx context.Context, q Queryer, limit int) ([]model.Snapshot, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, timestamp, metrics_json, extra_json FROM snapshots
		ORDER BY timestamp DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Snapshot
	for rows.Next() {
		var s model.Snapshot
		var metricsJSON string
		var extraJSON sql.NullString
		if err := rows.Scan(&s.ID, &s.Timestamp, &metricsJSON, &extraJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(metricsJSON), &s.Metrics); err != nil {
			return nil, err
		}
		if extraJSON.Valid {
			if err := json.Unmarshal([]byte(extraJSON.String), &s.Extra); err != nil {
				return nil, err
			}
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Caller wants oldest-first for trend analysis.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
