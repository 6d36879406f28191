// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// migration is a single additive column migration. Applying it twice is
// harmless: "duplicate column" errors from SQLite are swallowed.
type migration struct {
	Table  string
	Column string
	Def    string
}

// pendingMigrations is the ordered list of additive schema changes applied
// after the base CREATE TABLE IF NOT EXISTS pass, so every already-deployed
// database picks up new optional columns without a destructive rewrite.
var pendingMigrations = []migration{
	{Table: "files", Column: "hash", Def: "TEXT"},
	{Table: "symbols", Column: "default_value", Def: "TEXT"},
	{Table: "file_stats", Column: "cognitive_load", Def: "REAL NOT NULL DEFAULT 0"},
}

func runMigrations(db *sql.DB) error {
	for _, m := range pendingMigrations {
		exists, err := columnExists(db, m.Table, m.Column)
		if err != nil {
			return fmt.Errorf("check column %s.%s: %w", m.Table, m.Column, err)
		}
		if exists {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		if _, err := db.Exec(stmt); err != nil {
			if isAlreadyExists(err) {
				continue
			}
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

func columnExists(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name       string
			ctype      string
			notnull    int
			dfltValue  sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if strings.EqualFold(name, column) {
			return true, nil
		}
	}
	return false, rows.Err()
}

func isAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate column") || strings.Contains(msg, "already exists")
}
