// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package store is the single-writer, many-reader relational persistence
// layer for roam. One Store owns a write handle (SetMaxOpenConns(1)) and a
// pool of read-only handles opened with `mode=ro`; every index run wraps
// per-file ingestion, resolution, and metrics computation in one write
// transaction, while queries always go through a read-only handle so they
// never block on or are blocked by the writer.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"
)

// cloudSyncMarkers are path fragments that indicate the database file lives
// inside a folder synced by a cloud-storage client. Those clients often hold
// their own file locks or snapshot files mid-write, so WAL's shared-memory
// file and checkpointing are unsafe there; fall back to the plain rollback
// journal with an exclusive lock instead.
var cloudSyncMarkers = []string{
	"onedrive", "dropbox", "google drive", "googledrive", "icloud",
}

// Store is the persistent schema plus batched-IN query helpers (§4.1).
type Store struct {
	path     string
	write    *sql.DB
	readPool []*sql.DB
	next     int
	log      *slog.Logger
}

// Open creates the database file if needed, applies schema DDL idempotently,
// runs additive migrations, and returns a Store ready for use. readers
// controls the size of the read-only connection pool; values below 1 fall
// back to 4.
func Open(path string, readers int, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	if readers < 1 {
		readers = 4
	}

	dsn := writeDSN(path)
	write, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open write handle: %w", err)
	}
	write.SetMaxOpenConns(1)
	write.SetMaxIdleConns(1)

	if err := applyPragmas(write, path); err != nil {
		write.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := createSchema(write); err != nil {
		write.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if err := runMigrations(write); err != nil {
		write.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &Store{path: path, write: write, log: log.With("component", "store")}

	roDSN := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)
	for i := 0; i < readers; i++ {
		ro, err := sql.Open("sqlite", roDSN)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open read handle %d: %w", i, err)
		}
		ro.SetMaxOpenConns(1)
		s.readPool = append(s.readPool, ro)
	}

	s.log.Info("store.open", "path", path, "readers", readers)
	return s, nil
}

func writeDSN(path string) string {
	return fmt.Sprintf("file:%s", path)
}

func usesCloudSync(path string) bool {
	lower := strings.ToLower(path)
	for _, marker := range cloudSyncMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// applyPragmas implements the adaptive-durability rule from §4.1: WAL
// everywhere except inside cloud-synced folders, where the rollback journal
// plus an exclusive lock avoids corrupting the sync client's own state.
func applyPragmas(db *sql.DB, path string) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -65536", // 64 MB
		"PRAGMA foreign_keys = ON",
	}
	if usesCloudSync(path) {
		pragmas = append(pragmas, "PRAGMA journal_mode = DELETE", "PRAGMA locking_mode = EXCLUSIVE")
	} else {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Write returns the single write handle. Callers must serialize their own
// multi-statement transactions against it; SetMaxOpenConns(1) already
// prevents concurrent connections from the driver's side.
func (s *Store) Write() *sql.DB { return s.write }

// Read returns one read-only handle from the pool, round-robin.
func (s *Store) Read() *sql.DB {
	h := s.readPool[s.next%len(s.readPool)]
	s.next++
	return h
}

// BeginTx starts a write transaction on the single writer handle.
func (s *Store) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.write.BeginTx(ctx, nil)
}

// Close releases the write handle and every read-only handle.
func (s *Store) Close() error {
	var firstErr error
	for _, ro := range s.readPool {
		if err := ro.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := s.write.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Path returns the database file path this Store was opened from.
func (s *Store) Path() string { return s.path }
