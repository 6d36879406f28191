// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package testkit provides shared test helpers for spinning up a Store
// and seeding it with files, symbols, and edges.
package testkit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/store"
)

// OpenStore creates a fresh on-disk Store under t.TempDir() and registers
// cleanup to close it.
func OpenStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "roam.db")
	st, err := store.Open(dbPath, 2, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// SeedFile inserts a file row and returns its id.
func SeedFile(t *testing.T, st *store.Store, f model.File) int64 {
	t.Helper()
	ctx := context.Background()
	tx, err := st.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	id, err := store.UpsertFile(ctx, tx, f)
	if err != nil {
		t.Fatalf("upsert file: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return id
}

// SeedSymbol inserts a symbol row and returns its id.
func SeedSymbol(t *testing.T, st *store.Store, s model.Symbol) int64 {
	t.Helper()
	ctx := context.Background()
	tx, err := st.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	id, err := store.InsertSymbol(ctx, tx, s)
	if err != nil {
		t.Fatalf("insert symbol: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return id
}

// SeedEdge inserts a directed edge between two symbols.
func SeedEdge(t *testing.T, st *store.Store, e model.Edge) {
	t.Helper()
	ctx := context.Background()
	tx, err := st.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	if err := store.InsertEdge(ctx, tx, e); err != nil {
		t.Fatalf("insert edge: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}
