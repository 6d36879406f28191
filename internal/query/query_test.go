// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "roam.db")
	st, err := store.Open(dbPath, 2, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st), st
}

// seedChain creates file a.go with exported Foo() and file b.go with
// exported Bar() where Bar calls Foo, i.e. Foo has one real caller and Bar
// has none (dead candidate).
func seedChain(t *testing.T, st *store.Store) (fooID, barID int64) {
	t.Helper()
	ctx := context.Background()
	tx, err := st.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback()

	aID, err := store.UpsertFile(ctx, tx, model.File{Path: "a.go", FileRole: model.RoleSource, LineCount: 10})
	if err != nil {
		t.Fatalf("upsert file a: %v", err)
	}
	bID, err := store.UpsertFile(ctx, tx, model.File{Path: "b.go", FileRole: model.RoleSource, LineCount: 10})
	if err != nil {
		t.Fatalf("upsert file b: %v", err)
	}

	fooID, err = store.InsertSymbol(ctx, tx, model.Symbol{FileID: aID, Name: "Foo", QualifiedName: "a.Foo", Kind: model.KindFunction, LineStart: 1, LineEnd: 3, IsExported: true})
	if err != nil {
		t.Fatalf("insert Foo: %v", err)
	}
	barID, err = store.InsertSymbol(ctx, tx, model.Symbol{FileID: bID, Name: "Bar", QualifiedName: "b.Bar", Kind: model.KindFunction, LineStart: 1, LineEnd: 3, IsExported: true})
	if err != nil {
		t.Fatalf("insert Bar: %v", err)
	}

	if err := store.InsertEdge(ctx, tx, model.Edge{SourceID: barID, TargetID: fooID, Kind: model.EdgeCall, Line: 2}); err != nil {
		t.Fatalf("insert edge: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return fooID, barID
}

func TestDeadCode_UnreferencedExportIsConfidence100(t *testing.T) {
	e, st := newTestEngine(t)
	_, barID := seedChain(t, st)

	result, err := e.DeadCode(context.Background(), DeadCodeOptions{}, nil)
	if err != nil {
		t.Fatalf("dead code: %v", err)
	}
	if len(result.Findings) != 1 || result.Findings[0].SymbolID != barID {
		t.Fatalf("expected exactly Bar reported dead, got %+v", result.Findings)
	}
	if result.Findings[0].Confidence != 100 {
		t.Fatalf("expected confidence 100, got %d", result.Findings[0].Confidence)
	}
}

func TestDeadCode_NameShadowingDropsConfidenceTo70(t *testing.T) {
	e, st := newTestEngine(t)
	ctx := context.Background()
	tx, err := st.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}

	fileA, _ := store.UpsertFile(ctx, tx, model.File{Path: "a.go", FileRole: model.RoleSource})
	fileB, _ := store.UpsertFile(ctx, tx, model.File{Path: "b.go", FileRole: model.RoleSource})
	referenced, _ := store.InsertSymbol(ctx, tx, model.Symbol{FileID: fileA, Name: "parse", QualifiedName: "a.parse", Kind: model.KindFunction, LineStart: 1, LineEnd: 2, IsExported: true})
	unreferenced, _ := store.InsertSymbol(ctx, tx, model.Symbol{FileID: fileB, Name: "parse", QualifiedName: "b.parse", Kind: model.KindFunction, LineStart: 1, LineEnd: 2, IsExported: true})
	caller, _ := store.InsertSymbol(ctx, tx, model.Symbol{FileID: fileA, Name: "caller", QualifiedName: "a.caller", Kind: model.KindFunction, LineStart: 4, LineEnd: 6, IsExported: true})
	if err := store.InsertEdge(ctx, tx, model.Edge{SourceID: caller, TargetID: referenced, Kind: model.EdgeCall}); err != nil {
		t.Fatalf("insert edge: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	result, err := e.DeadCode(ctx, DeadCodeOptions{}, nil)
	if err != nil {
		t.Fatalf("dead code: %v", err)
	}
	var found bool
	for _, f := range result.Findings {
		if f.SymbolID == unreferenced {
			found = true
			if f.Confidence != 70 {
				t.Fatalf("expected confidence 70 for shadowed name, got %d", f.Confidence)
			}
		}
	}
	if !found {
		t.Fatalf("expected unreferenced parse to be reported, got %+v", result.Findings)
	}
}

func TestBlastRadius_ChainOfFour(t *testing.T) {
	e, st := newTestEngine(t)
	ctx := context.Background()
	tx, err := st.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	f, _ := store.UpsertFile(ctx, tx, model.File{Path: "chain.go", FileRole: model.RoleSource})
	a, _ := store.InsertSymbol(ctx, tx, model.Symbol{FileID: f, Name: "A", Kind: model.KindFunction, LineStart: 1, LineEnd: 1})
	b, _ := store.InsertSymbol(ctx, tx, model.Symbol{FileID: f, Name: "B", Kind: model.KindFunction, LineStart: 2, LineEnd: 2})
	c, _ := store.InsertSymbol(ctx, tx, model.Symbol{FileID: f, Name: "C", Kind: model.KindFunction, LineStart: 3, LineEnd: 3})
	d, _ := store.InsertSymbol(ctx, tx, model.Symbol{FileID: f, Name: "D", Kind: model.KindFunction, LineStart: 4, LineEnd: 4})
	store.InsertEdge(ctx, tx, model.Edge{SourceID: a, TargetID: b, Kind: model.EdgeCall})
	store.InsertEdge(ctx, tx, model.Edge{SourceID: b, TargetID: c, Kind: model.EdgeCall})
	store.InsertEdge(ctx, tx, model.Edge{SourceID: c, TargetID: d, Kind: model.EdgeCall})
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	result, err := e.BlastRadius(ctx, []int64{d})
	if err != nil {
		t.Fatalf("blast radius: %v", err)
	}
	if result.ReachableCount != 3 {
		t.Fatalf("expected 3 reachable symbols from D, got %d: %v", result.ReachableCount, result.ReachableSymbolIDs)
	}
}

func TestGrep_CaseInsensitiveSubstring(t *testing.T) {
	e, st := newTestEngine(t)
	seedChain(t, st)

	matches, err := e.Grep(context.Background(), "FOO", GrepFilter{})
	if err != nil {
		t.Fatalf("grep: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "Foo" {
		t.Fatalf("expected Foo match, got %+v", matches)
	}
}
