// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"testing"

	"github.com/kraklabs/roam/internal/model"
)

func TestResolveAll_Locality(t *testing.T) {
	files := map[int64]string{1: "src/a.ts", 2: "src/b.ts"}
	symbols := []model.Symbol{
		{ID: 1, FileID: 1, Name: "caller", QualifiedName: "a.caller", Kind: model.KindFunction, LineStart: 1, LineEnd: 5, IsExported: true},
		{ID: 2, FileID: 1, Name: "helpers", QualifiedName: "a.helpers", Kind: model.KindFunction, LineStart: 10, LineEnd: 15, IsExported: true},
		{ID: 3, FileID: 2, Name: "helpers", QualifiedName: "b.helpers", Kind: model.KindFunction, LineStart: 1, LineEnd: 5, IsExported: true},
	}
	idx := BuildIndex(symbols, files)

	refs := []model.Reference{
		{SourceName: "caller", TargetName: "helpers", Kind: model.EdgeCall, Line: 3, SourceFile: "src/a.ts"},
	}
	edges, _ := ResolveAll(idx, refs)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if edges[0].TargetID != 2 {
		t.Fatalf("expected locality-preferred target 2 (src/a.ts:helpers), got %d", edges[0].TargetID)
	}
}

func TestResolveAll_SelfEdgeSuppressed(t *testing.T) {
	files := map[int64]string{1: "src/a.ts"}
	symbols := []model.Symbol{
		{ID: 1, FileID: 1, Name: "recur", QualifiedName: "a.recur", Kind: model.KindFunction, LineStart: 1, LineEnd: 10},
	}
	idx := BuildIndex(symbols, files)
	refs := []model.Reference{
		{SourceName: "recur", TargetName: "recur", Kind: model.EdgeCall, Line: 5, SourceFile: "src/a.ts"},
	}
	edges, _ := ResolveAll(idx, refs)
	if len(edges) != 0 {
		t.Fatalf("expected self-edge to be suppressed, got %d edges", len(edges))
	}
}

func TestResolveAll_TieBreakLowestID(t *testing.T) {
	files := map[int64]string{1: "src/a.ts", 2: "other/b.ts", 3: "another/c.ts"}
	symbols := []model.Symbol{
		{ID: 1, FileID: 1, Name: "caller", QualifiedName: "a.caller", Kind: model.KindFunction, LineStart: 1, LineEnd: 5},
		{ID: 5, FileID: 2, Name: "parse", QualifiedName: "b.parse", Kind: model.KindFunction, LineStart: 1, LineEnd: 5, IsExported: true},
		{ID: 4, FileID: 3, Name: "parse", QualifiedName: "c.parse", Kind: model.KindFunction, LineStart: 1, LineEnd: 5, IsExported: true},
	}
	idx := BuildIndex(symbols, files)
	refs := []model.Reference{
		{SourceName: "caller", TargetName: "parse", Kind: model.EdgeCall, Line: 3, SourceFile: "src/a.ts"},
	}
	edges, _ := ResolveAll(idx, refs)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if edges[0].TargetID != 4 {
		t.Fatalf("expected deterministic lowest-id tie-break (4), got %d", edges[0].TargetID)
	}
}

func TestResolveAll_FileEdgeAggregation(t *testing.T) {
	files := map[int64]string{1: "src/a.ts", 2: "src/b.ts"}
	symbols := []model.Symbol{
		{ID: 1, FileID: 1, Name: "caller", QualifiedName: "a.caller", LineStart: 1, LineEnd: 10},
		{ID: 2, FileID: 2, Name: "helperOne", QualifiedName: "b.helperOne", LineStart: 1, LineEnd: 5, IsExported: true},
		{ID: 3, FileID: 2, Name: "helperTwo", QualifiedName: "b.helperTwo", LineStart: 6, LineEnd: 10, IsExported: true},
	}
	idx := BuildIndex(symbols, files)
	refs := []model.Reference{
		{SourceName: "caller", TargetName: "helperOne", Kind: model.EdgeCall, Line: 2, SourceFile: "src/a.ts"},
		{SourceName: "caller", TargetName: "helperTwo", Kind: model.EdgeCall, Line: 3, SourceFile: "src/a.ts"},
	}
	_, fileEdges := ResolveAll(idx, refs)
	if len(fileEdges) != 1 {
		t.Fatalf("expected 1 aggregated file edge, got %d", len(fileEdges))
	}
	if fileEdges[0].SymbolCount != 2 {
		t.Fatalf("expected symbol_count 2, got %d", fileEdges[0].SymbolCount)
	}
}
