// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package query implements QueryEngine (§4.6): dead code, blast radius,
// affected tests, coupling, PR risk, breaking changes, coverage gaps,
// fan-in/fan-out, grep, and semantic context. Every query opens a read-only
// store handle and builds a throwaway in-memory Graph for the call (§4.3,
// §5's "the in-memory graph is owned by the current analytics invocation
// and dropped on return").
package query

import (
	"context"
	"fmt"

	"github.com/kraklabs/roam/internal/classify"
	"github.com/kraklabs/roam/internal/graph"
	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/store"
)

// Engine answers read-only analytical queries against a Store.
type Engine struct {
	store *store.Store
}

// New constructs an Engine over st.
func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// snapshot is the read-only context one query call operates over: every
// symbol/file/edge plus the derived Graph and graph_metrics, loaded fresh
// per invocation and discarded on return.
type snapshot struct {
	symbols      map[int64]model.Symbol
	files        map[int64]model.File
	graphMetrics map[int64]model.GraphMetrics
	g            *graph.Graph
}

func (e *Engine) load(ctx context.Context) (*snapshot, error) {
	db := e.store.Read()

	symbolList, err := store.AllSymbols(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("load symbols: %w", err)
	}
	fileList, err := store.AllFiles(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("load files: %w", err)
	}
	edges, err := store.AllEdges(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}
	gm, err := store.AllGraphMetrics(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("load graph metrics: %w", err)
	}

	s := &snapshot{
		symbols:      make(map[int64]model.Symbol, len(symbolList)),
		files:        make(map[int64]model.File, len(fileList)),
		graphMetrics: gm,
		g:            graph.Build(symbolList, edges),
	}
	for _, sym := range symbolList {
		s.symbols[sym.ID] = sym
	}
	for _, f := range fileList {
		s.files[f.ID] = f
	}
	return s, nil
}

func (s *snapshot) filePath(fileID int64) string {
	return s.files[fileID].Path
}

func (s *snapshot) isTestSymbol(sym model.Symbol) bool {
	return classify.IsTestFile(s.filePath(sym.FileID))
}

func (s *snapshot) isFunctionLike(kind model.SymbolKind) bool {
	switch kind {
	case model.KindFunction, model.KindMethod, model.KindClass:
		return true
	default:
		return false
	}
}
