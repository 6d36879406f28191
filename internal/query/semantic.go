// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"context"
	"sort"

	"github.com/kraklabs/roam/internal/classify"
	"github.com/kraklabs/roam/internal/graph"
	"github.com/kraklabs/roam/internal/model"
)

const semanticSiblingLimit = 20

// SemanticNeighbor is one caller or callee, deduplicated to its
// highest-priority edge kind (§4.6.10: call < uses < inherits < implements
// < template < import < reference).
type SemanticNeighbor struct {
	SymbolID int64
	Name     string
	Kind     model.EdgeKind
}

// SemanticContextResult is §4.6.10's single-symbol output.
type SemanticContextResult struct {
	Callers  []SemanticNeighbor
	Callees  []SemanticNeighbor
	Tests    []int64
	Siblings []int64
}

// SemanticContext gathers the local neighborhood of one symbol: callers,
// callees, covering tests, and same-kind same-directory siblings.
func (e *Engine) SemanticContext(ctx context.Context, symbolID int64) (SemanticContextResult, error) {
	s, err := e.load(ctx)
	if err != nil {
		return SemanticContextResult{}, err
	}

	callers := dedupNeighbors(s, s.g.In(symbolID))
	callees := dedupNeighbors(s, s.g.Out(symbolID))

	testsResult, err := e.AffectedTests(ctx, []int64{symbolID})
	if err != nil {
		return SemanticContextResult{}, err
	}

	var siblings []int64
	if sym, ok := s.symbols[symbolID]; ok {
		dir := classify.Dir(s.filePath(sym.FileID))
		for _, id := range sortedSymbolIDs(s.symbols) {
			if id == symbolID || len(siblings) >= semanticSiblingLimit {
				continue
			}
			other := s.symbols[id]
			if other.Kind == sym.Kind && classify.Dir(s.filePath(other.FileID)) == dir {
				siblings = append(siblings, id)
			}
		}
	}

	return SemanticContextResult{
		Callers: callers, Callees: callees,
		Tests: testsResult.TestSymbolIDs, Siblings: siblings,
	}, nil
}

// dedupNeighbors collapses multi-edges to the same neighbor to the single
// highest-priority kind.
func dedupNeighbors(s *snapshot, edges []graph.OutEdge) []SemanticNeighbor {
	best := make(map[int64]model.EdgeKind)
	for _, edge := range edges {
		if cur, ok := best[edge.Target]; !ok || model.EdgeKindPriority(edge.Kind) < model.EdgeKindPriority(cur) {
			best[edge.Target] = edge.Kind
		}
	}
	ids := make([]int64, 0, len(best))
	for id := range best {
		ids = append(ids, id)
	}
	sortInt64s(ids)

	out := make([]SemanticNeighbor, 0, len(ids))
	for _, id := range ids {
		out = append(out, SemanticNeighbor{SymbolID: id, Name: s.symbols[id].Name, Kind: best[id]})
	}
	return out
}

// SharedNeighbor is a caller/callee referenced by more than one queried
// symbol in a multi-symbol semantic context request.
type SharedNeighbor struct {
	SymbolID   int64
	Name       string
	ShareCount int
}

// SharedContext unions callers and callees across multiple symbols, keeping
// only neighbors referenced by at least two of them (§4.6.10 multi-symbol).
func (e *Engine) SharedContext(ctx context.Context, symbolIDs []int64) ([]SharedNeighbor, error) {
	s, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int)
	for _, id := range symbolIDs {
		seen := make(map[int64]bool)
		for _, edge := range s.g.In(id) {
			seen[edge.Target] = true
		}
		for _, edge := range s.g.Out(id) {
			seen[edge.Target] = true
		}
		for neighbor := range seen {
			counts[neighbor]++
		}
	}

	var out []SharedNeighbor
	for id, count := range counts {
		if count >= 2 {
			out = append(out, SharedNeighbor{SymbolID: id, Name: s.symbols[id].Name, ShareCount: count})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ShareCount != out[j].ShareCount {
			return out[i].ShareCount > out[j].ShareCount
		}
		return out[i].SymbolID < out[j].SymbolID
	})
	return out, nil
}
