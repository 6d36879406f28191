// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"context"
	"sort"

	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/store"
)

// CoverageGap is an exported symbol with no test caller, scored by how much
// the codebase would miss it (§4.6.7).
type CoverageGap struct {
	SymbolID int64
	Name     string
	File     string
	Score    float64
}

// CoverageGaps scores every exported, non-test function/class/method/
// interface symbol with zero test callers by
// round(pagerank*10000 * max(complexity,1) * max(in_degree,1) * 0.001)/1000.
func (e *Engine) CoverageGaps(ctx context.Context) ([]CoverageGap, error) {
	s, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	symbolMetrics, err := store.AllSymbolMetrics(ctx, e.store.Read())
	if err != nil {
		return nil, err
	}

	var out []CoverageGap
	for _, id := range sortedSymbolIDs(s.symbols) {
		sym := s.symbols[id]
		if !sym.IsExported || !isCoverageGapKind(sym.Kind) || s.isTestSymbol(sym) {
			continue
		}
		if hasTestCaller(s, id) {
			continue
		}

		pagerank := s.graphMetrics[id].PageRank
		complexity := float64(symbolMetrics[id].CognitiveComplexity)
		if complexity < 1 {
			complexity = 1
		}
		inDegree := float64(s.g.InDegree(id))
		if inDegree < 1 {
			inDegree = 1
		}
		raw := pagerank * 10000 * complexity * inDegree * 0.001
		score := float64(round(raw*1000)) / 1000

		out = append(out, CoverageGap{SymbolID: id, Name: sym.Name, File: s.filePath(sym.FileID), Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func isCoverageGapKind(kind model.SymbolKind) bool {
	switch kind {
	case model.KindFunction, model.KindClass, model.KindMethod, model.KindInterface:
		return true
	default:
		return false
	}
}

func round(v float64) int64 {
	if v >= 0 {
		return int64(v + 0.5)
	}
	return int64(v - 0.5)
}
