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

// DeadCodeOptions controls the §4.6.1 filter set.
type DeadCodeOptions struct {
	// All disables the default exclusion filters (test files, conventional
	// entry-point names, underscore/test-prefixed names).
	All bool
}

// DeadCodeFinding is one unreferenced exported symbol.
type DeadCodeFinding struct {
	SymbolID   int64
	Name       string
	File       string
	LineCount  int
	Confidence int
	DecayScore float64
}

// DeadCodeResult is §4.6.1's output: ranked findings plus connected
// components ("dead clusters") of mutually-referencing dead candidates.
type DeadCodeResult struct {
	Findings []DeadCodeFinding
	Clusters [][]int64
}

// DeadCode finds exported function/class/method symbols with no (or only
// weak) incoming references. ageDays supplies each symbol's age for the
// decay-score derivative; callers without git history may pass a zero map,
// which yields decay_score=0 for every finding.
func (e *Engine) DeadCode(ctx context.Context, opts DeadCodeOptions, ageDays map[int64]int) (DeadCodeResult, error) {
	s, err := e.load(ctx)
	if err != nil {
		return DeadCodeResult{}, err
	}

	byName := make(map[string][]int64)
	for id, sym := range s.symbols {
		byName[sym.Name] = append(byName[sym.Name], id)
	}

	var findings []DeadCodeFinding
	deadIDs := make(map[int64]bool)

	ids := sortedSymbolIDs(s.symbols)
	for _, id := range ids {
		sym := s.symbols[id]
		if !sym.IsExported || !s.isFunctionLike(sym.Kind) {
			continue
		}
		if !opts.All {
			if s.isTestSymbol(sym) || classify.IsExcludedDeadCodeName(sym.Name) {
				continue
			}
		}

		confidence, isCandidate := deadCodeConfidence(s, id, sym, byName)
		if !isCandidate {
			continue
		}

		lineCount := sym.LineEnd - sym.LineStart + 1
		if lineCount < 0 {
			lineCount = 0
		}
		decay := float64(ageDays[id]) / 365.0 * float64(lineCount) * float64(confidence) / 100.0

		findings = append(findings, DeadCodeFinding{
			SymbolID: id, Name: sym.Name, File: s.filePath(sym.FileID),
			LineCount: lineCount, Confidence: confidence, DecayScore: decay,
		})
		deadIDs[id] = true
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Confidence != findings[j].Confidence {
			return findings[i].Confidence > findings[j].Confidence
		}
		return findings[i].SymbolID < findings[j].SymbolID
	})

	clusters := deadClusters(s, deadIDs)

	return DeadCodeResult{Findings: findings, Clusters: clusters}, nil
}

// deadCodeConfidence implements §4.6.1's four tiers. A symbol whose
// non-import incoming edges come only from test files is still treated as a
// weak (60) candidate — a production-dead symbol kept alive solely by tests
// — while one with any non-test, non-import caller is not a candidate.
func deadCodeConfidence(s *snapshot, id int64, sym model.Symbol, byName map[string][]int64) (int, bool) {
	in := s.g.In(id)
	if len(in) == 0 {
		if len(byName[sym.Name]) <= 1 {
			return 100, true
		}
		return 70, true
	}

	allImport := true
	allTestOrigin := true
	for _, edge := range in {
		if edge.Kind != model.EdgeImport {
			allImport = false
			origin, ok := s.symbols[edge.Target]
			if !ok || !s.isTestSymbol(origin) {
				allTestOrigin = false
			}
		}
	}
	if allImport {
		return 80, true
	}
	if allTestOrigin {
		return 60, true
	}
	return 0, false
}

// deadClusters finds undirected connected components restricted to dead
// candidates, keeping components of size >= 2 (§4.6.1).
func deadClusters(s *snapshot, deadIDs map[int64]bool) [][]int64 {
	visited := make(map[int64]bool, len(deadIDs))
	var clusters [][]int64

	ids := make([]int64, 0, len(deadIDs))
	for id := range deadIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, start := range ids {
		if visited[start] {
			continue
		}
		var component []int64
		queue := []int64{start}
		visited[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			component = append(component, cur)
			neighbors := append(append([]int64{}, edgeTargets(s.g.Out(cur))...), edgeTargets(s.g.In(cur))...)
			for _, n := range neighbors {
				if deadIDs[n] && !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		if len(component) >= 2 {
			sort.Slice(component, func(i, j int) bool { return component[i] < component[j] })
			clusters = append(clusters, component)
		}
	}
	sort.Slice(clusters, func(i, j int) bool { return clusters[i][0] < clusters[j][0] })
	return clusters
}

func edgeTargets(edges []graph.OutEdge) []int64 {
	out := make([]int64, len(edges))
	for i, e := range edges {
		out[i] = e.Target
	}
	return out
}

func sortedSymbolIDs(symbols map[int64]model.Symbol) []int64 {
	ids := make([]int64, 0, len(symbols))
	for id := range symbols {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
