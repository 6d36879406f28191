// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"context"
	"sort"

	"github.com/kraklabs/roam/internal/store"
)

// RiskLevel buckets a composite PR-risk score (§4.6.5).
type RiskLevel string

const (
	RiskCritical RiskLevel = "CRITICAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskLow      RiskLevel = "LOW"
)

func riskLevel(score float64) RiskLevel {
	switch {
	case score > 0.7:
		return RiskCritical
	case score > 0.5:
		return RiskHigh
	case score > 0.25:
		return RiskMedium
	default:
		return RiskLow
	}
}

// UntestedSymbol is a changed export with zero test callers.
type UntestedSymbol struct {
	SymbolID int64
	Name     string
	PageRank float64
}

// PRRiskResult is §4.6.5's composite output.
type PRRiskResult struct {
	ChangedFileCount   int
	ChangedSymbolCount int
	BlastRadiusCount   int
	BreakingCount      int
	UntestedSymbols    []UntestedSymbol
	MaxComplexity      int
	Score              float64
	Level              RiskLevel
}

// PRRisk computes §4.6.5's composite risk score for a set of changed files.
func (e *Engine) PRRisk(ctx context.Context, changedFileIDs []int64) (PRRiskResult, error) {
	s, err := e.load(ctx)
	if err != nil {
		return PRRiskResult{}, err
	}
	changedFiles := toSet(changedFileIDs)

	symbolMetrics, err := store.AllSymbolMetrics(ctx, e.store.Read())
	if err != nil {
		return PRRiskResult{}, err
	}

	var changedSymbolIDs []int64
	maxComplexity := 0
	for _, id := range sortedSymbolIDs(s.symbols) {
		sym := s.symbols[id]
		if !changedFiles[sym.FileID] {
			continue
		}
		changedSymbolIDs = append(changedSymbolIDs, id)
		if m, ok := symbolMetrics[id]; ok && m.CognitiveComplexity > maxComplexity {
			maxComplexity = m.CognitiveComplexity
		}
	}

	blast := blastRadiusOver(s, changedSymbolIDs)

	breakingCount := 0
	var untested []UntestedSymbol
	for _, id := range changedSymbolIDs {
		sym := s.symbols[id]
		if !sym.IsExported {
			continue
		}
		if s.g.InDegree(id) > 0 {
			breakingCount++
		}
		if !hasTestCaller(s, id) {
			untested = append(untested, UntestedSymbol{
				SymbolID: id, Name: sym.Name, PageRank: s.graphMetrics[id].PageRank,
			})
		}
	}
	sort.SliceStable(untested, func(i, j int) bool { return untested[i].PageRank > untested[j].PageRank })

	files := len(changedFileIDs)
	filesTerm := float64(files) / 100.0
	if files > 10 {
		filesTerm = 0.1
	}

	score := 0.3*min1(float64(blast.ReachableCount)/50) +
		0.25*min1(float64(breakingCount)/10) +
		0.2*min1(float64(len(untested))/10) +
		0.15*min1(float64(maxComplexity)/5) +
		filesTerm

	return PRRiskResult{
		ChangedFileCount:   files,
		ChangedSymbolCount: len(changedSymbolIDs),
		BlastRadiusCount:   blast.ReachableCount,
		BreakingCount:      breakingCount,
		UntestedSymbols:    untested,
		MaxComplexity:      maxComplexity,
		Score:              score,
		Level:              riskLevel(score),
	}, nil
}

func hasTestCaller(s *snapshot, id int64) bool {
	for _, edge := range s.g.In(id) {
		if origin, ok := s.symbols[edge.Target]; ok && s.isTestSymbol(origin) {
			return true
		}
	}
	return false
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
