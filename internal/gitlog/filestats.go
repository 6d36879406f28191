// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package gitlog

import (
	"context"
	"fmt"
	"math"

	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/store"
)

// RefreshFileStats recomputes FileStats (§3) for every indexed file by
// combining git churn (GitFileChange/GitCommit), co-change spread
// (GitCochange), and per-symbol complexity (SymbolMetrics) into one
// UpsertFileStats row per file. Symbol metrics must already be persisted;
// cmd/roam's index pipeline runs it last, after persistSymbolMetrics.
func RefreshFileStats(ctx context.Context, st *store.Store) error {
	db := st.Read()

	files, err := store.AllFiles(ctx, db)
	if err != nil {
		return fmt.Errorf("load files: %w", err)
	}
	churn, err := store.FileChurnTotals(ctx, db)
	if err != nil {
		return fmt.Errorf("load churn totals: %w", err)
	}
	cochanges, err := store.AllGitCochanges(ctx, db)
	if err != nil {
		return fmt.Errorf("load cochanges: %w", err)
	}
	symbols, err := store.AllSymbols(ctx, db)
	if err != nil {
		return fmt.Errorf("load symbols: %w", err)
	}
	symbolMetrics, err := store.AllSymbolMetrics(ctx, db)
	if err != nil {
		return fmt.Errorf("load symbol metrics: %w", err)
	}

	cochangeCounts := make(map[int64][]int)
	for _, c := range cochanges {
		cochangeCounts[c.FileIDA] = append(cochangeCounts[c.FileIDA], c.CochangeCount)
		cochangeCounts[c.FileIDB] = append(cochangeCounts[c.FileIDB], c.CochangeCount)
	}

	fileOfSymbol := make(map[int64]int64, len(symbols))
	for _, s := range symbols {
		fileOfSymbol[s.ID] = s.FileID
	}
	complexityByFile := make(map[int64][]int)
	loadByFile := make(map[int64][]float64)
	for symbolID, m := range symbolMetrics {
		fileID, ok := fileOfSymbol[symbolID]
		if !ok {
			continue
		}
		complexityByFile[fileID] = append(complexityByFile[fileID], m.CognitiveComplexity)
		loadByFile[fileID] = append(loadByFile[fileID], float64(m.CognitiveComplexity+m.NestingDepth+m.CallbackDepth))
	}

	tx, err := st.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, f := range files {
		t := churn[f.ID]
		complexity := averageInt(complexityByFile[f.ID])
		cognitiveLoad := averageFloat(loadByFile[f.ID])

		row := model.FileStats{
			FileID:          f.ID,
			CommitCount:     t.CommitCount,
			TotalChurn:      t.TotalChurn,
			DistinctAuthors: t.DistinctAuthors,
			Complexity:      complexity,
			CochangeEntropy: cochangeEntropy(cochangeCounts[f.ID]),
			CognitiveLoad:   cognitiveLoad,
		}
		row.HealthScore = fileHealthScore(t.CommitCount, t.TotalChurn, complexity, cognitiveLoad)

		if err := store.UpsertFileStats(ctx, tx, row); err != nil {
			return fmt.Errorf("upsert file stats %d: %w", f.ID, err)
		}
	}

	return tx.Commit()
}

func averageInt(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return float64(sum) / float64(len(vals))
}

func averageFloat(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// cochangeEntropy is the Shannon entropy (bits) of a file's cochange-count
// distribution across its cochange partners: high when churn is spread
// evenly across many files, low when it's concentrated in one or two.
func cochangeEntropy(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}

// fileHealthScore derives a per-file 0-10 health reading by deducting from
// a baseline of 10, the pattern standardbeagle-lci's health calculator
// uses: complexity and high per-commit churn each cost points, capped so
// no single signal can drive the score past its own contribution.
func fileHealthScore(commitCount, totalChurn int, complexity, cognitiveLoad float64) float64 {
	score := 10.0

	if complexity > 10 {
		d := (complexity - 10) * 0.15
		if d > 4 {
			d = 4
		}
		score -= d
	}

	if commitCount > 0 {
		churnPerCommit := float64(totalChurn) / float64(commitCount)
		if churnPerCommit > 50 {
			d := (churnPerCommit - 50) / 50
			if d > 3 {
				d = 3
			}
			score -= d
		}
	}

	if cognitiveLoad > 15 {
		d := (cognitiveLoad - 15) * 0.1
		if d > 3 {
			d = 3
		}
		score -= d
	}

	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score
}
