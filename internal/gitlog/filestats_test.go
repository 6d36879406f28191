// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package gitlog

import (
	"context"
	"testing"

	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/store"
	"github.com/kraklabs/roam/internal/testkit"
)

func TestRefreshFileStats_AggregatesChurnCochangeAndComplexity(t *testing.T) {
	st := testkit.OpenStore(t)
	ctx := context.Background()

	fileID := testkit.SeedFile(t, st, model.File{Path: "hot.go", FileRole: model.RoleSource})
	otherID := testkit.SeedFile(t, st, model.File{Path: "cold.go", FileRole: model.RoleSource})
	symID := testkit.SeedSymbol(t, st, model.Symbol{FileID: fileID, Name: "Hot", Kind: model.KindFunction})

	tx, err := st.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	for _, sha := range []string{"sha1", "sha2"} {
		if err := store.UpsertGitCommit(ctx, tx, model.GitCommit{SHA: sha, Author: "a", Timestamp: 1}); err != nil {
			t.Fatalf("upsert commit: %v", err)
		}
	}
	if err := store.InsertGitFileChange(ctx, tx, model.GitFileChange{SHA: "sha1", FileID: fileID, Additions: 40, Deletions: 20}); err != nil {
		t.Fatalf("insert file change: %v", err)
	}
	if err := store.InsertGitFileChange(ctx, tx, model.GitFileChange{SHA: "sha2", FileID: fileID, Additions: 30, Deletions: 10}); err != nil {
		t.Fatalf("insert file change: %v", err)
	}
	if err := store.UpsertGitCochange(ctx, tx, fileID, otherID, 3); err != nil {
		t.Fatalf("upsert cochange: %v", err)
	}
	if err := store.ReplaceSymbolMetrics(ctx, tx, []model.SymbolMetrics{
		{SymbolID: symID, CognitiveComplexity: 20, NestingDepth: 5, CallbackDepth: 2},
	}); err != nil {
		t.Fatalf("replace symbol metrics: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if err := RefreshFileStats(ctx, st); err != nil {
		t.Fatalf("refresh file stats: %v", err)
	}

	stats, err := store.AllFileStats(ctx, st.Read())
	if err != nil {
		t.Fatalf("load file stats: %v", err)
	}

	hot, ok := stats[fileID]
	if !ok {
		t.Fatalf("expected a file_stats row for the churned file")
	}
	if hot.CommitCount != 2 {
		t.Fatalf("expected commit_count=2, got %d", hot.CommitCount)
	}
	if hot.TotalChurn != 100 {
		t.Fatalf("expected total_churn=100, got %d", hot.TotalChurn)
	}
	if hot.DistinctAuthors != 1 {
		t.Fatalf("expected distinct_authors=1, got %d", hot.DistinctAuthors)
	}
	if hot.Complexity != 20 {
		t.Fatalf("expected complexity=20, got %f", hot.Complexity)
	}
	if hot.HealthScore >= 10 {
		t.Fatalf("expected a high-complexity, high-churn file to score below the neutral ceiling, got %f", hot.HealthScore)
	}

	cold, ok := stats[otherID]
	if !ok {
		t.Fatalf("expected a file_stats row for the cochange-only file")
	}
	if cold.CommitCount != 0 || cold.TotalChurn != 0 {
		t.Fatalf("expected the cochange-only file to carry no churn, got %+v", cold)
	}
	if cold.HealthScore != 10 {
		t.Fatalf("expected an unchurned, uncomplex file to score the neutral ceiling, got %f", cold.HealthScore)
	}
}

func TestCochangeEntropy_SingleDominantPartnerIsLowEntropy(t *testing.T) {
	concentrated := cochangeEntropy([]int{100, 1})
	spread := cochangeEntropy([]int{50, 50})
	if concentrated >= spread {
		t.Fatalf("expected a concentrated cochange distribution to have lower entropy than an even split: concentrated=%f spread=%f", concentrated, spread)
	}
	if cochangeEntropy(nil) != 0 {
		t.Fatalf("expected zero entropy for a file with no cochange partners")
	}
}

func TestFileHealthScore_CleanFileScoresNeutralCeiling(t *testing.T) {
	score := fileHealthScore(0, 0, 0, 0)
	if score != 10 {
		t.Fatalf("expected a file with no churn or complexity to score 10, got %f", score)
	}
}

func TestFileHealthScore_DeductionsAreCapped(t *testing.T) {
	score := fileHealthScore(1, 100000, 500, 500)
	if score < 0 {
		t.Fatalf("expected fileHealthScore to floor at 0, got %f", score)
	}
}
