// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package fitness

import (
	"context"
	"testing"

	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/store"
	"github.com/kraklabs/roam/internal/testkit"
)

func openTestStore(t *testing.T) *store.Store { return testkit.OpenStore(t) }

func TestAggregate_EmptyStoreYieldsZeroedMetrics(t *testing.T) {
	st := openTestStore(t)
	e := New(st)

	metrics, err := e.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if metrics[MetricFileCount] != 0 {
		t.Fatalf("expected zero file count, got %f", metrics[MetricFileCount])
	}
	if metrics[MetricTestRatio] != 0 {
		t.Fatalf("expected zero test ratio on an empty store, got %f", metrics[MetricTestRatio])
	}
}

func TestEvaluate_UnknownPresetIsQueryInputInvalid(t *testing.T) {
	st := openTestStore(t)
	e := New(st)

	result, err := e.Evaluate(context.Background(), "cobol")
	if err != nil {
		t.Fatalf("expected no error for an unknown preset, got %v", err)
	}
	if result.Note == "" {
		t.Fatalf("expected a note explaining the unknown preset")
	}
	if len(result.Checks) != 0 {
		t.Fatalf("expected no checks for an unknown preset, got %+v", result.Checks)
	}
}

func TestEvaluate_DefaultPresetPassesOnAnEmptyStore(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	tx, err := st.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	if _, err := store.UpsertFile(ctx, tx, model.File{Path: "main_test.go", FileRole: model.RoleTest}); err != nil {
		t.Fatalf("upsert file: %v", err)
	}
	if _, err := store.UpsertFile(ctx, tx, model.File{Path: "main.go", FileRole: model.RoleSource}); err != nil {
		t.Fatalf("upsert file: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	e := New(st)
	result, err := e.Evaluate(ctx, PresetDefault)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !result.Passed {
		t.Fatalf("expected default preset to pass a trivially empty codebase, got %+v", result.Checks)
	}
}

func TestModifiedZScore_FlatHistoryIsZero(t *testing.T) {
	z := ModifiedZScore([]float64{5, 5, 5, 5, 5}, 5)
	if z != 0 {
		t.Fatalf("expected zero z-score for a flat history with no MAD spread, got %f", z)
	}
}

func TestModifiedZScore_OutlierExceedsCriticalThreshold(t *testing.T) {
	history := []float64{1, 1, 1, 1, 1, 1, 1}
	z := ModifiedZScore(history, 50)
	sev := ClassifyZScore(MetricDeadCodePercent, z, zScoreWarnThreshold)
	if sev != SeverityCritical {
		t.Fatalf("expected a large spike in an up-is-bad metric to classify CRITICAL, got %s (z=%f)", sev, z)
	}
}

func TestClassifyZScore_GoodDirectionExcursionIsDemoted(t *testing.T) {
	// test_ratio is up-is-good: a large negative z-score (a drop) is the bad
	// direction and should NOT be demoted.
	sevBad := ClassifyZScore(MetricTestRatio, -4, zScoreWarnThreshold)
	if sevBad != SeverityCritical {
		t.Fatalf("expected a drop in test_ratio to classify CRITICAL, got %s", sevBad)
	}
	// A rise in test_ratio is the good direction and should be demoted from
	// CRITICAL to WARNING.
	sevGood := ClassifyZScore(MetricTestRatio, 4, zScoreWarnThreshold)
	if sevGood != SeverityWarning {
		t.Fatalf("expected a rise in test_ratio to be demoted to WARNING, got %s", sevGood)
	}
}

func TestMannKendall_MonotonicIncreaseIsDetected(t *testing.T) {
	trend := MannKendall([]float64{1, 2, 3, 4, 5, 6, 7, 8})
	if trend.Direction != TrendIncreasing {
		t.Fatalf("expected increasing trend, got %s", trend.Direction)
	}
	if trend.Tau != 1 {
		t.Fatalf("expected tau=1 for a strictly monotonic series, got %f", trend.Tau)
	}
}

func TestMannKendall_FlatSeriesIsFlat(t *testing.T) {
	trend := MannKendall([]float64{3, 3, 3, 3, 3})
	if trend.Direction != TrendFlat {
		t.Fatalf("expected flat trend for a constant series, got %s", trend.Direction)
	}
}

func TestSparkline_EightGlyphs(t *testing.T) {
	spark := Sparkline([]float64{1, 2, 3, 4, 5, 6, 7, 8})
	if len([]rune(spark)) != 8 {
		t.Fatalf("expected an 8-glyph sparkline, got %q (%d runes)", spark, len([]rune(spark)))
	}
}

func TestSparkline_PadsShortHistory(t *testing.T) {
	spark := Sparkline([]float64{1, 2})
	if len([]rune(spark)) != 8 {
		t.Fatalf("expected padding to 8 glyphs, got %d", len([]rune(spark)))
	}
}
