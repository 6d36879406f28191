// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package health

import (
	"context"
	"testing"

	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/store"
	"github.com/kraklabs/roam/internal/testkit"
)

func openTestStore(t *testing.T) *store.Store { return testkit.OpenStore(t) }

func TestEvaluate_EmptyGraphScoresHigh(t *testing.T) {
	st := openTestStore(t)
	e := New(st)

	report, err := e.Evaluate(context.Background())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if report.Score < 80 {
		t.Fatalf("expected a healthy empty graph to score >= 80, got %f", report.Score)
	}
	if report.Score < 0 || report.Score > 100 {
		t.Fatalf("score out of [0,100] bounds: %f", report.Score)
	}
}

// TestEvaluate_TwoFileCycleIsWarning seeds a two-file call cycle confined to
// a single top-level directory, matching cycleSeverity's single-directory
// case.
func TestEvaluate_TwoFileCycleIsWarning(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	tx, err := st.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}

	fileA, err := store.UpsertFile(ctx, tx, model.File{Path: "pkg/a.go", FileRole: model.RoleSource})
	if err != nil {
		t.Fatalf("upsert file a: %v", err)
	}
	fileB, err := store.UpsertFile(ctx, tx, model.File{Path: "pkg/b.go", FileRole: model.RoleSource})
	if err != nil {
		t.Fatalf("upsert file b: %v", err)
	}
	a, err := store.InsertSymbol(ctx, tx, model.Symbol{FileID: fileA, Name: "A", Kind: model.KindFunction, LineStart: 1, LineEnd: 2})
	if err != nil {
		t.Fatalf("insert A: %v", err)
	}
	b, err := store.InsertSymbol(ctx, tx, model.Symbol{FileID: fileB, Name: "B", Kind: model.KindFunction, LineStart: 1, LineEnd: 2})
	if err != nil {
		t.Fatalf("insert B: %v", err)
	}
	if err := store.InsertEdge(ctx, tx, model.Edge{SourceID: a, TargetID: b, Kind: model.EdgeCall}); err != nil {
		t.Fatalf("insert edge a->b: %v", err)
	}
	if err := store.InsertEdge(ctx, tx, model.Edge{SourceID: b, TargetID: a, Kind: model.EdgeCall}); err != nil {
		t.Fatalf("insert edge b->a: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	e := New(st)
	report, err := e.Evaluate(ctx)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(report.Cycles) != 1 {
		t.Fatalf("expected exactly one cycle finding, got %+v", report.Cycles)
	}
	if report.Cycles[0].Severity != SeverityWarning {
		t.Fatalf("expected single-directory two-file cycle to be WARNING, got %s", report.Cycles[0].Severity)
	}
	if report.Cycles[0].Suggestion != nil {
		t.Fatalf("expected no cycle-break suggestion for an SCC below size 3, got %+v", report.Cycles[0].Suggestion)
	}
}

// TestEvaluate_ThreeNodeCycleHasWeakestEdgeSuggestion seeds a three-symbol
// cycle, which crosses Evaluate's size>=3 threshold for proposing a
// break via analytics.FindWeakestEdge.
func TestEvaluate_ThreeNodeCycleHasWeakestEdgeSuggestion(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	tx, err := st.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}

	file, err := store.UpsertFile(ctx, tx, model.File{Path: "pkg/cycle.go", FileRole: model.RoleSource})
	if err != nil {
		t.Fatalf("upsert file: %v", err)
	}
	a, _ := store.InsertSymbol(ctx, tx, model.Symbol{FileID: file, Name: "A", Kind: model.KindFunction, LineStart: 1, LineEnd: 1})
	b, _ := store.InsertSymbol(ctx, tx, model.Symbol{FileID: file, Name: "B", Kind: model.KindFunction, LineStart: 2, LineEnd: 2})
	c, _ := store.InsertSymbol(ctx, tx, model.Symbol{FileID: file, Name: "C", Kind: model.KindFunction, LineStart: 3, LineEnd: 3})
	if err := store.InsertEdge(ctx, tx, model.Edge{SourceID: a, TargetID: b, Kind: model.EdgeCall}); err != nil {
		t.Fatalf("insert edge a->b: %v", err)
	}
	if err := store.InsertEdge(ctx, tx, model.Edge{SourceID: b, TargetID: c, Kind: model.EdgeCall}); err != nil {
		t.Fatalf("insert edge b->c: %v", err)
	}
	if err := store.InsertEdge(ctx, tx, model.Edge{SourceID: c, TargetID: a, Kind: model.EdgeCall}); err != nil {
		t.Fatalf("insert edge c->a: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	e := New(st)
	report, err := e.Evaluate(ctx)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(report.Cycles) != 1 || len(report.Cycles[0].Members) != 3 {
		t.Fatalf("expected one 3-member cycle, got %+v", report.Cycles)
	}
	if report.Cycles[0].Suggestion == nil {
		t.Fatalf("expected a cycle-break suggestion for a 3-node SCC")
	}
}

func TestAverageFileHealth_NoRowsFallsBackToNeutralCeiling(t *testing.T) {
	if got := averageFileHealth(nil); got != 10 {
		t.Fatalf("expected no FileStats rows to yield the neutral ceiling 10, got %f", got)
	}
}

func TestAverageFileHealth_AveragesRecordedRows(t *testing.T) {
	stats := map[int64]model.FileStats{
		1: {FileID: 1, HealthScore: 8},
		2: {FileID: 2, HealthScore: 4},
	}
	if got := averageFileHealth(stats); got != 6 {
		t.Fatalf("expected the mean of 8 and 4 to be 6, got %f", got)
	}
}

func TestGodSeverity_ThresholdsAndUtilityTripling(t *testing.T) {
	if _, ok := godSeverity(10, "pkg/service.go"); ok {
		t.Fatalf("degree below warning threshold should not be a god-component candidate")
	}
	if sev, ok := godSeverity(31, "pkg/service.go"); !ok || sev != SeverityWarning {
		t.Fatalf("expected WARNING just above threshold, got %v/%v", sev, ok)
	}
	if sev, ok := godSeverity(51, "pkg/service.go"); !ok || sev != SeverityCritical {
		t.Fatalf("expected CRITICAL above 50, got %v/%v", sev, ok)
	}
	if _, ok := godSeverity(51, "internal/util/helpers.go"); ok {
		t.Fatalf("utility-path thresholds are tripled; degree 51 should not qualify")
	}
	if sev, ok := godSeverity(151, "internal/util/helpers.go"); !ok || sev != SeverityCritical {
		t.Fatalf("expected CRITICAL above tripled utility threshold, got %v/%v", sev, ok)
	}
}
