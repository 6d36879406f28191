// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"context"
	"testing"

	"github.com/kraklabs/roam/internal/graph"
	"github.com/kraklabs/roam/internal/model"
)

func chainGraph() *graph.Graph {
	symbols := []model.Symbol{
		{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}, {ID: 4, Name: "d"},
	}
	edges := []model.Edge{
		{SourceID: 1, TargetID: 2, Kind: model.EdgeCall},
		{SourceID: 2, TargetID: 3, Kind: model.EdgeCall},
		{SourceID: 3, TargetID: 4, Kind: model.EdgeCall},
	}
	return graph.Build(symbols, edges)
}

func TestPageRank_SumsToOne(t *testing.T) {
	g := chainGraph()
	ranks := PageRank(context.Background(), g)
	sum := 0.0
	for _, r := range ranks {
		sum += r
	}
	if sum < 0.99 || sum > 1.01 {
		t.Fatalf("expected pagerank to sum to ~1, got %f", sum)
	}
}

func TestStronglyConnectedComponents_TwoFileCycle(t *testing.T) {
	symbols := []model.Symbol{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	edges := []model.Edge{
		{SourceID: 1, TargetID: 2, Kind: model.EdgeCall},
		{SourceID: 2, TargetID: 1, Kind: model.EdgeCall},
	}
	g := graph.Build(symbols, edges)
	sccs := StronglyConnectedComponents(context.Background(), g)
	if len(sccs) != 1 {
		t.Fatalf("expected 1 SCC, got %d", len(sccs))
	}
	if len(sccs[0].Members) != 2 {
		t.Fatalf("expected SCC of size 2, got %d", len(sccs[0].Members))
	}
}

func TestPropagationCost_Chain(t *testing.T) {
	g := chainGraph()
	cost := PropagationCost(context.Background(), g)
	// n=4: reach pairs = 3+2+1+0 = 6, total pairs = 4*3=12 -> 0.5
	if cost < 0.49 || cost > 0.51 {
		t.Fatalf("expected propagation cost ~0.5, got %f", cost)
	}
}

func TestLayerViolations_NoneOnChain(t *testing.T) {
	g := chainGraph()
	sccs := StronglyConnectedComponents(context.Background(), g)
	layers := Layers(context.Background(), g, sccs)
	violations := LayerViolations(g, layers)
	if len(violations) != 0 {
		t.Fatalf("expected no layer violations on a simple chain, got %d", len(violations))
	}
}

// TestFindWeakestEdge_PrefersTheEdgeThatActuallyBreaksTheCycle seeds a
// 4-cycle (A->B->C->D->A) plus a shortcut edge B->A. Removing the shortcut
// is a no-op (A->B->C->D->A still closes the cycle); removing D->A is the
// only edge that collapses the SCC down to the {A,B} pair left by the
// shortcut, so it must be picked over the shortcut regardless of PageRank.
func TestFindWeakestEdge_PrefersTheEdgeThatActuallyBreaksTheCycle(t *testing.T) {
	symbols := []model.Symbol{
		{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"},
	}
	edges := []model.Edge{
		{SourceID: 1, TargetID: 2, Kind: model.EdgeCall},
		{SourceID: 2, TargetID: 3, Kind: model.EdgeCall},
		{SourceID: 3, TargetID: 4, Kind: model.EdgeCall},
		{SourceID: 4, TargetID: 1, Kind: model.EdgeCall},
		{SourceID: 2, TargetID: 1, Kind: model.EdgeCall},
	}
	g := graph.Build(symbols, edges)
	sccs := StronglyConnectedComponents(context.Background(), g)
	if len(sccs) != 1 || len(sccs[0].Members) != 4 {
		t.Fatalf("expected one 4-member SCC, got %+v", sccs)
	}

	// A->B, C->D, and D->A all reduce the SCC to the same size once the
	// shortcut collapses it; weight PageRank so D->A is the unambiguous
	// tie-break winner regardless of SCC/edge iteration order.
	pagerank := map[int64]float64{1: 0.10, 2: 0.40, 3: 0.40, 4: 0.05}
	we, ok := FindWeakestEdge(g, sccs[0], pagerank)
	if !ok {
		t.Fatalf("expected a weakest-edge suggestion")
	}
	if we.Source != 4 || we.Target != 1 {
		t.Fatalf("expected D->A (4->1) to be chosen as the edge that breaks the cycle, got %d->%d", we.Source, we.Target)
	}
}

func TestSccSizeWithoutEdge_NoOpShortcutLeavesSizeUnchanged(t *testing.T) {
	symbols := []model.Symbol{
		{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"},
	}
	edges := []model.Edge{
		{SourceID: 1, TargetID: 2, Kind: model.EdgeCall},
		{SourceID: 2, TargetID: 3, Kind: model.EdgeCall},
		{SourceID: 3, TargetID: 4, Kind: model.EdgeCall},
		{SourceID: 4, TargetID: 1, Kind: model.EdgeCall},
		{SourceID: 2, TargetID: 1, Kind: model.EdgeCall},
	}
	g := graph.Build(symbols, edges)
	members := []int64{1, 2, 3, 4}

	if size := sccSizeWithoutEdge(g, members, 2, 1); size != len(members) {
		t.Fatalf("expected removing the shortcut B->A to leave the SCC size unchanged at %d, got %d", len(members), size)
	}
	if size := sccSizeWithoutEdge(g, members, 4, 1); size == len(members) {
		t.Fatalf("expected removing D->A to reduce the reported SCC size below %d, got %d", len(members), size)
	}
}
