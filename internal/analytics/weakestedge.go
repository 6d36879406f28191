// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"fmt"

	"github.com/kraklabs/roam/internal/graph"
)

// WeakestEdge is the chosen edge to break an SCC, plus the reason it was
// picked.
type WeakestEdge struct {
	Source int64
	Target int64
	Reason string
}

// FindWeakestEdge implements the pinned normative rule from §9's Open
// Question: the edge whose removal most reduces the SCC's strongly-connected
// size, ties broken by lowest combined PageRank of its endpoints. This is
// the only heuristic implemented — not one of several.
func FindWeakestEdge(g *graph.Graph, scc SCC, pagerank map[int64]float64) (WeakestEdge, bool) {
	members := make(map[int64]bool, len(scc.Members))
	for _, id := range scc.Members {
		members[id] = true
	}

	type candidate struct {
		source, target int64
		reducedSize     int
		combinedPR      float64
	}
	var candidates []candidate

	for _, source := range scc.Members {
		for _, e := range g.Out(source) {
			if !members[e.Target] {
				continue
			}
			reduced := sccSizeWithoutEdge(g, scc.Members, source, e.Target)
			candidates = append(candidates, candidate{
				source:      source,
				target:      e.Target,
				reducedSize: reduced,
				combinedPR:  pagerank[source] + pagerank[e.Target],
			})
		}
	}
	if len(candidates) == 0 {
		return WeakestEdge{}, false
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.reducedSize < best.reducedSize ||
			(c.reducedSize == best.reducedSize && c.combinedPR < best.combinedPR) {
			best = c
		}
	}

	return WeakestEdge{
		Source: best.source,
		Target: best.target,
		Reason: fmt.Sprintf("removing this edge shrinks the strongly-connected component from %d to %d members (lowest resulting size; ties broken by combined PageRank)", len(scc.Members), best.reducedSize),
	}, true
}

// sccSizeWithoutEdge recomputes the strongly-connected size of the subgraph
// induced on members, after removing one (source,target) edge, via a direct
// reachability check: the edge only matters if source can still reach
// target through some other path; if not, source can no longer close the
// cycle and the component splits.
func sccSizeWithoutEdge(g *graph.Graph, members []int64, removeSource, removeTarget int64) int {
	memberSet := make(map[int64]bool, len(members))
	for _, id := range members {
		memberSet[id] = true
	}

	reachable := make(map[int64]bool)
	var visit func(id int64)
	visit = func(id int64) {
		if reachable[id] {
			return
		}
		reachable[id] = true
		for _, e := range g.Out(id) {
			if id == removeSource && e.Target == removeTarget {
				continue // the removed edge
			}
			if memberSet[e.Target] {
				visit(e.Target)
			}
		}
	}
	visit(removeSource)

	if !reachable[removeTarget] {
		// removeTarget is no longer reachable from removeSource: the edge
		// was the only path back into the cycle, collapsing the SCC to
		// whichever members remain mutually reachable from removeSource.
		return len(reachable)
	}
	return len(members)
}
