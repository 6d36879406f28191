// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"context"

	"github.com/kraklabs/roam/internal/graph"
)

// PropagationCost returns reach_pairs / n(n-1), the fraction of ordered
// symbol pairs (u,v) with v reachable from u via forward adjacency (§4.4,
// glossary "Propagation cost").
func PropagationCost(ctx context.Context, g *graph.Graph) float64 {
	ids := g.NodeIDs()
	n := len(ids)
	if n < 2 {
		return 0
	}

	var reachPairs int64
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		reachPairs += int64(len(reachableForward(g, id)))
	}

	total := float64(n) * float64(n-1)
	return float64(reachPairs) / total
}

func reachableForward(g *graph.Graph, start int64) map[int64]bool {
	visited := map[int64]bool{start: true}
	queue := []int64{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range g.Out(id) {
			if !visited[e.Target] {
				visited[e.Target] = true
				queue = append(queue, e.Target)
			}
		}
	}
	delete(visited, start)
	return visited
}
