// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"context"
	"sort"

	"github.com/kraklabs/roam/internal/graph"
)

// BetweennessSampleThreshold is the node-count above which Betweenness
// approximates via sampling rather than computing from every source (§4.4).
const BetweennessSampleThreshold = 2000

// BetweennessSampleSize is how many source nodes the sampled variant probes.
const BetweennessSampleSize = 500

// Betweenness computes normalized Brandes betweenness centrality. Above
// BetweennessSampleThreshold nodes it approximates by sampling source nodes
// rather than running every node as a BFS source, scaling the result back up.
func Betweenness(ctx context.Context, g *graph.Graph) map[int64]float64 {
	ids := g.NodeIDs()
	n := len(ids)
	scores := make(map[int64]float64, n)
	for _, id := range ids {
		scores[id] = 0
	}
	if n < 2 {
		return scores
	}

	sources := ids
	scale := 1.0
	if n > BetweennessSampleThreshold {
		sources = sampleIDs(ids, BetweennessSampleSize)
		scale = float64(n) / float64(len(sources))
	}

	for _, s := range sources {
		if ctx.Err() != nil {
			break
		}
		brandesFrom(g, s, ids, scores)
	}

	norm := scale
	if n > 2 {
		norm *= 1.0 / float64((n-1)*(n-2))
	}
	for id := range scores {
		scores[id] *= norm
	}
	return scores
}

// brandesFrom runs one source's BFS/accumulation pass of Brandes' algorithm,
// adding its contribution directly into scores.
func brandesFrom(g *graph.Graph, s int64, allIDs []int64, scores map[int64]float64) {
	sigma := make(map[int64]float64, len(allIDs))
	dist := make(map[int64]int, len(allIDs))
	preds := make(map[int64][]int64, len(allIDs))
	for _, id := range allIDs {
		sigma[id] = 0
		dist[id] = -1
	}
	sigma[s] = 1
	dist[s] = 0

	var stack []int64
	queue := []int64{s}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		stack = append(stack, v)
		for _, e := range g.Out(v) {
			w := e.Target
			if dist[w] < 0 {
				dist[w] = dist[v] + 1
				queue = append(queue, w)
			}
			if dist[w] == dist[v]+1 {
				sigma[w] += sigma[v]
				preds[w] = append(preds[w], v)
			}
		}
	}

	delta := make(map[int64]float64, len(allIDs))
	for i := len(stack) - 1; i >= 0; i-- {
		w := stack[i]
		for _, v := range preds[w] {
			if sigma[w] == 0 {
				continue
			}
			delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
		}
		if w != s {
			scores[w] += delta[w]
		}
	}
}

// sampleIDs deterministically selects up to k ids by stride, so repeated
// runs over identical input produce identical samples (no time/random seed).
func sampleIDs(ids []int64, k int) []int64 {
	if k >= len(ids) {
		return ids
	}
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	stride := float64(len(sorted)) / float64(k)
	out := make([]int64, 0, k)
	for i := 0; i < k; i++ {
		idx := int(float64(i) * stride)
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
		out = append(out, sorted[idx])
	}
	return out
}
