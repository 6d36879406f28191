// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package analytics implements GraphAnalytics (§4.4): PageRank, betweenness,
// degree, Tarjan SCCs, weakest-edge selection, propagation cost, algebraic
// connectivity, Louvain clustering, directory-mismatch detection, and
// topological layering. Most passes accept a context for coarse-grained
// cancellation between major phases (§5); Degrees, LayerViolations,
// FindWeakestEdge, DirectoryMismatches and TangleRatio take none.
package analytics

import (
	"context"

	"github.com/kraklabs/roam/internal/graph"
)

const (
	pageRankDamping     = 0.85
	pageRankMaxIters    = 100
	pageRankConvergence = 1e-6
)

// PageRank runs the standard iterative power-method PageRank with damping
// 0.85, converging when the L1 delta drops below 1e-6 or after 100
// iterations, whichever comes first (§4.4).
func PageRank(ctx context.Context, g *graph.Graph) map[int64]float64 {
	ids := g.NodeIDs()
	n := len(ids)
	if n == 0 {
		return map[int64]float64{}
	}

	rank := make(map[int64]float64, n)
	init := 1.0 / float64(n)
	for _, id := range ids {
		rank[id] = init
	}

	for iter := 0; iter < pageRankMaxIters; iter++ {
		if ctx.Err() != nil {
			return rank
		}

		next := make(map[int64]float64, n)
		danglingMass := 0.0
		for _, id := range ids {
			next[id] = (1 - pageRankDamping) / float64(n)
		}
		for _, id := range ids {
			out := g.Out(id)
			if len(out) == 0 {
				danglingMass += rank[id]
				continue
			}
			share := pageRankDamping * rank[id] / float64(len(out))
			for _, e := range out {
				next[e.Target] += share
			}
		}
		if danglingMass > 0 {
			redistribute := pageRankDamping * danglingMass / float64(n)
			for _, id := range ids {
				next[id] += redistribute
			}
		}

		delta := 0.0
		for _, id := range ids {
			d := next[id] - rank[id]
			if d < 0 {
				d = -d
			}
			delta += d
		}
		rank = next
		if delta < pageRankConvergence {
			break
		}
	}
	return rank
}

// Degrees returns in_degree/out_degree per node, multi-edges counted (§4.4).
func Degrees(g *graph.Graph) (inDegree, outDegree map[int64]int) {
	ids := g.NodeIDs()
	inDegree = make(map[int64]int, len(ids))
	outDegree = make(map[int64]int, len(ids))
	for _, id := range ids {
		inDegree[id] = g.InDegree(id)
		outDegree[id] = g.OutDegree(id)
	}
	return inDegree, outDegree
}
