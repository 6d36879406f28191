// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"context"
	"sort"

	"github.com/kraklabs/roam/internal/graph"
)

// ClusterAssignment is one symbol's community assignment.
type ClusterAssignment struct {
	SymbolID     int64
	ClusterID    int
	ClusterLabel string
}

// LouvainClusters runs one-level modularity-maximization (Louvain's local
// moving phase) on the undirected projection of g, assigning each node to
// the community that maximizes modularity gain, iterating until no move
// improves modularity or a pass budget is exhausted. Labels are derived from
// the highest-PageRank member of each resulting cluster (§4.4).
func LouvainClusters(ctx context.Context, g *graph.Graph, pagerank map[int64]float64, symbolNames map[int64]string) []ClusterAssignment {
	ids := g.NodeIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	n := len(ids)
	if n == 0 {
		return nil
	}

	adj, degree, twoM := undirectedWeights(g, ids)
	community := make(map[int64]int, n)
	for i, id := range ids {
		community[id] = i
	}

	const maxPasses = 20
	for pass := 0; pass < maxPasses; pass++ {
		if ctx.Err() != nil {
			break
		}
		improved := false
		for _, id := range ids {
			best := community[id]
			bestGain := 0.0
			current := community[id]

			neighborCommunities := map[int]float64{}
			for neighbor, weight := range adj[id] {
				neighborCommunities[community[neighbor]] += weight
			}

			for comm, weightToComm := range neighborCommunities {
				if comm == current {
					continue
				}
				gain := modularityGain(weightToComm, degree[id], communityDegree(community, degree, comm), twoM)
				if gain > bestGain {
					bestGain = gain
					best = comm
				}
			}
			if best != current {
				community[id] = best
				improved = true
			}
		}
		if !improved {
			break
		}
	}

	return labelClusters(community, ids, pagerank, symbolNames)
}

func undirectedWeights(g *graph.Graph, ids []int64) (map[int64]map[int64]float64, map[int64]float64, float64) {
	adj := make(map[int64]map[int64]float64, len(ids))
	for _, id := range ids {
		adj[id] = make(map[int64]float64)
	}
	twoM := 0.0
	for _, id := range ids {
		for _, e := range g.Out(id) {
			if !g.Has(e.Target) {
				continue
			}
			adj[id][e.Target] += 1
			adj[e.Target][id] += 1
			twoM += 2
		}
	}
	degree := make(map[int64]float64, len(ids))
	for _, id := range ids {
		sum := 0.0
		for _, w := range adj[id] {
			sum += w
		}
		degree[id] = sum
	}
	return adj, degree, twoM
}

func communityDegree(community map[int64]int, degree map[int64]float64, comm int) float64 {
	sum := 0.0
	for id, c := range community {
		if c == comm {
			sum += degree[id]
		}
	}
	return sum
}

// modularityGain is the standard Louvain delta-Q term for moving a node
// with the given degree into a community with total weightToComm edges
// reaching it and communityDegree the sum of its members' degrees, over 2m
// total edge weight.
func modularityGain(weightToComm, nodeDegree, communityDegree, twoM float64) float64 {
	if twoM == 0 {
		return 0
	}
	return weightToComm - (nodeDegree*communityDegree)/twoM
}

func labelClusters(community map[int64]int, ids []int64, pagerank map[int64]float64, names map[int64]string) []ClusterAssignment {
	// Renumber communities to small dense ids, ordered by smallest member id
	// for determinism.
	members := make(map[int][]int64)
	for _, id := range ids {
		members[community[id]] = append(members[community[id]], id)
	}
	var rawIDs []int
	for c := range members {
		rawIDs = append(rawIDs, c)
	}
	sort.Slice(rawIDs, func(i, j int) bool {
		return minOf(members[rawIDs[i]]) < minOf(members[rawIDs[j]])
	})

	renumber := make(map[int]int, len(rawIDs))
	for newID, raw := range rawIDs {
		renumber[raw] = newID
	}

	var out []ClusterAssignment
	for _, raw := range rawIDs {
		group := members[raw]
		sort.Slice(group, func(i, j int) bool { return group[i] < group[j] })
		label := bestPageRankName(group, pagerank, names)
		for _, id := range group {
			out = append(out, ClusterAssignment{SymbolID: id, ClusterID: renumber[raw], ClusterLabel: label})
		}
	}
	return out
}

func bestPageRankName(group []int64, pagerank map[int64]float64, names map[int64]string) string {
	if len(group) == 0 {
		return ""
	}
	best := group[0]
	for _, id := range group[1:] {
		if pagerank[id] > pagerank[best] {
			best = id
		}
	}
	return names[best]
}
