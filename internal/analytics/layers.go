// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"context"
	"sort"

	"github.com/kraklabs/roam/internal/classify"
	"github.com/kraklabs/roam/internal/graph"
)

// DirectoryMismatchCluster names a cluster whose members span more than one
// top-level directory (§4.4).
type DirectoryMismatchCluster struct {
	ClusterID   int
	Directories []string
}

// DirectoryMismatches reports clusters whose member files fall into more
// than one top-level directory.
func DirectoryMismatches(clusters []ClusterAssignment, fileOfSymbol map[int64]int64, pathOfFile map[int64]string) []DirectoryMismatchCluster {
	dirsByCluster := make(map[int]map[string]bool)
	for _, c := range clusters {
		fileID, ok := fileOfSymbol[c.SymbolID]
		if !ok {
			continue
		}
		dir := classify.TopLevelDir(pathOfFile[fileID])
		if dirsByCluster[c.ClusterID] == nil {
			dirsByCluster[c.ClusterID] = make(map[string]bool)
		}
		dirsByCluster[c.ClusterID][dir] = true
	}

	var out []DirectoryMismatchCluster
	var clusterIDs []int
	for id := range dirsByCluster {
		clusterIDs = append(clusterIDs, id)
	}
	sort.Ints(clusterIDs)

	for _, id := range clusterIDs {
		dirs := dirsByCluster[id]
		if len(dirs) <= 1 {
			continue
		}
		var names []string
		for d := range dirs {
			names = append(names, d)
		}
		sort.Strings(names)
		out = append(out, DirectoryMismatchCluster{ClusterID: id, Directories: names})
	}
	return out
}

// Layers computes a topological level index per node via the DAG of SCCs:
// every SCC (or singleton) condenses into one node, components with no
// outgoing edges sit at layer 0, and every other component's layer is the
// longest path from it down to such a component, so each edge between
// condensed nodes points from a higher layer to a lower one (§4.4).
func Layers(ctx context.Context, g *graph.Graph, sccs []SCC) map[int64]int {
	componentOf := make(map[int64]int)
	var componentMembers [][]int64
	for _, scc := range sccs {
		id := len(componentMembers)
		componentMembers = append(componentMembers, scc.Members)
		for _, m := range scc.Members {
			componentOf[m] = id
		}
	}
	for _, id := range g.NodeIDs() {
		if _, ok := componentOf[id]; !ok {
			cid := len(componentMembers)
			componentMembers = append(componentMembers, []int64{id})
			componentOf[id] = cid
		}
	}

	numComponents := len(componentMembers)
	condensedOut := make(map[int][]int)
	inDeg := make([]int, numComponents)
	seenEdge := make(map[[2]int]bool)
	for _, members := range componentMembers {
		for _, m := range members {
			cSource := componentOf[m]
			for _, e := range g.Out(m) {
				cTarget, ok := componentOf[e.Target]
				if !ok || cTarget == cSource {
					continue
				}
				key := [2]int{cSource, cTarget}
				if seenEdge[key] {
					continue
				}
				seenEdge[key] = true
				condensedOut[cTarget] = append(condensedOut[cTarget], cSource)
				inDeg[cSource]++
			}
		}
	}

	layer := make([]int, numComponents)
	for i := range layer {
		layer[i] = -1
	}
	var queue []int
	for i := 0; i < numComponents; i++ {
		if inDeg[i] == 0 {
			layer[i] = 0
			queue = append(queue, i)
		}
	}
	processed := make([]int, numComponents)
	copy(processed, inDeg)

	for len(queue) > 0 {
		if ctx.Err() != nil {
			break
		}
		c := queue[0]
		queue = queue[1:]
		for _, next := range condensedOut[c] {
			if layer[c]+1 > layer[next] {
				layer[next] = layer[c] + 1
			}
			processed[next]--
			if processed[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	out := make(map[int64]int, len(componentOf))
	for symbolID, comp := range componentOf {
		l := layer[comp]
		if l < 0 {
			l = 0
		}
		out[symbolID] = l
	}
	return out
}

// LayerViolation is an edge whose source layer is lower than its target
// layer (§4.4): a forward reference against the expected leveling.
type LayerViolation struct {
	Source int64
	Target int64
}

// LayerViolations finds every edge whose endpoints both have a defined
// layer and whose source layer is less than its target layer.
func LayerViolations(g *graph.Graph, layers map[int64]int) []LayerViolation {
	var out []LayerViolation
	for _, id := range sortedIDs(g) {
		sourceLayer, ok := layers[id]
		if !ok {
			continue
		}
		for _, e := range g.Out(id) {
			targetLayer, ok := layers[e.Target]
			if !ok {
				continue
			}
			if sourceLayer < targetLayer {
				out = append(out, LayerViolation{Source: id, Target: e.Target})
			}
		}
	}
	return out
}

func sortedIDs(g *graph.Graph) []int64 {
	ids := g.NodeIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TangleRatio is the percentage of symbols participating in any SCC of size
// >= 2 (glossary "Tangle ratio").
func TangleRatio(sccs []SCC, totalSymbols int) float64 {
	if totalSymbols == 0 {
		return 0
	}
	tangled := 0
	for _, scc := range sccs {
		tangled += len(scc.Members)
	}
	return 100 * float64(tangled) / float64(totalSymbols)
}
