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

// Package graph is the in-memory directed multigraph GraphAnalytics and
// QueryEngine traverse (§4.3). It is owned by the caller of one analytics
// or query invocation and dropped on return — the only durable state lives
// in the Store.
package graph

import "github.com/kraklabs/roam/internal/model"

// Node is a symbol's graph-relevant attributes.
type Node struct {
	ID     int64
	Name   string
	Kind   model.SymbolKind
	FileID int64
}

// OutEdge is one forward adjacency entry.
type OutEdge struct {
	Target int64
	Kind   model.EdgeKind
	Line   int
}

// Graph is a directed multigraph keyed by symbol id.
type Graph struct {
	nodes   map[int64]Node
	forward map[int64][]OutEdge
	reverse map[int64][]OutEdge // OutEdge.Target here holds the *source* id
}

// Build constructs a Graph from symbols and edges, adding nodes lazily as
// edges reference them (§4.3).
func Build(symbols []model.Symbol, edges []model.Edge) *Graph {
	g := &Graph{
		nodes:   make(map[int64]Node, len(symbols)),
		forward: make(map[int64][]OutEdge),
		reverse: make(map[int64][]OutEdge),
	}
	for _, s := range symbols {
		g.nodes[s.ID] = Node{ID: s.ID, Name: s.Name, Kind: s.Kind, FileID: s.FileID}
	}
	for _, e := range edges {
		g.ensureNode(e.SourceID)
		g.ensureNode(e.TargetID)
		g.forward[e.SourceID] = append(g.forward[e.SourceID], OutEdge{Target: e.TargetID, Kind: e.Kind, Line: e.Line})
		g.reverse[e.TargetID] = append(g.reverse[e.TargetID], OutEdge{Target: e.SourceID, Kind: e.Kind, Line: e.Line})
	}
	return g
}

func (g *Graph) ensureNode(id int64) {
	if _, ok := g.nodes[id]; !ok {
		g.nodes[id] = Node{ID: id}
	}
}

// Has reports whether id is a node in the graph.
func (g *Graph) Has(id int64) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node attributes for id.
func (g *Graph) Node(id int64) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeCount returns the number of distinct symbol ids in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// NodeIDs returns every node id, order unspecified.
func (g *Graph) NodeIDs() []int64 {
	ids := make([]int64, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	return ids
}

// Out returns the forward adjacency (out-edges) for id.
func (g *Graph) Out(id int64) []OutEdge { return g.forward[id] }

// In returns the reverse adjacency (in-edges, as OutEdge with Target=source) for id.
func (g *Graph) In(id int64) []OutEdge { return g.reverse[id] }

// OutDegree counts out-edges, multi-edges included.
func (g *Graph) OutDegree(id int64) int { return len(g.forward[id]) }

// InDegree counts in-edges, multi-edges included.
func (g *Graph) InDegree(id int64) int { return len(g.reverse[id]) }

// BFSReverse runs a breadth-first traversal over reverse adjacency starting
// from seeds, bounded by maxDepth, excluding the seeds themselves from the
// result (§4.6.2 Blast radius / §4.6.3 Affected tests).
func (g *Graph) BFSReverse(seeds []int64, maxDepth int) []int64 {
	visited := make(map[int64]bool, len(seeds))
	for _, s := range seeds {
		visited[s] = true
	}
	frontier := append([]int64(nil), seeds...)
	var result []int64

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []int64
		for _, id := range frontier {
			for _, edge := range g.reverse[id] {
				if !visited[edge.Target] {
					visited[edge.Target] = true
					result = append(result, edge.Target)
					next = append(next, edge.Target)
				}
			}
		}
		frontier = next
	}
	return result
}
