// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package analytics

import (
	"context"
	"sort"

	"github.com/kraklabs/roam/internal/graph"
)

// SCC is one strongly-connected component of size >= 2 (trivial singletons
// are excluded per §4.4).
type SCC struct {
	Members []int64
}

// tarjanState carries the iterative-stack bookkeeping for Tarjan's algorithm.
type tarjanState struct {
	g        *graph.Graph
	index    map[int64]int
	lowlink  map[int64]int
	onStack  map[int64]bool
	stack    []int64
	counter  int
	sccs     []SCC
}

// StronglyConnectedComponents runs Tarjan's algorithm, returning only SCCs
// of size >= 2 (§4.4). Cancellation is checked before each new DFS root.
func StronglyConnectedComponents(ctx context.Context, g *graph.Graph) []SCC {
	st := &tarjanState{
		g:       g,
		index:   make(map[int64]int),
		lowlink: make(map[int64]int),
		onStack: make(map[int64]bool),
	}

	ids := g.NodeIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] }) // deterministic traversal order

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if _, visited := st.index[id]; !visited {
			st.strongConnect(id)
		}
	}

	sort.Slice(st.sccs, func(i, j int) bool {
		return minOf(st.sccs[i].Members) < minOf(st.sccs[j].Members)
	})
	for _, scc := range st.sccs {
		sort.Slice(scc.Members, func(i, j int) bool { return scc.Members[i] < scc.Members[j] })
	}
	return st.sccs
}

// strongConnect is Tarjan's algorithm implemented with an explicit work
// stack to avoid recursion depth limits on large graphs.
func (st *tarjanState) strongConnect(start int64) {
	type frame struct {
		node    int64
		edgeIdx int
	}
	var work []frame
	push := func(id int64) {
		st.index[id] = st.counter
		st.lowlink[id] = st.counter
		st.counter++
		st.stack = append(st.stack, id)
		st.onStack[id] = true
		work = append(work, frame{node: id})
	}
	push(start)

	for len(work) > 0 {
		top := &work[len(work)-1]
		v := top.node
		out := st.g.Out(v)

		advanced := false
		for top.edgeIdx < len(out) {
			w := out[top.edgeIdx].Target
			top.edgeIdx++
			if _, visited := st.index[w]; !visited {
				push(w)
				advanced = true
				break
			} else if st.onStack[w] {
				if st.index[w] < st.lowlink[v] {
					st.lowlink[v] = st.index[w]
				}
			}
		}
		if advanced {
			continue
		}

		// v's edges are exhausted: pop, propagate lowlink to caller, and if
		// v is a root, peel its SCC off the stack.
		work = work[:len(work)-1]
		if len(work) > 0 {
			parent := &work[len(work)-1]
			if st.lowlink[v] < st.lowlink[parent.node] {
				st.lowlink[parent.node] = st.lowlink[v]
			}
		}
		if st.lowlink[v] == st.index[v] {
			var members []int64
			for {
				n := len(st.stack) - 1
				w := st.stack[n]
				st.stack = st.stack[:n]
				st.onStack[w] = false
				members = append(members, w)
				if w == v {
					break
				}
			}
			if len(members) >= 2 {
				st.sccs = append(st.sccs, SCC{Members: members})
			}
		}
	}
}

func minOf(ids []int64) int64 {
	m := ids[0]
	for _, id := range ids[1:] {
		if id < m {
			m = id
		}
	}
	return m
}
