// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package query

import "context"

const blastRadiusMaxDepth = 10

// BlastRadiusResult is §4.6.2's output shape.
type BlastRadiusResult struct {
	ReachableSymbolIDs []int64
	ReachableCount     int
	DistinctFileCount  int
}

// BlastRadius runs a reverse BFS from seeds to depth 10, excluding the seeds
// themselves, and reports how much of the graph depends on them.
func (e *Engine) BlastRadius(ctx context.Context, seeds []int64) (BlastRadiusResult, error) {
	s, err := e.load(ctx)
	if err != nil {
		return BlastRadiusResult{}, err
	}
	return blastRadiusOver(s, seeds), nil
}

func blastRadiusOver(s *snapshot, seeds []int64) BlastRadiusResult {
	reached := s.g.BFSReverse(seeds, blastRadiusMaxDepth)

	files := make(map[int64]bool)
	for _, id := range reached {
		if sym, ok := s.symbols[id]; ok {
			files[sym.FileID] = true
		}
	}

	return BlastRadiusResult{
		ReachableSymbolIDs: reached,
		ReachableCount:     len(reached),
		DistinctFileCount:  len(files),
	}
}
