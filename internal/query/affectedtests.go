// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"context"

	"github.com/kraklabs/roam/internal/classify"
)

const affectedTestsMaxDepth = 8

// AffectedTestsResult is §4.6.3's output: the test symbols that transitively
// (or by colocation) cover a set of changed symbols.
type AffectedTestsResult struct {
	TestSymbolIDs []int64
}

// AffectedTests runs a reverse BFS (depth 8) from changed symbols, keeps
// only symbols in test files, and unions in every test file colocated with
// a changed file's directory.
func (e *Engine) AffectedTests(ctx context.Context, changedSymbolIDs []int64) (AffectedTestsResult, error) {
	s, err := e.load(ctx)
	if err != nil {
		return AffectedTestsResult{}, err
	}

	reached := s.g.BFSReverse(changedSymbolIDs, affectedTestsMaxDepth)
	testIDs := make(map[int64]bool)
	for _, id := range reached {
		if sym, ok := s.symbols[id]; ok && s.isTestSymbol(sym) {
			testIDs[id] = true
		}
	}

	changedDirs := make(map[string]bool)
	for _, id := range changedSymbolIDs {
		if sym, ok := s.symbols[id]; ok {
			changedDirs[classify.Dir(s.filePath(sym.FileID))] = true
		}
	}
	if len(changedDirs) > 0 {
		for id, sym := range s.symbols {
			if !s.isTestSymbol(sym) {
				continue
			}
			if changedDirs[classify.Dir(s.filePath(sym.FileID))] {
				testIDs[id] = true
			}
		}
	}

	out := make([]int64, 0, len(testIDs))
	for id := range testIDs {
		out = append(out, id)
	}
	sortInt64s(out)
	return AffectedTestsResult{TestSymbolIDs: out}, nil
}
