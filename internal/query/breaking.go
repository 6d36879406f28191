// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"context"
	"sort"
)

// BreakingSeverity classifies a breaking-change candidate by consumer count.
type BreakingSeverity string

const (
	SeverityBreaking BreakingSeverity = "BREAKING"
	SeverityWarning  BreakingSeverity = "WARNING"
	SeverityInfo     BreakingSeverity = "INFO"
)

func breakingSeverity(consumers int) BreakingSeverity {
	switch {
	case consumers >= 10:
		return SeverityBreaking
	case consumers >= 4:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// BreakingChange is one exported symbol in a changed file with consumers.
type BreakingChange struct {
	SymbolID  int64
	Name      string
	File      string
	Consumers int
	Severity  BreakingSeverity
}

// BreakingChanges returns exported symbols in changedFileIDs that are
// referenced by at least one edge, classified by consumer count (§4.6.6).
func (e *Engine) BreakingChanges(ctx context.Context, changedFileIDs []int64) ([]BreakingChange, error) {
	s, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	changed := toSet(changedFileIDs)

	var out []BreakingChange
	for _, id := range sortedSymbolIDs(s.symbols) {
		sym := s.symbols[id]
		if !sym.IsExported || !changed[sym.FileID] {
			continue
		}
		consumers := s.g.InDegree(id)
		if consumers == 0 {
			continue
		}
		out = append(out, BreakingChange{
			SymbolID: id, Name: sym.Name, File: s.filePath(sym.FileID),
			Consumers: consumers, Severity: breakingSeverity(consumers),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Consumers > out[j].Consumers })
	return out, nil
}

func toSet(ids []int64) map[int64]bool {
	m := make(map[int64]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
