// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"context"
	"sort"

	"github.com/kraklabs/roam/internal/store"
)

// CouplingStrength buckets a cochange count (§4.6.4).
type CouplingStrength string

const (
	CouplingHigh   CouplingStrength = "high"
	CouplingMedium CouplingStrength = "medium"
	CouplingLoose  CouplingStrength = "loose"
)

func couplingStrength(count int) CouplingStrength {
	switch {
	case count >= 10:
		return CouplingHigh
	case count >= 3:
		return CouplingMedium
	default:
		return CouplingLoose
	}
}

// CouplingEntry is one file paired by git cochange with the queried file.
type CouplingEntry struct {
	FileID   int64
	Count    int
	Strength CouplingStrength
}

// Coupling returns files that historically change alongside fileID, sorted
// by cochange_count descending and filtered to at least minStrength.
func (e *Engine) Coupling(ctx context.Context, fileID int64, minStrength CouplingStrength) ([]CouplingEntry, error) {
	pairs, err := store.CochangesForFile(ctx, e.store.Read(), fileID)
	if err != nil {
		return nil, err
	}

	minRank := strengthRank(minStrength)
	var out []CouplingEntry
	for _, p := range pairs {
		other := p.FileIDA
		if other == fileID {
			other = p.FileIDB
		}
		strength := couplingStrength(p.CochangeCount)
		if strengthRank(strength) < minRank {
			continue
		}
		out = append(out, CouplingEntry{FileID: other, Count: p.CochangeCount, Strength: strength})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func strengthRank(s CouplingStrength) int {
	switch s {
	case CouplingHigh:
		return 2
	case CouplingMedium:
		return 1
	default:
		return 0
	}
}
