// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"context"
	"sort"
)

// FanLabel flags symbols whose degree crosses a risk threshold (§4.6.8).
type FanLabel string

const (
	LabelGodObject  FanLabel = "God-object"
	LabelHighImpact FanLabel = "High-impact"
	LabelHub        FanLabel = "Hub"
)

// FanEntry is one symbol's fan-in/fan-out reading.
type FanEntry struct {
	SymbolID  int64
	Name      string
	InDegree  int
	OutDegree int
	Labels    []FanLabel
}

// FanThreshold selects which degree a minimum filters on.
type FanThreshold struct {
	MinInDegree  int
	MinOutDegree int
	MinSum       int
}

// FanInOut reads GraphMetrics filtered by threshold, labeling God-object
// (out_degree>15), High-impact (in_degree>20), and Hub (both >10).
func (e *Engine) FanInOut(ctx context.Context, t FanThreshold) ([]FanEntry, error) {
	s, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	var out []FanEntry
	for _, id := range sortedSymbolIDs(s.symbols) {
		gm, ok := s.graphMetrics[id]
		if !ok {
			continue
		}
		if gm.InDegree < t.MinInDegree || gm.OutDegree < t.MinOutDegree || (gm.InDegree+gm.OutDegree) < t.MinSum {
			continue
		}

		var labels []FanLabel
		if gm.OutDegree > 15 {
			labels = append(labels, LabelGodObject)
		}
		if gm.InDegree > 20 {
			labels = append(labels, LabelHighImpact)
		}
		if gm.InDegree > 10 && gm.OutDegree > 10 {
			labels = append(labels, LabelHub)
		}

		out = append(out, FanEntry{
			SymbolID: id, Name: s.symbols[id].Name,
			InDegree: gm.InDegree, OutDegree: gm.OutDegree, Labels: labels,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return (out[i].InDegree + out[i].OutDegree) > (out[j].InDegree + out[j].OutDegree)
	})
	return out, nil
}
