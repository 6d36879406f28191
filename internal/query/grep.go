// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"context"
	"sort"
	"strings"

	"github.com/kraklabs/roam/internal/model"
)

// GrepFilter restricts a Grep search by symbol kind and/or file path.
type GrepFilter struct {
	Kind model.SymbolKind
	File string
}

// GrepMatch is one symbol whose name, qualified name, or signature matched.
type GrepMatch struct {
	SymbolID      int64
	Name          string
	QualifiedName string
	Signature     string
	File          string
}

// Grep performs a case-insensitive substring search over name,
// qualified_name, and signature (§4.6.9).
func (e *Engine) Grep(ctx context.Context, pattern string, filter GrepFilter) ([]GrepMatch, error) {
	s, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(pattern)

	var out []GrepMatch
	for _, id := range sortedSymbolIDs(s.symbols) {
		sym := s.symbols[id]
		if filter.Kind != "" && sym.Kind != filter.Kind {
			continue
		}
		path := s.filePath(sym.FileID)
		if filter.File != "" && !strings.Contains(path, filter.File) {
			continue
		}
		if !containsFold(sym.Name, needle) && !containsFold(sym.QualifiedName, needle) && !containsFold(sym.Signature, needle) {
			continue
		}
		out = append(out, GrepMatch{
			SymbolID: id, Name: sym.Name, QualifiedName: sym.QualifiedName,
			Signature: sym.Signature, File: path,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func containsFold(haystack, needleLower string) bool {
	return strings.Contains(strings.ToLower(haystack), needleLower)
}
