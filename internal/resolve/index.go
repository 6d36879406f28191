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

// Package resolve turns the extractor's name-based Reference records into
// concrete Symbol-to-Symbol Edges (§4.2). It never touches the store
// directly: callers build an Index from the full symbol table (and the
// file-path lookup it needs for locality/import-path rules), then call
// ResolveAll for the whole project.
package resolve

import (
	"sort"
	"strings"

	"github.com/kraklabs/roam/internal/model"
)

// Index is the set of lookup structures the resolver needs: by simple name,
// by qualified name, and by owning file, plus a path lookup for locality and
// import-path disambiguation.
type Index struct {
	bySimpleName    map[string][]model.Symbol
	byQualifiedName map[string][]model.Symbol
	byFile          map[int64][]model.Symbol // sorted by LineStart
	filePath        map[int64]string         // file id -> normalized path
	pathFile        map[string]int64         // normalized path -> file id
}

// BuildIndex constructs the lookup structures the resolver needs. files maps
// file id to its forward-slash normalized path.
func BuildIndex(symbols []model.Symbol, files map[int64]string) *Index {
	idx := &Index{
		bySimpleName:    make(map[string][]model.Symbol),
		byQualifiedName: make(map[string][]model.Symbol),
		byFile:          make(map[int64][]model.Symbol),
		filePath:        make(map[int64]string, len(files)),
		pathFile:        make(map[string]int64, len(files)),
	}
	for id, p := range files {
		idx.filePath[id] = p
		idx.pathFile[p] = id
	}
	for _, s := range symbols {
		idx.bySimpleName[s.Name] = append(idx.bySimpleName[s.Name], s)
		idx.byQualifiedName[s.QualifiedName] = append(idx.byQualifiedName[s.QualifiedName], s)
		idx.byFile[s.FileID] = append(idx.byFile[s.FileID], s)
	}
	for fileID := range idx.byFile {
		syms := idx.byFile[fileID]
		sort.Slice(syms, func(i, j int) bool { return syms[i].LineStart < syms[j].LineStart })
		idx.byFile[fileID] = syms
	}
	return idx
}

// lowerNameMatches serves R3 (case-insensitive fallback) by scanning every
// simple name on each call; no lowered-name index is kept.
func (idx *Index) lowerNameMatches(name string) []model.Symbol {
	lower := strings.ToLower(name)
	var out []model.Symbol
	for n, syms := range idx.bySimpleName {
		if strings.ToLower(n) == lower {
			out = append(out, syms...)
		}
	}
	return out
}
