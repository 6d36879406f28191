// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"sort"
	"strings"
	"unicode"

	"github.com/kraklabs/roam/internal/model"
)

// importNormalizeExts are known source-file extensions stripped during
// import-path normalization (§4.2 step 6).
var importNormalizeExts = []string{".go", ".ts", ".tsx", ".js", ".jsx", ".py", ".rb", ".java", ".cls", ".trigger", ".cs"}

// normalizeImportPath applies the rewrite rules from §4.2 step 6: strip a
// leading "@/" (rewritten to "src/") or "./", strip a trailing known
// extension, and normalize backslashes to forward slashes.
func normalizeImportPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	switch {
	case strings.HasPrefix(p, "@/"):
		p = "src/" + strings.TrimPrefix(p, "@/")
	case strings.HasPrefix(p, "./"):
		p = strings.TrimPrefix(p, "./")
	}
	for _, ext := range importNormalizeExts {
		if strings.HasSuffix(p, ext) {
			p = strings.TrimSuffix(p, ext)
			break
		}
	}
	return p
}

// importPathMatches reports whether candidatePath matches the normalized
// import path under §4.2 step 6's suffix/containment rule.
func importPathMatches(candidatePath, normalized string) bool {
	candidate := normalizeImportPath(candidatePath)
	if candidate == normalized {
		return true
	}
	if strings.HasSuffix(candidate, "/"+normalized) {
		return true
	}
	if strings.Contains(candidate, "/"+normalized+"/") {
		return true
	}
	return false
}

// importKey identifies an import binding local to one source file.
type importKey struct {
	sourceFile string
	name       string
}

// resolveCtx carries the state shared across all references in one
// ResolveAll call: the symbol index, the import-path bindings built
// from kind='import' references, and the de-duplication set.
type resolveCtx struct {
	idx     *Index
	imports map[importKey]string
	seenKey map[string]bool
}

func newResolveCtx(idx *Index, refs []model.Reference) *resolveCtx {
	rc := &resolveCtx{
		idx:     idx,
		imports: make(map[importKey]string),
		seenKey: make(map[string]bool),
	}
	for _, r := range refs {
		if r.Kind == model.EdgeImport && r.SourceFile != "" {
			rc.imports[importKey{sourceFile: r.SourceFile, name: r.TargetName}] = r.ImportPath
		}
	}
	return rc
}

// ResolveAll resolves every reference in refs against idx and returns the
// deduplicated Edge slice plus the derived FileEdge aggregation (§4.2's
// two-pass output). refs may span multiple files; each Reference's
// SourceFile (a normalized path) identifies which file's symbol set to
// search for the source symbol.
func ResolveAll(idx *Index, refs []model.Reference) ([]model.Edge, []model.FileEdge) {
	rc := newResolveCtx(idx, refs)

	var edges []model.Edge
	for _, ref := range refs {
		if ref.Kind == model.EdgeImport {
			// Import bindings feed the import-path index; they are not
			// themselves resolved into symbol edges.
			continue
		}
		e, ok := rc.resolveOne(ref)
		if !ok {
			continue
		}
		edges = append(edges, e)
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].SourceID != edges[j].SourceID {
			return edges[i].SourceID < edges[j].SourceID
		}
		if edges[i].Kind != edges[j].Kind {
			return edges[i].Kind < edges[j].Kind
		}
		return edges[i].TargetID < edges[j].TargetID
	})

	return edges, aggregateFileEdges(idx, edges)
}

func (rc *resolveCtx) resolveOne(ref model.Reference) (model.Edge, bool) {
	srcFileID, ok := rc.idx.pathFile[ref.SourceFile]
	if !ok {
		return model.Edge{}, false
	}

	source, ok := rc.resolveSource(srcFileID, ref)
	if !ok {
		return model.Edge{}, false
	}

	sourceParent := parentOf(source.QualifiedName)

	candidates := rc.rankedCandidates(ref.TargetName)
	if len(candidates) == 0 {
		return model.Edge{}, false
	}

	candidates = rc.applyLocality(candidates, source)
	target := rc.disambiguate(candidates, source, ref, sourceParent)

	if source.ID == target.ID {
		return model.Edge{}, false // self-edge suppression
	}

	key := edgeKey(source.ID, target.ID, ref.Kind)
	if rc.seenKey[key] {
		return model.Edge{}, false
	}
	rc.seenKey[key] = true

	return model.Edge{SourceID: source.ID, TargetID: target.ID, Kind: ref.Kind, Line: ref.Line}, true
}

// resolveSource implements §4.2 step 1.
func (rc *resolveCtx) resolveSource(fileID int64, ref model.Reference) (model.Symbol, bool) {
	fileSymbols := rc.idx.byFile[fileID]
	if len(fileSymbols) == 0 {
		return model.Symbol{}, false
	}

	var matches []model.Symbol
	for _, s := range fileSymbols {
		if s.Name == ref.SourceName {
			matches = append(matches, s)
		}
	}
	if len(matches) == 1 {
		return matches[0], true
	}
	if len(matches) > 1 {
		if enclosing, ok := pickEnclosing(matches, ref.Line); ok {
			return enclosing, true
		}
		return matches[0], true
	}

	// ref.SourceName didn't match any symbol in the file: fall back to the
	// first symbol whose range encloses the line, then the file's first symbol.
	if enclosing, ok := pickEnclosing(fileSymbols, ref.Line); ok {
		return enclosing, true
	}
	return fileSymbols[0], true
}

func pickEnclosing(symbols []model.Symbol, line int) (model.Symbol, bool) {
	for _, s := range symbols {
		if s.LineStart <= line && line <= s.LineEnd {
			return s, true
		}
	}
	return model.Symbol{}, false
}

func parentOf(qualifiedName string) string {
	idx := strings.LastIndexAny(qualifiedName, ".:")
	if idx < 0 {
		return ""
	}
	// Handle "::" by trimming a trailing second colon too.
	parent := qualifiedName[:idx]
	return strings.TrimSuffix(parent, ":")
}

// rankedCandidates implements §4.2 step 3, rules R1-R3.
func (rc *resolveCtx) rankedCandidates(targetName string) []model.Symbol {
	if exact := rc.idx.byQualifiedName[targetName]; len(exact) == 1 {
		return exact
	} else if len(exact) > 1 {
		return exact // R2 applies disambiguation below, but keep R1 candidate pool
	}
	if simple := rc.idx.bySimpleName[targetName]; len(simple) > 0 {
		return simple
	}
	return rc.idx.lowerNameMatches(targetName)
}

// applyLocality implements §4.2 step 4.
func (rc *resolveCtx) applyLocality(candidates []model.Symbol, source model.Symbol) []model.Symbol {
	if len(candidates) <= 1 {
		return candidates
	}
	sameFile := filterSymbols(candidates, func(s model.Symbol) bool { return s.FileID == source.FileID })
	if len(sameFile) > 0 {
		return sameFile
	}
	sourceDir := classifyDir(rc.idx.filePath[source.FileID])
	sameDir := filterSymbols(candidates, func(s model.Symbol) bool { return classifyDir(rc.idx.filePath[s.FileID]) == sourceDir })
	if len(sameDir) > 0 {
		return sameDir
	}
	return candidates
}

// disambiguate implements §4.2 step 5's chain, ending with the pinned
// tie-break: smallest symbol id (Open Question decision, not "first
// exported candidate").
func (rc *resolveCtx) disambiguate(candidates []model.Symbol, source model.Symbol, ref model.Reference, sourceParent string) model.Symbol {
	if len(candidates) == 1 {
		return candidates[0]
	}

	if ref.Kind == model.EdgeCall && len(ref.TargetName) > 0 && unicode.IsUpper(rune(ref.TargetName[0])) {
		candidates = narrow(candidates, func(s model.Symbol) bool { return s.Kind == model.KindClass })
	}

	candidates = narrow(candidates, func(s model.Symbol) bool { return s.FileID == source.FileID })
	candidates = narrow(candidates, func(s model.Symbol) bool {
		return sourceParent != "" && strings.HasPrefix(s.QualifiedName, sourceParent)
	})

	sourceDir := classifyDir(rc.idx.filePath[source.FileID])
	sameDir := narrow(candidates, func(s model.Symbol) bool { return classifyDir(rc.idx.filePath[s.FileID]) == sourceDir })
	if len(sameDir) != len(candidates) && len(sameDir) > 0 {
		exported := narrow(sameDir, func(s model.Symbol) bool { return s.IsExported })
		candidates = exported
	} else {
		candidates = sameDir
	}

	if importPath, ok := rc.imports[importKey{sourceFile: ref.SourceFile, name: ref.TargetName}]; ok && importPath != "" {
		normalized := normalizeImportPath(importPath)
		byImport := narrow(candidates, func(s model.Symbol) bool {
			return importPathMatches(rc.idx.filePath[s.FileID], normalized)
		})
		candidates = byImport
	}

	return lowestID(candidates)
}

// narrow returns the filtered subset if non-empty, else the original slice
// unchanged — each disambiguation step only takes effect when it leaves at
// least one candidate standing.
func narrow(candidates []model.Symbol, pred func(model.Symbol) bool) []model.Symbol {
	filtered := filterSymbols(candidates, pred)
	if len(filtered) > 0 {
		return filtered
	}
	return candidates
}

func filterSymbols(candidates []model.Symbol, pred func(model.Symbol) bool) []model.Symbol {
	var out []model.Symbol
	for _, c := range candidates {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}

func lowestID(candidates []model.Symbol) model.Symbol {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.ID < best.ID {
			best = c
		}
	}
	return best
}

func classifyDir(p string) string {
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		return p[:idx]
	}
	return ""
}

func edgeKey(source, target int64, kind model.EdgeKind) string {
	var b strings.Builder
	b.WriteString(formatInt(source))
	b.WriteByte('|')
	b.WriteString(formatInt(target))
	b.WriteByte('|')
	b.WriteString(string(kind))
	return b.String()
}

func formatInt(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// aggregateFileEdges implements §4.2's second pass: count edges
// (source_file, target_file) across all kinds, discarding intra-file edges.
func aggregateFileEdges(idx *Index, edges []model.Edge) []model.FileEdge {
	symbolFile := make(map[int64]int64)
	for fileID, syms := range idx.byFile {
		for _, s := range syms {
			symbolFile[s.ID] = fileID
		}
	}

	counts := make(map[[2]int64]int)
	var order [][2]int64
	for _, e := range edges {
		sf, ok1 := symbolFile[e.SourceID]
		tf, ok2 := symbolFile[e.TargetID]
		if !ok1 || !ok2 || sf == tf {
			continue
		}
		key := [2]int64{sf, tf}
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i][0] != order[j][0] {
			return order[i][0] < order[j][0]
		}
		return order[i][1] < order[j][1]
	})

	out := make([]model.FileEdge, 0, len(order))
	for _, key := range order {
		out = append(out, model.FileEdge{
			SourceFileID: key[0],
			TargetFileID: key[1],
			Kind:         "imports",
			SymbolCount:  counts[key],
		})
	}
	return out
}
