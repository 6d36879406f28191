// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"testing"

	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/store"
	"github.com/kraklabs/roam/internal/testkit"
)

type fakeExtractor struct {
	symbols []model.Symbol
	refs    []model.Reference
	err     error
}

func (f fakeExtractor) Extract(filePath string, source []byte) ([]model.Symbol, []model.Reference, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.symbols, f.refs, nil
}

func openTestStore(t *testing.T) *store.Store { return testkit.OpenStore(t) }

func TestIngestFile_PersistsFileAndSymbols(t *testing.T) {
	st := openTestStore(t)
	ex := fakeExtractor{
		symbols: []model.Symbol{
			{Name: "Foo", QualifiedName: "pkg.Foo", Kind: model.KindFunction, LineStart: 1, LineEnd: 5, IsExported: true},
		},
		refs: []model.Reference{
			{SourceName: "Foo", TargetName: "Bar", Kind: model.EdgeCall, Line: 3},
		},
	}
	p := New(st, ex, nil)

	res, err := p.IngestFile(context.Background(), "./pkg/foo.go", []byte("package pkg\nfunc Foo() {}\n"), "go")
	if err != nil {
		t.Fatalf("ingest file: %v", err)
	}
	if res.FileID == 0 {
		t.Fatalf("expected non-zero file id")
	}
	if len(res.References) != 1 || res.References[0].SourceFile != "pkg/foo.go" {
		t.Fatalf("expected reference stamped with normalized source file, got %+v", res.References)
	}

	symbols, err := store.SymbolsForFile(context.Background(), st.Read(), res.FileID)
	if err != nil {
		t.Fatalf("symbols for file: %v", err)
	}
	if len(symbols) != 1 || symbols[0].Name != "Foo" {
		t.Fatalf("expected symbol Foo persisted, got %+v", symbols)
	}
}

func TestIngestFile_ReingestReplacesSymbols(t *testing.T) {
	st := openTestStore(t)
	ex := fakeExtractor{symbols: []model.Symbol{{Name: "A", Kind: model.KindFunction, LineStart: 1, LineEnd: 2}}}
	p := New(st, ex, nil)

	first, err := p.IngestFile(context.Background(), "a.go", []byte("x"), "go")
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}

	ex.symbols = []model.Symbol{{Name: "B", Kind: model.KindFunction, LineStart: 1, LineEnd: 2}}
	p = New(st, ex, nil)
	second, err := p.IngestFile(context.Background(), "a.go", []byte("y"), "go")
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if first.FileID != second.FileID {
		t.Fatalf("expected same file id across reingest, got %d and %d", first.FileID, second.FileID)
	}

	symbols, err := store.SymbolsForFile(context.Background(), st.Read(), second.FileID)
	if err != nil {
		t.Fatalf("symbols for file: %v", err)
	}
	if len(symbols) != 1 || symbols[0].Name != "B" {
		t.Fatalf("expected stale symbol A replaced by B, got %+v", symbols)
	}
}

func TestIngestFile_ExtractorErrorYieldsNoSymbolsNotAbort(t *testing.T) {
	st := openTestStore(t)
	ex := fakeExtractor{err: context.DeadlineExceeded}
	p := New(st, ex, nil)

	res, err := p.IngestFile(context.Background(), "broken.go", []byte("???"), "go")
	if err != nil {
		t.Fatalf("expected ingest to tolerate extractor failure, got %v", err)
	}
	symbols, err := store.SymbolsForFile(context.Background(), st.Read(), res.FileID)
	if err != nil {
		t.Fatalf("symbols for file: %v", err)
	}
	if len(symbols) != 0 {
		t.Fatalf("expected no symbols for a failed extraction, got %+v", symbols)
	}
}

func TestIngestAll_ConcatenatesReferencesAndReportsProgress(t *testing.T) {
	st := openTestStore(t)
	ex := fakeExtractor{
		symbols: []model.Symbol{{Name: "A", Kind: model.KindFunction, LineStart: 1, LineEnd: 1}},
		refs:    []model.Reference{{SourceName: "A", TargetName: "B", Kind: model.EdgeCall}},
	}
	p := New(st, ex, nil)

	files := []SourceFile{
		{Path: "one.go", Content: []byte("one"), Language: "go"},
		{Path: "two.go", Content: []byte("two"), Language: "go"},
	}
	var progressCalls []int
	refs, err := p.IngestAll(context.Background(), files, func(done, total int) {
		progressCalls = append(progressCalls, done)
	})
	if err != nil {
		t.Fatalf("ingest all: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 concatenated references, got %d", len(refs))
	}
	if len(progressCalls) != 2 || progressCalls[1] != 2 {
		t.Fatalf("expected progress callback called per file, got %v", progressCalls)
	}
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"./a/b.go":   "a/b.go",
		"a\\b\\c.go": "a/b/c.go",
		"/abs/p.go":  "abs/p.go",
		".":          "",
	}
	for in, want := range cases {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}
