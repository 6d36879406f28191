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

// Package ingest accepts one file's extractor output and persists it
// (§2 Ingestion, §4.2's ordering rule): all symbols of all files are
// ingested before resolution begins, so this package never calls into
// internal/resolve itself — it only returns the raw references it collected
// so the caller can hand the whole project's references to the Resolver
// once every file has been ingested.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/kraklabs/roam/internal/classify"
	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/store"
)

// Extractor is the external collaborator contract (§6): for one file's path
// and source text, produce the symbols it declares and the references it
// makes. The core never parses source itself.
type Extractor interface {
	Extract(filePath string, source []byte) ([]model.Symbol, []model.Reference, error)
}

// Pipeline wraps a Store and an Extractor to ingest one file (or a whole
// project) per the single-writer transaction-per-file model (§5).
type Pipeline struct {
	store     *store.Store
	extractor Extractor
	log       *slog.Logger
	metrics   *Metrics
}

// New constructs a Pipeline.
func New(st *store.Store, extractor Extractor, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{store: st, extractor: extractor, log: log.With("component", "ingest"), metrics: newMetrics()}
}

// NormalizePath mirrors the File entity's "forward-slash normalized" rule
// (§3): strip a leading "./", clean the path, normalize separators, and
// strip a leading "/".
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		p = ""
	}
	return p
}

// ContentHash returns a stable hash of file content, stored on the file's
// row. Index runs do not compare it; every run re-ingests every file.
func ContentHash(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// FileResult is what IngestFile hands back: the assigned file id and every
// reference it extracted (with SourceFile stamped to the normalized path),
// staged for a later project-wide resolution pass.
type FileResult struct {
	FileID     int64
	References []model.Reference
}

// IngestFile parses one file via the Extractor, and in one transaction:
// deletes any previously-ingested symbols (and their edges) for the same
// path, upserts the File row, and inserts every Symbol. It returns the
// References for the caller to accumulate across the whole project.
func (p *Pipeline) IngestFile(ctx context.Context, filePath string, source []byte, language string) (FileResult, error) {
	normalized := NormalizePath(filePath)
	hash := ContentHash(source)

	symbols, refs, err := p.extractor.Extract(normalized, source)
	if err != nil {
		// Malformed extractor output yields no symbols rather than aborting
		// the whole run (§9 design notes: exception-flavored control flow).
		p.log.Warn("ingest.extract_failed", "path", normalized, "error", err)
		symbols, refs = nil, nil
	}

	lineCount := strings.Count(string(source), "\n") + 1

	tx, err := p.store.BeginTx(ctx)
	if err != nil {
		return FileResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	fileID, err := store.UpsertFile(ctx, tx, model.File{
		Path:      normalized,
		Language:  language,
		LineCount: lineCount,
		FileRole:  classify.Classify(normalized),
		Hash:      hash,
	})
	if err != nil {
		return FileResult{}, fmt.Errorf("upsert file: %w", err)
	}

	if err := store.DeleteSymbolsForFile(ctx, tx, fileID); err != nil {
		return FileResult{}, fmt.Errorf("delete stale symbols: %w", err)
	}

	for _, s := range symbols {
		s.FileID = fileID
		if _, err := store.InsertSymbol(ctx, tx, s); err != nil {
			return FileResult{}, fmt.Errorf("insert symbol %s: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return FileResult{}, fmt.Errorf("commit: %w", err)
	}

	for i := range refs {
		if refs[i].SourceFile == "" {
			refs[i].SourceFile = normalized
		}
	}

	p.metrics.filesIngested.Inc()
	p.metrics.symbolsIngested.Add(float64(len(symbols)))
	p.log.Debug("ingest.file", "path", normalized, "symbols", len(symbols), "references", len(refs))

	return FileResult{FileID: fileID, References: refs}, nil
}

// SourceFile is one file handed to IngestAll.
type SourceFile struct {
	Path     string
	Content  []byte
	Language string
}

// IngestAll ingests every file in order and returns the concatenated
// reference set for the subsequent project-wide resolution pass.
func (p *Pipeline) IngestAll(ctx context.Context, files []SourceFile, progress func(done, total int)) ([]model.Reference, error) {
	var allRefs []model.Reference
	for i, f := range files {
		res, err := p.IngestFile(ctx, f.Path, f.Content, f.Language)
		if err != nil {
			return nil, fmt.Errorf("ingest %s: %w", f.Path, err)
		}
		allRefs = append(allRefs, res.References...)
		if progress != nil {
			progress(i+1, len(files))
		}
	}
	return allRefs, nil
}
