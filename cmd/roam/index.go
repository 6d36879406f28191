// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kraklabs/roam/internal/analytics"
	"github.com/kraklabs/roam/internal/bootstrap"
	"github.com/kraklabs/roam/internal/extract/goext"
	"github.com/kraklabs/roam/internal/gitlog"
	"github.com/kraklabs/roam/internal/graph"
	"github.com/kraklabs/roam/internal/ingest"
	"github.com/kraklabs/roam/internal/metrics"
	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/resolve"
	"github.com/kraklabs/roam/internal/routput"
	"github.com/kraklabs/roam/internal/store"
	"github.com/kraklabs/roam/internal/ui"
)

// indexResult summarizes one `roam index` run for the closing report.
type indexResult struct {
	Files       int
	Symbols     int
	Edges       int
	Clusters    int
	GitCommits  int
	Duration    time.Duration
	GitSkipped  bool
	GitSkipWhy  string
}

func runIndex(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	debug := fs.Bool("debug", false, "Enable debug logging")
	metricsAddr := fs.String("metrics-addr", "", "Address to serve Prometheus /metrics on (e.g. :9100)")
	gitLimit := fs.Int("git-log-limit", 500, "Number of git log entries to sync for history metrics")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: roam index [options]

Indexes the current repository: extracts symbols and references,
resolves them into a call/reference graph, computes complexity and
graph-centrality metrics, and syncs recent git history.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Warn("index.metrics.serve_failed", "err", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("index.interrupted")
		cancel()
	}()

	cwd, err := os.Getwd()
	if err != nil {
		fatal(fmt.Errorf("cannot get current directory: %w", err), globals.JSON)
	}
	cwd = projectRoot(cwd, configPath)

	st, _, err := bootstrap.OpenProject(cwd, logger)
	if err != nil {
		fatal(err, globals.JSON)
	}
	defer st.Close()

	result, err := runLocalIndex(ctx, logger, st, cwd, globals, *gitLimit)
	if err != nil {
		fatal(err, globals.JSON)
	}

	printIndexResult(result, globals)
}

// runLocalIndex is the full pipeline: extract -> resolve -> persist edges
// -> graph analytics -> complexity metrics -> best-effort git sync.
func runLocalIndex(ctx context.Context, logger *slog.Logger, st *store.Store, repoRoot string, globals GlobalFlags, gitLimit int) (indexResult, error) {
	start := time.Now()

	sources, err := collectGoFiles(repoRoot)
	if err != nil {
		return indexResult{}, fmt.Errorf("walk repository: %w", err)
	}

	progressCfg := NewProgressConfig(globals)
	bar := NewProgressBar(progressCfg, int64(len(sources)), "indexing")

	extractor := goext.New()
	pipeline := ingest.New(st, extractor, logger)

	refs, err := pipeline.IngestAll(ctx, sources, func(done, total int) {
		if bar != nil {
			_ = bar.Set(done)
		}
	})
	if err != nil {
		return indexResult{}, fmt.Errorf("ingest: %w", err)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	symbols, err := store.AllSymbols(ctx, st.Read())
	if err != nil {
		return indexResult{}, fmt.Errorf("load symbols: %w", err)
	}
	files, err := store.AllFiles(ctx, st.Read())
	if err != nil {
		return indexResult{}, fmt.Errorf("load files: %w", err)
	}
	filePaths := make(map[int64]string, len(files))
	for _, f := range files {
		filePaths[f.ID] = f.Path
	}

	idx := resolve.BuildIndex(symbols, filePaths)
	edges, _ := resolve.ResolveAll(idx, refs)

	if err := persistEdges(ctx, st, edges); err != nil {
		return indexResult{}, fmt.Errorf("persist edges: %w", err)
	}

	g := graph.Build(symbols, edges)
	if err := persistGraphMetrics(ctx, st, g); err != nil {
		return indexResult{}, fmt.Errorf("persist graph metrics: %w", err)
	}

	clusterCount, err := persistClusters(ctx, st, g, symbols)
	if err != nil {
		return indexResult{}, fmt.Errorf("persist clusters: %w", err)
	}

	if err := persistSymbolMetrics(ctx, st, extractor, symbols, files, repoRoot); err != nil {
		return indexResult{}, fmt.Errorf("persist symbol metrics: %w", err)
	}

	result := indexResult{
		Files:    len(files),
		Symbols:  len(symbols),
		Edges:    len(edges),
		Clusters: clusterCount,
		Duration: time.Since(start),
	}

	commits, skipReason := syncGitHistory(ctx, st, repoRoot, gitLimit, logger)
	result.GitCommits = commits
	if skipReason != "" {
		result.GitSkipped = true
		result.GitSkipWhy = skipReason
	}

	return result, nil
}

func persistEdges(ctx context.Context, st *store.Store, edges []model.Edge) error {
	tx, err := st.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range edges {
		if err := store.InsertEdge(ctx, tx, e); err != nil {
			return err
		}
	}
	if err := store.ReplaceFileEdges(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func persistGraphMetrics(ctx context.Context, st *store.Store, g *graph.Graph) error {
	pagerank := analytics.PageRank(ctx, g)
	inDegree, outDegree := analytics.Degrees(g)
	betweenness := analytics.Betweenness(ctx, g)

	rows := make([]model.GraphMetrics, 0, g.NodeCount())
	for _, id := range g.NodeIDs() {
		rows = append(rows, model.GraphMetrics{
			SymbolID:    id,
			PageRank:    pagerank[id],
			InDegree:    inDegree[id],
			OutDegree:   outDegree[id],
			Betweenness: betweenness[id],
		})
	}

	tx, err := st.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := store.ReplaceGraphMetrics(ctx, tx, rows); err != nil {
		return err
	}
	return tx.Commit()
}

func persistClusters(ctx context.Context, st *store.Store, g *graph.Graph, symbols []model.Symbol) (int, error) {
	pagerank := analytics.PageRank(ctx, g)
	names := make(map[int64]string, len(symbols))
	for _, s := range symbols {
		names[s.ID] = s.QualifiedName
	}

	assignments := analytics.LouvainClusters(ctx, g, pagerank, names)
	rows := make([]model.Cluster, 0, len(assignments))
	seen := make(map[int]bool)
	for _, a := range assignments {
		rows = append(rows, model.Cluster{SymbolID: a.SymbolID, ClusterID: a.ClusterID, ClusterLabel: a.ClusterLabel})
		seen[a.ClusterID] = true
	}

	tx, err := st.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	if err := store.ReplaceClusters(ctx, tx, rows); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(seen), nil
}

// persistSymbolMetrics computes complexity metrics per function/method
// symbol by re-walking each file's AST through ExtractMetrics and matching
// the resulting FunctionBody map back to symbol IDs by qualified name.
func persistSymbolMetrics(ctx context.Context, st *store.Store, extractor *goext.Extractor, symbols []model.Symbol, files []model.File, repoRoot string) error {
	byID := make(map[int64]model.File, len(files))
	for _, f := range files {
		byID[f.ID] = f
	}

	byQualifiedName := make(map[string][]model.Symbol)
	for _, s := range symbols {
		if s.Kind != model.KindFunction && s.Kind != model.KindMethod {
			continue
		}
		byQualifiedName[s.QualifiedName] = append(byQualifiedName[s.QualifiedName], s)
	}

	var rows []model.SymbolMetrics
	for _, f := range files {
		source, err := os.ReadFile(filepath.Join(repoRoot, f.Path))
		if err != nil {
			continue
		}
		bodies, err := extractor.ExtractMetrics(f.Path, source)
		if err != nil {
			continue
		}
		for qualified, body := range bodies {
			for _, sym := range byQualifiedName[qualified] {
				if byID[sym.FileID].Path != f.Path {
					continue
				}
				row := metrics.Compute(body)
				row.SymbolID = sym.ID
				rows = append(rows, row)
			}
		}
	}

	tx, err := st.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := store.ReplaceSymbolMetrics(ctx, tx, rows); err != nil {
		return err
	}
	return tx.Commit()
}

// syncGitHistory best-effort syncs recent git log/numstat history for the
// fitness engine's churn metrics. Absence of git (GitUnavailable, §7) is
// never fatal: it returns a skip reason instead of an error.
func syncGitHistory(ctx context.Context, st *store.Store, repoRoot string, limit int, logger *slog.Logger) (commits int, skipReason string) {
	repo, err := gitlog.Open(ctx, repoRoot)
	if err != nil {
		logger.Debug("index.git.unavailable", "err", err)
		return 0, "git unavailable"
	}
	n, err := gitlog.Sync(ctx, st, repo, "HEAD", limit)
	if err != nil {
		logger.Warn("index.git.sync_failed", "err", err)
		return 0, err.Error()
	}
	return n, ""
}

// collectGoFiles walks repoRoot for .go source files, skipping vendor,
// .git, and .roam directories, and reads each one into an
// ingest.SourceFile.
func collectGoFiles(repoRoot string) ([]ingest.SourceFile, error) {
	var sources []ingest.SourceFile
	err := filepath.WalkDir(repoRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", ".roam", "vendor", "node_modules":
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(repoRoot, path)
		if err != nil {
			rel = path
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		sources = append(sources, ingest.SourceFile{Path: rel, Content: content, Language: "go"})
		return nil
	})
	return sources, err
}

func printIndexResult(r indexResult, globals GlobalFlags) {
	if globals.JSON {
		if err := routput.JSON(r); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ui.Header("Index complete")
	fmt.Printf("Files:     %d\n", r.Files)
	fmt.Printf("Symbols:   %d\n", r.Symbols)
	fmt.Printf("Edges:     %d\n", r.Edges)
	fmt.Printf("Clusters:  %d\n", r.Clusters)
	fmt.Printf("Duration:  %s\n", r.Duration.Round(time.Millisecond))
	if r.GitSkipped {
		ui.Warningf("git history sync skipped: %s", r.GitSkipWhy)
	} else {
		fmt.Printf("Commits synced: %d\n", r.GitCommits)
	}
}
