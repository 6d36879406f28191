// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/kraklabs/roam/internal/bootstrap"
	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/query"
	"github.com/kraklabs/roam/internal/routput"
	"github.com/kraklabs/roam/internal/store"
)

// runQuery dispatches the 'query' command's subcommands against the
// analytical QueryEngine.
func runQuery(args []string, configPath string, globals GlobalFlags) {
	if len(args) == 0 {
		queryUsage()
		os.Exit(1)
	}
	sub, rest := args[0], args[1:]

	cwd, err := os.Getwd()
	if err != nil {
		fatal(fmt.Errorf("cannot get current directory: %w", err), globals.JSON)
	}
	cwd = projectRoot(cwd, configPath)

	st, _, err := bootstrap.OpenProject(cwd, nil)
	if err != nil {
		fatal(err, globals.JSON)
	}
	defer st.Close()

	ctx := context.Background()
	engine := query.New(st)

	switch sub {
	case "dead-code":
		runQueryDeadCode(ctx, st, engine, rest, globals)
	case "blast-radius":
		runQueryBlastRadius(ctx, st, engine, rest, globals)
	case "affected-tests":
		runQueryAffectedTests(ctx, st, engine, rest, globals)
	case "coupling":
		runQueryCoupling(ctx, st, engine, rest, globals)
	case "pr-risk":
		runQueryPRRisk(ctx, st, engine, rest, globals)
	case "breaking-changes":
		runQueryBreakingChanges(ctx, st, engine, rest, globals)
	case "coverage-gaps":
		runQueryCoverageGaps(ctx, engine, rest, globals)
	case "fan":
		runQueryFan(ctx, engine, rest, globals)
	case "grep":
		runQueryGrep(ctx, engine, rest, globals)
	case "context":
		runQuerySemanticContext(ctx, st, engine, rest, globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown query subcommand: %s\n", sub)
		queryUsage()
		os.Exit(1)
	}
}

func queryUsage() {
	fmt.Fprintf(os.Stderr, `Usage: roam query <subcommand> [options]

Subcommands:
  dead-code          Exported symbols with no (or only weak) callers
  blast-radius        --symbol  Transitive impact of changing given symbols
  affected-tests      --symbol  Tests covering given changed symbols
  coupling            --file    Files that historically change alongside a file
  pr-risk             --file    Composite risk score for a set of changed files
  breaking-changes    --file    Exported symbols in changed files with consumers
  coverage-gaps       Exported symbols with zero test callers, ranked
  fan                 Symbols flagged by fan-in/fan-out thresholds
  grep <pattern>      Substring search over name/qualified_name/signature
  context --symbol    Callers, callees, tests, and siblings of one symbol
`)
}

func runQueryDeadCode(ctx context.Context, st *store.Store, e *query.Engine, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("query dead-code", flag.ExitOnError)
	all := fs.Bool("all", false, "Disable default exclusion filters")
	mustParse(fs, args)

	result, err := e.DeadCode(ctx, query.DeadCodeOptions{All: *all}, nil)
	if err != nil {
		fatal(err, globals.JSON)
	}

	if globals.JSON {
		outputJSON(result)
		return
	}
	w := newTable("NAME", "FILE", "LINES", "CONFIDENCE", "DECAY")
	for _, f := range result.Findings {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f\n", f.Name, f.File, f.LineCount, f.Confidence, f.DecayScore)
	}
	w.Flush()
	fmt.Printf("\n(%d findings, %d clusters)\n", len(result.Findings), len(result.Clusters))
}

func runQueryBlastRadius(ctx context.Context, st *store.Store, e *query.Engine, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("query blast-radius", flag.ExitOnError)
	symbolFlag := fs.String("symbol", "", "Comma-separated symbol names")
	mustParse(fs, args)

	seeds := mustResolveSymbols(ctx, st, *symbolFlag, globals)
	result, err := e.BlastRadius(ctx, seeds)
	if err != nil {
		fatal(err, globals.JSON)
	}

	if globals.JSON {
		outputJSON(result)
		return
	}
	fmt.Printf("Reachable symbols: %d\n", result.ReachableCount)
	fmt.Printf("Distinct files:    %d\n", result.DistinctFileCount)
}

func runQueryAffectedTests(ctx context.Context, st *store.Store, e *query.Engine, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("query affected-tests", flag.ExitOnError)
	symbolFlag := fs.String("symbol", "", "Comma-separated symbol names")
	mustParse(fs, args)

	seeds := mustResolveSymbols(ctx, st, *symbolFlag, globals)
	result, err := e.AffectedTests(ctx, seeds)
	if err != nil {
		fatal(err, globals.JSON)
	}

	if globals.JSON {
		outputJSON(result)
		return
	}
	symbols, err := store.AllSymbols(ctx, st.Read())
	if err != nil {
		fatal(err, globals.JSON)
	}
	byID := make(map[int64]model.Symbol, len(symbols))
	for _, s := range symbols {
		byID[s.ID] = s
	}
	w := newTable("TEST")
	for _, id := range result.TestSymbolIDs {
		fmt.Fprintf(w, "%s\n", symbolLabel(byID[id]))
	}
	w.Flush()
	fmt.Printf("\n(%d tests)\n", len(result.TestSymbolIDs))
}

func runQueryCoupling(ctx context.Context, st *store.Store, e *query.Engine, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("query coupling", flag.ExitOnError)
	fileFlag := fs.String("file", "", "Repo-relative file path")
	minStrength := fs.String("min-strength", "loose", "Minimum strength: high, medium, loose")
	mustParse(fs, args)

	if *fileFlag == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		os.Exit(1)
	}
	fileID, err := store.FileIDByPath(ctx, st.Read(), *fileFlag)
	if err != nil || fileID == 0 {
		fatal(fmt.Errorf("file not found: %s", *fileFlag), globals.JSON)
	}

	result, err := e.Coupling(ctx, fileID, query.CouplingStrength(*minStrength))
	if err != nil {
		fatal(err, globals.JSON)
	}

	if globals.JSON {
		outputJSON(result)
		return
	}
	files, err := store.AllFiles(ctx, st.Read())
	if err != nil {
		fatal(err, globals.JSON)
	}
	byID := make(map[int64]string, len(files))
	for _, f := range files {
		byID[f.ID] = f.Path
	}
	w := newTable("FILE", "COCHANGES", "STRENGTH")
	for _, c := range result {
		fmt.Fprintf(w, "%s\t%d\t%s\n", byID[c.FileID], c.Count, c.Strength)
	}
	w.Flush()
}

func runQueryPRRisk(ctx context.Context, st *store.Store, e *query.Engine, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("query pr-risk", flag.ExitOnError)
	fileFlag := fs.String("file", "", "Comma-separated repo-relative file paths")
	mustParse(fs, args)

	fileIDs := mustResolveFiles(ctx, st, *fileFlag, globals)
	result, err := e.PRRisk(ctx, fileIDs)
	if err != nil {
		fatal(err, globals.JSON)
	}

	if globals.JSON {
		outputJSON(result)
		return
	}
	fmt.Printf("Risk level:        %s (%.2f)\n", result.Level, result.Score)
	fmt.Printf("Changed files:     %d\n", result.ChangedFileCount)
	fmt.Printf("Changed symbols:   %d\n", result.ChangedSymbolCount)
	fmt.Printf("Blast radius:      %d\n", result.BlastRadiusCount)
	fmt.Printf("Breaking changes:  %d\n", result.BreakingCount)
	fmt.Printf("Max complexity:    %d\n", result.MaxComplexity)
	fmt.Printf("Untested exports:  %d\n", len(result.UntestedSymbols))
}

func runQueryBreakingChanges(ctx context.Context, st *store.Store, e *query.Engine, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("query breaking-changes", flag.ExitOnError)
	fileFlag := fs.String("file", "", "Comma-separated repo-relative file paths")
	mustParse(fs, args)

	fileIDs := mustResolveFiles(ctx, st, *fileFlag, globals)
	result, err := e.BreakingChanges(ctx, fileIDs)
	if err != nil {
		fatal(err, globals.JSON)
	}

	if globals.JSON {
		outputJSON(result)
		return
	}
	w := newTable("NAME", "FILE", "CONSUMERS", "SEVERITY")
	for _, c := range result {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", c.Name, c.File, c.Consumers, c.Severity)
	}
	w.Flush()
	fmt.Printf("\n(%d findings)\n", len(result))
}

func runQueryCoverageGaps(ctx context.Context, e *query.Engine, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("query coverage-gaps", flag.ExitOnError)
	mustParse(fs, args)

	result, err := e.CoverageGaps(ctx)
	if err != nil {
		fatal(err, globals.JSON)
	}

	if globals.JSON {
		outputJSON(result)
		return
	}
	w := newTable("NAME", "FILE", "SCORE")
	for _, g := range result {
		fmt.Fprintf(w, "%s\t%s\t%.2f\n", g.Name, g.File, g.Score)
	}
	w.Flush()
	fmt.Printf("\n(%d gaps)\n", len(result))
}

func runQueryFan(ctx context.Context, e *query.Engine, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("query fan", flag.ExitOnError)
	minIn := fs.Int("min-in", 0, "Minimum in-degree")
	minOut := fs.Int("min-out", 0, "Minimum out-degree")
	minSum := fs.Int("min-sum", 0, "Minimum in+out degree")
	mustParse(fs, args)

	result, err := e.FanInOut(ctx, query.FanThreshold{MinInDegree: *minIn, MinOutDegree: *minOut, MinSum: *minSum})
	if err != nil {
		fatal(err, globals.JSON)
	}

	if globals.JSON {
		outputJSON(result)
		return
	}
	w := newTable("NAME", "IN", "OUT", "LABELS")
	for _, f := range result {
		labels := make([]string, 0, len(f.Labels))
		for _, l := range f.Labels {
			labels = append(labels, string(l))
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", f.Name, f.InDegree, f.OutDegree, strings.Join(labels, ","))
	}
	w.Flush()
	fmt.Printf("\n(%d symbols)\n", len(result))
}

func runQueryGrep(ctx context.Context, e *query.Engine, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("query grep", flag.ExitOnError)
	kind := fs.String("kind", "", "Restrict to this symbol kind")
	file := fs.String("file", "", "Restrict to files containing this substring")
	mustParse(fs, args)

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: pattern argument required")
		os.Exit(1)
	}
	pattern := fs.Arg(0)

	result, err := e.Grep(ctx, pattern, query.GrepFilter{Kind: model.SymbolKind(*kind), File: *file})
	if err != nil {
		fatal(err, globals.JSON)
	}

	if globals.JSON {
		outputJSON(result)
		return
	}
	w := newTable("NAME", "QUALIFIED", "FILE", "SIGNATURE")
	for _, m := range result {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Name, m.QualifiedName, m.File, truncate(m.Signature, 60))
	}
	w.Flush()
	fmt.Printf("\n(%d matches)\n", len(result))
}

func runQuerySemanticContext(ctx context.Context, st *store.Store, e *query.Engine, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("query context", flag.ExitOnError)
	symbolFlag := fs.String("symbol", "", "Symbol name")
	mustParse(fs, args)

	ids := mustResolveSymbols(ctx, st, *symbolFlag, globals)
	if len(ids) == 0 {
		fatal(fmt.Errorf("symbol not found: %s", *symbolFlag), globals.JSON)
	}

	result, err := e.SemanticContext(ctx, ids[0])
	if err != nil {
		fatal(err, globals.JSON)
	}

	if globals.JSON {
		outputJSON(result)
		return
	}
	fmt.Printf("Callers:  %d\n", len(result.Callers))
	for _, c := range result.Callers {
		fmt.Printf("  %s (%s)\n", c.Name, c.Kind)
	}
	fmt.Printf("Callees:  %d\n", len(result.Callees))
	for _, c := range result.Callees {
		fmt.Printf("  %s (%s)\n", c.Name, c.Kind)
	}
	fmt.Printf("Tests:    %d\n", len(result.Tests))
	fmt.Printf("Siblings: %d\n", len(result.Siblings))
}

// --- shared helpers ---

func mustParse(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
}

func mustResolveSymbols(ctx context.Context, st *store.Store, names string, globals GlobalFlags) []int64 {
	if names == "" {
		fatal(fmt.Errorf("--symbol is required"), globals.JSON)
	}
	ids, err := resolveSymbolsByName(ctx, st, strings.Split(names, ","))
	if err != nil {
		fatal(err, globals.JSON)
	}
	return ids
}

func mustResolveFiles(ctx context.Context, st *store.Store, paths string, globals GlobalFlags) []int64 {
	if paths == "" {
		fatal(fmt.Errorf("--file is required"), globals.JSON)
	}
	ids, err := resolveFilesByPath(ctx, st, strings.Split(paths, ","))
	if err != nil {
		fatal(err, globals.JSON)
	}
	return ids
}

func newTable(headers ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, h)
	}
	fmt.Fprintln(w)
	for i := range headers {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, "---")
	}
	fmt.Fprintln(w)
	return w
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func outputJSON(v any) {
	if err := routput.JSON(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
