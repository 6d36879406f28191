// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kraklabs/roam/internal/bootstrap"
	"github.com/kraklabs/roam/internal/health"
	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/query"
	"github.com/kraklabs/roam/internal/routput"
	"github.com/kraklabs/roam/internal/sarif"
	"github.com/kraklabs/roam/internal/store"
)

// runSarif executes the 'sarif' command: exports dead-code, cognitive
// complexity, and health findings as a SARIF 2.1.0 log.
func runSarif(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("sarif", flag.ExitOnError)
	out := fs.String("out", "", "Write the log to this path instead of stdout")
	mustParse(fs, args)

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
	db := st.Read()

	symbols, err := store.AllSymbols(ctx, db)
	if err != nil {
		fatal(err, globals.JSON)
	}
	files, err := store.AllFiles(ctx, db)
	if err != nil {
		fatal(err, globals.JSON)
	}
	filePath := make(map[int64]string, len(files))
	for _, f := range files {
		filePath[f.ID] = f.Path
	}
	byID := make(map[int64]model.Symbol, len(symbols))
	for _, s := range symbols {
		byID[s.ID] = s
	}

	log := sarif.NewLog(version)

	deadCode, err := query.New(st).DeadCode(ctx, query.DeadCodeOptions{}, nil)
	if err != nil {
		fatal(err, globals.JSON)
	}
	for _, f := range deadCode.Findings {
		log.AddDeadCode(f.Name, f.File, 0)
	}

	symbolMetrics, err := store.AllSymbolMetrics(ctx, db)
	if err != nil {
		fatal(err, globals.JSON)
	}
	for id, m := range symbolMetrics {
		sym, ok := byID[id]
		if !ok {
			continue
		}
		log.AddCognitiveComplexity(symbolLabel(sym), filePath[sym.FileID], sym.LineStart, m.CognitiveComplexity)
	}

	report, err := health.New(st).Evaluate(ctx)
	if err != nil {
		fatal(err, globals.JSON)
	}
	for _, g := range report.Gods {
		sym, ok := byID[g.SymbolID]
		if !ok {
			continue
		}
		log.AddGodComponent(symbolLabel(sym), filePath[sym.FileID], g.Degree)
	}
	for _, c := range report.Cycles {
		if len(c.Members) == 0 {
			continue
		}
		anchor, ok := byID[c.Members[0]]
		if !ok {
			continue
		}
		log.AddCycle(symbolLabel(anchor), filePath[anchor.FileID], len(c.Members))
	}
	for _, b := range report.Bottlenecks {
		sym, ok := byID[b.SymbolID]
		if !ok {
			continue
		}
		log.AddBottleneck(symbolLabel(sym), filePath[sym.FileID], b.Betweenness)
	}

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fatal(err, globals.JSON)
		}
		defer f.Close()
		if err := routput.JSONTo(f, log); err != nil {
			fatal(err, globals.JSON)
		}
		fmt.Printf("Wrote %d results to %s\n", len(log.Runs[0].Results), *out)
		return
	}
	if err := routput.JSON(log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
