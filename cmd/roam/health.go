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
	"github.com/kraklabs/roam/internal/routput"
	"github.com/kraklabs/roam/internal/store"
	"github.com/kraklabs/roam/internal/ui"
)

// runHealth executes the 'health' command: the composite §4.7 report.
func runHealth(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
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
	engine := health.New(st)
	report, err := engine.Evaluate(ctx)
	if err != nil {
		fatal(err, globals.JSON)
	}

	if globals.JSON {
		if err := routput.JSON(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
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

	ui.Header(fmt.Sprintf("Health score: %.1f / 100", report.Score))
	if report.Note != "" {
		ui.Warningf("%s", report.Note)
	}
	fmt.Printf("Tangle ratio:          %.2f\n", report.TangleRatio)
	fmt.Printf("Layer violations:      %d\n", report.LayerViols)
	fmt.Printf("Propagation cost:      %.3f\n", report.PropagationCost)
	fmt.Printf("Algebraic connectivity: %.3f\n", report.AlgebraicConnectivity)
	fmt.Println()

	if len(report.DirectoryMismatches) > 0 {
		fmt.Printf("Directory mismatches (%d):\n", len(report.DirectoryMismatches))
		for _, d := range report.DirectoryMismatches {
			fmt.Printf("  cluster %d: %v\n", d.ClusterID, d.Directories)
		}
	}

	if len(report.Cycles) > 0 {
		fmt.Printf("Cycles (%d):\n", len(report.Cycles))
		for _, c := range report.Cycles {
			names := make([]string, 0, len(c.Members))
			for _, id := range c.Members {
				names = append(names, symbolLabel(byID[id]))
			}
			fmt.Printf("  [%s] %v\n", c.Severity, names)
		}
	}
	if len(report.Gods) > 0 {
		fmt.Printf("God components (%d):\n", len(report.Gods))
		for _, g := range report.Gods {
			fmt.Printf("  [%s] %s (degree %d)\n", g.Severity, symbolLabel(byID[g.SymbolID]), g.Degree)
		}
	}
	if len(report.Bottlenecks) > 0 {
		fmt.Printf("Bottlenecks (%d):\n", len(report.Bottlenecks))
		for _, b := range report.Bottlenecks {
			fmt.Printf("  [%s] %s (betweenness %.3f)\n", b.Severity, symbolLabel(byID[b.SymbolID]), b.Betweenness)
		}
	}
}
