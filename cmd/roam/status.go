// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kraklabs/roam/internal/bootstrap"
	"github.com/kraklabs/roam/internal/routput"
	"github.com/kraklabs/roam/internal/store"
	"github.com/kraklabs/roam/internal/ui"
)

// StatusResult is the project status for JSON output.
type StatusResult struct {
	ProjectID string    `json:"project_id"`
	StorePath string    `json:"store_path"`
	Connected bool      `json:"connected"`
	Files     int       `json:"files"`
	Symbols   int       `json:"symbols"`
	Edges     int       `json:"edges"`
	Clusters  int       `json:"clusters"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// runStatus executes the 'status' command: reports how many files,
// symbols, edges, and clusters are currently indexed.
func runStatus(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: roam status [options]

Shows local project status: indexed file, symbol, edge, and cluster counts.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fatal(fmt.Errorf("cannot get current directory: %w", err), globals.JSON)
	}
	cwd = projectRoot(cwd, configPath)

	result := StatusResult{Timestamp: time.Now()}

	st, cfg, err := bootstrap.OpenProject(cwd, nil)
	if err != nil {
		result.Connected = false
		result.Error = err.Error()
		reportStatus(result, globals)
		if globals.JSON {
			os.Exit(0)
		}
		os.Exit(1)
	}
	defer st.Close()

	result.ProjectID = cfg.ProjectID
	result.StorePath = cfg.StorePath(cwd)
	result.Connected = true

	ctx := context.Background()

	files, err := store.AllFiles(ctx, st.Read())
	if err != nil {
		result.Error = fmt.Sprintf("cannot read files: %v", err)
		reportStatus(result, globals)
		os.Exit(1)
	}
	symbols, err := store.AllSymbols(ctx, st.Read())
	if err != nil {
		result.Error = fmt.Sprintf("cannot read symbols: %v", err)
		reportStatus(result, globals)
		os.Exit(1)
	}
	edges, err := store.AllEdges(ctx, st.Read())
	if err != nil {
		result.Error = fmt.Sprintf("cannot read edges: %v", err)
		reportStatus(result, globals)
		os.Exit(1)
	}
	clusters, err := store.AllClusters(ctx, st.Read())
	if err != nil {
		result.Error = fmt.Sprintf("cannot read clusters: %v", err)
		reportStatus(result, globals)
		os.Exit(1)
	}

	result.Files = len(files)
	result.Symbols = len(symbols)
	result.Edges = len(edges)
	seen := make(map[int]bool, len(clusters))
	for _, c := range clusters {
		seen[c.ClusterID] = true
	}
	result.Clusters = len(seen)

	reportStatus(result, globals)
}

func reportStatus(result StatusResult, globals GlobalFlags) {
	if globals.JSON {
		if err := routput.JSON(result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !result.Connected {
		fmt.Println("Project not indexed yet.")
		fmt.Println("Run 'roam init' then 'roam index' to index the repository.")
		if result.Error != "" {
			ui.Warningf("%s", result.Error)
		}
		return
	}

	ui.Header("Project status")
	fmt.Printf("Project ID:  %s\n", result.ProjectID)
	fmt.Printf("Store:       %s\n", result.StorePath)
	fmt.Println()
	fmt.Printf("Files:       %d\n", result.Files)
	fmt.Printf("Symbols:     %d\n", result.Symbols)
	fmt.Printf("Edges:       %d\n", result.Edges)
	fmt.Printf("Clusters:    %d\n", result.Clusters)
	if result.Error != "" {
		ui.Warningf("%s", result.Error)
	}
}
