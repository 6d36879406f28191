// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Command roam is the CLI shell around the code-intelligence engine: it
// indexes a repository into a local SQLite store and answers read-only
// analytical queries (dead code, blast radius, affected tests, coupling,
// PR risk, breaking changes, coverage gaps, fan-in/out, grep, semantic
// context, fitness gates, health, trend) against that store.
//
// Usage:
//
//	roam init                 Create .roam/project.yaml configuration
//	roam index                Index the current repository
//	roam status [--json]      Show project status
//	roam query <subcommand>   Run an analytical query
//	roam fitness [--preset]   Evaluate the fitness gate
//	roam health               Show the composite health report
//	roam sarif                Export findings as SARIF 2.1.0
//	roam reset --yes          Delete all indexed data for the project
//	roam hook install|remove  Manage the git post-commit auto-index hook
//	roam completion <shell>   Generate a shell completion script
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kraklabs/roam/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		jsonOutput  = flag.Bool("json", false, "Output as JSON where supported")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
		configPath  = flag.String("config", "", "Path to .roam/project.yaml (default: ./.roam/project.yaml)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `roam - code intelligence CLI

Usage:
  roam <command> [options]

Commands:
  init          Create .roam/project.yaml configuration
  index         Index the current repository
  status        Show project status
  query         Run an analytical query (dead-code, blast-radius, ...)
  fitness       Evaluate the fitness gate
  health        Show the composite health report
  sarif         Export findings as SARIF 2.1.0
  reset         Reset local project data (destructive!)
  hook          Install or remove the git post-commit hook
  completion    Generate shell completion script

Global Options:
  --json        Output as JSON where the subcommand supports it
  --no-color    Disable colored output
  --config      Path to .roam/project.yaml
  --version     Show version and exit

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("roam version %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	globals := GlobalFlags{JSON: *jsonOutput, NoColor: *noColor}
	ui.InitColors(globals.NoColor)
	command, cmdArgs := args[0], args[1:]

	switch command {
	case "init":
		runInit(cmdArgs)
	case "index":
		runIndex(cmdArgs, *configPath, globals)
	case "status":
		runStatus(cmdArgs, *configPath, globals)
	case "query":
		runQuery(cmdArgs, *configPath, globals)
	case "fitness":
		runFitness(cmdArgs, *configPath, globals)
	case "health":
		runHealth(cmdArgs, *configPath, globals)
	case "sarif":
		runSarif(cmdArgs, *configPath, globals)
	case "reset":
		runReset(cmdArgs, *configPath)
	case "hook":
		runHook(cmdArgs)
	case "completion":
		runCompletion(cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
