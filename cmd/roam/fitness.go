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
	"github.com/kraklabs/roam/internal/fitness"
	"github.com/kraklabs/roam/internal/routput"
	"github.com/kraklabs/roam/internal/ui"
)

func nowUnix() int64 { return time.Now().Unix() }

// runFitness dispatches the 'fitness' command: 'gate' (default) evaluates
// the current metrics against a named preset, 'record' snapshots them for
// the trend detector, and 'trend' reports anomaly/trend readings.
func runFitness(args []string, configPath string, globals GlobalFlags) {
	sub := "gate"
	rest := args
	if len(args) > 0 {
		switch args[0] {
		case "gate", "record", "trend":
			sub, rest = args[0], args[1:]
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		fatal(fmt.Errorf("cannot get current directory: %w", err), globals.JSON)
	}
	cwd = projectRoot(cwd, configPath)

	st, cfg, err := bootstrap.OpenProject(cwd, nil)
	if err != nil {
		fatal(err, globals.JSON)
	}
	defer st.Close()

	ctx := context.Background()
	engine := fitness.New(st)

	switch sub {
	case "gate":
		runFitnessGate(ctx, engine, cfg.FitnessPreset, rest, globals)
	case "record":
		runFitnessRecord(ctx, engine, rest, globals)
	case "trend":
		runFitnessTrend(ctx, engine, rest, globals)
	}
}

func runFitnessGate(ctx context.Context, engine *fitness.Engine, defaultPreset string, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("fitness gate", flag.ExitOnError)
	preset := fs.String("preset", defaultPreset, "Gate preset: default, strict, go, java, python, javascript, rust")
	mustParse(fs, args)
	if *preset == "" {
		*preset = fitness.PresetDefault
	}

	result, err := engine.Evaluate(ctx, *preset)
	if err != nil {
		fatal(err, globals.JSON)
	}

	if globals.JSON {
		if err := routput.JSON(result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		exitOnGate(result.Passed)
		return
	}

	if result.Note != "" {
		ui.Warningf("%s", result.Note)
		os.Exit(1)
	}

	w := newTable("CHECK", "ACTUAL", "OP", "THRESHOLD", "PASS")
	for _, c := range result.Checks {
		status := "FAIL"
		if c.Pass {
			status = "PASS"
		}
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%.2f\t%s\n", c.Name, c.Actual, c.Op, c.Threshold, status)
	}
	w.Flush()

	if result.Passed {
		ui.Success("Gate passed")
	} else {
		ui.Error("Gate failed")
	}
	exitOnGate(result.Passed)
}

func exitOnGate(passed bool) {
	if !passed {
		os.Exit(1)
	}
}

func runFitnessRecord(ctx context.Context, engine *fitness.Engine, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("fitness record", flag.ExitOnError)
	timestamp := fs.Int64("timestamp", 0, "Unix timestamp for this snapshot (default: now)")
	mustParse(fs, args)

	ts := *timestamp
	if ts == 0 {
		ts = nowUnix()
	}

	id, err := engine.Record(ctx, ts, nil)
	if err != nil {
		fatal(err, globals.JSON)
	}

	if globals.JSON {
		outputJSON(map[string]any{"snapshot_id": id})
		return
	}
	fmt.Printf("Recorded snapshot %d\n", id)
}

func runFitnessTrend(ctx context.Context, engine *fitness.Engine, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("fitness trend", flag.ExitOnError)
	limit := fs.Int("limit", 30, "Number of recent snapshots to consider")
	mustParse(fs, args)

	trends, err := engine.Trends(ctx, *limit)
	if err != nil {
		fatal(err, globals.JSON)
	}

	if globals.JSON {
		outputJSON(trends)
		return
	}
	if len(trends) == 0 {
		fmt.Println("No snapshots recorded yet. Run 'roam fitness record' after indexing.")
		return
	}
	w := newTable("METRIC", "LATEST", "Z-SCORE", "ANOMALY", "TREND", "SPARKLINE")
	for _, t := range trends {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\t%s\t%s\n", t.Metric, t.Latest, t.ZScore, t.Anomaly, t.Trend.Direction, t.Sparkline)
	}
	w.Flush()
}
