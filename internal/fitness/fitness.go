// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package fitness implements FitnessEngine (§4.8): canonical metric
// aggregation, named preset gates, snapshot history, and the anomaly/trend
// detectors that read back that history.
package fitness

import (
	"context"
	"fmt"

	"github.com/kraklabs/roam/internal/health"
	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/query"
	"github.com/kraklabs/roam/internal/store"
)

// Canonical metric names aggregated every run (§4.8: "file counts, test
// ratio, dead-code percent, cycle count, tangle ratio, god count, coupling
// density" plus a complexity reading from Metrics).
const (
	MetricFileCount              = "file_count"
	MetricTestRatio              = "test_ratio"
	MetricDeadCodePercent        = "dead_code_percent"
	MetricCycleCount             = "cycle_count"
	MetricTangleRatio            = "tangle_ratio"
	MetricGodCount               = "god_count"
	MetricCouplingDensity        = "coupling_density"
	MetricAvgCognitiveComplexity = "avg_cognitive_complexity"
)

// Engine aggregates metrics and evaluates them against gate presets. It
// composes QueryEngine (dead code) and HealthEngine (cycles/god components)
// rather than recomputing their analyses.
type Engine struct {
	store  *store.Store
	query  *query.Engine
	health *health.Engine
}

func New(st *store.Store) *Engine {
	return &Engine{store: st, query: query.New(st), health: health.New(st)}
}

// Aggregate computes the canonical metric set for the current store state.
func (e *Engine) Aggregate(ctx context.Context) (map[string]float64, error) {
	db := e.store.Read()

	files, err := store.AllFiles(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("load files: %w", err)
	}
	symbols, err := store.AllSymbols(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("load symbols: %w", err)
	}
	edges, err := store.AllEdges(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}
	symbolMetrics, err := store.AllSymbolMetrics(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("load symbol metrics: %w", err)
	}

	testFiles := 0
	for _, f := range files {
		if f.FileRole == model.RoleTest {
			testFiles++
		}
	}

	deadResult, err := e.query.DeadCode(ctx, query.DeadCodeOptions{All: true}, nil)
	if err != nil {
		return nil, fmt.Errorf("dead code: %w", err)
	}

	report, err := e.health.Evaluate(ctx)
	if err != nil {
		return nil, fmt.Errorf("health evaluate: %w", err)
	}

	complexitySum, complexityN := 0.0, 0
	for _, m := range symbolMetrics {
		complexitySum += float64(m.CognitiveComplexity)
		complexityN++
	}
	avgComplexity := 0.0
	if complexityN > 0 {
		avgComplexity = complexitySum / float64(complexityN)
	}

	metrics := map[string]float64{
		MetricFileCount:              float64(len(files)),
		MetricTestRatio:              ratio(testFiles, len(files)),
		MetricDeadCodePercent:        ratio(len(deadResult.Findings), len(symbols)) * 100,
		MetricCycleCount:             float64(len(report.Cycles)),
		MetricTangleRatio:            report.TangleRatio,
		MetricGodCount:               float64(len(report.Gods)),
		MetricCouplingDensity:        ratio(len(edges), len(symbols)),
		MetricAvgCognitiveComplexity: avgComplexity,
	}
	return metrics, nil
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// Op is a gate comparison operator.
type Op string

const (
	OpLTE Op = "<="
	OpGTE Op = ">="
	OpEQ  Op = "=="
)

// GateCheck is one named threshold evaluated against an aggregated metric.
type GateCheck struct {
	Name      string
	Metric    string
	Op        Op
	Threshold float64
}

// CheckResult is one evaluated GateCheck.
type CheckResult struct {
	Name      string
	Actual    float64
	Threshold float64
	Op        Op
	Pass      bool
}

// Result is FitnessEngine's gate-evaluation output: `{passed, checks[...]}`.
type Result struct {
	Passed bool
	Checks []CheckResult
	Note   string
}

// Evaluate aggregates current metrics and scores them against the named
// preset. An unknown preset is QueryInputInvalid (§7): a structured empty
// result with a note, never an error.
func (e *Engine) Evaluate(ctx context.Context, presetName string) (Result, error) {
	preset, ok := presets[presetName]
	if !ok {
		return Result{Note: fmt.Sprintf("unknown preset %q", presetName)}, nil
	}

	metrics, err := e.Aggregate(ctx)
	if err != nil {
		return Result{}, err
	}

	checks := make([]CheckResult, 0, len(preset.Checks))
	passed := true
	for _, c := range preset.Checks {
		actual := metrics[c.Metric]
		ok := compare(actual, c.Op, c.Threshold)
		if !ok {
			passed = false
		}
		checks = append(checks, CheckResult{
			Name: c.Name, Actual: actual, Threshold: c.Threshold, Op: c.Op, Pass: ok,
		})
	}
	return Result{Passed: passed, Checks: checks}, nil
}

func compare(actual float64, op Op, threshold float64) bool {
	switch op {
	case OpLTE:
		return actual <= threshold
	case OpGTE:
		return actual >= threshold
	case OpEQ:
		return actual == threshold
	default:
		return false
	}
}

// Record snapshots the current aggregate metrics for later trend/anomaly
// analysis.
func (e *Engine) Record(ctx context.Context, timestamp int64, extra map[string]any) (int64, error) {
	metrics, err := e.Aggregate(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	id, err := store.InsertSnapshot(ctx, tx, model.Snapshot{Timestamp: timestamp, Metrics: metrics, Extra: extra})
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}
