// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

// Package health implements HealthEngine (§4.7): a composite 0-100 score by
// multiplicative decay, severity classification for cycles/god-components/
// bottlenecks, and cycle-break suggestions sourced from GraphAnalytics'
// weakest-edge routine.
package health

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/kraklabs/roam/internal/analytics"
	"github.com/kraklabs/roam/internal/classify"
	"github.com/kraklabs/roam/internal/graph"
	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/store"
)

const (
	weightTangle  = 0.30
	weightGod     = 0.20
	weightBN      = 0.15
	weightLayer   = 0.15
	weightFile    = 0.20
	scaleTangle   = 10.0
	scaleGod      = 5.0
	scaleBN       = 4.0
	scaleLayer    = 5.0
	epsilon       = 1e-9
	graphOversize = 5000
)

// Severity is a finding's classification.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

// CycleFinding is one SCC with its severity and an optional break suggestion.
type CycleFinding struct {
	Members    []int64
	Severity   Severity
	Suggestion *analytics.WeakestEdge
}

// GodComponentFinding is one symbol whose in+out degree exceeds the
// god-component threshold.
type GodComponentFinding struct {
	SymbolID int64
	Degree   int
	Severity Severity
}

// BottleneckFinding is one symbol whose betweenness is unusually high.
type BottleneckFinding struct {
	SymbolID    int64
	Betweenness float64
	Severity    Severity
}

// Report is HealthEngine's composite output.
type Report struct {
	Score       float64
	Cycles      []CycleFinding
	Gods        []GodComponentFinding
	Bottlenecks []BottleneckFinding
	LayerViols  int
	TangleRatio float64

	// PropagationCost, AlgebraicConnectivity, and DirectoryMismatches are
	// GraphAnalytics' remaining §4.4 composite-health signals. They ride
	// alongside the score rather than feeding its formula, which is fixed
	// to the five §4.7 signals.
	PropagationCost       float64
	AlgebraicConnectivity float64
	DirectoryMismatches   []analytics.DirectoryMismatchCluster

	Note string
}

// Engine computes health reports against a Store.
type Engine struct {
	store *store.Store
}

// New constructs a health Engine.
func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// Evaluate runs the full HealthEngine pipeline: SCC/god/bottleneck/layer
// analysis, severity classification, and the composite score. The
// avg_file_health signal (§4.7) is read from FileStats rather than taken as
// a parameter; codebases gitlog has never synced fall back to the neutral
// ceiling (§8: "no file health data yields >= 80").
func (e *Engine) Evaluate(ctx context.Context) (Report, error) {
	db := e.store.Read()

	symbols, err := store.AllSymbols(ctx, db)
	if err != nil {
		return Report{}, fmt.Errorf("load symbols: %w", err)
	}
	edges, err := store.AllEdges(ctx, db)
	if err != nil {
		return Report{}, fmt.Errorf("load edges: %w", err)
	}
	files, err := store.AllFiles(ctx, db)
	if err != nil {
		return Report{}, fmt.Errorf("load files: %w", err)
	}
	gm, err := store.AllGraphMetrics(ctx, db)
	if err != nil {
		return Report{}, fmt.Errorf("load graph metrics: %w", err)
	}
	fileStats, err := store.AllFileStats(ctx, db)
	if err != nil {
		return Report{}, fmt.Errorf("load file stats: %w", err)
	}
	clusterRows, err := store.AllClusters(ctx, db)
	if err != nil {
		return Report{}, fmt.Errorf("load clusters: %w", err)
	}

	filePaths := make(map[int64]string, len(files))
	for _, f := range files {
		filePaths[f.ID] = f.Path
	}
	symbolByID := make(map[int64]model.Symbol, len(symbols))
	for _, s := range symbols {
		symbolByID[s.ID] = s
	}

	g := graph.Build(symbols, edges)

	if g.NodeCount() > graphOversize {
		return Report{Score: 100, Note: "graph exceeds node budget; cycle/cluster analysis skipped"}, nil
	}

	pagerank := analytics.PageRank(ctx, g)
	sccs := analytics.StronglyConnectedComponents(ctx, g)

	cycles := make([]CycleFinding, 0, len(sccs))
	for _, scc := range sccs {
		sev := cycleSeverity(scc, symbolByID, filePaths)
		finding := CycleFinding{Members: scc.Members, Severity: sev}
		if len(scc.Members) >= 3 {
			if we, ok := analytics.FindWeakestEdge(g, scc, pagerank); ok {
				finding.Suggestion = &we
			}
		}
		cycles = append(cycles, finding)
	}

	var gods []GodComponentFinding
	var bns []BottleneckFinding
	betweennessValues := make([]float64, 0, len(symbols))
	betweenness := analytics.Betweenness(ctx, g)
	for _, id := range sortedIDs(symbolByID) {
		betweennessValues = append(betweennessValues, betweenness[id])
	}
	p70, p90 := percentile(betweennessValues, 0.70), percentile(betweennessValues, 0.90)

	for _, id := range sortedIDs(symbolByID) {
		sym := symbolByID[id]
		path := filePaths[sym.FileID]
		m := gm[id]
		degree := m.InDegree + m.OutDegree
		if sev, ok := godSeverity(degree, path); ok {
			gods = append(gods, GodComponentFinding{SymbolID: id, Degree: degree, Severity: sev})
		}
		if sev, ok := bottleneckSeverity(betweenness[id], p70, p90, path); ok {
			bns = append(bns, BottleneckFinding{SymbolID: id, Betweenness: betweenness[id], Severity: sev})
		}
	}

	layers := analytics.Layers(ctx, g, sccs)
	layerViols := analytics.LayerViolations(g, layers)

	tangleRatio := analytics.TangleRatio(sccs, len(symbols))
	avgFileHealth := averageFileHealth(fileStats)

	score := compositeScore(compositeInputs{
		tangleRatio:    tangleRatio,
		criticalGods:   countSeverity(gods, SeverityCritical),
		totalGods:      len(gods),
		criticalBNs:    countBNSeverity(bns, SeverityCritical),
		totalBNs:       len(bns),
		layerViolCount: len(layerViols),
		avgFileHealth:  avgFileHealth,
	})

	propagationCost := analytics.PropagationCost(ctx, g)
	algebraicConnectivity := analytics.AlgebraicConnectivity(ctx, g)

	var clusterAssignments []analytics.ClusterAssignment
	for id, c := range clusterRows {
		clusterAssignments = append(clusterAssignments, analytics.ClusterAssignment{
			SymbolID: id, ClusterID: c.ClusterID, ClusterLabel: c.ClusterLabel,
		})
	}
	fileOfSymbol := make(map[int64]int64, len(symbols))
	for _, s := range symbols {
		fileOfSymbol[s.ID] = s.FileID
	}
	dirMismatches := analytics.DirectoryMismatches(clusterAssignments, fileOfSymbol, filePaths)

	return Report{
		Score:                 score,
		Cycles:                cycles,
		Gods:                  gods,
		Bottlenecks:           bns,
		LayerViols:            len(layerViols),
		TangleRatio:           tangleRatio,
		PropagationCost:       propagationCost,
		AlgebraicConnectivity: algebraicConnectivity,
		DirectoryMismatches:   dirMismatches,
	}, nil
}

// averageFileHealth is the mean FileStats.HealthScore across files with a
// recorded row. Files gitlog has never synced have no row at all, so an
// empty map (rather than zeros) means "no file health data" — answered with
// the neutral ceiling so the term doesn't independently sink a codebase
// with otherwise-clean findings (§8).
func averageFileHealth(stats map[int64]model.FileStats) float64 {
	if len(stats) == 0 {
		return 10
	}
	sum := 0.0
	for _, s := range stats {
		sum += s.HealthScore
	}
	return sum / float64(len(stats))
}

func cycleSeverity(scc analytics.SCC, symbolByID map[int64]model.Symbol, filePaths map[int64]string) Severity {
	dirs := make(map[string]bool)
	files := make(map[int64]bool)
	for _, id := range scc.Members {
		sym := symbolByID[id]
		files[sym.FileID] = true
		dirs[classify.TopLevelDir(filePaths[sym.FileID])] = true
	}
	if len(dirs) <= 1 {
		return SeverityInfo
	}
	if len(files) > 3 {
		return SeverityCritical
	}
	return SeverityWarning
}

// godSeverity classifies a symbol's combined degree against the
// god-component thresholds, tripled for utility paths: above critical is
// CRITICAL, above warning is WARNING. At or below the warning threshold it
// returns INFO with false, and the symbol is not reported.
func godSeverity(degree int, path string) (Severity, bool) {
	critical, warning := 50, 30
	if classify.IsUtilityPath(path) {
		critical, warning = critical*3, warning*3
	}
	switch {
	case degree > critical:
		return SeverityCritical, true
	case degree > warning:
		return SeverityWarning, true
	default:
		return SeverityInfo, false
	}
}

func bottleneckSeverity(value, p70, p90 float64, path string) (Severity, bool) {
	threshold90 := p90
	if classify.IsUtilityPath(path) {
		threshold90 *= 1.5
	}
	switch {
	case value > threshold90 && value > 0:
		return SeverityCritical, true
	case value > p70 && value > 0:
		return SeverityWarning, true
	default:
		return SeverityInfo, false
	}
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	idx := int(p * float64(len(sorted)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func countSeverity(gods []GodComponentFinding, sev Severity) int {
	n := 0
	for _, g := range gods {
		if g.Severity == sev {
			n++
		}
	}
	return n
}

func countBNSeverity(bns []BottleneckFinding, sev Severity) int {
	n := 0
	for _, b := range bns {
		if b.Severity == sev {
			n++
		}
	}
	return n
}

type compositeInputs struct {
	tangleRatio    float64
	criticalGods   int
	totalGods      int
	criticalBNs    int
	totalBNs       int
	layerViolCount int
	avgFileHealth  float64
}

// compositeScore implements §4.7's multiplicative-decay formula:
// health = 100 * exp(Σ wᵢ·ln(max(factorᵢ, ε))), factorᵢ = exp(-signalᵢ/scaleᵢ).
func compositeScore(in compositeInputs) float64 {
	godSignal := float64(in.criticalGods)*3 + float64(in.totalGods)*0.5
	bnSignal := float64(in.criticalBNs)*2 + float64(in.totalBNs)*0.3
	fileFactor := clamp01(in.avgFileHealth / 10)

	sum := weightTangle*math.Log(maxEps(factor(in.tangleRatio, scaleTangle))) +
		weightGod*math.Log(maxEps(factor(godSignal, scaleGod))) +
		weightBN*math.Log(maxEps(factor(bnSignal, scaleBN))) +
		weightLayer*math.Log(maxEps(factor(float64(in.layerViolCount), scaleLayer))) +
		weightFile*math.Log(maxEps(fileFactor))

	score := 100 * math.Exp(sum)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func factor(signal, scale float64) float64 {
	return math.Exp(-signal / scale)
}

func maxEps(v float64) float64 {
	if v < epsilon {
		return epsilon
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func sortedIDs(m map[int64]model.Symbol) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
