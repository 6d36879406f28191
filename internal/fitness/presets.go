// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package fitness

// Preset names spec.md §4.8 enumerates.
const (
	PresetDefault    = "default"
	PresetStrict     = "strict"
	PresetPython     = "python"
	PresetJavaScript = "javascript"
	PresetGo         = "go"
	PresetJava       = "java"
	PresetRust       = "rust"
)

// Preset is a named bundle of gate checks.
type Preset struct {
	Name   string
	Checks []GateCheck
}

// presets holds the fixed, per-language threshold tables. Language variants
// tune thresholds to idiom: Go and Rust's stricter interface/ownership
// discipline affords a lower god-component and tangle-ratio ceiling; Python
// and JavaScript's dynamic-typing and callback-heavy style loosen the
// cognitive-complexity ceiling relative to the statically typed languages.
var presets = map[string]Preset{
	PresetDefault: {
		Name: PresetDefault,
		Checks: []GateCheck{
			{Name: "test_ratio", Metric: MetricTestRatio, Op: OpGTE, Threshold: 0.30},
			{Name: "dead_code_percent", Metric: MetricDeadCodePercent, Op: OpLTE, Threshold: 15},
			{Name: "cycle_count", Metric: MetricCycleCount, Op: OpLTE, Threshold: 5},
			{Name: "tangle_ratio", Metric: MetricTangleRatio, Op: OpLTE, Threshold: 10},
			{Name: "god_count", Metric: MetricGodCount, Op: OpLTE, Threshold: 3},
			{Name: "coupling_density", Metric: MetricCouplingDensity, Op: OpLTE, Threshold: 8},
			{Name: "avg_cognitive_complexity", Metric: MetricAvgCognitiveComplexity, Op: OpLTE, Threshold: 15},
		},
	},
	PresetStrict: {
		Name: PresetStrict,
		Checks: []GateCheck{
			{Name: "test_ratio", Metric: MetricTestRatio, Op: OpGTE, Threshold: 0.60},
			{Name: "dead_code_percent", Metric: MetricDeadCodePercent, Op: OpLTE, Threshold: 5},
			{Name: "cycle_count", Metric: MetricCycleCount, Op: OpLTE, Threshold: 0},
			{Name: "tangle_ratio", Metric: MetricTangleRatio, Op: OpLTE, Threshold: 2},
			{Name: "god_count", Metric: MetricGodCount, Op: OpLTE, Threshold: 0},
			{Name: "coupling_density", Metric: MetricCouplingDensity, Op: OpLTE, Threshold: 5},
			{Name: "avg_cognitive_complexity", Metric: MetricAvgCognitiveComplexity, Op: OpLTE, Threshold: 10},
		},
	},
	PresetGo: {
		Name: PresetGo,
		Checks: []GateCheck{
			{Name: "test_ratio", Metric: MetricTestRatio, Op: OpGTE, Threshold: 0.40},
			{Name: "dead_code_percent", Metric: MetricDeadCodePercent, Op: OpLTE, Threshold: 10},
			{Name: "cycle_count", Metric: MetricCycleCount, Op: OpLTE, Threshold: 2},
			{Name: "tangle_ratio", Metric: MetricTangleRatio, Op: OpLTE, Threshold: 5},
			{Name: "god_count", Metric: MetricGodCount, Op: OpLTE, Threshold: 1},
			{Name: "coupling_density", Metric: MetricCouplingDensity, Op: OpLTE, Threshold: 6},
			{Name: "avg_cognitive_complexity", Metric: MetricAvgCognitiveComplexity, Op: OpLTE, Threshold: 12},
		},
	},
	PresetJava: {
		Name: PresetJava,
		Checks: []GateCheck{
			{Name: "test_ratio", Metric: MetricTestRatio, Op: OpGTE, Threshold: 0.40},
			{Name: "dead_code_percent", Metric: MetricDeadCodePercent, Op: OpLTE, Threshold: 12},
			{Name: "cycle_count", Metric: MetricCycleCount, Op: OpLTE, Threshold: 4},
			{Name: "tangle_ratio", Metric: MetricTangleRatio, Op: OpLTE, Threshold: 8},
			{Name: "god_count", Metric: MetricGodCount, Op: OpLTE, Threshold: 2},
			{Name: "coupling_density", Metric: MetricCouplingDensity, Op: OpLTE, Threshold: 8},
			{Name: "avg_cognitive_complexity", Metric: MetricAvgCognitiveComplexity, Op: OpLTE, Threshold: 14},
		},
	},
	PresetRust: {
		Name: PresetRust,
		Checks: []GateCheck{
			{Name: "test_ratio", Metric: MetricTestRatio, Op: OpGTE, Threshold: 0.40},
			{Name: "dead_code_percent", Metric: MetricDeadCodePercent, Op: OpLTE, Threshold: 10},
			{Name: "cycle_count", Metric: MetricCycleCount, Op: OpLTE, Threshold: 1},
			{Name: "tangle_ratio", Metric: MetricTangleRatio, Op: OpLTE, Threshold: 4},
			{Name: "god_count", Metric: MetricGodCount, Op: OpLTE, Threshold: 1},
			{Name: "coupling_density", Metric: MetricCouplingDensity, Op: OpLTE, Threshold: 6},
			{Name: "avg_cognitive_complexity", Metric: MetricAvgCognitiveComplexity, Op: OpLTE, Threshold: 12},
		},
	},
	PresetPython: {
		Name: PresetPython,
		Checks: []GateCheck{
			{Name: "test_ratio", Metric: MetricTestRatio, Op: OpGTE, Threshold: 0.30},
			{Name: "dead_code_percent", Metric: MetricDeadCodePercent, Op: OpLTE, Threshold: 18},
			{Name: "cycle_count", Metric: MetricCycleCount, Op: OpLTE, Threshold: 6},
			{Name: "tangle_ratio", Metric: MetricTangleRatio, Op: OpLTE, Threshold: 12},
			{Name: "god_count", Metric: MetricGodCount, Op: OpLTE, Threshold: 4},
			{Name: "coupling_density", Metric: MetricCouplingDensity, Op: OpLTE, Threshold: 9},
			{Name: "avg_cognitive_complexity", Metric: MetricAvgCognitiveComplexity, Op: OpLTE, Threshold: 18},
		},
	},
	PresetJavaScript: {
		Name: PresetJavaScript,
		Checks: []GateCheck{
			{Name: "test_ratio", Metric: MetricTestRatio, Op: OpGTE, Threshold: 0.25},
			{Name: "dead_code_percent", Metric: MetricDeadCodePercent, Op: OpLTE, Threshold: 20},
			{Name: "cycle_count", Metric: MetricCycleCount, Op: OpLTE, Threshold: 8},
			{Name: "tangle_ratio", Metric: MetricTangleRatio, Op: OpLTE, Threshold: 15},
			{Name: "god_count", Metric: MetricGodCount, Op: OpLTE, Threshold: 5},
			{Name: "coupling_density", Metric: MetricCouplingDensity, Op: OpLTE, Threshold: 10},
			{Name: "avg_cognitive_complexity", Metric: MetricAvgCognitiveComplexity, Op: OpLTE, Threshold: 20},
		},
	},
}
