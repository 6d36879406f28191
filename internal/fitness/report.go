// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package fitness

import (
	"context"
	"fmt"
	"sort"

	"github.com/kraklabs/roam/internal/store"
)

// zScoreWarnThreshold is the configurable WARNING bound §4.8 leaves as
// "configurable-threshold"; 2 is the conventional modified-Z-score
// moderate-outlier bound (Iglewicz & Hoaglin).
const zScoreWarnThreshold = 2.0

// MetricTrend is one metric's full §4.8 trend/anomaly reading.
type MetricTrend struct {
	Metric          string
	Latest          float64
	ZScore          float64
	Anomaly         AnomalySeverity
	WesternElectric bool
	Trend           Trend
	Sparkline       string
}

// Trends loads the most recent snapshotLimit snapshots and reports every
// canonical metric's anomaly and trend reading.
func (e *Engine) Trends(ctx context.Context, snapshotLimit int) ([]MetricTrend, error) {
	snapshots, err := store.RecentSnapshots(ctx, e.store.Read(), snapshotLimit)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	if len(snapshots) == 0 {
		return nil, nil
	}

	series := make(map[string][]float64)
	for _, snap := range snapshots {
		for name, value := range snap.Metrics {
			series[name] = append(series[name], value)
		}
	}

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]MetricTrend, 0, len(names))
	for _, name := range names {
		history := series[name]
		latest := history[len(history)-1]
		prior := history[:len(history)-1]

		z := ModifiedZScore(prior, latest)
		anomaly := ClassifyZScore(name, z, zScoreWarnThreshold)
		if anomaly == SeverityNone && WesternElectricFired(history) {
			anomaly = SeverityInfo
		}

		out = append(out, MetricTrend{
			Metric:          name,
			Latest:          latest,
			ZScore:          z,
			Anomaly:         anomaly,
			WesternElectric: WesternElectricFired(history),
			Trend:           MannKendall(history),
			Sparkline:       Sparkline(history),
		})
	}
	return out, nil
}
