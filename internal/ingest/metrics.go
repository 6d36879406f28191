// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for one Pipeline, registered
// exactly once per process via registerOnce.
type Metrics struct {
	filesIngested   prometheus.Counter
	symbolsIngested prometheus.Counter
	ingestDuration  prometheus.Histogram
}

var (
	registerOnce sync.Once
	shared       *Metrics
)

func newMetrics() *Metrics {
	registerOnce.Do(func() {
		shared = &Metrics{
			filesIngested: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "roam_ingest_files_total",
				Help: "Total number of files ingested.",
			}),
			symbolsIngested: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "roam_ingest_symbols_total",
				Help: "Total number of symbols persisted during ingestion.",
			}),
			ingestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "roam_ingest_file_duration_seconds",
				Help:    "Per-file ingestion duration in seconds.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			}),
		}
		prometheus.MustRegister(shared.filesIngested, shared.symbolsIngested, shared.ingestDuration)
	})
	return shared
}
