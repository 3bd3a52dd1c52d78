// SPDX-License-Identifier: Apache-2.0

// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UploadsTotal counts uploads by detected file type and outcome.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shiftsheet",
		Name:      "uploads_total",
		Help:      "Timesheet uploads by file type and result",
	}, []string{"file_type", "result"})

	// ExtractionDuration observes end-to-end pipeline time per upload.
	ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "shiftsheet",
		Name:      "extraction_duration_seconds",
		Help:      "Time spent extracting one upload",
		Buckets:   prometheus.DefBuckets,
	})

	// RecordsExtracted counts preview records by kind.
	RecordsExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shiftsheet",
		Name:      "records_extracted_total",
		Help:      "Preview records produced by kind",
	}, []string{"kind"})

	// ConfirmTotal counts confirmation attempts by result.
	ConfirmTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shiftsheet",
		Name:      "confirm_total",
		Help:      "Confirmation attempts by result",
	}, []string{"result"})
)
