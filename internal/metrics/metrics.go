// Package metrics provides Prometheus metrics for techcast.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsDropped counts malformed records rejected by the sanitizer.
	RecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "techcast",
			Name:      "records_dropped_total",
			Help:      "Total number of malformed trend records dropped",
		},
		[]string{"reason"},
	)

	// DuplicatesDropped counts records discarded by deduplication.
	DuplicatesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "techcast",
			Name:      "duplicates_dropped_total",
			Help:      "Total number of duplicate trend records discarded",
		},
	)

	// RenderTotal counts render passes by result (rebuild or cached).
	RenderTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "techcast",
			Name:      "render_total",
			Help:      "Total number of render calls",
		},
		[]string{"result"},
	)

	// FetchTotal counts record retrievals by source and status.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "techcast",
			Name:      "fetch_total",
			Help:      "Total number of trend record fetches",
		},
		[]string{"source", "status"},
	)
)
