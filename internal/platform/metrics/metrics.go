// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics declares the Prometheus series exported by the Folio API.
//
// Series are registered on the default registry at init and served by
// promhttp under /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/taibuivan/folio/internal/platform/constants"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: constants.MetricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// Ordering engine
	ReordersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Subsystem: "ordering",
			Name:      "reorders_total",
			Help:      "Bulk reorder attempts by scope kind and outcome",
		},
		[]string{"scope", "outcome"},
	)

	ReorderSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: constants.MetricsNamespace,
			Subsystem: "ordering",
			Name:      "reorder_size",
			Help:      "Number of placements per bulk reorder",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"scope"},
	)

	// Identity resolution
	IdentityLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Subsystem: "identity",
			Name:      "lookups_total",
			Help:      "Subject to user resolutions by source (cache or database)",
		},
		[]string{"source"},
	)
)
