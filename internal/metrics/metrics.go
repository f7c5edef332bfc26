// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes the Prometheus instrumentation of the analysis
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles every collector the pipeline reports to.
type Metrics struct {
	AnalyzeRequests    *prometheus.CounterVec
	AnalyzeDuration    prometheus.Histogram
	Findings           *prometheus.CounterVec
	RecognizerFailures *prometheus.CounterVec
	CustomRefreshes    prometheus.Counter
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalyzeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pii_sentry",
			Name:      "analyze_requests_total",
			Help:      "Analysis requests by outcome.",
		}, []string{"status"}),
		AnalyzeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pii_sentry",
			Name:      "analyze_duration_seconds",
			Help:      "End-to-end analysis latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		Findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pii_sentry",
			Name:      "findings_total",
			Help:      "Reported findings by entity type.",
		}, []string{"entity_type"}),
		RecognizerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pii_sentry",
			Name:      "recognizer_failures_total",
			Help:      "Recognizer invocations that returned an error.",
		}, []string{"recognizer"}),
		CustomRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pii_sentry",
			Name:      "custom_recognizer_refreshes_total",
			Help:      "Completed reloads of custom recognizer definitions.",
		}),
	}
	reg.MustRegister(
		m.AnalyzeRequests,
		m.AnalyzeDuration,
		m.Findings,
		m.RecognizerFailures,
		m.CustomRefreshes,
	)
	return m
}

// NewNop returns metrics backed by an isolated registry, for tests and the
// CLI path where nothing scrapes them.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
