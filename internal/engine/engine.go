// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package engine runs the analysis pipeline: request validation, recognizer
// selection, a single NLP pass over the text, parallel recognizer fan-out,
// conflict resolution and threshold filtering.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"pii-sentry/internal/metrics"
	"pii-sentry/internal/nlp"
	"pii-sentry/internal/recognizer"
	"pii-sentry/internal/registry"
)

// DefaultWorkers bounds the recognizer fan-out when no explicit worker
// count is configured.
const DefaultWorkers = 4

// Response is the outcome of one analysis request.
type Response struct {
	CorrelationID string
	Findings      []recognizer.Result
}

// Analyzer orchestrates the pipeline. It is safe for concurrent use.
type Analyzer struct {
	registry *registry.Registry
	nlp      nlp.Engine
	logger   *zap.Logger
	metrics  *metrics.Metrics
	workers  int
}

// Config assembles an Analyzer.
type Config struct {
	Registry *registry.Registry
	NLP      nlp.Engine
	Logger   *zap.Logger
	Metrics  *metrics.Metrics

	// Workers bounds how many recognizers run concurrently per request.
	Workers int
}

// New builds an Analyzer from cfg.
func New(cfg Config) (*Analyzer, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("analyzer requires a registry")
	}
	if cfg.NLP == nil {
		return nil, fmt.Errorf("analyzer requires an nlp engine")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.NewNop()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Analyzer{
		registry: cfg.Registry,
		nlp:      cfg.NLP,
		logger:   logger,
		metrics:  m,
		workers:  workers,
	}, nil
}

// Analyze runs the full pipeline for one request.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Response, error) {
	started := time.Now()
	resp, err := a.analyze(ctx, req)
	a.metrics.AnalyzeDuration.Observe(time.Since(started).Seconds())
	a.metrics.AnalyzeRequests.WithLabelValues(statusLabel(err)).Inc()
	return resp, err
}

func (a *Analyzer) analyze(ctx context.Context, req Request) (*Response, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	log := a.logger.With(zap.String("correlation_id", req.CorrelationID))

	selected, err := a.registry.Select(ctx, req.Language, req.Entities)
	if err != nil {
		return nil, err
	}

	artifacts, err := a.nlp.Process(ctx, req.Text, req.Language)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", recognizer.ErrProviderFailure, err)
	}

	raw, err := a.fanOut(ctx, log, req, selected, artifacts)
	if err != nil {
		return nil, err
	}

	final := resolveConflicts(raw)
	final = filterThreshold(final, req.ScoreThreshold)
	sort.SliceStable(final, func(i, j int) bool {
		return final[i].Start < final[j].Start
	})

	if !req.ReturnDecisionProcess {
		for i := range final {
			final[i].Explanation = nil
		}
	}

	for _, res := range final {
		a.metrics.Findings.WithLabelValues(res.EntityType).Inc()
	}
	log.Info("analysis complete",
		zap.String("language", req.Language),
		zap.Int("recognizers", len(selected)),
		zap.Int("findings", len(final)))

	return &Response{CorrelationID: req.CorrelationID, Findings: final}, nil
}

// fanOut runs the selected recognizers concurrently, bounded by the worker
// budget. A failing recognizer is skipped and logged; the request fails only
// when every recognizer failed, since a partial result is still useful while
// an empty one would silently hide the outage.
func (a *Analyzer) fanOut(ctx context.Context, log *zap.Logger, req Request, selected []*recognizer.Lazy, artifacts *nlp.Artifacts) ([]recognizer.Result, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		raw      []recognizer.Result
		failures int
	)
	sem := make(chan struct{}, a.workers)

	for _, rec := range selected {
		wg.Add(1)
		sem <- struct{}{}
		go func(rec *recognizer.Lazy) {
			defer wg.Done()
			defer func() { <-sem }()

			results, err := a.runRecognizer(ctx, rec, req, artifacts)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				a.metrics.RecognizerFailures.WithLabelValues(rec.Name()).Inc()
				log.Warn("recognizer failed, continuing without it",
					zap.String("recognizer", rec.Name()), zap.Error(err))
				return
			}
			raw = append(raw, results...)
		}(rec)
	}
	wg.Wait()

	if failures == len(selected) {
		return nil, errors.New("all recognizers failed")
	}
	return raw, nil
}

func (a *Analyzer) runRecognizer(ctx context.Context, rec *recognizer.Lazy, req Request, artifacts *nlp.Artifacts) ([]recognizer.Result, error) {
	if err := rec.Load(); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return rec.Analyze(ctx, req.Text, req.Entities, artifacts)
}

// filterThreshold keeps findings scoring at or above threshold.
func filterThreshold(results []recognizer.Result, threshold float64) []recognizer.Result {
	if threshold <= 0 {
		return results
	}
	kept := results[:0]
	for _, res := range results {
		if res.Score >= threshold {
			kept = append(kept, res)
		}
	}
	return kept
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, recognizer.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, recognizer.ErrNoRecognizersAvailable):
		return "no_recognizers"
	case errors.Is(err, recognizer.ErrProviderFailure):
		return "provider_failure"
	default:
		return "error"
	}
}
