// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package remote calls an external detection service over HTTP and folds its
// findings into the local pipeline. The remote service receives the raw text
// plus the requested entity filter and returns spans in the same shape the
// local recognizers produce; its scores are taken at face value and compete
// in conflict resolution like any other finding.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pii-sentry/internal/nlp"
	"pii-sentry/internal/recognizer"
	"pii-sentry/internal/resilience"
)

// DefaultTimeout bounds a single remote analysis call.
const DefaultTimeout = 10 * time.Second

// Config describes one remote detection endpoint.
type Config struct {
	Name     string
	URL      string
	Entities []string
	Language string
	Timeout  time.Duration
}

// Recognizer proxies analysis to a remote HTTP service. A circuit breaker
// guards the endpoint: once it has failed repeatedly, requests skip the call
// and fail fast until the service recovers.
type Recognizer struct {
	cfg     Config
	client  *http.Client
	retry   resilience.RetryConfig
	breaker *resilience.Breaker
}

// New builds a remote recognizer from config, applying defaults for
// unset fields.
func New(cfg Config) (*Recognizer, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("remote recognizer requires a name")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote recognizer %q requires a url", cfg.Name)
	}
	if len(cfg.Entities) == 0 {
		return nil, fmt.Errorf("remote recognizer %q requires at least one entity", cfg.Name)
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Recognizer{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		retry:   resilience.SidecarRetryConfig(),
		breaker: resilience.NewBreaker(resilience.DefaultBreakerConfig(cfg.Name)),
	}, nil
}

func (r *Recognizer) Name() string                { return r.cfg.Name }
func (r *Recognizer) SupportedEntities() []string { return r.cfg.Entities }
func (r *Recognizer) SupportedLanguage() string   { return r.cfg.Language }
func (r *Recognizer) Version() string             { return "remote" }

// Load is a no-op; readiness is the remote service's concern.
func (r *Recognizer) Load() error { return nil }

type analyzeRequest struct {
	Text     string   `json:"text"`
	Entities []string `json:"entities,omitempty"`
	Language string   `json:"language"`
}

type analyzeResponse struct {
	Results []remoteResult `json:"results"`
}

type remoteResult struct {
	EntityType string  `json:"entity_type"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Score      float64 `json:"score"`
}

// Analyze posts the text to the remote service and converts its findings.
// Transport failures are retried with backoff; a final failure surfaces as
// this recognizer's error and is isolated by the engine like any other.
func (r *Recognizer) Analyze(ctx context.Context, text string, entities []string, _ *nlp.Artifacts) ([]recognizer.Result, error) {
	payload, err := json.Marshal(analyzeRequest{
		Text:     text,
		Entities: entities,
		Language: r.cfg.Language,
	})
	if err != nil {
		return nil, fmt.Errorf("remote %s: encode request: %w", r.cfg.Name, err)
	}

	var resp *analyzeResponse
	err = r.breaker.Execute(ctx, func(ctx context.Context) error {
		var callErr error
		resp, callErr = resilience.RetryWithResult(ctx, r.retry, func(ctx context.Context) (*analyzeResponse, error) {
			return r.post(ctx, payload)
		})
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("remote %s: %w", r.cfg.Name, err)
	}

	results := make([]recognizer.Result, 0, len(resp.Results))
	for _, rr := range resp.Results {
		if rr.End <= rr.Start || rr.Start < 0 || rr.End > len(text) {
			continue
		}
		res := recognizer.Result{
			EntityType: rr.EntityType,
			Start:      rr.Start,
			End:        rr.End,
			Score:      rr.Score,
			Explanation: &recognizer.Explanation{
				Recognizer:    r.cfg.Name,
				OriginalScore: rr.Score,
				Score:         rr.Score,
			},
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Recognizer) post(ctx context.Context, payload []byte) (*analyzeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, resilience.NewPermanentError(fmt.Sprintf("build request for %s", r.cfg.URL), err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := r.client.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError("call remote service", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, 4<<20))
	if err != nil {
		return nil, resilience.NewTransientError("read remote response", err)
	}
	if httpResp.StatusCode >= 500 {
		return nil, resilience.NewTransientError(fmt.Sprintf("remote status %d", httpResp.StatusCode), nil)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, resilience.NewPermanentError(fmt.Sprintf("remote status %d", httpResp.StatusCode), nil)
	}

	var out analyzeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, resilience.NewPermanentError("decode remote response", err)
	}
	return &out, nil
}
