// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"pii-sentry/internal/resilience"
)

// SidecarEngine calls an out-of-process NLP service (e.g. a spaCy container)
// over HTTP. The sidecar exposes two endpoints:
//
//	POST /process     {"text": ..., "language": ...} -> Artifacts
//	POST /similarity  {"a": ..., "b": ...}           -> {"score": ...}
//
// A failing Process call is a provider failure and fails the request; a
// failing similarity lookup degrades to the lexical fallback so context
// scoring stays available.
type SidecarEngine struct {
	baseURL  string
	http     *http.Client
	retry    resilience.RetryConfig
	log      *zap.Logger
	fallback *LexicalEngine

	simMu    sync.RWMutex
	simCache map[[2]string]float64
}

// simCacheLimit caps the similarity cache. One side of every key is a lemma
// from request text, so the key space is unbounded; when the cap is hit the
// cache is reset rather than growing for the life of the process.
const simCacheLimit = 4096

// NewSidecarEngine creates a sidecar client with the given base URL
// (e.g. "http://nlp-sidecar:8001"). A zero timeout means 10 seconds.
func NewSidecarEngine(baseURL string, timeout time.Duration, log *zap.Logger) *SidecarEngine {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SidecarEngine{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		retry:    resilience.SidecarRetryConfig(),
		log:      log.Named("nlp.sidecar"),
		fallback: NewLexicalEngine(),
		simCache: make(map[[2]string]float64),
	}
}

type processRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Process implements Engine.
func (e *SidecarEngine) Process(ctx context.Context, text, language string) (*Artifacts, error) {
	var artifacts Artifacts
	err := resilience.RetryWithBackoff(ctx, e.retry, func(ctx context.Context) error {
		return e.post(ctx, "/process", processRequest{Text: text, Language: language}, &artifacts)
	})
	if err != nil {
		return nil, fmt.Errorf("nlp sidecar: process: %w", err)
	}
	if artifacts.Language == "" {
		artifacts.Language = language
	}
	return &artifacts, nil
}

type similarityRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

type similarityResponse struct {
	Score float64 `json:"score"`
}

// Similarity implements Engine. Scores are cached per word pair up to
// simCacheLimit entries; on sidecar failure the lexical fallback keeps the
// result deterministic rather than erroring out of a scoring path.
func (e *SidecarEngine) Similarity(a, b string) float64 {
	key := [2]string{a, b}
	e.simMu.RLock()
	score, ok := e.simCache[key]
	e.simMu.RUnlock()
	if ok {
		return score
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.http.Timeout)
	defer cancel()

	var resp similarityResponse
	if err := e.post(ctx, "/similarity", similarityRequest{A: a, B: b}, &resp); err != nil {
		e.log.Warn("similarity lookup failed, using lexical fallback", zap.Error(err))
		return e.fallback.Similarity(a, b)
	}

	if resp.Score < 0 {
		resp.Score = 0
	} else if resp.Score > 1 {
		resp.Score = 1
	}

	e.simMu.Lock()
	if len(e.simCache) >= simCacheLimit {
		e.simCache = make(map[[2]string]float64)
	}
	e.simCache[key] = resp.Score
	e.simMu.Unlock()
	return resp.Score
}

func (e *SidecarEngine) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return resilience.NewPermanentError("marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return resilience.NewPermanentError("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
		if resp.StatusCode >= 500 {
			return resilience.NewTransientError(err.Error(), err)
		}
		return resilience.NewPermanentError(err.Error(), err)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resilience.NewPermanentError("decode response", err)
	}
	return nil
}
