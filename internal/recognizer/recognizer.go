// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package recognizer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"pii-sentry/internal/nlp"
)

// Sentinels for the failure taxonomy of the analysis pipeline. The registry
// and engine wrap these with detail; the boundary classifies with errors.Is.
var (
	// ErrInvalidRequest marks malformed or contradictory request
	// parameters. Never retried.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoRecognizersAvailable marks an empty recognizer selection for the
	// resolved language/entity combination.
	ErrNoRecognizersAvailable = errors.New("no recognizers available")

	// ErrProviderFailure marks a failure of the NLP artifacts provider,
	// which is fatal for the request.
	ErrProviderFailure = errors.New("nlp provider failure")
)

// EntityRecognizer is the pluggable detector contract shared by pattern,
// NER and remote recognizers, built-in or custom.
//
// Analyze receives the full request text, the requested entity set and the
// shared read-only NLP artifacts, and returns zero or more raw findings.
// Implementations must be safe for concurrent use once loaded.
type EntityRecognizer interface {
	Name() string
	SupportedEntities() []string
	SupportedLanguage() string
	Version() string

	// Load performs expensive one-time initialization (model compilation,
	// connection warm-up). It must be idempotent.
	Load() error

	Analyze(ctx context.Context, text string, entities []string, artifacts *nlp.Artifacts) ([]Result, error)
}

// Info is the capability record of one recognizer, exposed for
// introspection at the boundary.
type Info struct {
	Name     string   `json:"name"`
	Entities []string `json:"entities"`
	Language string   `json:"language"`
	Version  string   `json:"version"`
	IsLoaded bool     `json:"is_loaded"`
	IsCustom bool     `json:"is_custom,omitempty"`
	IsRemote bool     `json:"is_remote,omitempty"`
}

// Lazy wraps an EntityRecognizer so that Load runs at most once per process
// lifetime, safe under concurrent first use from multiple in-flight
// requests. The registry wraps every recognizer it owns.
type Lazy struct {
	EntityRecognizer

	once    sync.Once
	loadErr error
	loaded  atomic.Bool
}

// NewLazy wraps r with memoized loading.
func NewLazy(r EntityRecognizer) *Lazy {
	return &Lazy{EntityRecognizer: r}
}

// Load implements EntityRecognizer. The wrapped Load runs once; its error is
// cached and returned on every subsequent call.
func (l *Lazy) Load() error {
	l.once.Do(func() {
		l.loadErr = l.EntityRecognizer.Load()
		l.loaded.Store(l.loadErr == nil)
	})
	return l.loadErr
}

// IsLoaded reports whether the wrapped recognizer loaded successfully. Safe
// to call concurrently with Load; introspection polls it on live servers.
func (l *Lazy) IsLoaded() bool {
	return l.loaded.Load()
}

// supportsEntity reports whether entity appears in entities. An empty
// requested set means "no filtering" for a recognizer that was already
// selected by the registry.
func supportsEntity(requested []string, entity string) bool {
	if len(requested) == 0 {
		return true
	}
	for _, e := range requested {
		if e == entity {
			return true
		}
	}
	return false
}
