// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package store persists custom recognizer definitions outside the process.
// The registry polls the store's change timestamp and reloads definitions
// only when it has advanced, so a fleet of analyzer instances converges on
// updated definitions without restarts.
package store

import (
	"context"
	"fmt"

	"pii-sentry/internal/recognizer"
)

// RecognizerStore is the persistence contract for custom recognizers.
type RecognizerStore interface {
	// LatestTimestamp returns the Unix time of the last definition change.
	// Zero means the store has never been written.
	LatestTimestamp(ctx context.Context) (int64, error)

	// AllRecognizers returns every stored definition.
	AllRecognizers(ctx context.Context) ([]Definition, error)
}

// PatternDefinition is one stored regex with its base confidence.
type PatternDefinition struct {
	Name  string  `json:"name" yaml:"name"`
	Score float64 `json:"score" yaml:"score"`
	Regex string  `json:"regex" yaml:"regex"`
}

// Definition is a stored custom recognizer: pattern-based detection for one
// entity type, with optional context words for confidence boosting.
type Definition struct {
	Name         string              `json:"name" yaml:"name"`
	Entity       string              `json:"entity" yaml:"entity"`
	Language     string              `json:"language" yaml:"language"`
	Patterns     []PatternDefinition `json:"patterns" yaml:"patterns"`
	ContextWords []string            `json:"context_words,omitempty" yaml:"context_words,omitempty"`
}

// Validate checks the definition for structural problems before compilation.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("custom recognizer: name is required")
	}
	if d.Entity == "" {
		return fmt.Errorf("custom recognizer %q: entity is required", d.Name)
	}
	if len(d.Patterns) == 0 {
		return fmt.Errorf("custom recognizer %q: at least one pattern is required", d.Name)
	}
	for _, p := range d.Patterns {
		if p.Regex == "" {
			return fmt.Errorf("custom recognizer %q: pattern %q has no regex", d.Name, p.Name)
		}
		if p.Score < 0 || p.Score > 1 {
			return fmt.Errorf("custom recognizer %q: pattern %q score %v outside [0,1]", d.Name, p.Name, p.Score)
		}
	}
	return nil
}

// Compile turns the definition into a live pattern recognizer.
func (d Definition) Compile(enh recognizer.ContextEnhancer) (*recognizer.PatternRecognizer, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	patterns := make([]recognizer.Pattern, 0, len(d.Patterns))
	for _, p := range d.Patterns {
		compiled, err := recognizer.CompilePattern(p.Name, p.Score, p.Regex)
		if err != nil {
			return nil, fmt.Errorf("custom recognizer %q: %w", d.Name, err)
		}
		patterns = append(patterns, compiled)
	}

	return recognizer.NewPatternRecognizer(recognizer.PatternConfig{
		Name:         d.Name,
		Entity:       d.Entity,
		Language:     d.Language,
		Patterns:     patterns,
		ContextWords: d.ContextWords,
		Enhancer:     enh,
	})
}
