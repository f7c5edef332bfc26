// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ner adapts the NLP provider's named-entity output to PII findings.
// It runs no detection of its own: it walks the named entities already
// present in the shared artifacts and maps the provider's raw labels to PII
// type families through a fixed lookup table. No checksum and no context
// boosting apply; every mapped entity carries the same fixed confidence.
package ner

import (
	"context"

	"pii-sentry/internal/nlp"
	"pii-sentry/internal/recognizer"
)

// Score is the fixed confidence assigned to NER-sourced findings.
const Score = 0.8

// PII type families emitted by this recognizer.
const (
	EntityPerson   = "PERSON"
	EntityLocation = "LOCATION"
	EntityDateTime = "DATE_TIME"
	EntityNrp      = "NRP"
)

// labelMap translates provider labels (spaCy conventions) to PII types.
// Unlisted labels are skipped.
var labelMap = map[string]string{
	"PERSON": EntityPerson,
	"GPE":    EntityLocation,
	"LOC":    EntityLocation,
	"DATE":   EntityDateTime,
	"TIME":   EntityDateTime,
	"NORP":   EntityNrp,
}

// Recognizer implements recognizer.EntityRecognizer over NLP artifacts.
type Recognizer struct{}

// New builds the NER recognizer.
func New() *Recognizer {
	return &Recognizer{}
}

func (r *Recognizer) Name() string { return "NerRecognizer" }

func (r *Recognizer) SupportedEntities() []string {
	return []string{EntityPerson, EntityLocation, EntityDateTime, EntityNrp}
}

func (r *Recognizer) SupportedLanguage() string { return "en" }
func (r *Recognizer) Version() string           { return "0.0.1" }

// Load is a no-op; the model lives in the NLP provider.
func (r *Recognizer) Load() error { return nil }

// Analyze maps the artifacts' named entities to PII findings.
func (r *Recognizer) Analyze(_ context.Context, _ string, entities []string, artifacts *nlp.Artifacts) ([]recognizer.Result, error) {
	if artifacts == nil {
		return nil, nil
	}

	var results []recognizer.Result
	for _, ent := range artifacts.Entities {
		piiType, ok := labelMap[ent.Label]
		if !ok {
			continue
		}
		if !requested(entities, piiType) {
			continue
		}
		results = append(results, recognizer.Result{
			EntityType: piiType,
			Start:      ent.Start,
			End:        ent.End,
			Score:      Score,
			Explanation: &recognizer.Explanation{
				Recognizer:    r.Name(),
				PatternName:   ent.Label,
				OriginalScore: Score,
				Score:         Score,
			},
		})
	}
	return results, nil
}

func requested(entities []string, entity string) bool {
	if len(entities) == 0 {
		return true
	}
	for _, e := range entities {
		if e == entity {
			return true
		}
	}
	return false
}
