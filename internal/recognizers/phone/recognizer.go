// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package phone detects US phone numbers with strong, medium and weak
// patterns declared in descending confidence order. A bare 10-digit run is
// nearly meaningless on its own; context words are what pull a weak match
// over a useful threshold.
package phone

import (
	"pii-sentry/internal/recognizer"
)

// Entity is the PII type this recognizer emits.
const Entity = "PHONE_NUMBER"

const (
	strong = `(\(\d{3}\)\s*\d{3}[-.\s]?\d{4})|(\b\d{3}[-.\s]\d{3}[-.\s]\d{4}\b)`
	medium = `\b\d{3}[-.\s]\d{4}\b`
	weak   = `\b\d{10}\b`
)

// New builds the US phone recognizer.
func New(enh recognizer.ContextEnhancer) *recognizer.PatternRecognizer {
	r, err := recognizer.NewPatternRecognizer(recognizer.PatternConfig{
		Name:     "UsPhoneRecognizer",
		Entity:   Entity,
		Language: "en",
		Patterns: []recognizer.Pattern{
			recognizer.NewPattern("Phone (strong)", 0.7, strong),
			recognizer.NewPattern("Phone (medium)", 0.5, medium),
			recognizer.NewPattern("Phone (weak)", 0.05, weak),
		},
		ContextWords: []string{"phone", "number", "telephone", "cell", "mobile", "call"},
		Enhancer:     enh,
	})
	if err != nil {
		panic(err)
	}
	return r
}
