// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ussn detects US social security numbers.
package ussn

import (
	"pii-sentry/internal/recognizer"
)

// Entity is the PII type this recognizer emits.
const Entity = "US_SSN"

const (
	// Standard AAA-GG-SSSS form, also accepting dot or space separators.
	medium = `\b[0-9]{3}[- .][0-9]{2}[- .][0-9]{4}\b`

	// Nine contiguous digits could be almost anything; detected, but only
	// contextual support makes it actionable.
	veryWeak = `\b[0-9]{9}\b`
)

// New builds the US SSN recognizer.
func New(enh recognizer.ContextEnhancer) *recognizer.PatternRecognizer {
	r, err := recognizer.NewPatternRecognizer(recognizer.PatternConfig{
		Name:     "UsSsnRecognizer",
		Entity:   Entity,
		Language: "en",
		Patterns: []recognizer.Pattern{
			recognizer.NewPattern("SSN (medium)", 0.5, medium),
			recognizer.NewPattern("SSN (very weak)", 0.05, veryWeak),
		},
		ContextWords: []string{"social", "security", "ssn", "ssa", "taxpayer"},
		Enhancer:     enh,
	})
	if err != nil {
		panic(err)
	}
	return r
}
