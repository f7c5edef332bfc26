// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package email detects email addresses. No checksum applies; confidence
// comes from the pattern plus contextual support.
package email

import (
	"pii-sentry/internal/recognizer"
)

// Entity is the PII type this recognizer emits.
const Entity = "EMAIL_ADDRESS"

const address = `\b[a-z0-9!#$%&'*+/=?^_.{|}~-]+@[a-z0-9]+(?:[-.][a-z0-9]+)*\.[a-z]{2,}\b`

// New builds the email recognizer.
func New(enh recognizer.ContextEnhancer) *recognizer.PatternRecognizer {
	r, err := recognizer.NewPatternRecognizer(recognizer.PatternConfig{
		Name:     "EmailRecognizer",
		Entity:   Entity,
		Language: "en",
		Patterns: []recognizer.Pattern{
			recognizer.NewPattern("Email (medium)", 0.5, address),
		},
		ContextWords: []string{"email", "mail", "contact", "address", "inbox"},
		Enhancer:     enh,
	})
	if err != nil {
		panic(err)
	}
	return r
}
