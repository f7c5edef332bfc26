// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package iban detects International Bank Account Numbers and validates them
// with the ISO 13616 mod-97 checksum.
package iban

import (
	"strings"

	"pii-sentry/internal/recognizer"
)

// Entity is the PII type this recognizer emits.
const Entity = "IBAN_CODE"

// generic matches a two-letter country code, two check digits, and a BBAN
// written as groups of four with an optional shorter final group, separated
// by spaces or dashes. Country-specific length rules are left to the
// checksum; the pattern only has to be structurally permissive.
const generic = `\b[a-z]{2}\d{2}[ -]?[a-z0-9]{4}(?:[ -]?[a-z0-9]{4}){1,6}(?:[ -]?[a-z0-9]{1,4})?\b`

// New builds the IBAN recognizer.
func New(enh recognizer.ContextEnhancer) *recognizer.PatternRecognizer {
	r, err := recognizer.NewPatternRecognizer(recognizer.PatternConfig{
		Name:     "IbanRecognizer",
		Entity:   Entity,
		Language: "en",
		Patterns: []recognizer.Pattern{
			recognizer.NewPattern("IBAN (generic)", 0.5, generic),
		},
		ContextWords: []string{"iban", "bank", "account", "transfer", "swift", "bic"},
		Checksum:     Mod97,
		Enhancer:     enh,
	})
	if err != nil {
		panic(err)
	}
	return r
}

// Mod97 validates a sanitized IBAN: the first four characters are moved to
// the end, letters are substituted with their ISO values (A=10 .. Z=35), and
// the resulting number must be congruent to 1 modulo 97. Any character
// outside [A-Za-z0-9], a malformed prefix, or an out-of-range length fails
// closed.
func Mod97(sanitized string) bool {
	if len(sanitized) < 15 || len(sanitized) > 34 {
		return false
	}

	s := strings.ToUpper(sanitized)

	// Country code then two check digits.
	if !isLetter(s[0]) || !isLetter(s[1]) || !isDigit(s[2]) || !isDigit(s[3]) {
		return false
	}

	rearranged := s[4:] + s[:4]
	remainder := 0
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		switch {
		case isDigit(c):
			remainder = (remainder*10 + int(c-'0')) % 97
		case isLetter(c):
			v := int(c-'A') + 10
			remainder = (remainder*100 + v) % 97
		default:
			return false
		}
	}
	return remainder == 1
}

func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
