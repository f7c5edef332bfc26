// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package creditcard detects credit card numbers across the major network
// formats and validates them with the Luhn checksum. The checksum is
// authoritative: a structurally valid number that fails Luhn is dropped, a
// passing number scores 1.0 regardless of context.
package creditcard

import (
	"pii-sentry/internal/recognizer"
)

// Entity is the PII type this recognizer emits.
const Entity = "CREDIT_CARD"

// allNetworks matches 14-16 digit card numbers with optional space or dash
// separators, covering Visa, MasterCard, Amex, Discover, JCB and Diners
// prefixes. Deliberately weak on its own: the Luhn check carries the
// confidence.
const allNetworks = `\b((4\d{3})|(5[0-5]\d{2})|(6\d{3})|(1\d{3})|(3\d{3}))[- ]?(\d{3,4})[- ]?(\d{3,4})[- ]?(\d{3,5})\b`

// New builds the credit card recognizer. The enhancer is accepted for
// interface uniformity with the other pattern recognizers but never fires:
// the checksum bypasses context scoring.
func New(enh recognizer.ContextEnhancer) *recognizer.PatternRecognizer {
	r, err := recognizer.NewPatternRecognizer(recognizer.PatternConfig{
		Name:     "CreditCardRecognizer",
		Entity:   Entity,
		Language: "en",
		Patterns: []recognizer.Pattern{
			recognizer.NewPattern("All Credit Cards (weak)", 0.3, allNetworks),
		},
		ContextWords: []string{
			"credit", "card", "visa", "mastercard", "amex",
			"discover", "jcb", "diners", "maestro", "instapayment",
		},
		Checksum: Luhn,
		Enhancer: enh,
	})
	if err != nil {
		panic(err)
	}
	return r
}

// Luhn validates a sanitized digit string with the Luhn mod-10 algorithm.
// Non-digit input fails closed.
func Luhn(sanitized string) bool {
	if len(sanitized) == 0 {
		return false
	}

	sum := 0
	double := false
	for i := len(sanitized) - 1; i >= 0; i-- {
		c := sanitized[i]
		if c < '0' || c > '9' {
			return false
		}
		digit := int(c - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}
