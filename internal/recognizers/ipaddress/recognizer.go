// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ipaddress detects IPv4 and IPv6 addresses.
package ipaddress

import (
	"pii-sentry/internal/recognizer"
)

// Entity is the PII type this recognizer emits.
const Entity = "IP_ADDRESS"

const (
	// ipv4 matches dotted quads with per-octet range checks, so 999.1.1.1
	// never becomes a finding.
	ipv4 = `\b(?:(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)\.){3}(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)\b`

	// ipv6 only matches the full uncompressed form; compressed notations
	// are too ambiguous for a bare regex and are left to NER providers.
	ipv6 = `\b(?:[0-9a-f]{1,4}:){7}[0-9a-f]{1,4}\b`
)

// New builds the IP address recognizer.
func New(enh recognizer.ContextEnhancer) *recognizer.PatternRecognizer {
	r, err := recognizer.NewPatternRecognizer(recognizer.PatternConfig{
		Name:     "IpRecognizer",
		Entity:   Entity,
		Language: "en",
		Patterns: []recognizer.Pattern{
			recognizer.NewPattern("IPv4", 0.6, ipv4),
			recognizer.NewPattern("IPv6", 0.6, ipv6),
		},
		ContextWords: []string{"ip", "ipv4", "ipv6", "address", "host", "subnet"},
		Enhancer:     enh,
	})
	if err != nil {
		panic(err)
	}
	return r
}
