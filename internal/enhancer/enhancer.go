// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package enhancer implements context-aware confidence scoring: a finding
// whose surrounding text carries words similar to the recognizer's declared
// context keywords gets its score boosted. A match for a 9-digit pattern is
// far more likely to be an SSN when "social security" appears nearby.
package enhancer

import (
	"pii-sentry/internal/nlp"
)

const (
	// SimilarityFloor is the minimum lemma/keyword similarity that counts
	// as contextual support.
	SimilarityFloor = 0.65

	// BoostFactor scales the best similarity into the score boost.
	BoostFactor = 0.5
)

// Enhancer scores contextual support using the NLP provider's
// word-similarity function. It is stateless and side-effect-free: the same
// inputs always produce the same score as long as the provider is
// deterministic.
type Enhancer struct {
	engine nlp.Engine
}

// New creates an Enhancer backed by the given NLP engine.
func New(engine nlp.Engine) *Enhancer {
	return &Enhancer{engine: engine}
}

// Boost computes the enhanced score for a match at [start, end) in text.
// Every lemma of the surrounding text (the match span itself is excised) is
// compared against every context keyword; the maximum similarity that meets
// SimilarityFloor yields
//
//	score = base + maxSimilarity * BoostFactor
//
// clamped to 1.0. Without qualifying support the base score is returned
// unchanged. The second return value is the keyword that provided the best
// support, for explanation payloads. Boost never lowers a score.
func (e *Enhancer) Boost(artifacts *nlp.Artifacts, text string, start, end int, base float64, keywords []string) (float64, string) {
	if len(keywords) == 0 || artifacts == nil || len(artifacts.Tokens) == 0 {
		return base, ""
	}

	maxSimilarity := 0.0
	supportiveWord := ""
	for _, token := range artifacts.Tokens {
		// Excise the match itself: a credit card number is not context
		// for itself.
		if token.End > start && token.Start < end {
			continue
		}
		lemma := token.Lemma
		if lemma == "" {
			lemma = token.Text
		}
		for _, keyword := range keywords {
			similarity := e.engine.Similarity(lemma, keyword)
			if similarity >= SimilarityFloor && similarity > maxSimilarity {
				maxSimilarity = similarity
				supportiveWord = keyword
			}
		}
	}

	if maxSimilarity < SimilarityFloor {
		return base, ""
	}
	if maxSimilarity > 1 {
		maxSimilarity = 1
	}

	boosted := base + maxSimilarity*BoostFactor
	if boosted > 1 {
		boosted = 1
	}
	return boosted, supportiveWord
}
