// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package recognizer defines the detection contract shared by every
// recognizer: the Result finding type, the EntityRecognizer interface, and
// the pattern-recognizer base that most built-ins are assembled from.
package recognizer

import "fmt"

// Result is one candidate PII detection: an entity type, a half-open span
// [Start, End) into the analyzed text, and a confidence score in [0,1].
// A Result is immutable once produced by a recognizer; only context
// enhancement may rewrite the score, never the span.
type Result struct {
	EntityType  string       `json:"entity_type"`
	Start       int          `json:"start"`
	End         int          `json:"end"`
	Score       float64      `json:"score"`
	Explanation *Explanation `json:"explanation,omitempty"`
}

// Explanation records how a result got its score, for callers that request
// the decision process.
type Explanation struct {
	Recognizer            string  `json:"recognizer"`
	PatternName           string  `json:"pattern_name,omitempty"`
	OriginalScore         float64 `json:"original_score"`
	Score                 float64 `json:"score"`
	ChecksumPassed        bool    `json:"checksum_passed,omitempty"`
	SupportiveContextWord string  `json:"supportive_context_word,omitempty"`
}

// Contains reports whether r's span contains other's span. Containment
// includes exact span equality.
func (r Result) Contains(other Result) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Length returns End - Start.
func (r Result) Length() int {
	return r.End - r.Start
}

func (r Result) String() string {
	return fmt.Sprintf("%s[%d:%d]=%.2f", r.EntityType, r.Start, r.End, r.Score)
}

// clamp01 bounds a score to [0,1].
func clamp01(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
