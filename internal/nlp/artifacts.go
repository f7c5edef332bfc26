// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package nlp defines the contract with the external NLP provider and ships
// two implementations of it: a deterministic in-process lexical engine and a
// client for an out-of-process sidecar. The provider is consumed as a black
// box; the analyzer core never depends on a concrete model.
package nlp

import "context"

// Token is one token of the processed text, with byte offsets into the
// original string and the lemma assigned by the provider.
type Token struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Lemma string `json:"lemma"`
}

// NamedEntity is a named-entity span with the provider's raw label
// (e.g. "PERSON", "GPE", "DATE").
type NamedEntity struct {
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Artifacts is the output of one Process call: tokens, lemmas and named
// entities for a single text. It is produced once per analyze request and
// shared read-only across every recognizer invoked for that request; no
// recognizer may mutate it.
type Artifacts struct {
	Tokens   []Token       `json:"tokens"`
	Entities []NamedEntity `json:"entities"`
	Language string        `json:"language"`
}

// Engine is the NLP provider contract. Implementations must be deterministic
// within a provider version: the same text and language always produce the
// same artifacts, and Similarity is a pure function.
type Engine interface {
	// Process runs tokenization, lemmatization and named-entity extraction.
	Process(ctx context.Context, text, language string) (*Artifacts, error)

	// Similarity scores the semantic closeness of two words in [0,1].
	Similarity(a, b string) float64
}
