// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package nlp

import (
	"context"
	"strings"
	"unicode"
)

// LexicalEngine is a rule-based NLP engine with no model behind it. It
// tokenizes on letter/digit runs, lemmatizes by lowercasing and stripping
// trivial English suffixes, and scores similarity by exact or prefix match.
// It produces no named entities, so NER recognizers contribute nothing when
// it is active.
//
// It exists for two reasons: it keeps the service functional without a
// sidecar, and it gives tests a provider that is deterministic by
// construction.
type LexicalEngine struct{}

// NewLexicalEngine returns the rule-based engine.
func NewLexicalEngine() *LexicalEngine {
	return &LexicalEngine{}
}

// Process implements Engine.
func (e *LexicalEngine) Process(_ context.Context, text, language string) (*Artifacts, error) {
	var tokens []Token
	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, newToken(text, start, i))
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, newToken(text, start, len(text)))
	}

	return &Artifacts{Tokens: tokens, Language: language}, nil
}

func newToken(text string, start, end int) Token {
	word := text[start:end]
	return Token{Text: word, Start: start, End: end, Lemma: Lemma(word)}
}

// Lemma lowercases a word and strips possessive and plural suffixes. Crude,
// but enough to line up "cards" with the context keyword "card".
func Lemma(word string) string {
	w := strings.ToLower(word)
	w = strings.TrimSuffix(w, "'s")
	if strings.HasSuffix(w, "ies") && len(w) > 4 {
		return w[:len(w)-3] + "y"
	}
	if strings.HasSuffix(w, "es") && len(w) > 4 {
		return w[:len(w)-2]
	}
	if strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && len(w) > 3 {
		return w[:len(w)-1]
	}
	return w
}

// Similarity implements Engine. Identical words score 1.0; a shared prefix of
// at least four characters scores proportionally to the overlap; anything
// else scores 0. The result never exceeds 1.
func (e *LexicalEngine) Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		if a == "" {
			return 0
		}
		return 1.0
	}

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) >= 4 && strings.HasPrefix(longer, shorter) {
		return float64(len(shorter)) / float64(len(longer))
	}
	return 0
}
