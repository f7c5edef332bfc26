// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package enhancer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pii-sentry/internal/nlp"
)

func artifactsFor(t *testing.T, text string) *nlp.Artifacts {
	t.Helper()
	engine := nlp.NewLexicalEngine()
	artifacts, err := engine.Process(nil, text, "en")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	return artifacts
}

func TestBoost_ExactKeywordNearMatch(t *testing.T) {
	e := New(nlp.NewLexicalEngine())
	text := "my iban is DE89370400440532013000"
	artifacts := artifactsFor(t, text)

	score, word := e.Boost(artifacts, text, 11, len(text), 0.5, []string{"iban"})
	assert.Equal(t, 1.0, score) // 0.5 + 1.0*0.5
	assert.Equal(t, "iban", word)
}

func TestBoost_ClampedToOne(t *testing.T) {
	e := New(nlp.NewLexicalEngine())
	text := "account number 1234"
	artifacts := artifactsFor(t, text)

	score, _ := e.Boost(artifacts, text, 15, 19, 0.8, []string{"account"})
	assert.Equal(t, 1.0, score)
}

func TestBoost_NoSupportLeavesScoreUnchanged(t *testing.T) {
	e := New(nlp.NewLexicalEngine())
	text := "the quick brown fox 1234"
	artifacts := artifactsFor(t, text)

	score, word := e.Boost(artifacts, text, 20, 24, 0.5, []string{"iban"})
	assert.Equal(t, 0.5, score)
	assert.Empty(t, word)
}

func TestBoost_MatchSpanIsExcisedFromContext(t *testing.T) {
	e := New(nlp.NewLexicalEngine())
	// The only occurrence of the keyword lies inside the match span and must
	// not support it.
	text := "iban 1234"
	artifacts := artifactsFor(t, text)

	score, word := e.Boost(artifacts, text, 0, 9, 0.5, []string{"iban"})
	assert.Equal(t, 0.5, score)
	assert.Empty(t, word)
}

func TestBoost_NoArtifacts(t *testing.T) {
	e := New(nlp.NewLexicalEngine())

	score, word := e.Boost(nil, "account 1234", 8, 12, 0.5, []string{"account"})
	assert.Equal(t, 0.5, score)
	assert.Empty(t, word)
}

func TestBoost_PluralKeywordMatchesThroughLemma(t *testing.T) {
	e := New(nlp.NewLexicalEngine())
	text := "bank accounts: 1234"
	artifacts := artifactsFor(t, text)

	score, word := e.Boost(artifacts, text, 15, 19, 0.4, []string{"account"})
	assert.Equal(t, 0.9, score) // lemma "account" matches exactly
	assert.Equal(t, "account", word)
}
