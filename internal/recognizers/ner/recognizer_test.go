// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pii-sentry/internal/nlp"
)

func testArtifacts() *nlp.Artifacts {
	return &nlp.Artifacts{
		Entities: []nlp.NamedEntity{
			{Label: "PERSON", Start: 0, End: 4, Text: "Bill"},
			{Label: "GPE", Start: 14, End: 20, Text: "Berlin"},
			{Label: "DATE", Start: 24, End: 33, Text: "yesterday"},
			{Label: "ORG", Start: 40, End: 45, Text: "Acme"},
		},
		Language: "en",
	}
}

func TestAnalyze_MapsProviderLabels(t *testing.T) {
	r := New()

	results, err := r.Analyze(context.Background(), "Bill lives in Berlin since yesterday", nil, testArtifacts())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, EntityPerson, results[0].EntityType)
	assert.Equal(t, EntityLocation, results[1].EntityType)
	assert.Equal(t, EntityDateTime, results[2].EntityType)
	for _, res := range results {
		assert.Equal(t, Score, res.Score)
	}
}

func TestAnalyze_UnmappedLabelSkipped(t *testing.T) {
	r := New()

	results, err := r.Analyze(context.Background(), "text", nil, &nlp.Artifacts{
		Entities: []nlp.NamedEntity{{Label: "ORG", Start: 0, End: 4, Text: "Acme"}},
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAnalyze_EntityFilter(t *testing.T) {
	r := New()

	results, err := r.Analyze(context.Background(), "text", []string{EntityLocation}, testArtifacts())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, EntityLocation, results[0].EntityType)
	assert.Equal(t, 14, results[0].Start)
	assert.Equal(t, 20, results[0].End)
}

func TestAnalyze_NoArtifacts(t *testing.T) {
	r := New()

	results, err := r.Analyze(context.Background(), "text", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAnalyze_ExplanationCarriesProviderLabel(t *testing.T) {
	r := New()

	results, err := r.Analyze(context.Background(), "text", nil, &nlp.Artifacts{
		Entities: []nlp.NamedEntity{{Label: "NORP", Start: 0, End: 6, Text: "French"}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, EntityNrp, results[0].EntityType)
	require.NotNil(t, results[0].Explanation)
	assert.Equal(t, "NORP", results[0].Explanation.PatternName)
}
