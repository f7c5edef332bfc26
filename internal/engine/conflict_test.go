// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pii-sentry/internal/recognizer"
)

func res(entity string, start, end int, score float64) recognizer.Result {
	return recognizer.Result{EntityType: entity, Start: start, End: end, Score: score}
}

func TestResolveConflicts_DropsContainedLowerScore(t *testing.T) {
	got := resolveConflicts([]recognizer.Result{
		res("PHONE_NUMBER", 10, 22, 0.7),
		res("US_SSN", 12, 21, 0.3),
	})

	require.Len(t, got, 1)
	assert.Equal(t, "PHONE_NUMBER", got[0].EntityType)
}

func TestResolveConflicts_EqualSpansKeepHigherScore(t *testing.T) {
	got := resolveConflicts([]recognizer.Result{
		res("US_SSN", 5, 14, 0.05),
		res("PHONE_NUMBER", 5, 14, 0.7),
	})

	require.Len(t, got, 1)
	assert.Equal(t, "PHONE_NUMBER", got[0].EntityType)
	assert.Equal(t, 0.7, got[0].Score)
}

func TestResolveConflicts_PartialOverlapBothSurvive(t *testing.T) {
	got := resolveConflicts([]recognizer.Result{
		res("DATE_TIME", 0, 10, 0.8),
		res("PHONE_NUMBER", 5, 15, 0.7),
	})

	assert.Len(t, got, 2)
}

// A wider, lower-scored span visited after an accepted narrower span it
// contains is kept: containment rejects the contained side only.
func TestResolveConflicts_SupersetAfterContainedSurvives(t *testing.T) {
	got := resolveConflicts([]recognizer.Result{
		res("EMAIL_ADDRESS", 4, 20, 0.9),
		res("URL", 0, 30, 0.5),
	})

	require.Len(t, got, 2)
	assert.Equal(t, "EMAIL_ADDRESS", got[0].EntityType)
	assert.Equal(t, "URL", got[1].EntityType)
}

func TestResolveConflicts_ZeroScoreNeverEntersArbitration(t *testing.T) {
	got := resolveConflicts([]recognizer.Result{
		res("CREDIT_CARD", 0, 16, 0),
		res("PHONE_NUMBER", 0, 10, 0.7),
	})

	require.Len(t, got, 1)
	assert.Equal(t, "PHONE_NUMBER", got[0].EntityType)
}

func TestResolveConflicts_TieBreakPrefersEarlierStartThenShorterSpan(t *testing.T) {
	// Same score everywhere: the earlier, shorter span is arbitrated first
	// and therefore wins over the span that contains it.
	got := resolveConflicts([]recognizer.Result{
		res("B", 2, 12, 0.5),
		res("A", 2, 8, 0.5),
	})

	require.NotEmpty(t, got)
	assert.Equal(t, "A", got[0].EntityType)
}

func TestResolveConflicts_EmptyInput(t *testing.T) {
	assert.Empty(t, resolveConflicts(nil))
}

func TestFilterThreshold(t *testing.T) {
	results := []recognizer.Result{
		res("A", 0, 4, 0.3),
		res("B", 5, 9, 0.5),
		res("C", 10, 14, 0.9),
	}

	tests := []struct {
		name      string
		threshold float64
		want      []string
	}{
		{"zero keeps all", 0, []string{"A", "B", "C"}},
		{"exact score is kept", 0.5, []string{"B", "C"}},
		{"above all drops all", 0.95, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]recognizer.Result, len(results))
			copy(in, results)
			got := filterThreshold(in, tt.threshold)

			var names []string
			for _, r := range got {
				names = append(names, r.EntityType)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}
