// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package phone

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_PatternStrengths(t *testing.T) {
	r := New(nil)

	tests := []struct {
		name      string
		text      string
		wantScore float64
		wantText  string
	}{
		{"dashed", "call 555-123-4567 now", 0.7, "555-123-4567"},
		{"parenthesized", "call (555) 123-4567 now", 0.7, "(555) 123-4567"},
		{"dotted", "call 555.123.4567 now", 0.7, "555.123.4567"},
		{"seven digit", "call 123-4567 now", 0.5, "123-4567"},
		{"bare ten digits", "call 5551234567 now", 0.05, "5551234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := r.Analyze(context.Background(), tt.text, nil, nil)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tt.wantScore, results[0].Score)
			assert.Equal(t, tt.wantText, tt.text[results[0].Start:results[0].End])
		})
	}
}

func TestAnalyze_WeakerPatternsSuppressedOnSameSpan(t *testing.T) {
	r := New(nil)

	// The medium pattern also matches the tail of the strong match; sharing
	// the end offset, it must not produce a second finding.
	results, err := r.Analyze(context.Background(), "555-123-4567", nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0.7, results[0].Score)
}

func TestAnalyze_NoMatch(t *testing.T) {
	r := New(nil)

	results, err := r.Analyze(context.Background(), "no numbers here", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
