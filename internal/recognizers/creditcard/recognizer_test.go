// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package creditcard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_ValidNumberScoresFull(t *testing.T) {
	r := New(nil)

	results, err := r.Analyze(context.Background(), "4111111111111111", nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, Entity, results[0].EntityType)
	assert.Equal(t, 0, results[0].Start)
	assert.Equal(t, 16, results[0].End)
	assert.Equal(t, 1.0, results[0].Score)
}

func TestAnalyze_LuhnFailureDropsFinding(t *testing.T) {
	r := New(nil)

	results, err := r.Analyze(context.Background(), "my card is 4111111111111112", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAnalyze_SeparatedFormats(t *testing.T) {
	r := New(nil)

	tests := []struct {
		name string
		text string
	}{
		{"dashes", "4012-8888-8888-1881"},
		{"spaces", "4012 8888 8888 1881"},
		{"mastercard", "5555555555554444"},
		{"amex", "378282246310005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := r.Analyze(context.Background(), tt.text, nil, nil)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, 1.0, results[0].Score)
			assert.Equal(t, 0, results[0].Start)
			assert.Equal(t, len(tt.text), results[0].End)
		})
	}
}

func TestLuhn(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid visa", "4111111111111111", true},
		{"valid amex", "378282246310005", true},
		{"off by one", "4111111111111112", false},
		{"empty", "", false},
		{"non-digit", "4111a11111111111", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Luhn(tt.input))
		})
	}
}
