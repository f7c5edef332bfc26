// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package iban

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_ValidIban(t *testing.T) {
	r := New(nil)

	results, err := r.Analyze(context.Background(), "AL47212110090000000235698741", nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, Entity, results[0].EntityType)
	assert.Equal(t, 0, results[0].Start)
	assert.Equal(t, 28, results[0].End)
	assert.Equal(t, 1.0, results[0].Score)
}

func TestAnalyze_SingleCharacterMutationFails(t *testing.T) {
	r := New(nil)

	results, err := r.Analyze(context.Background(), "AL47212110090000000235698742", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAnalyze_GroupedIban(t *testing.T) {
	r := New(nil)

	text := "pay to DE89 3704 0044 0532 0130 00 today"
	results, err := r.Analyze(context.Background(), text, nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, "DE89 3704 0044 0532 0130 00", text[results[0].Start:results[0].End])
}

func TestMod97(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid albanian", "AL47212110090000000235698741", true},
		{"valid german", "DE89370400440532013000", true},
		{"valid british", "GB29NWBK60161331926819", true},
		{"wrong check digits", "DE21370400440532013000", false},
		{"mutated body", "AL47212110090000000235698742", false},
		{"too short", "DE8937040044", false},
		{"digits in country code", "1247212110090000000235698741", false},
		{"illegal character", "DE89-3704!0440532013000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mod97(tt.input))
		})
	}
}
