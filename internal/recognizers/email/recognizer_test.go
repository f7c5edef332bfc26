// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	r := New(nil)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "write to john.doe@example.com today", "john.doe@example.com"},
		{"subdomain", "ops@mail.internal.example.org", "ops@mail.internal.example.org"},
		{"plus tag", "billing+invoices@example.com", "billing+invoices@example.com"},
		{"uppercase", "SALES@EXAMPLE.COM", "SALES@EXAMPLE.COM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := r.Analyze(context.Background(), tt.text, nil, nil)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, Entity, results[0].EntityType)
			assert.Equal(t, 0.5, results[0].Score)
			assert.Equal(t, tt.want, tt.text[results[0].Start:results[0].End])
		})
	}
}

func TestAnalyze_NonAddresses(t *testing.T) {
	r := New(nil)

	for _, text := range []string{"no at sign here", "half@", "@example.com", "a@b"} {
		results, err := r.Analyze(context.Background(), text, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, results, "text: %q", text)
	}
}
