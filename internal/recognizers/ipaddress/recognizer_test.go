// Copyright PII Sentry Contributors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ipaddress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_IPv4(t *testing.T) {
	r := New(nil)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"private", "host at 192.168.1.1 responded", "192.168.1.1"},
		{"public", "8.8.8.8", "8.8.8.8"},
		{"upper octets", "see 255.255.255.255", "255.255.255.255"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := r.Analyze(context.Background(), tt.text, nil, nil)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, 0.6, results[0].Score)
			assert.Equal(t, tt.want, tt.text[results[0].Start:results[0].End])
		})
	}
}

func TestAnalyze_IPv6Uncompressed(t *testing.T) {
	r := New(nil)

	text := "addr 2001:0db8:85a3:0000:0000:8a2e:0370:7334 end"
	results, err := r.Analyze(context.Background(), text, nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2001:0db8:85a3:0000:0000:8a2e:0370:7334", text[results[0].Start:results[0].End])
}

func TestAnalyze_OutOfRangeOctets(t *testing.T) {
	r := New(nil)

	for _, text := range []string{"999.1.1.1", "1.2.3", "300.300.300.300"} {
		results, err := r.Analyze(context.Background(), text, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, results, "text: %q", text)
	}
}
