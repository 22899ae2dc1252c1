package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Prerana17/Morpheus.AI/internal/metrics"
)

func TestCountFeatures(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want metrics.Features
	}{
		{"empty", "", metrics.Features{}},
		{"single word", "hello", metrics.Features{Bytes: 5, Runes: 5, Words: 1, Lines: 1}},
		{"two lines", "a b\nc", metrics.Features{Bytes: 5, Runes: 5, Words: 3, Lines: 2}},
		{"multibyte", "héllo", metrics.Features{Bytes: 6, Runes: 5, Words: 1, Lines: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, metrics.CountFeatures(tc.in))
		})
	}
}
