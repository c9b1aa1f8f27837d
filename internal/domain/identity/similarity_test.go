package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{name: "identical", a: "phil salt", b: "phil salt", min: 1, max: 1},
		{name: "truncated given name", a: "phil salt", b: "philip salt", min: 0.8, max: 1},
		{name: "unrelated", a: "babar azam", b: "sam curran", min: 0, max: 0.5},
		{name: "empty", a: "", b: "sam curran", min: 0, max: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := similarity(tt.a, tt.b)
			assert.GreaterOrEqual(t, got, tt.min)
			assert.LessOrEqual(t, got, tt.max)
			assert.InDelta(t, got, similarity(tt.b, tt.a), 1e-9)
		})
	}
}
