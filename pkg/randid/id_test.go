package randid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]*$`)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"negative", -3, 0},
		{"zero", 0, 0},
		{"one", 1, 1},
		{"item id", 8, 8},
		{"long", 32, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.length)
			assert.Len(t, got, tt.want)
			assert.Regexp(t, idPattern, got)
		})
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	// 36^8 combinations; fewer than 990 unique values in 1000 draws signals
	// a broken random source.
	seen := make(map[string]struct{})
	for range 1000 {
		seen[Generate(8)] = struct{}{}
	}
	assert.GreaterOrEqual(t, len(seen), 990)
}

func TestGenerator(t *testing.T) {
	gen := Generator(6)
	a, b := gen(), gen()
	assert.Len(t, a, 6)
	assert.Len(t, b, 6)
	assert.NotEqual(t, a, b)
}
