package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "single element",
			input:    []string{"Ada"},
			expected: []string{"Ada"},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  Ada  ", "Grace  ", "  Edsger"},
			expected: []string{"Ada", "Grace", "Edsger"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"Ada", "Grace", "Ada", "Edsger", "Grace"},
			expected: []string{"Ada", "Grace", "Edsger"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"Ada", "", "  ", "Grace"},
			expected: []string{"Ada", "Grace"},
		},
		{
			name:     "preserves case",
			input:    []string{"Ada", "ada", "ADA"},
			expected: []string{"Ada", "ada", "ADA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestDedupeAndTrimLower(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "lowercases and dedupes",
			input:    []string{"A@x.com", "a@x.com", " a@x.com "},
			expected: []string{"a@x.com"},
		},
		{
			name:     "trims, lowercases, keeps first-seen order",
			input:    []string{"  B@x.com ", "a@x.com", "b@X.com", "A@X.COM"},
			expected: []string{"b@x.com", "a@x.com"},
		},
		{
			name:     "drops values that trim to empty",
			input:    []string{" ", "", "c@x.com"},
			expected: []string{"c@x.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrimLower(tt.input))
		})
	}
}
