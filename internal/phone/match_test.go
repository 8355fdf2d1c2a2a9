package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherMatch(t *testing.T) {
	m := NewMatcher(DefaultOptions())

	tests := []struct {
		name  string
		a, b  string
		match bool
	}{
		{
			name:  "local and international forms of the same number",
			a:     "08031234567",
			b:     "+2348031234567",
			match: true,
		},
		{
			name:  "identical raw strings",
			a:     "+2348031234567",
			b:     "+2348031234567",
			match: true,
		},
		{
			name:  "shared nine digit tail with prefix drift",
			a:     "8031234567",
			b:     "+2348031234567",
			match: true,
		},
		{
			name:  "only last four digits shared",
			a:     "+2348031114567",
			b:     "+2347065554567",
			match: false,
		},
		{
			name:  "completely different numbers",
			a:     "08031234567",
			b:     "07011111111",
			match: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := m.Match(tt.a, tt.b)
			assert.Equal(t, tt.match, res.Match)
			assert.Equal(t, NormalizeWith(tt.a, "234"), res.Normalized)

			// The relation is symmetric even though it is not transitive.
			assert.Equal(t, tt.match, m.Matches(tt.b, tt.a))
		})
	}
}

func TestMatcherConfigurableTails(t *testing.T) {
	// With only the full nine-digit tail enabled, a six-digit coincidence no
	// longer matches.
	strict := NewMatcher(Options{TailLengths: []int{9}})
	loose := NewMatcher(Options{TailLengths: []int{6}})

	a, b := "+2348111234567", "+2347051234567" // share last 6, differ in last 9

	assert.False(t, strict.Matches(a, b))
	assert.True(t, loose.Matches(a, b))
}

func TestMatcherZeroOptionsFallBackToDefaults(t *testing.T) {
	m := NewMatcher(Options{})
	opts := m.Options()
	require.Equal(t, "234", opts.CountryCode)
	require.Equal(t, []int{6, 8, 9}, opts.TailLengths)
	require.InDelta(t, 0.90, opts.SimilarityThreshold, 1e-9)
}

func TestLooksDialable(t *testing.T) {
	assert.True(t, LooksDialable("08031234567"))
	assert.True(t, LooksDialable("123-45 67"))
	assert.False(t, LooksDialable("12345"))
	assert.False(t, LooksDialable(""))
	assert.False(t, LooksDialable("no digits here"))
}
