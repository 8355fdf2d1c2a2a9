package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupe(t *testing.T) {
	m := NewMatcher(DefaultOptions())

	t.Run("collapses forms of the same subscriber", func(t *testing.T) {
		got := m.Dedupe([]string{
			"08031234567",
			"+2348031234567", // exact after normalization
			"8031234567",     // nine digit tail
			"07011111111",    // different subscriber
		})
		assert.Equal(t, []string{"+2348031234567", "+2347011111111"}, got)
	})

	t.Run("earlier seen number wins", func(t *testing.T) {
		got := m.Dedupe([]string{"+2348031234567", "08031234567"})
		assert.Equal(t, []string{"+2348031234567"}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, m.Dedupe(nil))
		assert.Nil(t, m.Dedupe([]string{}))
	})

	t.Run("singleton", func(t *testing.T) {
		assert.Equal(t, []string{"+2348031234567"}, m.DedupeOne("08031234567"))
	})
}

// Dedupe applied to its own output must be a fixed point.
func TestDedupeIdempotent(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	input := []string{"08031234567", "+2348031234567", "07011111111", "0802 222 3344"}

	once := m.Dedupe(input)
	twice := m.Dedupe(once)
	assert.Equal(t, once, twice)
}

// Every survivor is the normalized form of some input, and no two survivors
// match each other.
func TestDedupeSurvivorProperties(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	input := []string{"08031234567", "8031234567", "07011111111", "0802-222-3344", "+2347011111111"}

	normalizedInputs := make(map[string]bool, len(input))
	for _, p := range input {
		normalizedInputs[Normalize(p)] = true
	}

	out := m.Dedupe(input)
	require.NotEmpty(t, out)

	for i, a := range out {
		assert.True(t, normalizedInputs[a], "survivor %q not derived from input", a)
		for _, b := range out[i+1:] {
			assert.False(t, m.Matches(a, b), "survivors %q and %q still match", a, b)
		}
	}
}
