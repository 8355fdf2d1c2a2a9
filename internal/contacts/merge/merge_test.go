package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/models"
	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
)

func TestValues(t *testing.T) {
	t.Run("emails collapse case and whitespace variants", func(t *testing.T) {
		got := Values([]string{"A@x.com", "a@x.com", " a@x.com "}, Email)
		assert.Equal(t, []string{"a@x.com"}, got)
	})

	t.Run("names keep case, drop empties", func(t *testing.T) {
		got := Values([]string{" Ada ", "ada", "", "  "}, Name)
		assert.Equal(t, []string{"Ada", "ada"}, got)
	})

	t.Run("phones keep digits and plus only", func(t *testing.T) {
		got := Values([]string{"+234 803-123-4567", "+2348031234567", "ext. 42"}, Phone)
		// Both renderings of the first number clean to the same string; the
		// extension keeps its digits. No fuzzy matching happens here.
		assert.Equal(t, []string{"+2348031234567", "42"}, got)
	})

	t.Run("nil and empty input", func(t *testing.T) {
		assert.Nil(t, Values(nil, Name))
		assert.Nil(t, Values([]string{}, Name))
	})

	t.Run("single value helper", func(t *testing.T) {
		assert.Equal(t, []string{"a@x.com"}, One(" A@X.com ", Email))
	})
}

func TestPhoneCleanup(t *testing.T) {
	assert.Equal(t, "+2348031234567", Phone("+234 (803) 123-4567"))
	assert.Equal(t, "", Phone("no digits"))
}

func TestGroup(t *testing.T) {
	a := models.Contact{
		ID:     id.NewContactID(),
		Name:   "A",
		Phones: []string{"08030000001"},
		Emails: []string{"a@x.com"},
	}
	b := models.Contact{
		ID:     id.NewContactID(),
		Name:   "B",
		Phones: []string{"08030000002"},
		Emails: []string{"B@x.com"},
	}

	merged := Group([]models.Contact{a, b})

	// Base scalars come from the first member.
	assert.Equal(t, a.ID, merged.Base.ID)
	assert.Equal(t, "A", merged.Name)

	// Emails union case-insensitively; phones union as raw strings, both
	// retained even though the grouper considered them similar.
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, merged.Emails)
	assert.Equal(t, []string{"08030000001", "08030000002"}, merged.Phones)
}

func TestGroupEmpty(t *testing.T) {
	merged := Group(nil)
	assert.Empty(t, merged.Phones)
	assert.Empty(t, merged.Emails)
}

func TestGroupPhoneUnionIsRaw(t *testing.T) {
	a := models.Contact{Name: "A", Phones: []string{" 08030000001"}}
	b := models.Contact{Name: "A dup", Phones: []string{"08030000001"}}

	merged := Group([]models.Contact{a, b})

	// The union compares stored strings byte-for-byte: a stray-space variant
	// is a distinct value and both survive, exactly as stored.
	assert.Equal(t, []string{" 08030000001", "08030000001"}, merged.Phones)
}

func TestGroupDoesNotRededupeEquivalentFormats(t *testing.T) {
	a := models.Contact{Name: "A", Phones: []string{"08030000001"}}
	b := models.Contact{Name: "A dup", Phones: []string{"+2348030000001"}}

	merged := Group([]models.Contact{a, b})

	// Visually distinct renderings of the same subscriber both survive the
	// merge; only detection uses similarity.
	assert.Equal(t, []string{"08030000001", "+2348030000001"}, merged.Phones)
}
