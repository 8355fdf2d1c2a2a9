package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidForRegion(t *testing.T) {
	assert.True(t, IsValidForRegion("+2348031234567", ""))
	assert.True(t, IsValidForRegion("08031234567", "NG"))
	assert.False(t, IsValidForRegion("12345", "NG"))
	assert.False(t, IsValidForRegion("", "NG"))
	assert.False(t, IsValidForRegion("not a number", "NG"))
}
