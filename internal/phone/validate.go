package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// LooksDialable reports whether a string carries enough digits for tail
// matching to be meaningful. Import boundaries screen candidate records with
// this before they reach the matcher; device contacts are trusted as-is.
func LooksDialable(raw string) bool {
	return len(digitsOnly(raw)) >= MinDialableDigits
}

// IsValidForRegion runs a strict libphonenumber validity check. This is a
// boundary filter for untrusted file imports only; identity matching never
// depends on it, since real contact books are full of numbers that fail
// strict validation yet still identify a person.
func IsValidForRegion(raw, region string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	parsed, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(parsed)
}
