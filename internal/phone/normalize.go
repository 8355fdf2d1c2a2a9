package phone

import "strings"

// Normalize canonicalizes a phone number using the default country code.
func Normalize(raw string) string {
	return NormalizeWith(raw, DefaultOptions().CountryCode)
}

// NormalizeWith canonicalizes a phone number into +<countrycode><digits>
// form. It reshapes only and never validates: the function is total and
// idempotent, so values can be re-normalized freely at any boundary.
//
// Rules, applied to the input with "-", "+" and whitespace stripped:
//
//	leading "0"            -> replaced by the country code, "+" prefixed
//	leading country code   -> "+" prefixed
//	anything else          -> "+" prefixed as-is
//
// A second application hits the second or third branch (the stripped form
// then starts with the country code or some other non-zero digit) and
// re-prefixes the "+" it just removed, which is why idempotence holds for
// all three branches.
func NormalizeWith(raw, countryCode string) string {
	stripped := stripFormatting(raw)
	switch {
	case strings.HasPrefix(stripped, "0"):
		return "+" + countryCode + stripped[1:]
	default:
		return "+" + stripped
	}
}

// RemoveCountryCode converts a phone number to local dialing format for
// display. countryCode includes the plus, e.g. "+234". Not an inverse of
// NormalizeWith: numbers under a different country code pass through with
// only the "+" removed, and everything else is returned unchanged.
func RemoveCountryCode(phone, countryCode string) string {
	switch {
	case countryCode != "" && strings.HasPrefix(phone, countryCode):
		return "0" + phone[len(countryCode):]
	case strings.HasPrefix(phone, "+"):
		return phone[1:]
	default:
		return phone
	}
}

// stripFormatting removes the separators sources commonly add: dashes, the
// plus sign, and any whitespace. Other characters are left alone so the
// matcher sees exactly what the source recorded.
func stripFormatting(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '-' || r == '+':
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// digitsOnly keeps decimal digits and drops everything else. Used by the
// similarity function and tail comparison, where even "+" must not count.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
