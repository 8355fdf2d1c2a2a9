// Package merge unions multi-valued contact fields. Its dedup is exact-match
// over normalized values, which is correct for values originating from a
// single capture; cross-source phone identity belongs to internal/phone's
// matcher, not here.
package merge

import (
	"strings"

	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/models"
)

// NormalizeFunc reshapes one value before exact-match deduplication.
// Returning "" drops the value.
type NormalizeFunc func(string) string

// Name trims surrounding whitespace; case stays significant.
func Name(s string) string { return strings.TrimSpace(s) }

// Email trims and lowercases; addresses compare case-insensitively.
func Email(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Identity keeps the value as-is; only empty strings are dropped. Used
// where the union must preserve the stored form byte-for-byte.
func Identity(s string) string { return s }

// Phone keeps only digits and "+". A light in-place cleanup for collapsing
// one contact's own list, deliberately weaker than phone.Normalize: no
// country-code substitution happens here.
func Phone(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Values normalizes each input, drops values that normalize to empty, and
// deduplicates by exact equality of the normalized form. First occurrence
// wins and insertion order is preserved.
func Values(in []string, normalize NormalizeFunc) []string {
	if len(in) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		n := normalize(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// One is the single-value form used by sources that hand over one field at
// a time.
func One(v string, normalize NormalizeFunc) []string {
	return Values([]string{v}, normalize)
}

// Group merges a duplicate group into one contact. The first member is the
// base: its id, name, and scalar fields are taken as-is. Emails union
// case-insensitively; phones union as raw strings, untouched: two entries
// differing only in formatting both survive.
//
// Phones intentionally do not re-run the fuzzy matcher here. Detection found
// the members via digit similarity; the merge keeps each member's original
// formatting even when two entries denote the same subscriber, so nothing a
// user typed is silently discarded.
func Group(members []models.Contact) models.MergedContact {
	if len(members) == 0 {
		return models.MergedContact{}
	}

	base := members[0]
	var phones, emails []string
	for _, m := range members {
		phones = append(phones, m.Phones...)
		emails = append(emails, m.Emails...)
	}

	return models.MergedContact{
		Base:   base,
		Name:   base.Name,
		Phones: Values(phones, Identity),
		Emails: Values(emails, Email),
	}
}
