package phone

// Dedupe reduces a list of phone numbers to a survivor set with no two
// elements the matcher considers the same subscriber. Each input is
// normalized and tested against every already-accepted number; the
// earlier-seen number wins and order is preserved.
//
// Quadratic in the accepted set, which is fine for per-contact phone lists
// (a handful of entries). Not intended for large identifier collections.
func (m *Matcher) Dedupe(phones []string) []string {
	if len(phones) == 0 {
		return nil
	}

	accepted := make([]string, 0, len(phones))
	for _, p := range phones {
		n := NormalizeWith(p, m.opts.CountryCode)
		dup := false
		for _, a := range accepted {
			if m.Matches(a, n) {
				dup = true
				break
			}
		}
		if !dup {
			accepted = append(accepted, n)
		}
	}
	return accepted
}

// DedupeOne is the single-value convenience form used when a source hands
// over one number at a time.
func (m *Matcher) DedupeOne(phone string) []string {
	return m.Dedupe([]string{phone})
}
