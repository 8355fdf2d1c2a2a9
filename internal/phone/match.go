package phone

// MatchResult reports a pairwise comparison. Normalized is the canonical
// form of the first argument so callers can persist it without normalizing
// again.
type MatchResult struct {
	Normalized string
	Match      bool
}

// Matcher decides whether two phone numbers denote the same subscriber.
// Exact equality of normalized forms is too strict across sources (country
// code present on one side only, leading-zero drift), so non-identical forms
// fall back to comparing digit tails at several lengths. Tail matching is an
// approximate relation, not an equivalence: it is not transitive, and
// results must be treated pairwise.
type Matcher struct {
	opts Options
}

// NewMatcher builds a Matcher. Zero-value option fields fall back to the
// defaults so partially configured deployments stay safe.
func NewMatcher(opts Options) *Matcher {
	def := DefaultOptions()
	if opts.CountryCode == "" {
		opts.CountryCode = def.CountryCode
	}
	if len(opts.TailLengths) == 0 {
		opts.TailLengths = def.TailLengths
	}
	if opts.SimilarityThreshold == 0 {
		opts.SimilarityThreshold = def.SimilarityThreshold
	}
	return &Matcher{opts: opts}
}

// Options returns the matcher's effective tuning.
func (m *Matcher) Options() Options { return m.opts }

// Match compares two raw phone numbers.
//
// Numbers shorter than a tail length compare over their full length, which
// is deliberately permissive; screen untrusted short strings with
// LooksDialable before calling.
func (m *Matcher) Match(a, b string) MatchResult {
	na := NormalizeWith(a, m.opts.CountryCode)
	nb := NormalizeWith(b, m.opts.CountryCode)
	if na == nb {
		return MatchResult{Normalized: na, Match: true}
	}

	da := digitsOnly(na)
	db := digitsOnly(nb)
	for _, n := range m.opts.TailLengths {
		if tail(da, n) == tail(db, n) {
			return MatchResult{Normalized: na, Match: true}
		}
	}
	return MatchResult{Normalized: na, Match: false}
}

// Matches is Match without the normalized form, for call sites that only
// branch on the boolean.
func (m *Matcher) Matches(a, b string) bool {
	return m.Match(a, b).Match
}

// tail returns the last n characters, or the whole string when shorter.
func tail(s string, n int) string {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
