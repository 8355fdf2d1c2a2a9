// Package phone implements the phone-number identity rules the sync engine
// is built on: canonical normalization, fuzzy matching, deduplication, and
// digit-string similarity.
//
// Two normalization policies live here and must stay separate:
//
//   - Normalize produces the canonical +<countrycode><digits> form used for
//     identity comparison.
//   - RemoveCountryCode produces a local dialing format for display (vCard
//     export). It is lossy and must never feed the matcher.
package phone

// Options carries the locale tuning for normalization and matching. The
// defaults encode the Nigerian numbering plan the mobile app ships with;
// none of the values are assumed correct for other plans, so deployments
// override them through configuration.
type Options struct {
	// CountryCode is the default calling code, digits only (e.g. "234").
	// Substituted for a leading local "0" during normalization.
	CountryCode string

	// TailLengths are the suffix lengths the matcher tries, in order, when
	// normalized forms are not identical. Any single matching tail suffices.
	TailLengths []int

	// SimilarityThreshold is the inclusive bound at or above which two digit
	// strings are considered similar by the duplicate grouper.
	SimilarityThreshold float64
}

// DefaultOptions returns the shipped tuning.
func DefaultOptions() Options {
	return Options{
		CountryCode:         "234",
		TailLengths:         []int{6, 8, 9},
		SimilarityThreshold: 0.90,
	}
}

// MinDialableDigits is the minimum digit count below which tail matching is
// too permissive to trust. Callers feeding untrusted input (file imports)
// should screen with LooksDialable first.
const MinDialableDigits = 7
