package phone

// Similarity scores how alike two phone numbers are on a 0..1 scale using
// edit distance over their digit strings. Unlike the matcher it does no
// country-code substitution: the duplicate grouper wants formatting drift
// and prefix drift to cost edits, so only non-digits are stripped.
//
// An empty digit string on either side scores 0; a degenerate input must
// never group with everything.
func Similarity(a, b string) float64 {
	da := digitsOnly(a)
	db := digitsOnly(b)
	if da == "" || db == "" {
		return 0
	}

	maxLen := len(da)
	if len(db) > maxLen {
		maxLen = len(db)
	}
	dist := levenshtein(da, db)
	return float64(maxLen-dist) / float64(maxLen)
}

// levenshtein computes unit-cost edit distance with a single working column
// instead of the full matrix.
func levenshtein(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	column := make([]int, len(s1)+1)
	for i := 1; i <= len(s1); i++ {
		column[i] = i
	}

	for x := 1; x <= len(s2); x++ {
		column[0] = x
		lastDiag := x - 1
		for y := 1; y <= len(s1); y++ {
			oldDiag := column[y]
			cost := 0
			if s1[y-1] != s2[x-1] {
				cost = 1
			}
			column[y] = min3(column[y]+1, column[y-1]+1, lastDiag+cost)
			lastDiag = oldDiag
		}
	}
	return column[len(s1)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
