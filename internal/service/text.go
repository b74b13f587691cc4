package service

import (
	"strings"
	"unicode/utf8"
)

// normalize lower-cases s, collapses whitespace runs to a single space and trims it.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// hasNumber reports whether s contains an ASCII digit.
func hasNumber(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Split(normalize(s), " ") {
		if tok == "" {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

// tokenJaccard is |A∩B| / |A∪B| over the word sets of a and b.
// It is 0 when either side has no words.
func tokenJaccard(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inter := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			inter++
		}
	}

	union := len(ta) + len(tb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// lengthRatio is min(len)/max(len) in runes.
func lengthRatio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	lo, hi := min(la, lb), max(la, lb)
	if hi == 0 {
		return 0
	}
	return float64(lo) / float64(hi)
}
