package matching

import (
	"strings"
	"unicode"
)

var corporateSuffixes = map[string]bool{
	"inc":         true,
	"llc":         true,
	"corp":        true,
	"corporation": true,
	"ltd":         true,
	"limited":     true,
	"co":          true,
}

// Normalize canonicalizes a merchant or vendor name for comparison: lower
// case, only [a-z0-9] and single spaces, trailing corporate suffixes removed.
// A suffix is only stripped when it follows another word, so "Co" stays "co".
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	for len(words) > 1 && corporateSuffixes[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// Similar reports whether two names normalize to the same value or one
// normalized name contains the other.
func Similar(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return true
	}
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}
