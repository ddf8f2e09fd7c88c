package booking

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics so "Pádel" matches "padel".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// ContainsFold reports whether needle occurs in any of the haystacks, ignoring
// case and accents. An empty needle matches everything.
func ContainsFold(needle string, haystacks ...string) bool {
	n := Fold(strings.TrimSpace(needle))
	if n == "" {
		return true
	}
	for _, h := range haystacks {
		if strings.Contains(Fold(h), n) {
			return true
		}
	}
	return false
}
