package digest

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// NormalizeTitle lowercases, trims and collapses internal whitespace runs to
// a single space.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// Similarity scores two titles on a 0..100 scale using token-set matching,
// which is insensitive to word order and repeated tokens. The score is
// symmetric and identical normalized titles always score 100, including two
// empty ones.
func Similarity(a, b string) int {
	na := NormalizeTitle(a)
	nb := NormalizeTitle(b)
	if na == nb {
		return 100
	}
	return fuzzy.TokenSetRatio(na, nb)
}
