package tracker

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// SimilarityFunc scores how alike two strings are on a 0..100 scale.
// The tracker takes any implementation; resolution logic never depends on
// the algorithm behind it.
type SimilarityFunc func(a, b string) int

// Similarity is the default scorer: the better of an edit-distance ratio
// and a character-bigram Jaccard index, case-insensitive. The bigram side
// tolerates token reordering ("Love, Allison") that pure edit distance
// punishes hard.
func Similarity(a, b string) int {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	lev := levenshteinRatio(a, b)
	jac := bigramJaccard(a, b)
	if lev > jac {
		return lev
	}
	return jac
}

func levenshteinRatio(a, b string) int {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return (longest - dist) * 100 / longest
}

func bigramJaccard(a, b string) int {
	ba := bigrams(a)
	bb := bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	intersection := 0
	for g := range ba {
		if bb[g] {
			intersection++
		}
	}
	union := len(ba) + len(bb) - intersection
	return intersection * 100 / union
}

func bigrams(s string) map[string]bool {
	runes := []rune(s)
	grams := make(map[string]bool, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])] = true
	}
	return grams
}
