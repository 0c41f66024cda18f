// Package fuzzy scores how alike two label names are and picks the closest
// candidate above a fixed threshold.
package fuzzy

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// Threshold is the score a candidate must strictly exceed to count as a match.
const Threshold = 0.7

// Scorer returns a similarity score in [0.0, 1.0] for two names.
type Scorer func(a, b string) float64

// Similarity compares a and b case-insensitively. Equal names, including two
// empty names, score 1.0. Any other pair scores 1 - distance/maxLen where the
// length is counted in runes.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1.0
	}

	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))

	// (max - d) / max is the same value as 1 - d/max but rounds once,
	// so 7/10 compares equal to the 0.7 literal.
	return float64(maxLen-Distance(a, b)) / float64(maxLen)
}

// Distance returns the Levenshtein edit distance between a and b over runes,
// with unit costs for insertion, deletion and substitution.
func Distance(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}

// Match is the outcome of BestMatch.
type Match struct {
	Name  string
	Score float64
}

// BestMatch returns the candidate most similar to target. Candidates are
// visited in ascending order and a later candidate only replaces the current
// best when it scores strictly higher, so ties resolve to the lowest name.
// ok is false when no candidate scores above Threshold.
func BestMatch(target string, candidates []string, score Scorer) (Match, bool) {
	if score == nil {
		score = Similarity
	}

	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Strings(sorted)

	var best Match
	found := false
	for _, candidate := range sorted {
		s := score(candidate, target)
		if !found || s > best.Score {
			best = Match{Name: candidate, Score: s}
			found = true
		}
	}

	if !found || best.Score <= Threshold {
		return Match{}, false
	}
	return best, true
}
