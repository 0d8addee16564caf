// Package fuzzy provides edit-distance matching for go-opttab diagnostics.
// When a token matches no descriptor, the diagnostics layer uses it to
// attach a "did you mean" spelling suggestion to the UnknownOption record.
package fuzzy

import (
	"sort"
	"strings"
)

// Matcher finds close option spellings within a bounded edit distance.
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a matcher with the given maximum edit distance.
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2, // don't suggest for very short tokens
	}
}

// Match is a candidate spelling with its distance and quality score.
type Match struct {
	Spelling string
	Distance int
	Score    float64 // 0.0 to 1.0, higher is better
}

// BestSpelling returns the closest declared spelling to the input token,
// or "" when nothing is within range. Spellings are compared without their
// option prefix so "--verbsoe" still finds "-verbose" style tables.
func (m *Matcher) BestSpelling(input string, spellings []string) string {
	matches := m.Rank(input, spellings)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Spelling
}

// Rank returns all spellings within the distance bound, best first.
func (m *Matcher) Rank(input string, spellings []string) []Match {
	stripped := stripPrefix(input)
	if len(stripped) < m.minLength {
		return nil
	}
	stripped = strings.ToLower(stripped)

	var matches []Match
	for _, spelling := range spellings {
		candidate := strings.ToLower(stripPrefix(spelling))
		if stripped == candidate {
			// Exact after prefix strip: the caller mistyped only the
			// prefix, still worth suggesting at distance zero.
			matches = append(matches, Match{Spelling: spelling, Distance: 0, Score: 1.0})
			continue
		}

		distance := m.distance(stripped, candidate)
		if distance <= m.maxDistance {
			matches = append(matches, Match{
				Spelling: spelling,
				Distance: distance,
				Score:    m.score(stripped, candidate, distance),
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// stripPrefix removes a leading option prefix ("-", "--", "/") so distances
// measure the name, not the sigil.
func stripPrefix(s string) string {
	switch {
	case strings.HasPrefix(s, "--"):
		return s[2:]
	case strings.HasPrefix(s, "-"):
		return s[1:]
	case strings.HasPrefix(s, "/"):
		return s[1:]
	}
	return s
}

// score computes match quality in [0,1] from edit distance plus prefix and
// length affinity.
func (m *Matcher) score(input, candidate string, distance int) float64 {
	maxLen := max(len(input), len(candidate))
	if maxLen == 0 {
		return 1.0
	}

	editScore := 1.0 - float64(distance)/float64(maxLen)

	prefixBonus := 0.0
	if n := commonPrefixLength(input, candidate); n > 0 {
		prefixBonus = float64(n) / float64(min(len(input), len(candidate))) * 0.3
	}

	lengthDiff := abs(len(input) - len(candidate))
	lengthBonus := (1.0 - float64(lengthDiff)/float64(maxLen)) * 0.2

	score := editScore + prefixBonus + lengthBonus
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// distance is Levenshtein with two-row storage and early termination once
// the running minimum exceeds the bound.
func (m *Matcher) distance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if abs(len(a)-len(b)) > m.maxDistance {
		return m.maxDistance + 1
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for i := 1; i <= len(b); i++ {
		curr[0] = i
		rowMin := i

		for j := 1; j <= len(a); j++ {
			cost := 0
			if a[j-1] != b[i-1] {
				cost = 1
			}
			curr[j] = minThree(
				curr[j-1]+1,  // insertion
				prev[j]+1,    // deletion
				prev[j-1]+cost, // substitution
			)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}

		if rowMin > m.maxDistance {
			return m.maxDistance + 1
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

func commonPrefixLength(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func minThree(a, b, c int) int {
	return min(a, min(b, c))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// BestSpelling finds the closest spelling using a throwaway matcher with the
// given distance bound. Convenience for the diagnostics layer.
func BestSpelling(input string, spellings []string, maxDistance int) string {
	return NewMatcher(maxDistance).BestSpelling(input, spellings)
}
