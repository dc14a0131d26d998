package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	// containmentBase is the floor score when one string is contained in the
	// other; the score rises toward containmentBase+containmentSpan as the
	// two strings approach equal length.
	containmentBase = 80.0
	containmentSpan = 10.0

	// tokenMatchThreshold is the per-token similarity required for two
	// tokens to count as the same word in the token-overlap pass.
	tokenMatchThreshold = 85.0
)

// Score returns a normalized similarity between two strings in [0, 100].
//
// Inputs are expected to be in canonical form (see Normalizer); the function
// itself does not normalize. It returns the maximum of:
//
//   - edit-distance similarity: (maxLen − distance) / maxLen × 100
//   - containment: one string found inside the other scores 80–90 depending
//     on the length ratio, rewarding a short name found in a long
//     communication field
//   - the same two checks against the reversed-word-order form of the second
//     string, handling "Nom Prénom" vs "Prénom Nom"
//   - token overlap: shared words of four or more characters score by the
//     fraction of characters they cover, so "calypso diving" and
//     "plongee calypso" are recognized as related phrases
//
// Empty input carries no information: if either string is empty (both
// included) the score is 0.
func Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	if a == b {
		return 100
	}

	best := editSimilarity(a, b)

	if c := containmentScore(a, b); c > best {
		best = c
	}

	reversed := reverseTokens(b)
	if reversed != b {
		if s := editSimilarity(a, reversed); s > best {
			best = s
		}
		if c := containmentScore(a, reversed); c > best {
			best = c
		}
	}

	if s := tokenOverlapScore(a, b); s > best {
		best = s
	}

	return best
}

// editSimilarity maps Levenshtein distance to [0, 100].
func editSimilarity(a, b string) float64 {
	lenA := utf8.RuneCountInString(a)
	lenB := utf8.RuneCountInString(b)

	maxLen := lenA
	if lenB > maxLen {
		maxLen = lenB
	}
	if maxLen == 0 {
		return 0
	}

	distance := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-distance) / float64(maxLen) * 100
}

// containmentScore returns a fixed high score scaled by the length ratio when
// one string contains the other, or 0 when neither does. Substring matches
// shorter than three characters are ignored as noise.
func containmentScore(a, b string) float64 {
	shorter, longer := a, b
	if utf8.RuneCountInString(shorter) > utf8.RuneCountInString(longer) {
		shorter, longer = longer, shorter
	}

	shortLen := utf8.RuneCountInString(shorter)
	if shortLen < 3 || !strings.Contains(longer, shorter) {
		return 0
	}

	ratio := float64(shortLen) / float64(utf8.RuneCountInString(longer))
	return containmentBase + containmentSpan*ratio
}

// reverseTokens returns the string with its whitespace-separated tokens in
// reverse order.
func reverseTokens(s string) string {
	tokens := strings.Fields(s)
	if len(tokens) < 2 {
		return s
	}

	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
	return strings.Join(tokens, " ")
}

// tokenOverlapScore scores two phrases by the characters covered by shared
// tokens. Each token may match at most once; tokens shorter than four runes
// are skipped so that articles and initials do not inflate the score.
func tokenOverlapScore(a, b string) float64 {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)

	totalA, totalB := 0, 0
	for _, t := range tokensA {
		totalA += utf8.RuneCountInString(t)
	}
	for _, t := range tokensB {
		totalB += utf8.RuneCountInString(t)
	}
	if totalA == 0 || totalB == 0 {
		return 0
	}

	usedB := make([]bool, len(tokensB))
	matchedA, matchedB := 0, 0

	for _, ta := range tokensA {
		if utf8.RuneCountInString(ta) < 4 {
			continue
		}

		bestIdx := -1
		bestScore := 0.0
		for i, tb := range tokensB {
			if usedB[i] || utf8.RuneCountInString(tb) < 4 {
				continue
			}
			if s := editSimilarity(ta, tb); s >= tokenMatchThreshold && s > bestScore {
				bestScore = s
				bestIdx = i
			}
		}

		if bestIdx >= 0 {
			usedB[bestIdx] = true
			matchedA += utf8.RuneCountInString(ta)
			matchedB += utf8.RuneCountInString(tokensB[bestIdx])
		}
	}

	if matchedA == 0 {
		return 0
	}

	return float64(matchedA+matchedB) / float64(totalA+totalB) * 100
}
