// Package freq implements a deterministic frequency heuristic: the
// fallback used by fuzzy ranking when a corpus supplies no frequency data
// of its own. It is a leaf package that imports none of the other
// internal packages, so both internal/corpus (which keeps a live
// WordFrequencies map) and internal/index (which builds the versioned
// TrieIndex artifact) can import it without creating a cycle.
package freq

import "strings"

const (
	base          = 1000
	floor         = 1
	lengthThresh  = 8
	penaltyPerRun = 15
)

var commonSuffixes = []string{"ing", "ed", "er", "tion", "ly", "ness", "ment"}
var commonPrefixes = []string{"un", "re", "in", "dis", "pre"}

// Default computes the heuristic frequency for a normalized word: base
// 1000, minus a monotonic penalty for length above a small threshold, plus a
// small bonus for common suffix/prefix patterns and balanced vowel ratio,
// floored at 1. Deterministic — no randomness, no corpus-wide state.
func Default(normalized string) int {
	if normalized == "" {
		return floor
	}

	score := base

	if over := len(normalized) - lengthThresh; over > 0 {
		score -= over * penaltyPerRun
	}

	for _, suf := range commonSuffixes {
		if strings.HasSuffix(normalized, suf) {
			score += 20
			break
		}
	}
	for _, pre := range commonPrefixes {
		if strings.HasPrefix(normalized, pre) {
			score += 10
			break
		}
	}

	score += vowelBalanceBonus(normalized)

	if score < floor {
		score = floor
	}
	return score
}

// vowelBalanceBonus rewards words whose vowel ratio sits near typical
// English/Romance-language prose (30-50% inclusive), a cheap proxy for
// "looks like a real word" rather than a consonant cluster or acronym.
func vowelBalanceBonus(s string) int {
	letters := 0
	vowels := 0
	for _, r := range s {
		switch r {
		case 'a', 'e', 'i', 'o', 'u':
			vowels++
			letters++
		case ' ', '-', '\'':
			// not a letter, skip
		default:
			letters++
		}
	}
	if letters == 0 {
		return 0
	}
	ratio := float64(vowels) / float64(letters)
	if ratio >= 0.30 && ratio <= 0.50 {
		return 10
	}
	return 0
}
