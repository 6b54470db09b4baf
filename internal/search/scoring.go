package search

import "strings"

// correctLength rescores a base fuzzy similarity s0 for the (query,
// candidate) pair using length ratio, phrase-vs-word shape, and
// prefix/first-word bonuses, so a long phrase match isn't outranked by a
// short fragment that merely happens to score well on raw edit distance.
// q and c must already be normalized. This is the only length heuristic
// the fuzzy matcher applies.
func correctLength(s0 float64, q, c string) float64 {
	if s0 >= 0.99 {
		return s0
	}

	lq := len([]rune(q))
	lc := len([]rune(c))
	if lq == 0 || lc == 0 {
		if lq == 0 && lc == 0 {
			return 1.0
		}
		return 0.0
	}

	maxLen := lq
	if lc > maxLen {
		maxLen = lc
	}
	minLen := lq
	if lc < minLen {
		minLen = lc
	}
	rho := float64(minLen) / float64(maxLen)

	isPrefix := strings.HasPrefix(c, q)
	isQueryPhrase := strings.Contains(q, " ")
	isCandidatePhrase := strings.Contains(c, " ")
	firstWordMatch := !isQueryPhrase && isCandidatePhrase && q == firstWord(c)

	var p float64
	switch {
	case isQueryPhrase && !isCandidatePhrase:
		p = 0.7
	case !isQueryPhrase && isCandidatePhrase && (isPrefix || firstWordMatch):
		p = 1.2
	case !isQueryPhrase && isCandidatePhrase:
		p = 0.95
	case isQueryPhrase && isCandidatePhrase:
		if rho > 0.6 {
			p = 1.1
		} else {
			p = 1.0
		}
	default: // both words
		p = 1.0
	}

	s := 1.0
	switch {
	case lc <= 3 && lq > 6:
		s = 0.5
	case float64(lc) < 0.5*float64(lq):
		s = 0.75
	}

	b1 := 1.0
	if isPrefix {
		b1 = 1.3
	}
	b2 := 1.0
	if firstWordMatch {
		b2 = 1.2
	}

	corrected := s0 * rho * p * s * b1 * b2
	return clamp01(corrected)
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
