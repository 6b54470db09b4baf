package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrectLength_NearPerfectScoreUnchanged(t *testing.T) {
	assert.Equal(t, 0.99, correctLength(0.99, "apple", "a"))
	assert.Equal(t, 1.0, correctLength(1.0, "apple", "applesauce factory"))
}

func TestCorrectLength_EmptyEdgeCases(t *testing.T) {
	assert.Equal(t, 1.0, correctLength(0.5, "", ""))
	assert.Equal(t, 0.0, correctLength(0.5, "", "apple"))
	assert.Equal(t, 0.0, correctLength(0.5, "apple", ""))
}

func TestCorrectLength_MatchesFormulaExactly(t *testing.T) {
	tests := []struct {
		name string
		s0   float64
		q, c string
		want float64
	}{
		{
			// both words, same length: rho=1, every factor 1.
			name: "equal length words",
			s0:   0.8, q: "aple", c: "able",
			want: 0.8,
		},
		{
			// query word, candidate phrase, prefix + first-word match:
			// rho=3/10, P=1.2, S=1, B1=1.3, B2=1.2.
			name: "word prefixing phrase",
			s0:   0.6, q: "bon", c: "bon vivant",
			want: 0.6 * (3.0 / 10.0) * 1.2 * 1.3 * 1.2,
		},
		{
			// query phrase, candidate word: rho=5/10, P=0.7, S=1.
			name: "phrase query against word",
			s0:   0.9, q: "bon vivant", c: "vivid",
			want: 0.9 * (5.0 / 10.0) * 0.7,
		},
		{
			// candidate of 3 runes or fewer against a query longer than 6:
			// rho=2/7, S=0.5.
			name: "short fragment penalty",
			s0:   0.9, q: "baroque", c: "bo",
			want: 0.9 * (2.0 / 7.0) * 0.5,
		},
		{
			// candidate longer than 3 runes but under half the query length:
			// rho=4/12, S=0.75.
			name: "half length penalty",
			s0:   0.9, q: "catastrophes", c: "cast",
			want: 0.9 * (4.0 / 12.0) * 0.75,
		},
		{
			// both phrases with length ratio above 0.6: rho=9/10, P=1.1.
			name: "both phrases similar length",
			s0:   0.8, q: "bob vivnt", c: "bon vivant",
			want: 0.8 * (9.0 / 10.0) * 1.1,
		},
		{
			// both phrases with length ratio at or below 0.6: P=1.0.
			name: "both phrases dissimilar length",
			s0:   0.8, q: "a b", c: "a very long phrase",
			want: 0.8 * (3.0 / 18.0),
		},
		{
			// word candidate prefixed by word query: rho=3/7, B1=1.3.
			name: "word prefix bonus",
			s0:   0.7, q: "cat", c: "catalog",
			want: 0.7 * (3.0 / 7.0) * 1.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, correctLength(tt.s0, tt.q, tt.c), 1e-12)
		})
	}
}

func TestCorrectLength_ClampsToUnitInterval(t *testing.T) {
	// A prefix + first-word match can push the raw product past 1.0; the
	// corrected score must be clamped.
	got := correctLength(0.98, "bonvivant", "bonvivant x")
	assert.LessOrEqual(t, got, 1.0)
	assert.GreaterOrEqual(t, got, 0.0)
}

func TestCorrectLength_PhraseOutranksFragment(t *testing.T) {
	// The correction is the sole authority on short-fragment vs phrase
	// ordering: with identical base scores, a near-length phrase candidate
	// must end up above a 3-letter fragment.
	phrase := correctLength(0.85, "bob vivnt", "bon vivant")
	fragment := correctLength(0.85, "bob vivnt", "bob")
	assert.Greater(t, phrase, fragment)
}
