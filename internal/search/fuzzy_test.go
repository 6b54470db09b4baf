package search

import (
	"context"
	"testing"

	"github.com/standardbeagle/lexicore/internal/corpus"
	"github.com/standardbeagle/lexicore/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCorpus(t *testing.T, words []string) *corpus.Corpus {
	t.Helper()
	s := corpus.NewStore()
	c, err := s.Create("test", words, types.LanguageEnglish, types.CorpusLexicon)
	require.NoError(t, err)
	return c
}

func TestFuzzy_SingleCharTypoFindsWord(t *testing.T) {
	c := mustCorpus(t, []string{"apple", "banana", "cherry", "peach"})

	results := Fuzzy(context.Background(), "aple", c, 10, 0.6)
	require.NotEmpty(t, results)

	top := results[0]
	assert.Equal(t, "apple", top.Normalized)
	assert.Equal(t, types.MethodFuzzy, top.Method)
	assert.GreaterOrEqual(t, top.Score, 0.6)
	assert.LessOrEqual(t, top.Score, 1.0)

	for i, r := range results {
		if i >= 3 {
			break
		}
		assert.NotEqual(t, "peach", r.Normalized, "peach must not rank in the top 3 for 'aple'")
	}
}

func TestFuzzy_PhraseBeatsShortFragments(t *testing.T) {
	c := mustCorpus(t, []string{"bo", "bob", "bon vivant", "vivid"})

	results := Fuzzy(context.Background(), "bob vivnt", c, 10, 0.3)
	require.NotEmpty(t, results)
	assert.Equal(t, "bon vivant", results[0].Normalized)

	for _, r := range results[1:] {
		assert.Less(t, r.Score, results[0].Score,
			"short fragment %q must not outrank the phrase match", r.Normalized)
	}
}

func TestFuzzy_EmptyQueryIsEmptyResult(t *testing.T) {
	c := mustCorpus(t, []string{"apple"})
	assert.Empty(t, Fuzzy(context.Background(), "", c, 10, 0.1))
	assert.Empty(t, Fuzzy(context.Background(), "   ", c, 10, 0.1))
}

func TestFuzzy_ResultsSortedByScoreDescending(t *testing.T) {
	c := mustCorpus(t, []string{"apple", "apply", "ample", "appel"})

	results := Fuzzy(context.Background(), "aple", c, 10, 0.1)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestFuzzy_AnagramFoundViaSignatureBucket(t *testing.T) {
	// "silent" and "listen" share a signature bucket, so an anagram query
	// is a candidate even though its edit distance is large.
	c := mustCorpus(t, []string{"listen", "orange"})

	results := Fuzzy(context.Background(), "silent", c, 10, 0.0)
	found := false
	for _, r := range results {
		if r.Normalized == "listen" {
			found = true
		}
	}
	assert.True(t, found, "anagram candidate must be reachable through its signature bucket")
}

func TestFuzzy_NearSignatureBucketBeyondLengthWindow(t *testing.T) {
	// "a b c d" is 7 runes with its spaces, outside the +/-2 length window
	// of the 4-rune query, but its space-free signature matches exactly, so
	// the signature pass must still surface it.
	c := mustCorpus(t, []string{"a b c d", "zzzz"})

	results := Fuzzy(context.Background(), "abcd", c, 10, 0.0)
	found := false
	for _, r := range results {
		if r.Normalized == "a b c d" {
			found = true
		}
	}
	assert.True(t, found, "phrase sharing the query's signature must be a candidate despite its length")
}

func TestFuzzy_MinScoreFilters(t *testing.T) {
	c := mustCorpus(t, []string{"apple", "zebra"})

	results := Fuzzy(context.Background(), "aple", c, 10, 0.99)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.99)
	}
}

func TestFuzzy_ReturnsOriginalSurface(t *testing.T) {
	c := mustCorpus(t, []string{"Apple"})

	results := Fuzzy(context.Background(), "aple", c, 10, 0.1)
	require.NotEmpty(t, results)
	assert.Equal(t, "Apple", results[0].Word)
	assert.Equal(t, "apple", results[0].Normalized)
}

func TestFuzzy_RespectsLimit(t *testing.T) {
	c := mustCorpus(t, []string{"cat", "cab", "car", "can", "cap"})

	results := Fuzzy(context.Background(), "caz", c, 2, 0.0)
	assert.LessOrEqual(t, len(results), 2)
}
