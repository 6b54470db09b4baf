package search

import (
	"github.com/standardbeagle/lexicore/internal/corpus"
	"github.com/standardbeagle/lexicore/internal/normalize"
	"github.com/standardbeagle/lexicore/internal/types"
)

// Exact returns a single perfect match if normalized query is present in
// c's vocabulary, or no results otherwise.
func Exact(query string, c *corpus.Corpus) []types.SearchResult {
	n := normalize.Normalize(query)
	if n == "" {
		return nil
	}
	if _, ok := c.VocabularyToIndex[n]; !ok {
		return nil
	}

	word := n
	if originals := c.NormalizedToOriginal[n]; len(originals) > 0 {
		word = originals[0]
	}

	return []types.SearchResult{{
		Word:       word,
		Normalized: n,
		Score:      1.0,
		Method:     types.MethodExact,
		Language:   c.Language,
		Distance:   0,
	}}
}
