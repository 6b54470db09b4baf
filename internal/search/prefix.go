package search

import (
	"sort"
	"strings"

	"github.com/standardbeagle/lexicore/internal/corpus"
	"github.com/standardbeagle/lexicore/internal/normalize"
	"github.com/standardbeagle/lexicore/internal/types"
)

// Prefix finds every vocabulary entry beginning with the normalized query
// via a binary-search range over the sorted vocabulary, scores each by
// query/candidate length ratio (capped at 1.0), and orders results by
// frequency, then alphabetically.
func Prefix(query string, c *corpus.Corpus, limit int) []types.SearchResult {
	n := normalize.Normalize(query)
	if n == "" {
		return nil
	}

	vocab := c.Vocabulary
	lo := sort.SearchStrings(vocab, n)

	var matches []string
	for i := lo; i < len(vocab) && strings.HasPrefix(vocab[i], n); i++ {
		matches = append(matches, vocab[i])
	}

	sort.Slice(matches, func(i, j int) bool {
		fi, fj := c.WordFrequencies[matches[i]], c.WordFrequencies[matches[j]]
		if fi != fj {
			return fi > fj
		}
		return matches[i] < matches[j]
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]types.SearchResult, 0, len(matches))
	for _, m := range matches {
		score := float64(len(n)) / float64(len(m))
		if score > 1.0 {
			score = 1.0
		}
		word := m
		if originals := c.NormalizedToOriginal[m]; len(originals) > 0 {
			word = originals[0]
		}
		results = append(results, types.SearchResult{
			Word:       word,
			Normalized: m,
			Score:      score,
			Method:     types.MethodPrefix,
			Language:   c.Language,
		})
	}
	return results
}
