package search

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/lexicore/internal/corpus"
	"github.com/standardbeagle/lexicore/internal/normalize"
	"github.com/standardbeagle/lexicore/internal/types"
)

// largeCorpusThreshold is the vocabulary size above which fuzzy candidate
// gathering switches from full bucket enumeration to frequency-weighted
// sampling, trading recall for bounded latency on very large corpora.
const largeCorpusThreshold = 50000

// fuzzySampleSize is the number of candidates kept when a corpus exceeds
// largeCorpusThreshold.
const fuzzySampleSize = 2000

const signatureLengthDelta = 2

// Fuzzy finds candidates whose signature or length closely matches the
// query, scores each with a composite string-similarity measure, applies
// the length-aware correction, and returns results at or above minScore
// sorted by corrected score descending.
func Fuzzy(ctx context.Context, query string, c *corpus.Corpus, limit int, minScore float64) []types.SearchResult {
	n := normalize.Normalize(query)
	if n == "" {
		return nil
	}

	candidates := fuzzyCandidates(c, n)
	if ctx.Err() != nil {
		return nil
	}

	results := make([]types.SearchResult, 0, len(candidates))
	for _, idx := range candidates {
		cand := c.Vocabulary[idx]
		s0 := compositeSimilarity(n, cand)
		score := correctLength(s0, n, cand)
		if score < minScore {
			continue
		}
		word := cand
		if originals := c.NormalizedToOriginal[cand]; len(originals) > 0 {
			word = originals[0]
		}
		results = append(results, types.SearchResult{
			Word:       word,
			Normalized: cand,
			Score:      score,
			Method:     types.MethodFuzzy,
			Language:   c.Language,
			Distance:   edlib.LevenshteinDistance(n, cand),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Normalized < results[j].Normalized
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// fuzzyCandidates returns the vocabulary indices worth scoring against the
// normalized query: the union of every signature bucket whose letter-bag is
// within edit distance signatureLengthDelta of the query's signature, with
// every length bucket within signatureLengthDelta of its rune length. Above
// largeCorpusThreshold vocabulary entries, the union is frequency-weighted
// sampled down to fuzzySampleSize rather than scored in full.
func fuzzyCandidates(c *corpus.Corpus, normalizedQuery string) []int {
	seen := make(map[int]bool)
	var out []int

	sig := normalize.Signature(normalizedQuery)
	siglen := len([]rune(sig))
	for bucketSig, indices := range c.SignatureBuckets {
		if abs(len([]rune(bucketSig))-siglen) > signatureLengthDelta {
			continue
		}
		if bucketSig != sig && edlib.LevenshteinDistance(sig, bucketSig) > signatureLengthDelta {
			continue
		}
		for _, i := range indices {
			if !seen[i] {
				seen[i] = true
				out = append(out, i)
			}
		}
	}

	qlen := len([]rune(normalizedQuery))
	for delta := -signatureLengthDelta; delta <= signatureLengthDelta; delta++ {
		for _, i := range c.LengthBuckets[qlen+delta] {
			if !seen[i] {
				seen[i] = true
				out = append(out, i)
			}
		}
	}

	if len(c.Vocabulary) > largeCorpusThreshold && len(out) > fuzzySampleSize {
		out = weightedSample(out, c.WordFrequencies, c.Vocabulary, fuzzySampleSize)
	}
	return out
}

// weightedSample draws n indices from candidates without replacement,
// weighted by each candidate word's frequency (higher frequency words are
// more likely to be kept).
func weightedSample(candidates []int, freq map[string]int, vocab []string, n int) []int {
	if n >= len(candidates) {
		return candidates
	}

	type weighted struct {
		idx int
		key float64
	}
	weights := make([]weighted, len(candidates))
	for i, idx := range candidates {
		w := float64(freq[vocab[idx]])
		if w <= 0 {
			w = 1
		}
		// Exponential-weighted reservoir key: -log(U)/w, smallest keys win.
		u := rand.Float64()
		if u <= 0 {
			u = 1e-12
		}
		weights[i] = weighted{idx: idx, key: -math.Log(u) / w}
	}
	sort.Slice(weights, func(i, j int) bool { return weights[i].key < weights[j].key })

	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = weights[i].idx
	}
	return out
}

// compositeSimilarity combines Jaro-Winkler and Levenshtein similarity,
// plus a per-token best match for phrase candidates, to approximate a
// token-set-aware ratio: transpositions and near-miss edits score well via
// Jaro-Winkler/Levenshtein, and a query that matches one word of a phrase
// candidate scores via the per-token pass rather than being diluted by the
// rest of the phrase.
func compositeSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	direct := jaroWinklerLevenshteinBlend(a, b)

	if strings.Contains(b, " ") {
		best := direct
		for _, tok := range strings.Fields(b) {
			if s := jaroWinklerLevenshteinBlend(a, tok); s > best {
				best = s
			}
		}
		return best
	}
	return direct
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func jaroWinklerLevenshteinBlend(a, b string) float64 {
	jw, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		jw = 0
	}
	lev, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		lev = 0
	}
	// Levenshtein similarity catches transpositions Jaro-Winkler
	// under-weights; averaging the two tracks RapidFuzz's blended ratios
	// more closely than either algorithm alone.
	return (float64(jw) + float64(lev)) / 2
}
