package corpus

import (
	"github.com/standardbeagle/lexicore/internal/freq"
	"github.com/standardbeagle/lexicore/internal/normalize"
)

// rebuildDerived fully rebuilds every derived structure from c.Vocabulary.
// There is no partial-update path: any mutation pays the full O(N log N)
// sort plus O(N*avg_len) bucket-construction cost.
func rebuildDerived(c *Corpus) {
	c.VocabularyToIndex = make(map[string]int, len(c.Vocabulary))
	c.LengthBuckets = make(map[int][]int)
	c.SignatureBuckets = make(map[string][]int)

	if c.WordFrequencies == nil {
		c.WordFrequencies = make(map[string]int, len(c.Vocabulary))
	}
	newFreqs := make(map[string]int, len(c.Vocabulary))

	for i, w := range c.Vocabulary {
		c.VocabularyToIndex[w] = i

		length := len([]rune(w))
		c.LengthBuckets[length] = append(c.LengthBuckets[length], i)

		sig := normalize.Signature(w)
		c.SignatureBuckets[sig] = append(c.SignatureBuckets[sig], i)

		if f, ok := c.WordFrequencies[w]; ok {
			newFreqs[w] = f
		} else {
			newFreqs[w] = freq.Default(w)
		}
	}
	c.WordFrequencies = newFreqs

	rebuildNormalizedToOriginal(c)
	rebuildLemmas(c)
	c.VocabularyHash = VocabularyHashOf(c.Vocabulary)
}

// rebuildNormalizedToOriginal recomputes the reverse original-surface index
// from OriginalVocabulary, dropping any surface whose normalized form is no
// longer in the vocabulary.
func rebuildNormalizedToOriginal(c *Corpus) {
	rev := make(map[string][]string, len(c.Vocabulary))
	for _, orig := range c.OriginalVocabulary {
		n := normalize.Normalize(orig)
		if _, ok := c.VocabularyToIndex[n]; !ok {
			continue
		}
		rev[n] = append(rev[n], orig)
	}
	c.NormalizedToOriginal = rev
}
