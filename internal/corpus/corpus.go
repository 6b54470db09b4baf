// Package corpus implements a named vocabulary plus its derived indices,
// with tree aggregation (a master corpus's vocabulary is the union of its
// children's) and copy-on-write mutation.
//
// Corpora live in an id-indexed arena (internal/corpus/store.go) rather
// than behind owning pointers: parent/child edges are CorpusID values, so
// the tree can be walked and rewired without anyone owning anyone else.
package corpus

import (
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/standardbeagle/lexicore/internal/types"
)

// Corpus is immutable once published: every mutation in store.go builds a
// fresh value and swaps an atomic pointer, so readers holding an old
// *Corpus are never surprised by it changing under them.
type Corpus struct {
	ID       types.CorpusID
	Name     string
	Language types.Language
	Type     types.CorpusType
	IsMaster bool

	// Vocabulary is sorted ascending and de-duplicated.
	Vocabulary []string
	// OriginalVocabulary is a bag of original surfaces, one per input
	// occurrence; len >= len(Vocabulary).
	OriginalVocabulary []string
	// VocabularyToIndex satisfies Vocabulary[VocabularyToIndex[w]] == w for
	// every w in Vocabulary.
	VocabularyToIndex map[string]int
	// LengthBuckets maps rune length to vocabulary indices of that length.
	LengthBuckets map[int][]int
	// SignatureBuckets maps a normalize.Signature to vocabulary indices
	// sharing that letter-bag, for fuzzy candidate preselection.
	SignatureBuckets map[string][]int
	// WordFrequencies maps normalized word to an integer frequency >= 1.
	WordFrequencies map[string]int
	// NormalizedToOriginal maps a normalized word to every original surface
	// that folds to it.
	NormalizedToOriginal map[string][]string

	// LemmatizedVocabulary and the bidirectional lemma maps are optional and
	// language-dependent; nil when lemmatization isn't configured.
	LemmatizedVocabulary []string
	WordToLemma          map[string]string
	LemmaToWords         map[string][]string

	// VocabularyHash is a content hash over the sorted Vocabulary; it
	// changes iff the set changes.
	VocabularyHash uint64

	ParentID  types.CorpusID // zero value means "no parent"
	HasParent bool
	ChildIDs  []types.CorpusID

	LastUpdated time.Time

	// TTL, when set, schedules this corpus for deletion; it is not a soft
	// expiry for matching.
	DeleteAt time.Time
	HasTTL   bool
}

// VocabularyHashOf computes a stable content hash over the sorted
// vocabulary, independent of insertion order.
func VocabularyHashOf(sortedVocabulary []string) uint64 {
	h := xxhash.New()
	for _, w := range sortedVocabulary {
		_, _ = h.WriteString(w)
		_, _ = h.Write([]byte{0}) // separator so "ab","c" != "a","bc"
	}
	return h.Sum64()
}

// sortedUnique sorts and de-duplicates words in place, returning the result.
func sortedUnique(words []string) []string {
	sort.Strings(words)
	out := words[:0]
	var prev string
	first := true
	for _, w := range words {
		if first || w != prev {
			out = append(out, w)
			prev = w
			first = false
		}
	}
	return out
}
