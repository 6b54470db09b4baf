package index

import (
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/standardbeagle/lexicore/internal/corpus"
	"github.com/standardbeagle/lexicore/internal/types"
)

// resourceID builds the stable string key a VersionStore indexes an
// artifact kind under for one corpus, e.g. "trie:42".
func resourceID(kind string, corpusID types.CorpusID) string {
	return kind + ":" + strconv.FormatUint(uint64(corpusID), 10)
}

// TrieIndex pairs the sorted normalized vocabulary with per-word frequency
// and a reverse normalized→original map. A binary search over the sorted
// slice satisfies the same lookup contract a materialized trie or
// double-array would, at a fraction of the implementation cost.
type TrieIndex struct {
	AlgorithmVersion     int
	SortedVocabulary     []string
	WordFrequencies      map[string]int
	NormalizedToOriginal map[string][]string
}

// trieAlgorithmVersion is folded into the artifact's data hash so a future
// change to the builder invalidates every cached TrieIndex without needing
// a migration step.
const trieAlgorithmVersion = 1

// BuildTrieIndex derives a TrieIndex from a corpus snapshot. It is pure and
// deterministic: the same vocabulary always serializes to the same bytes,
// so ResourceID (the corpus id) and DataHash (over those bytes) are all
// VersionStore.Publish needs to decide whether to reuse an existing
// artifact.
func BuildTrieIndex(c *corpus.Corpus) (rid string, dataHash uint64, payload []byte, err error) {
	idx := TrieIndex{
		AlgorithmVersion:     trieAlgorithmVersion,
		SortedVocabulary:     c.Vocabulary,
		WordFrequencies:      c.WordFrequencies,
		NormalizedToOriginal: c.NormalizedToOriginal,
	}
	payload, err = json.Marshal(idx)
	if err != nil {
		return "", 0, nil, err
	}
	dataHash = xxhash.Sum64(payload)
	return resourceID("trie", c.ID), dataHash, payload, nil
}

// DecodeTrieIndex deserializes a published TrieIndex payload.
func DecodeTrieIndex(payload []byte) (*TrieIndex, error) {
	var idx TrieIndex
	if err := json.Unmarshal(payload, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}
