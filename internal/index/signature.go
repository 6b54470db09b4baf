package index

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
	"github.com/standardbeagle/lexicore/internal/corpus"
	"github.com/standardbeagle/lexicore/internal/normalize"
)

// SignatureIndex groups vocabulary indices by anagram signature and by rune
// length, the two candidate-preselection structures the fuzzy matcher
// consults before running an edit-distance comparison against every
// vocabulary entry.
type SignatureIndex struct {
	AlgorithmVersion int
	SortedVocabulary []string
	SignatureBuckets map[string][]int
	LengthBuckets    map[int][]int
}

const signatureAlgorithmVersion = 1

// BuildSignatureIndex derives a SignatureIndex from a corpus snapshot. The
// corpus already maintains SignatureBuckets/LengthBuckets live, so this is
// mostly a projection — but it is still built and hashed independently of
// TrieIndex so a cache consumer that only needs fuzzy candidates never has
// to pull in frequency data or the reverse original-surface map.
func BuildSignatureIndex(c *corpus.Corpus) (rid string, dataHash uint64, payload []byte, err error) {
	idx := SignatureIndex{
		AlgorithmVersion: signatureAlgorithmVersion,
		SortedVocabulary: c.Vocabulary,
		SignatureBuckets: c.SignatureBuckets,
		LengthBuckets:    c.LengthBuckets,
	}
	payload, err = json.Marshal(idx)
	if err != nil {
		return "", 0, nil, err
	}
	dataHash = xxhash.Sum64(payload)
	return resourceID("signature", c.ID), dataHash, payload, nil
}

// DecodeSignatureIndex deserializes a published SignatureIndex payload.
func DecodeSignatureIndex(payload []byte) (*SignatureIndex, error) {
	var idx SignatureIndex
	if err := json.Unmarshal(payload, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

// CandidatesFor returns the vocabulary indices worth comparing against a
// query via edit distance: the union of its signature bucket (an exact
// anagram match, the strongest fuzzy-candidate signal) and every length
// bucket within +/-maxLenDelta of the query's rune length.
func CandidatesFor(idx *SignatureIndex, query string, maxLenDelta int) []int {
	seen := make(map[int]bool)
	var out []int

	sig := normalize.Signature(query)
	for _, i := range idx.SignatureBuckets[sig] {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}

	qlen := len([]rune(normalize.Normalize(query)))
	for delta := -maxLenDelta; delta <= maxLenDelta; delta++ {
		for _, i := range idx.LengthBuckets[qlen+delta] {
			if !seen[i] {
				seen[i] = true
				out = append(out, i)
			}
		}
	}
	return out
}
