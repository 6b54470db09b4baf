package index

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
	"github.com/standardbeagle/lexicore/internal/corpus"
	"github.com/standardbeagle/lexicore/internal/types"
)

// MatcherConfig records which matcher families are enabled for one corpus,
// the configuration block the search facade binds alongside its artifact
// ids.
type MatcherConfig struct {
	ExactEnabled    bool
	PrefixEnabled   bool
	FuzzyEnabled    bool
	SemanticEnabled bool
}

// SearchIndex is the facade artifact binding a corpus version to its
// current trie and (optional) semantic artifact ids. It carries no index
// data itself: resolving it plus its referenced artifacts is everything a
// reader needs to serve a query against that corpus version.
type SearchIndex struct {
	AlgorithmVersion int
	CorpusHash       uint64
	TrieArtifactID   types.ArtifactID
	SemanticArtifact types.ArtifactID // zero when semantic search is off or unbuilt
	Config           MatcherConfig
}

const searchIndexAlgorithmVersion = 1

// BuildSearchIndex derives the facade artifact for a corpus snapshot from
// the already-published trie artifact and an optional semantic artifact
// (pass zero when the semantic index is disabled or not yet built).
func BuildSearchIndex(c *corpus.Corpus, trieID, semanticID types.ArtifactID, cfg MatcherConfig) (rid string, dataHash uint64, payload []byte, err error) {
	idx := SearchIndex{
		AlgorithmVersion: searchIndexAlgorithmVersion,
		CorpusHash:       c.VocabularyHash,
		TrieArtifactID:   trieID,
		SemanticArtifact: semanticID,
		Config:           cfg,
	}
	payload, err = json.Marshal(idx)
	if err != nil {
		return "", 0, nil, err
	}
	dataHash = xxhash.Sum64(payload)
	return resourceID("search", c.ID), dataHash, payload, nil
}

// DecodeSearchIndex deserializes a published SearchIndex payload.
func DecodeSearchIndex(payload []byte) (*SearchIndex, error) {
	var idx SearchIndex
	if err := json.Unmarshal(payload, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}
