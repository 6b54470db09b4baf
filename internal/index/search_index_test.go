package index

import (
	"testing"

	"github.com/standardbeagle/lexicore/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchIndex_RoundTrips(t *testing.T) {
	c := newTestCorpus(t, "apple", "banana")
	cfg := MatcherConfig{ExactEnabled: true, PrefixEnabled: true, FuzzyEnabled: true}

	rid, hash, payload, err := BuildSearchIndex(c, types.ArtifactID(3), 0, cfg)
	require.NoError(t, err)
	assert.Equal(t, "search:1", rid)
	assert.NotZero(t, hash)

	decoded, err := DecodeSearchIndex(payload)
	require.NoError(t, err)
	assert.Equal(t, c.VocabularyHash, decoded.CorpusHash)
	assert.Equal(t, types.ArtifactID(3), decoded.TrieArtifactID)
	assert.Zero(t, decoded.SemanticArtifact)
	assert.Equal(t, cfg, decoded.Config)
}

func TestBuildSearchIndex_HashChangesWithSemanticBinding(t *testing.T) {
	c := newTestCorpus(t, "apple")
	cfg := MatcherConfig{ExactEnabled: true}

	_, without, _, err := BuildSearchIndex(c, types.ArtifactID(1), 0, cfg)
	require.NoError(t, err)
	_, with, _, err := BuildSearchIndex(c, types.ArtifactID(1), types.ArtifactID(2), cfg)
	require.NoError(t, err)

	assert.NotEqual(t, without, with, "binding a semantic artifact must produce a distinct facade version")
}
