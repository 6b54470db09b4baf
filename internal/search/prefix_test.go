package search

import (
	"context"
	"testing"

	"github.com/standardbeagle/lexicore/internal/corpus"
	"github.com/standardbeagle/lexicore/internal/index"
	"github.com/standardbeagle/lexicore/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefix_FindsAllExtensions(t *testing.T) {
	c := mustCorpus(t, []string{"cat", "catalog", "catastrophe", "dog"})

	results := Prefix("cat", c, 10)
	require.Len(t, results, 3)

	got := make(map[string]bool)
	for _, r := range results {
		got[r.Normalized] = true
		assert.Equal(t, types.MethodPrefix, r.Method)
	}
	assert.True(t, got["cat"])
	assert.True(t, got["catalog"])
	assert.True(t, got["catastrophe"])
	assert.False(t, got["dog"])
}

func TestPrefix_ScoreIsLengthRatio(t *testing.T) {
	c := mustCorpus(t, []string{"cat", "catalog"})

	results := Prefix("cat", c, 10)
	for _, r := range results {
		want := float64(len("cat")) / float64(len(r.Normalized))
		if want > 1.0 {
			want = 1.0
		}
		assert.InDelta(t, want, r.Score, 1e-12)
	}
}

func TestPrefix_EmptyQueryIsEmptyResult(t *testing.T) {
	c := mustCorpus(t, []string{"cat"})
	assert.Empty(t, Prefix("", c, 10))
}

func TestPrefix_OrdersByFrequencyThenAlphabetically(t *testing.T) {
	c := mustCorpus(t, []string{"cat", "catalog", "catastrophe"})

	results := Prefix("cat", c, 10)
	for i := 1; i < len(results); i++ {
		fi := c.WordFrequencies[results[i-1].Normalized]
		fj := c.WordFrequencies[results[i].Normalized]
		if fi == fj {
			assert.Less(t, results[i-1].Normalized, results[i].Normalized)
		} else {
			assert.Greater(t, fi, fj)
		}
	}
}

func TestExact_HitAndMiss(t *testing.T) {
	c := mustCorpus(t, []string{"apple", "banana", "cherry"})

	results := Exact("apple", c)
	require.Len(t, results, 1)
	assert.Equal(t, "apple", results[0].Word)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, types.MethodExact, results[0].Method)
	assert.Equal(t, 0, results[0].Distance)

	assert.Empty(t, Exact("grape", c))
	assert.Empty(t, Exact("", c))
}

func TestExact_NormalizesBeforeLookup(t *testing.T) {
	c := mustCorpus(t, []string{"café"})

	results := Exact("  CAFE ", c)
	require.Len(t, results, 1)
	assert.Equal(t, "cafe", results[0].Normalized)
	assert.Equal(t, "café", results[0].Word)
}

func TestSmartMode_PrefixExpansionAfterExactHit(t *testing.T) {
	store := corpus.NewStore()
	_, err := store.Create("animals", []string{"cat", "catalog", "catastrophe", "dog"}, types.LanguageEnglish, types.CorpusLexicon)
	require.NoError(t, err)
	engine := NewEngine(store, index.NewFlatEmbedder(4))
	engine.MarkReady()

	// mode=exact returns only the exact hit.
	resp, err := engine.Search(context.Background(), types.QueryParams{
		Query: "cat", Mode: types.ModeExact, CorpusName: "animals", MaxResults: 10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "cat", resp.Results[0].Normalized)

	// mode=smart additionally returns the prefix expansions, after the
	// exact hit, attributed to PREFIX.
	resp, err = engine.Search(context.Background(), types.QueryParams{
		Query: "cat", Mode: types.ModeSmart, CorpusName: "animals", MaxResults: 10, MinScore: 0.3,
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(resp.Results), 3)

	assert.Equal(t, "cat", resp.Results[0].Normalized)
	assert.Equal(t, types.MethodExact, resp.Results[0].Method)

	byWord := make(map[string]types.MatchMethod)
	for _, r := range resp.Results[1:] {
		byWord[r.Normalized] = r.Method
	}
	assert.Equal(t, types.MethodPrefix, byWord["catalog"])
	assert.Equal(t, types.MethodPrefix, byWord["catastrophe"])
}
