package search

import (
	"context"
	"sync"

	"github.com/standardbeagle/lexicore/internal/index"
	"github.com/standardbeagle/lexicore/internal/normalize"
	"github.com/standardbeagle/lexicore/internal/types"
)

// semanticEntry is one corpus's in-process semantic search state: the ANN
// structure and the vocabulary snapshot it was built against (kept
// together so an index lookup always maps back to the word it was built
// for, even if the live corpus has since mutated), plus the lifecycle
// flags the status endpoint reports.
type semanticEntry struct {
	mu         sync.RWMutex
	building   bool
	ready      bool
	vocabulary []string
	ann        index.ANNIndex
	err        error
}

func (e *semanticEntry) snapshot() (vocab []string, ann index.ANNIndex, ready bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.vocabulary, e.ann, e.ready
}

func (e *semanticEntry) status() types.SemanticStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st := types.SemanticStatus{Enabled: true, Ready: e.ready, Building: e.building}
	if e.err != nil {
		st.Message = e.err.Error()
	}
	return st
}

// Semantic embeds the query with embedder and searches entry's ANN
// structure for the nearest vocabulary entries, returning cosine
// similarity remapped to [0, 1]. It returns no results (never an error)
// if entry is nil or not yet ready, so a cascade can fall through to
// whatever other matchers already found.
func Semantic(ctx context.Context, query string, entry *semanticEntry, embedder index.Embedder, limit int) []types.SearchResult {
	if entry == nil {
		return nil
	}
	vocab, ann, ready := entry.snapshot()
	if !ready || ann == nil {
		return nil
	}

	n := normalize.Normalize(query)
	if n == "" {
		return nil
	}

	vectors, err := embedder.Embed(ctx, []string{n})
	if err != nil || len(vectors) == 0 {
		return nil
	}

	k := limit * 2
	if k <= 0 {
		k = 10
	}
	indices := ann.Search(vectors[0], k)

	results := make([]types.SearchResult, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(vocab) {
			continue
		}
		word := vocab[i]
		// cosineSimilarity in [-1,1]; remap to [0,1].
		score := (rawCosine(vectors[0], i, ann) + 1) / 2
		results = append(results, types.SearchResult{
			Word:       word,
			Normalized: word,
			Score:      float64(score),
			Method:     types.MethodSemantic,
		})
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// rawCosine recomputes the similarity FlatANN already used internally to
// rank this candidate. ANNIndex doesn't expose per-candidate scores
// directly (only an ordered index list), so for the FlatANN baseline this
// reconstructs it; a real ANN backend would return scores alongside
// indices instead of needing this.
func rawCosine(query []float32, idx int, ann index.ANNIndex) float32 {
	flat, ok := ann.(*index.FlatANN)
	if !ok {
		return 0
	}
	return flat.SimilarityTo(query, idx)
}
