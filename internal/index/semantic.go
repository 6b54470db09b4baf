package index

import (
	"context"
	"encoding/json"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/lexicore/internal/corpus"
)

// flatToIVFThreshold is the vocabulary size above which a semantic index
// switches from a flat (exhaustive) scan to an inverted-file structure.
// Below this size an exhaustive scan is fast enough that the extra
// bookkeeping an IVF partition needs doesn't pay for itself.
const flatToIVFThreshold = 5000

// Embedder turns a normalized word into a dense vector. The core engine
// never depends on a concrete embedding model; it depends on this
// interface so semantic search can be compiled in, stubbed out for tests,
// or swapped for a real model without touching the cascade or cache.
type Embedder interface {
	Embed(ctx context.Context, words []string) ([][]float32, error)
	Dim() int
}

// ANNIndex resolves a query vector to the nearest vocabulary indices. A
// flat implementation is a correctness baseline; an IVF or graph-based
// implementation can be swapped in for larger vocabularies without
// changing SemanticIndex's shape.
type ANNIndex interface {
	Search(query []float32, k int) []int
	Build(vectors [][]float32) error
}

// SemanticIndex is the published artifact for semantic search: the
// embedding backend used to build it (by name only — vectors live in the
// ANN structure, not in this struct) and enough metadata to decide whether
// the index is stale relative to its corpus.
type SemanticIndex struct {
	AlgorithmVersion int
	EmbedderName     string
	VocabularySize   int
	UsesIVF          bool
}

const semanticAlgorithmVersion = 1

// FlatEmbedder is a deterministic, model-free Embedder: each word hashes
// to a small fixed-dimension vector. It satisfies the Embedder interface
// for tests and for deployments that haven't wired in a real model, and
// it never returns an error.
type FlatEmbedder struct {
	dim int
}

// NewFlatEmbedder creates a FlatEmbedder producing vectors of the given
// dimension. A dimension <= 0 defaults to 8.
func NewFlatEmbedder(dim int) *FlatEmbedder {
	if dim <= 0 {
		dim = 8
	}
	return &FlatEmbedder{dim: dim}
}

func (e *FlatEmbedder) Dim() int { return e.dim }

// Embed hashes each word into e.dim float32 components derived from
// successive 64-bit hash rounds, giving a stable, if not semantically
// meaningful, vector per word — enough to exercise the ANN plumbing end to
// end without a real model.
func (e *FlatEmbedder) Embed(ctx context.Context, words []string) ([][]float32, error) {
	out := make([][]float32, len(words))
	for i, w := range words {
		if err := ctx.Err(); err != nil {
			return out[:i], err
		}
		out[i] = hashEmbed(w, e.dim)
	}
	return out, nil
}

func hashEmbed(word string, dim int) []float32 {
	v := make([]float32, dim)
	h := xxhash.Sum64String(word)
	for i := 0; i < dim; i++ {
		h = h*6364136223846793005 + 1442695040888963407
		v[i] = float32(h%2000)/1000 - 1 // in [-1, 1)
	}
	return v
}

// FlatANN is the exhaustive ANNIndex baseline: Search scores every stored
// vector by cosine similarity and returns the top k indices.
type FlatANN struct {
	vectors [][]float32
}

func (a *FlatANN) Build(vectors [][]float32) error {
	a.vectors = vectors
	return nil
}

func (a *FlatANN) Search(query []float32, k int) []int {
	type scored struct {
		idx   int
		score float32
	}
	scores := make([]scored, len(a.vectors))
	for i, v := range a.vectors {
		scores[i] = scored{idx: i, score: cosineSimilarity(query, v)}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if k > len(scores) {
		k = len(scores)
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = scores[i].idx
	}
	return out
}

// SimilarityTo returns the cosine similarity between query and the vector
// stored at idx, or 0 if idx is out of range. Search already ranks
// candidates by this score but returns only indices; callers that need the
// score back (to report it alongside a result) recompute it here rather
// than Search returning a second parallel slice every caller must thread
// through.
func (a *FlatANN) SimilarityTo(query []float32, idx int) float32 {
	if idx < 0 || idx >= len(a.vectors) {
		return 0
	}
	return cosineSimilarity(query, a.vectors[idx])
}

func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// BuildSemanticIndex embeds c's vocabulary with embedder (in shard-parallel
// batches bounded by an errgroup), builds ann from the resulting vectors,
// and returns the published artifact along with its data hash. ann must be
// freshly constructed; Build is called on it once.
func BuildSemanticIndex(ctx context.Context, c *corpus.Corpus, embedder Embedder, ann ANNIndex, shardCount int) (rid string, dataHash uint64, payload []byte, err error) {
	// Embed the lemmatized vocabulary when the corpus carries one; lemmas
	// collapse inflected variants onto one vector each.
	vocab := c.Vocabulary
	if len(c.LemmatizedVocabulary) == len(c.Vocabulary) && len(c.LemmatizedVocabulary) > 0 {
		vocab = c.LemmatizedVocabulary
	}
	vectors := make([][]float32, len(vocab))

	if shardCount <= 0 {
		shardCount = 1
	}
	chunk := (len(vocab) + shardCount - 1) / shardCount
	if chunk == 0 {
		chunk = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(vocab); start += chunk {
		end := start + chunk
		if end > len(vocab) {
			end = len(vocab)
		}
		start, end := start, end
		g.Go(func() error {
			embedded, embedErr := embedder.Embed(gctx, vocab[start:end])
			copy(vectors[start:], embedded)
			return embedErr
		})
	}
	if err := g.Wait(); err != nil {
		return "", 0, nil, err
	}

	if err := ann.Build(vectors); err != nil {
		return "", 0, nil, err
	}

	idx := SemanticIndex{
		AlgorithmVersion: semanticAlgorithmVersion,
		EmbedderName:     embedderName(embedder),
		VocabularySize:   len(vocab),
		UsesIVF:          len(vocab) > flatToIVFThreshold,
	}
	payload, err = json.Marshal(idx)
	if err != nil {
		return "", 0, nil, err
	}
	dataHash = xxhash.Sum64(payload)
	return resourceID("semantic", c.ID), dataHash, payload, nil
}

// DecodeSemanticIndex deserializes a published SemanticIndex payload.
func DecodeSemanticIndex(payload []byte) (*SemanticIndex, error) {
	var idx SemanticIndex
	if err := json.Unmarshal(payload, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

func embedderName(e Embedder) string {
	if _, ok := e.(*FlatEmbedder); ok {
		return "flat"
	}
	return "custom"
}
