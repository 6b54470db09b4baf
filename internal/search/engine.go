// Package search implements the four matcher families (exact.go,
// prefix.go, fuzzy.go, semantic.go), their length-aware scoring correction
// (scoring.go), and their cascaded composition (cascade.go) behind a single
// Engine entry point.
package search

import (
	"context"
	"sync"
	"time"

	"github.com/standardbeagle/lexicore/internal/corpus"
	"github.com/standardbeagle/lexicore/internal/debug"
	"github.com/standardbeagle/lexicore/internal/errs"
	"github.com/standardbeagle/lexicore/internal/index"
	"github.com/standardbeagle/lexicore/internal/types"
)

// defaultQueryDeadline is applied when a QueryParams has a zero Deadline;
// every query carries a deadline, caller-provided or this default.
const defaultQueryDeadline = 45 * time.Millisecond

// Engine is the search engine manager: it dispatches a QueryParams to one
// or more matchers against a named corpus, and separately tracks the
// lifecycle of each corpus's background-built semantic index. The manager
// itself starts uninitialized and becomes ready as soon as it can serve
// exact/prefix/fuzzy queries. Semantic readiness is tracked per corpus and
// never blocks this state, so the health endpoint can report healthy
// immediately.
type Engine struct {
	store *corpus.Store

	embedder index.Embedder

	mu        sync.RWMutex
	state     types.EngineState
	semantics map[types.CorpusID]*semanticEntry

	// artifactSink, when set, receives each successfully built semantic
	// artifact so it can be versioned and cached (see index.Publisher).
	artifactSink func(c *corpus.Corpus, rid string, dataHash uint64, payload []byte)
}

// SetArtifactSink registers the callback invoked with every completed
// semantic build's artifact. Call before serving traffic.
func (e *Engine) SetArtifactSink(fn func(c *corpus.Corpus, rid string, dataHash uint64, payload []byte)) {
	e.artifactSink = fn
}

// NewEngine creates a search engine bound to store. embedder is used for
// background semantic index builds; pass index.NewFlatEmbedder(0) (or any
// Embedder) to exercise semantic search without a real model.
func NewEngine(store *corpus.Store, embedder index.Embedder) *Engine {
	return &Engine{
		store:     store,
		embedder:  embedder,
		state:     types.EngineUninitialized,
		semantics: make(map[types.CorpusID]*semanticEntry),
	}
}

// State reports the manager's own lifecycle state (distinct from any one
// corpus's semantic-build state).
func (e *Engine) State() types.EngineState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// MarkReady transitions the manager to ready; called once at warm-up after
// the engine is able to serve exact/prefix/fuzzy queries (which requires no
// background work, so in practice this can be called immediately after
// NewEngine).
func (e *Engine) MarkReady() {
	e.mu.Lock()
	e.state = types.EngineReady
	e.mu.Unlock()
}

// entryFor returns (creating if necessary) the semantic tracking entry for
// a corpus id.
func (e *Engine) entryFor(id types.CorpusID) *semanticEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	se, ok := e.semantics[id]
	if !ok {
		se = &semanticEntry{}
		e.semantics[id] = se
	}
	return se
}

// BuildSemanticAsync starts (or restarts) a background semantic index build
// for c. Builds are long-running and decoupled from request serving:
// queries issued before completion fall back to exact/prefix/fuzzy, and
// this never blocks the caller.
func (e *Engine) BuildSemanticAsync(ctx context.Context, c *corpus.Corpus, shardCount int) {
	se := e.entryFor(c.ID)

	se.mu.Lock()
	if se.building {
		se.mu.Unlock()
		return
	}
	se.building = true
	se.err = nil
	se.mu.Unlock()

	go func() {
		ann := &index.FlatANN{}
		rid, dataHash, payload, err := index.BuildSemanticIndex(ctx, c, e.embedder, ann, shardCount)
		if err == nil && e.artifactSink != nil {
			e.artifactSink(c, rid, dataHash, payload)
		}

		se.mu.Lock()
		se.building = false
		if err != nil {
			se.err = err
			debug.LogSearch("semantic build failed for corpus %d: %v\n", c.ID, err)
		} else {
			se.vocabulary = append([]string(nil), c.Vocabulary...)
			se.ann = ann
			se.ready = true
			debug.LogSearch("semantic index ready for corpus %d (%d words)\n", c.ID, len(c.Vocabulary))
		}
		se.mu.Unlock()
	}()
}

// SemanticStatus reports the GET /search/semantic/status payload for one
// corpus.
func (e *Engine) SemanticStatus(id types.CorpusID) types.SemanticStatus {
	se := e.entryFor(id)
	return se.status()
}

// AggregateSemanticStatus folds every tracked corpus's semantic state into
// one process-wide answer: building if any build is in flight, ready if at
// least one index is serving and none are still building.
func (e *Engine) AggregateSemanticStatus() types.SemanticStatus {
	e.mu.RLock()
	entries := make([]*semanticEntry, 0, len(e.semantics))
	for _, se := range e.semantics {
		entries = append(entries, se)
	}
	e.mu.RUnlock()

	out := types.SemanticStatus{Enabled: true}
	anyReady := false
	for _, se := range entries {
		st := se.status()
		if st.Building {
			out.Building = true
		}
		if st.Ready {
			anyReady = true
		}
		if st.Message != "" && out.Message == "" {
			out.Message = st.Message
		}
	}
	out.Ready = anyReady && !out.Building
	return out
}

// Search dispatches params to the matcher(s) its Mode selects, resolving
// the target corpus by params.CorpusName, and returns the REST response
// shape exactly. An empty query is a ValidationError the caller maps to
// 422; an unknown corpus name is a NotFoundError mapped to 404.
func (e *Engine) Search(ctx context.Context, params types.QueryParams) (*types.SearchResponse, error) {
	if params.Query == "" {
		return nil, errs.NewValidation("q", "query must not be empty")
	}
	if params.MaxResults < 1 || params.MaxResults > 100 {
		return nil, errs.NewValidation("max_results", "must be between 1 and 100")
	}

	c, err := e.store.Get(params.CorpusName)
	if err != nil {
		return nil, err
	}

	deadline := params.Deadline
	if deadline.IsZero() {
		deadline = time.Now().Add(defaultQueryDeadline)
	}
	qctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	limit := params.MaxResults
	minScore := params.MinScore

	var results []types.SearchResult
	metadata := map[string]any{}

	switch params.Mode {
	case types.ModeExact:
		results = Exact(params.Query, c)
	case types.ModeFuzzy:
		results = Fuzzy(qctx, params.Query, c, limit, minScore)
	case types.ModeSemantic:
		se := e.entryFor(c.ID)
		if !se.status().Ready {
			metadata["semantic_pending"] = true
		}
		results = Semantic(qctx, params.Query, se, e.embedder, limit)
	case types.ModeSmart, "":
		results, metadata = e.cascade(qctx, params.Query, c, limit, minScore)
	default:
		return nil, errs.NewValidation("mode", "unknown search mode "+string(params.Mode))
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return &types.SearchResponse{
		Query:      params.Query,
		Results:    results,
		TotalFound: len(results),
		Languages:  []types.Language{c.Language},
		Mode:       params.Mode,
		Metadata:   metadata,
	}, nil
}
