package search

import (
	"context"
	"sort"

	"github.com/standardbeagle/lexicore/internal/corpus"
	"github.com/standardbeagle/lexicore/internal/types"
)

// earlyTerminationScore is the threshold above which a higher-priority
// matcher's result satisfies the cascade immediately, provided the
// caller's limit is also met.
const earlyTerminationScore = 0.95

// cascade invokes EXACT -> PREFIX -> FUZZY -> SEMANTIC in that fixed
// priority order, stopping as soon as a matcher has produced a result at
// or above earlyTerminationScore and the limit is satisfied. Otherwise it
// unions every matcher's results, deduplicates by normalized form keeping
// the higher-priority method's result, and sorts by priority bucket with
// descending score as the tiebreak within a bucket.
func (e *Engine) cascade(ctx context.Context, query string, c *corpus.Corpus, limit int, minScore float64) ([]types.SearchResult, map[string]any) {
	metadata := map[string]any{}
	var all []types.SearchResult

	stages := []func() []types.SearchResult{
		func() []types.SearchResult { return Exact(query, c) },
		func() []types.SearchResult { return Prefix(query, c, limit) },
		func() []types.SearchResult { return Fuzzy(ctx, query, c, limit, minScore) },
		func() []types.SearchResult {
			se := e.entryFor(c.ID)
			status := se.status()
			if !status.Ready {
				metadata["semantic_pending"] = true
			}
			return Semantic(ctx, query, se, e.embedder, limit)
		},
	}

	for _, stage := range stages {
		if ctx.Err() != nil {
			break
		}
		results := stage()
		all = append(all, results...)

		if satisfiesEarlyTermination(results, limit, len(all)) {
			break
		}
	}

	return dedupeAndSort(all), metadata
}

// satisfiesEarlyTermination reports whether this stage alone already has a
// result at or above earlyTerminationScore AND the accumulated result count
// meets the caller's limit, so the cascade can skip lower-priority matchers
// entirely.
func satisfiesEarlyTermination(stageResults []types.SearchResult, limit, accumulated int) bool {
	if limit <= 0 {
		limit = 1
	}
	if accumulated < limit {
		return false
	}
	for _, r := range stageResults {
		if r.Score >= earlyTerminationScore {
			return true
		}
	}
	return false
}

// dedupeAndSort deduplicates results by normalized form (keeping the
// result whose method has the higher cascade priority), then sorts by
// priority bucket ascending (EXACT first), breaking ties within a bucket
// by descending score. This is the sole authority on cascade result
// ordering; individual matchers never apply cross-matcher ordering
// themselves.
func dedupeAndSort(all []types.SearchResult) []types.SearchResult {
	best := make(map[string]types.SearchResult, len(all))
	order := make([]string, 0, len(all))
	for _, r := range all {
		existing, seen := best[r.Normalized]
		if !seen {
			best[r.Normalized] = r
			order = append(order, r.Normalized)
			continue
		}
		if r.Method.Priority() < existing.Method.Priority() {
			best[r.Normalized] = r
		}
	}

	out := make([]types.SearchResult, 0, len(order))
	for _, n := range order {
		out = append(out, best[n])
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Method.Priority(), out[j].Method.Priority()
		if pi != pj {
			return pi < pj
		}
		return out[i].Score > out[j].Score
	})
	return out
}
