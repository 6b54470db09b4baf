// Package synth specifies the AI-synthesis collaborator:
// an LLM-backed merger that consumes multiple providers' Definitions for
// the same word and produces one synthesized Definition. Prompting and
// model selection are out of the core's scope; only the contract and a
// deterministic stub live here.
package synth

import (
	"context"
	"strings"

	"github.com/standardbeagle/lexicore/internal/errs"
	"github.com/standardbeagle/lexicore/internal/providers"
)

// Synthesizer merges one or more provider Definitions for the same word
// into a single result. A real implementation (out of scope here) prompts
// an LLM; Synthesize must return errs.ValidationError for an empty input
// slice, since there is nothing to merge.
type Synthesizer interface {
	Synthesize(ctx context.Context, defs []*providers.Definition) (*providers.Definition, error)
}

// ConcatStub is a deterministic, model-free Synthesizer: it concatenates
// every input definition's senses under the first definition's word,
// enough to exercise the merge step end to end without a real LLM call.
type ConcatStub struct{}

func (ConcatStub) Synthesize(ctx context.Context, defs []*providers.Definition) (*providers.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, errs.NewValidation("defs", "at least one definition is required to synthesize")
	}

	out := &providers.Definition{
		Word:   defs[0].Word,
		Source: "synthesized",
	}
	seen := make(map[string]bool)
	for _, d := range defs {
		for _, sense := range d.Senses {
			key := strings.ToLower(strings.TrimSpace(sense))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out.Senses = append(out.Senses, sense)
		}
	}
	return out, nil
}
