// Package testsupport provides isolated test data construction:
// CorpusBuilder assembles corpora and a ready Engine without any test
// reaching into internal/corpus or internal/search construction details
// directly.
package testsupport

import (
	"github.com/standardbeagle/lexicore/internal/corpus"
	"github.com/standardbeagle/lexicore/internal/index"
	"github.com/standardbeagle/lexicore/internal/search"
	"github.com/standardbeagle/lexicore/internal/types"
)

// CorpusSpec describes one corpus a CorpusBuilder will create.
type CorpusSpec struct {
	Name       string
	Vocabulary []string
	Language   types.Language
	Type       types.CorpusType
}

// CorpusBuilder accumulates CorpusSpecs and produces an isolated *corpus.Store
// plus a *search.Engine bound to it, so each test gets its own store instead
// of sharing global state.
type CorpusBuilder struct {
	specs []CorpusSpec
}

// NewCorpusBuilder creates an empty builder.
func NewCorpusBuilder() *CorpusBuilder {
	return &CorpusBuilder{}
}

// WithCorpus registers a corpus to create on Build, defaulting Type to
// CorpusCustom and Language to LanguageEnglish when left zero.
func (b *CorpusBuilder) WithCorpus(name string, vocabulary []string) *CorpusBuilder {
	b.specs = append(b.specs, CorpusSpec{
		Name:       name,
		Vocabulary: vocabulary,
		Language:   types.LanguageEnglish,
		Type:       types.CorpusCustom,
	})
	return b
}

// WithLanguageCorpus registers a corpus with an explicit language tag.
func (b *CorpusBuilder) WithLanguageCorpus(name string, vocabulary []string, lang types.Language) *CorpusBuilder {
	b.specs = append(b.specs, CorpusSpec{
		Name: name, Vocabulary: vocabulary, Language: lang, Type: types.CorpusLanguage,
	})
	return b
}

// Built is the result of CorpusBuilder.Build: a store already populated
// per the registered specs, plus a ready search engine bound to it.
type Built struct {
	Store   *corpus.Store
	Engine  *search.Engine
	Corpora map[string]*corpus.Corpus
}

// Build creates a fresh store, populates every registered corpus, and
// returns a ready Engine over it using a deterministic FlatEmbedder so
// semantic search is exercisable without a real model.
func (b *CorpusBuilder) Build() (*Built, error) {
	st := corpus.NewStore()
	corpora := make(map[string]*corpus.Corpus, len(b.specs))

	for _, spec := range b.specs {
		c, err := st.Create(spec.Name, spec.Vocabulary, spec.Language, spec.Type)
		if err != nil {
			return nil, err
		}
		corpora[spec.Name] = c
	}

	engine := search.NewEngine(st, index.NewFlatEmbedder(8))
	engine.MarkReady()

	return &Built{Store: st, Engine: engine, Corpora: corpora}, nil
}
