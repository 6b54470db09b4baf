package corpus

import (
	"strings"

	"github.com/surgebase/porter2"

	"github.com/standardbeagle/lexicore/internal/types"
)

// lemmaMinLength is the minimum token length worth stemming; porter2
// degrades on very short tokens, so they pass through unchanged.
const lemmaMinLength = 3

// lemmatizable reports whether lang has a stemmer wired. Porter2 covers
// English; corpora in other languages keep nil lemma maps.
func lemmatizable(lang types.Language) bool {
	return lang == types.LanguageEnglish
}

// lemmaOf stems each space-separated token of a normalized word or phrase,
// so "running shoes" folds to "run shoe" while single words stem directly.
func lemmaOf(normalized string) string {
	if !strings.Contains(normalized, " ") {
		return stemToken(normalized)
	}
	toks := strings.Fields(normalized)
	for i, tok := range toks {
		toks[i] = stemToken(tok)
	}
	return strings.Join(toks, " ")
}

func stemToken(tok string) string {
	if len(tok) < lemmaMinLength {
		return tok
	}
	return porter2.Stem(tok)
}

// rebuildLemmas recomputes LemmatizedVocabulary and the bidirectional
// word<->lemma maps from c.Vocabulary. LemmatizedVocabulary stays parallel
// to Vocabulary (one lemma per entry, same order); languages without a
// stemmer clear all three fields instead.
func rebuildLemmas(c *Corpus) {
	if !lemmatizable(c.Language) || len(c.Vocabulary) == 0 {
		c.LemmatizedVocabulary = nil
		c.WordToLemma = nil
		c.LemmaToWords = nil
		return
	}

	c.LemmatizedVocabulary = make([]string, len(c.Vocabulary))
	c.WordToLemma = make(map[string]string, len(c.Vocabulary))
	c.LemmaToWords = make(map[string][]string)
	for i, w := range c.Vocabulary {
		l := lemmaOf(w)
		c.LemmatizedVocabulary[i] = l
		c.WordToLemma[w] = l
		c.LemmaToWords[l] = append(c.LemmaToWords[l], w)
	}
}
