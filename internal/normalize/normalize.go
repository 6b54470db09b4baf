// Package normalize folds a raw query or vocabulary entry into the
// canonical form every matcher keys on: NFC, quote/dash translation,
// diacritic strip, lowercase, punctuation-to-space, whitespace collapse,
// trim.
package normalize

import (
	"runtime"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// quoteDashTable maps quote/dash/space variants to their ASCII equivalents,
// applied before case folding.
var quoteDashTable = map[rune]rune{
	'‘': '\'', // left single quote
	'’': '\'', // right single quote
	'‛': '\'', // single high-reversed-9 quote
	'“': '"',  // left double quote
	'”': '"',  // right double quote
	'–': '-',  // en dash
	'—': '-',  // em dash
	'−': '-',  // minus sign
	' ': ' ', // non-breaking space
	' ': ' ', // thin space
	'​': ' ',  // zero-width space
}

// stripMarks decomposes to NFD, drops combining marks, and recomposes to
// NFC, folding diacritics in any script rather than a fixed table.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize folds s into its canonical form: NFC, quote/dash translation,
// diacritic strip, lowercase, punctuation-to-space, whitespace collapse,
// trim. It is a total, pure, deterministic, idempotent function.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := quoteDashTable[r]; ok {
			b.WriteRune(repl)
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()

	s = stripDiacritics(s)
	s = strings.ToLower(s)
	s = punctuationToSpace(s)
	s = collapseWhitespace(s)
	return strings.TrimSpace(s)
}

// Signature returns the sorted-character anagram key of Normalize(s) with
// spaces removed, used by the signature-bucket index for fuzzy candidate
// preselection.
func Signature(s string) string {
	n := strings.ReplaceAll(Normalize(s), " ", "")
	rs := []rune(n)
	sortRunes(rs)
	return string(rs)
}

// BatchNormalize normalizes a list of strings in parallel, preserving input
// order. Results are written into a pre-sized slice by index so concurrent
// workers never append to a shared slice.
func BatchNormalize(list []string) []string {
	out := make([]string, len(list))
	if len(list) == 0 {
		return out
	}

	workers := shardCount(len(list))
	chunk := (len(list) + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(list) {
			break
		}
		end := start + chunk
		if end > len(list) {
			end = len(list)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				out[i] = Normalize(list[i])
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return an error
	return out
}

func shardCount(n int) int {
	w := runtime.NumCPU()
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

func stripDiacritics(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

func punctuationToSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == ' ', r == '\'', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if r == ' ' || unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteRune(' ')
			}
			prevSpace = true
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

func sortRunes(r []rune) {
	// Signature keys are short (single words/phrases); insertion sort.
	for i := 1; i < len(r); i++ {
		for j := i; j > 0 && r[j-1] > r[j]; j-- {
			r[j-1], r[j] = r[j], r[j-1]
		}
	}
}
