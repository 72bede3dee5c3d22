package search

import (
	"unicode/utf8"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/textnorm"
)

// gramRune is one word rune of folded text and its byte span.
type gramRune struct {
	start, end int
}

// wordRunes lists the letters, digits and marks of folded text. Spaces and
// punctuation never take part in an n-gram, so 起初 and "起初，" match alike.
func wordRunes(s string) []gramRune {
	out := make([]gramRune, 0, utf8.RuneCountInString(s))
	for i, r := range s {
		if isWordRune(r) {
			out = append(out, gramRune{start: i, end: i + utf8.RuneLen(r)})
		}
	}
	return out
}

// grams returns the n-grams of runes in order, one string per position.
func grams(s string, runes []gramRune, n int) []string {
	if len(runes) < n {
		return nil
	}
	out := make([]string, 0, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		var b []byte
		for _, r := range runes[i : i+n] {
			b = append(b, s[r.start:r.end]...)
		}
		out = append(out, string(b))
	}
	return out
}

// ngramMatcher scores by the overlap coefficient between the query's and
// the verse's n-gram sets: |Q ∩ V| / min(|Q|, |V|).
type ngramMatcher struct {
	n          int
	minOverlap float64
	query      map[string]bool
}

func newNgramMatcher(text string, n int, minOverlap float64) (*ngramMatcher, error) {
	folded := textnorm.Fold(text)
	runes := wordRunes(folded)
	if len(runes) == 0 {
		return nil, errors.NewInvalidQuery("text", "no searchable characters")
	}
	// a query shorter than n is matched as a single gram
	if len(runes) < n {
		n = len(runes)
	}
	set := make(map[string]bool)
	for _, g := range grams(folded, runes, n) {
		set[g] = true
	}
	return &ngramMatcher{n: n, minOverlap: minOverlap, query: set}, nil
}

func (m *ngramMatcher) score(_ *index, doc *document) float64 {
	text := doc.folded.Text
	verse := make(map[string]bool)
	for _, g := range grams(text, wordRunes(text), m.n) {
		verse[g] = true
	}
	if len(verse) == 0 {
		return 0
	}
	shared := 0
	for g := range m.query {
		if verse[g] {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	denom := len(m.query)
	if len(verse) < denom {
		denom = len(verse)
	}
	s := float64(shared) / float64(denom)
	if s < m.minOverlap {
		return 0
	}
	return s
}

// spans covers every verse rune that belongs to a shared n-gram.
func (m *ngramMatcher) spans(doc *document) []Span {
	text := doc.folded.Text
	runes := wordRunes(text)
	var spans []Span
	for i, g := range grams(text, runes, m.n) {
		if !m.query[g] {
			continue
		}
		for _, r := range runes[i : i+m.n] {
			os, oe := doc.folded.Original(r.start, r.end)
			spans = append(spans, Span{Start: os, End: oe})
		}
	}
	return mergeSpans(spans)
}
