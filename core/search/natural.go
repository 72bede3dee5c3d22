package search

import (
	"unicode/utf8"

	"github.com/orsinium-labs/stopwords"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/textnorm"
)

// matcher scores one analyzed verse. A score of 0 means no match.
type matcher interface {
	score(ix *index, doc *document) float64
	spans(doc *document) []Span
}

// naturalMatcher ranks by TF-IDF over the query's significant words.
type naturalMatcher struct {
	terms []string
	hl    *termHighlighter
}

// significantTerms drops stopwords and words of two letters or fewer. When
// nothing survives, the full word list is used so "in the" still searches.
func significantTerms(words []string, sw *stopwords.Stopwords) []string {
	var kept []string
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		if sw != nil && sw.Contains(w) {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		kept = words
	}
	return dedupe(kept)
}

// loadStopwords returns nil for an empty language or one the stopword
// package lacks.
func loadStopwords(lang string) (sw *stopwords.Stopwords) {
	if lang == "" {
		return nil
	}
	defer func() {
		if recover() != nil {
			sw = nil
		}
	}()
	return stopwords.MustGet(lang)
}

func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := words[:0:0]
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

func newNaturalMatcher(text string, sw *stopwords.Stopwords) (*naturalMatcher, error) {
	words := textnorm.Words(text)
	if len(words) == 0 {
		return nil, errors.NewInvalidQuery("text", "no searchable words")
	}
	terms := significantTerms(words, sw)
	pats := make([]pattern, len(terms))
	for i, t := range terms {
		pats[i] = pattern{text: t}
	}
	hl, err := newTermHighlighter(pats)
	if err != nil {
		return nil, errors.Wrap(err, "build highlighter")
	}
	return &naturalMatcher{terms: terms, hl: hl}, nil
}

func (m *naturalMatcher) score(ix *index, doc *document) float64 {
	var s float64
	for _, t := range m.terms {
		if tf := doc.tf[t]; tf > 0 {
			s += float64(tf) * ix.idf(t)
		}
	}
	return s
}

func (m *naturalMatcher) spans(doc *document) []Span {
	return m.hl.find(doc.folded)
}
