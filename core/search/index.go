package search

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/FocuswithJustin/BibleHere/core/corpus"
	"github.com/FocuswithJustin/BibleHere/core/textnorm"
)

// document is the analyzed form of one verse.
type document struct {
	text   string // stored text, unmodified
	folded textnorm.Folded
	tokens []textnorm.Token
	tf     map[string]int
}

// has reports whether the document contains the whole token term.
func (d *document) has(term string) bool {
	return d.tf[term] > 0
}

// hasPrefix reports whether any token starts with prefix.
func (d *document) hasPrefix(prefix string) bool {
	for t := range d.tf {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}

// hasPhrase reports whether words occur as consecutive tokens.
func (d *document) hasPhrase(words []string) bool {
	if len(words) == 0 {
		return false
	}
	if len(words) == 1 {
		return d.has(words[0])
	}
outer:
	for i := 0; i+len(words) <= len(d.tokens); i++ {
		for j, w := range words {
			if d.tokens[i+j].Text != w {
				continue outer
			}
		}
		return true
	}
	return false
}

// index is the analyzed form of one store. It is built once per store and
// shared by every query against it.
type index struct {
	store *corpus.Store
	docs  []document
	df    map[string]int
	// first maps each word to the position of the first verse using it.
	first map[string]int
	vocab []string // sorted distinct words
}

func buildIndex(s *corpus.Store) *index {
	verses := s.All()
	ix := &index{
		store: s,
		docs:  make([]document, len(verses)),
		df:    make(map[string]int),
		first: make(map[string]int),
	}
	for i, v := range verses {
		f := textnorm.FoldWithOffsets(v.Text)
		toks := textnorm.Tokenize(f.Text)
		tf := make(map[string]int, len(toks))
		for _, t := range toks {
			tf[t.Text]++
		}
		for t := range tf {
			ix.df[t]++
			if _, ok := ix.first[t]; !ok {
				ix.first[t] = i
			}
		}
		ix.docs[i] = document{text: v.Text, folded: f, tokens: toks, tf: tf}
	}
	ix.vocab = make([]string, 0, len(ix.df))
	for t := range ix.df {
		ix.vocab = append(ix.vocab, t)
	}
	sort.Strings(ix.vocab)
	return ix
}

// idf is the smoothed inverse document frequency of term.
func (ix *index) idf(term string) float64 {
	df := ix.df[term]
	if df == 0 {
		return 0
	}
	return math.Log(1 + float64(len(ix.docs))/float64(df))
}

// wordsWithPrefix returns vocabulary words starting with prefix, in
// sorted order.
func (ix *index) wordsWithPrefix(prefix string) []string {
	i := sort.SearchStrings(ix.vocab, prefix)
	var out []string
	for ; i < len(ix.vocab) && strings.HasPrefix(ix.vocab[i], prefix); i++ {
		out = append(out, ix.vocab[i])
	}
	return out
}

// indexCache holds one index per store. Stores are immutable, so an index
// never goes stale; a reloaded library brings new store pointers.
type indexCache struct {
	mu      sync.Mutex
	indexes map[*corpus.Store]*indexEntry
}

type indexEntry struct {
	once sync.Once
	ix   *index
}

func (c *indexCache) get(s *corpus.Store) *index {
	c.mu.Lock()
	if c.indexes == nil {
		c.indexes = make(map[*corpus.Store]*indexEntry)
	}
	e, ok := c.indexes[s]
	if !ok {
		e = &indexEntry{}
		c.indexes[s] = e
	}
	c.mu.Unlock()
	e.once.Do(func() { e.ix = buildIndex(s) })
	return e.ix
}
