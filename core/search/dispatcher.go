// Package search runs queries over the corpus in one of four modes and
// assembles paginated, highlighted result pages.
package search

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/orsinium-labs/stopwords"

	"github.com/FocuswithJustin/BibleHere/core/canon"
	"github.com/FocuswithJustin/BibleHere/core/corpus"
	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/resolver"
	"github.com/FocuswithJustin/BibleHere/core/textnorm"
)

// cancelCheckEvery is how many verses are scanned between context checks.
const cancelCheckEvery = 1024

// Dispatcher executes search queries against a library. It holds no
// per-request state and is safe for concurrent use.
type Dispatcher struct {
	lib     *corpus.Library
	res     *resolver.Resolver
	opts    Options
	sw      *stopwords.Stopwords
	indexes indexCache
}

// New creates a dispatcher. Zero option fields take their defaults.
func New(lib *corpus.Library, res *resolver.Resolver, opts Options) *Dispatcher {
	opts = opts.withDefaults()
	return &Dispatcher{
		lib:  lib,
		res:  res,
		opts: opts,
		sw:   loadStopwords(opts.StopwordLanguage),
	}
}

// Options returns the effective options.
func (d *Dispatcher) Options() Options {
	return d.opts
}

// Library returns the library the dispatcher searches.
func (d *Dispatcher) Library() *corpus.Library {
	return d.lib
}

// compile builds the matcher for q.Mode.
func (d *Dispatcher) compile(q Query) (matcher, error) {
	switch q.Mode {
	case Natural:
		return newNaturalMatcher(q.Text, d.sw)
	case Boolean:
		return newBooleanMatcher(q.Text)
	case Ngram:
		return newNgramMatcher(q.Text, d.opts.NgramSize, d.opts.NgramMinOverlap)
	case Regex:
		return newRegexMatcher(q.Text, d.opts.MaxRegexLength)
	}
	return nil, errors.NewInvalidQuery("mode", "unknown mode")
}

// candidate is one scored verse.
type candidate struct {
	order int // position of the store in the requested version list
	ix    *index
	pos   int
	score float64
}

// Search validates q, scans every requested version and returns one page.
// Zero matches is a successful, empty page. A cancelled context aborts the
// scan and returns ctx.Err().
func (d *Dispatcher) Search(ctx context.Context, q Query) (*Page, error) {
	q, err := d.opts.Normalize(q)
	if err != nil {
		return nil, err
	}
	stores, err := d.lib.Stores(q.Versions)
	if err != nil {
		return nil, err
	}
	books, err := d.res.ResolveBooks(q.Books)
	if err != nil {
		return nil, errors.Wrap(err, "book filter")
	}
	m, err := d.compile(q)
	if err != nil {
		return nil, err
	}

	var bookSet map[int]bool
	if len(books) > 0 {
		bookSet = make(map[int]bool, len(books))
		for _, b := range books {
			bookSet[b] = true
		}
	}

	var matches []candidate
	scanned := 0
	for order, s := range stores {
		ix := d.indexes.get(s)
		verses := s.All()
		for i := range ix.docs {
			scanned++
			if scanned%cancelCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			if bookSet != nil && !bookSet[verses[i].ID.BookNum] {
				continue
			}
			if sc := m.score(ix, &ix.docs[i]); sc > 0 {
				matches = append(matches, candidate{order: order, ix: ix, pos: i, score: sc})
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortCandidates(matches, q.SortBy)
	return d.assemble(q, m, matches), nil
}

func sortCandidates(c []candidate, by SortBy) {
	sort.SliceStable(c, func(i, j int) bool {
		a, b := c[i], c[j]
		if by == ByRelevance && a.score != b.score {
			return a.score > b.score
		}
		if cmp := a.ix.store.All()[a.pos].ID.Compare(b.ix.store.All()[b.pos].ID); cmp != 0 {
			return cmp < 0
		}
		return a.order < b.order
	})
}

// assemble slices one page out of the sorted matches and renders it.
func (d *Dispatcher) assemble(q Query, m matcher, matches []candidate) *Page {
	total := len(matches)
	p := &Page{
		Items:      []Hit{},
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: (total + q.PageSize - 1) / q.PageSize,
		Mode:       q.Mode,
		SortBy:     q.SortBy,
	}
	start := (q.Page - 1) * q.PageSize
	if start >= total {
		return p
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	for _, c := range matches[start:end] {
		v := c.ix.store.All()[c.pos]
		h := Hit{Verse: v, Score: c.score}
		if q.NoHighlight {
			h.Snippet = d.opts.render(v.Text, nil)
		} else {
			h.Spans = m.spans(&c.ix.docs[c.pos])
			h.Snippet = d.opts.render(v.Text, h.Spans)
		}
		if q.ContextSize > 0 {
			h.Context = c.ix.store.Context(v.ID, q.ContextSize)
		}
		p.Items = append(p.Items, h)
	}
	return p
}

// Suggest returns completions for a partially typed query: the reference it
// resolves to, then matching book names, then corpus words completing the
// last word typed. Closer matches come first and ties keep reference order.
// Inputs shorter than two characters, or an unknown version, yield an empty
// list.
func (d *Dispatcher) Suggest(partial, version string, limit int) []string {
	partial = textnorm.CollapseSpace(partial)
	out := []string{}
	if utf8.RuneCountInString(partial) < 2 || limit <= 0 {
		return out
	}
	seen := make(map[string]bool)
	add := func(s string) bool {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
		return len(out) >= limit
	}

	if id, err := d.res.Resolve(partial); err == nil {
		if add(d.res.Display(id, canon.DefaultLocale)) {
			return out
		}
	}
	for _, b := range d.res.Canon().SearchBooks(partial, "", limit) {
		if add(b.DisplayName(canon.DefaultLocale)) {
			return out
		}
	}

	if version == "" && len(d.opts.DefaultVersions) > 0 {
		version = d.opts.DefaultVersions[0]
	}
	s, err := d.lib.Store(version)
	if err != nil {
		return out
	}
	words := textnorm.Words(partial)
	if len(words) == 0 {
		return out
	}
	last := words[len(words)-1]
	lead := strings.Join(words[:len(words)-1], " ")
	if lead != "" {
		lead += " "
	}
	ix := d.indexes.get(s)
	completions := ix.wordsWithPrefix(last)
	sort.SliceStable(completions, func(i, j int) bool {
		li, lj := len(completions[i]), len(completions[j])
		if li != lj {
			return li < lj
		}
		return ix.first[completions[i]] < ix.first[completions[j]]
	})
	for _, w := range completions {
		if add(lead + w) {
			return out
		}
	}
	return out
}
