// Package engine is the call surface over a loaded corpus: reference
// resolution, multi-mode search, cross-references, commentaries and the
// search history. Loaded data lives in an immutable snapshot that Swap
// replaces atomically; requests already running keep the snapshot they
// started with.
package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/FocuswithJustin/BibleHere/core/cache"
	"github.com/FocuswithJustin/BibleHere/core/canon"
	"github.com/FocuswithJustin/BibleHere/core/commentary"
	"github.com/FocuswithJustin/BibleHere/core/corpus"
	"github.com/FocuswithJustin/BibleHere/core/crossref"
	"github.com/FocuswithJustin/BibleHere/core/history"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/resolver"
	"github.com/FocuswithJustin/BibleHere/core/search"
	"github.com/FocuswithJustin/BibleHere/core/strongs"
	"github.com/FocuswithJustin/BibleHere/internal/logging"
)

// Context is the read-only data an Engine serves. Nil fields are replaced
// by empty values.
type Context struct {
	Canon      *canon.Canon
	Library    *corpus.Library
	Graph      *crossref.Graph
	Commentary *commentary.Aggregator
	Strongs    *strongs.Concordance
}

// Options configures an Engine.
type Options struct {
	// Search configures the dispatcher.
	Search search.Options

	// CacheSize bounds the search and suggestion caches (0 disables them).
	CacheSize int

	// CacheTTL expires cached pages (0 = never).
	CacheTTL time.Duration

	// HistoryCapacity bounds the search history (default 50).
	HistoryCapacity int

	// SuggestLimit applies when Suggest is called with limit 0 (default 10).
	SuggestLimit int

	// Locale is used for display names (default "en").
	Locale string

	// Now overrides the clock in tests.
	Now func() time.Time

	// Rand returns a number in [0, n) for RandomVerse (default
	// math/rand/v2).
	Rand func(n int) int
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		Search:          search.DefaultOptions(),
		CacheSize:       256,
		CacheTTL:        time.Hour,
		HistoryCapacity: history.DefaultCapacity,
		SuggestLimit:    10,
		Locale:          canon.DefaultLocale,
	}
}

type snapshot struct {
	data     Context
	res      *resolver.Resolver
	dispatch *search.Dispatcher
	loadedAt time.Time
}

// Engine serves queries against the current snapshot. It is safe for
// concurrent use.
type Engine struct {
	opts        Options
	snap        atomic.Pointer[snapshot]
	pages       *cache.Cache[string, *search.Page]
	suggestions *cache.Cache[string, []string]
	history     *history.Log
	stats       *recorder
}

// New builds an engine over data.
func New(data Context, opts Options) *Engine {
	if opts.HistoryCapacity <= 0 {
		opts.HistoryCapacity = history.DefaultCapacity
	}
	if opts.SuggestLimit <= 0 {
		opts.SuggestLimit = 10
	}
	if opts.Locale == "" {
		opts.Locale = canon.DefaultLocale
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.IntN
	}
	e := &Engine{
		opts:    opts,
		history: history.New(opts.HistoryCapacity),
		stats:   newRecorder(),
	}
	cfg := cache.Config{MaxSize: opts.CacheSize, TTL: opts.CacheTTL, Now: opts.Now}
	if opts.CacheSize > 0 {
		e.pages = cache.New[string, *search.Page](cfg)
		e.suggestions = cache.New[string, []string](cfg)
	}
	e.Swap(data)
	return e
}

// Swap replaces the served data. Cached results are dropped.
func (e *Engine) Swap(data Context) {
	if data.Canon == nil {
		data.Canon = canon.Default()
	}
	if data.Library == nil {
		data.Library = corpus.NewLibrary()
	}
	if data.Graph == nil {
		data.Graph = crossref.NewGraph(nil)
	}
	if data.Commentary == nil {
		data.Commentary = commentary.New(nil, nil, nil)
	}
	if data.Strongs == nil {
		data.Strongs = strongs.New(nil, nil, nil)
	}
	res := resolver.New(data.Canon)
	e.snap.Store(&snapshot{
		data:     data,
		res:      res,
		dispatch: search.New(data.Library, res, e.opts.Search),
		loadedAt: e.opts.Now(),
	})
	e.ClearCache()
}

func (e *Engine) current() *snapshot {
	return e.snap.Load()
}

// Data returns the currently served data.
func (e *Engine) Data() Context {
	return e.current().data
}

// Resolver returns the resolver of the current snapshot.
func (e *Engine) Resolver() *resolver.Resolver {
	return e.current().res
}

// Resolve parses a reference into a canonical id.
func (e *Engine) Resolve(ctx context.Context, text string) (ir.VerseID, error) {
	id, err := e.current().res.Resolve(text)
	if err != nil {
		logging.ReferenceUnresolved(ctx, text, err)
		return ir.VerseID{}, err
	}
	return id, nil
}

// Display formats id for people in the engine locale.
func (e *Engine) Display(id ir.VerseID) string {
	return e.current().res.Display(id, e.opts.Locale)
}

// Search runs q. Pages are cached under the normalized query and the
// fingerprint of the searched versions.
func (e *Engine) Search(ctx context.Context, q search.Query) (*search.Page, error) {
	s := e.current()
	start := e.opts.Now()
	nq, err := s.dispatch.Options().Normalize(q)
	if err != nil {
		return nil, err
	}
	stores, err := s.data.Library.Stores(nq.Versions)
	if err != nil {
		return nil, err
	}

	key := cacheKey(nq, corpus.Fingerprint(stores))
	if e.pages != nil {
		if page, ok := e.pages.Get(key); ok {
			e.finishSearch(ctx, nq, page, start, true)
			return clonePage(page), nil
		}
	}

	page, err := s.dispatch.Search(ctx, nq)
	if err != nil {
		return nil, err
	}
	if e.pages != nil {
		e.pages.Put(key, page)
	}
	e.finishSearch(ctx, nq, page, start, false)
	return clonePage(page), nil
}

// clonePage copies the page header and its item slice so callers never
// share the cached Items backing array. Hits themselves are not copied.
func clonePage(p *search.Page) *search.Page {
	out := *p
	out.Items = append(make([]search.Hit, 0, len(p.Items)), p.Items...)
	return &out
}

func (e *Engine) finishSearch(ctx context.Context, q search.Query, page *search.Page, start time.Time, cached bool) {
	d := e.opts.Now().Sub(start)
	e.stats.record(q.Text, q.Mode, page.TotalCount, d)
	logging.SearchExecuted(ctx, q.Mode.String(), q.Text, q.Versions, page.TotalCount, d, cached)
}

func cacheKey(q search.Query, fingerprint string) string {
	return fmt.Sprintf("%s|%d|%q|%q|%q|%d|%d|%d|%t|%d",
		fingerprint, q.Mode, q.Text,
		strings.Join(q.Versions, ","), strings.Join(q.Books, ","),
		q.Page, q.PageSize, q.SortBy, q.NoHighlight, q.ContextSize)
}

// Suggest completes a partial query; see search.Dispatcher.Suggest. A
// limit of 0 selects the configured default.
func (e *Engine) Suggest(partial, version string, limit int) []string {
	if limit <= 0 {
		limit = e.opts.SuggestLimit
	}
	s := e.current()
	if version == "" {
		version = s.dispatch.Options().DefaultVersions[0]
	}
	key := suggestKey(s, version, partial, limit)
	if e.suggestions != nil {
		if out, ok := e.suggestions.Get(key); ok {
			return slices.Clone(out)
		}
	}
	out := s.dispatch.Suggest(partial, version, limit)
	if e.suggestions != nil {
		e.suggestions.Put(key, out)
	}
	return slices.Clone(out)
}

// suggestKey includes the store fingerprint so completions computed on a
// replaced snapshot are never served.
func suggestKey(s *snapshot, version, partial string, limit int) string {
	var fingerprint string
	if st, err := s.data.Library.Store(version); err == nil {
		fingerprint = st.Fingerprint()
	}
	return fmt.Sprintf("%s|%s|%q|%d", fingerprint, version, partial, limit)
}

// ClearCache drops every cached page and suggestion.
func (e *Engine) ClearCache() {
	if e.pages != nil {
		e.pages.Clear()
		e.suggestions.Clear()
	}
}

// CrossReferences returns the edges leaving id.
func (e *Engine) CrossReferences(id ir.VerseID, f crossref.Filter) []ir.CrossReference {
	return e.current().data.Graph.VersesFor(id, f)
}

// IncomingCrossReferences returns the edges whose target covers id.
func (e *Engine) IncomingCrossReferences(id ir.VerseID, f crossref.Filter) []ir.CrossReference {
	return e.current().data.Graph.Incoming(id, f)
}

// ChapterCrossReferences returns the edges of every verse in a chapter,
// keyed by verse number and capped per verse.
func (e *Engine) ChapterCrossReferences(book, chapter int, f crossref.Filter, limitPerVerse int) (map[int][]ir.CrossReference, error) {
	s := e.current()
	if _, err := s.res.Chapter(book, chapter); err != nil {
		return nil, err
	}
	return s.data.Graph.ChapterFor(book, chapter, f, limitPerVerse), nil
}

// Commentaries returns the active commentary entries on id.
func (e *Engine) Commentaries(id ir.VerseID, f commentary.Filter) []ir.Commentary {
	return e.current().data.Commentary.ForVerse(id, f)
}

// SearchCommentaries returns active entries whose title or body contains
// text.
func (e *Engine) SearchCommentaries(text string, f commentary.Filter) []ir.Commentary {
	return e.current().data.Commentary.Search(text, f)
}

// ChapterCommentaries returns the active entries of a chapter.
func (e *Engine) ChapterCommentaries(book, chapter int, f commentary.Filter) ([]ir.Commentary, error) {
	s := e.current()
	if _, err := s.res.Chapter(book, chapter); err != nil {
		return nil, err
	}
	return s.data.Commentary.ForChapter(book, chapter, f), nil
}

// ChapterCommentariesGrouped returns the active entries of a chapter
// grouped by verse.
func (e *Engine) ChapterCommentariesGrouped(book, chapter int, f commentary.Filter) ([]commentary.VerseGroup, error) {
	s := e.current()
	if _, err := s.res.Chapter(book, chapter); err != nil {
		return nil, err
	}
	return s.data.Commentary.ForChapterGrouped(book, chapter, f), nil
}

// History returns the search history log.
func (e *Engine) History() *history.Log {
	return e.history
}

// RecordSearch appends a completed search to the history, with the
// options it ran with after defaults were applied.
func (e *Engine) RecordSearch(q search.Query, page *search.Page) history.Entry {
	if nq, err := e.current().dispatch.Options().Normalize(q); err == nil {
		q = nq
	}
	return e.history.Append(history.Entry{
		Query: q.Text,
		Options: history.Options{
			Mode:     q.Mode.String(),
			Versions: q.Versions,
			Books:    q.Books,
			SortBy:   q.SortBy.String(),
			Page:     q.Page,
			PageSize: q.PageSize,
		},
		ResultCount: page.TotalCount,
	})
}
