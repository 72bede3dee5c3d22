package search

import (
	"strings"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/textnorm"
)

// Query is one search request. The zero value of every optional field
// selects its documented default.
type Query struct {
	// Text is the query text; required.
	Text string `json:"text"`

	// Mode is the matching strategy (default Natural).
	Mode Mode `json:"mode"`

	// Versions to search (default Options.DefaultVersions).
	Versions []string `json:"versions,omitempty"`

	// Books restricts results to these books, given as names, abbreviations
	// or numbers in any locale (default all books).
	Books []string `json:"books,omitempty"`

	// Page is 1-based (default 1).
	Page int `json:"page"`

	// PageSize is the number of items per page (default
	// Options.DefaultPageSize, capped at Options.MaxPageSize).
	PageSize int `json:"page_size"`

	// SortBy orders results (default ByRelevance). Boolean and regex
	// scores are binary, so those modes always order by reference.
	SortBy SortBy `json:"sort_by"`

	// NoHighlight leaves snippets unmarked (default false: highlight).
	NoHighlight bool `json:"no_highlight,omitempty"`

	// ContextSize attaches this many neighbouring verses on each side of
	// every hit (default 0: none).
	ContextSize int `json:"context_size,omitempty"`
}

// Span is a byte range [Start, End) in a verse's stored text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Hit is one matching verse.
type Hit struct {
	Verse   ir.Verse   `json:"verse"`
	Snippet string     `json:"snippet"`
	Spans   []Span     `json:"spans,omitempty"`
	Score   float64    `json:"score"`
	Context []ir.Verse `json:"context,omitempty"`
}

// Page is one page of results. TotalCount counts the full matching set.
type Page struct {
	Items      []Hit  `json:"items"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
	Mode       Mode   `json:"mode"`
	SortBy     SortBy `json:"sort_by"`
}

// Options configures a Dispatcher.
type Options struct {
	// DefaultVersions are searched when a query names none.
	DefaultVersions []string
	// DefaultPageSize applies when Query.PageSize is 0.
	DefaultPageSize int
	// MaxPageSize caps Query.PageSize.
	MaxPageSize int
	// NgramSize is n for ngram mode.
	NgramSize int
	// NgramMinOverlap is the minimum overlap coefficient in [0,1] for an
	// ngram match.
	NgramMinOverlap float64
	// MaxRegexLength rejects longer regex patterns.
	MaxRegexLength int
	// HighlightPre and HighlightPost wrap highlighted spans.
	HighlightPre  string
	HighlightPost string
	// EscapeHTML escapes snippet text outside the highlight markers.
	EscapeHTML bool
	// StopwordLanguage selects the stopword list for natural mode; empty
	// disables stopword removal.
	StopwordLanguage string
}

// DefaultOptions returns the dispatcher defaults.
func DefaultOptions() Options {
	return Options{
		DefaultVersions:  []string{"KJV"},
		DefaultPageSize:  20,
		MaxPageSize:      100,
		NgramSize:        2,
		NgramMinOverlap:  0.5,
		MaxRegexLength:   512,
		HighlightPre:     "<mark>",
		HighlightPost:    "</mark>",
		EscapeHTML:       true,
		StopwordLanguage: "en",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if len(o.DefaultVersions) == 0 {
		o.DefaultVersions = d.DefaultVersions
	}
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = d.DefaultPageSize
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = d.MaxPageSize
	}
	if o.DefaultPageSize > o.MaxPageSize {
		o.DefaultPageSize = o.MaxPageSize
	}
	if o.NgramSize <= 0 {
		o.NgramSize = d.NgramSize
	}
	if o.NgramMinOverlap <= 0 || o.NgramMinOverlap > 1 {
		o.NgramMinOverlap = d.NgramMinOverlap
	}
	if o.MaxRegexLength <= 0 {
		o.MaxRegexLength = d.MaxRegexLength
	}
	return o
}

// Normalize validates q and fills defaults. It is exported so callers can
// build cache keys from the same normalized form the dispatcher uses.
func (o Options) Normalize(q Query) (Query, error) {
	o = o.withDefaults()
	switch q.Mode {
	case 0:
		q.Mode = Natural
	case Natural, Boolean, Ngram, Regex:
	default:
		return q, errors.NewInvalidQuery("mode", "unknown mode")
	}
	// a regex is kept byte for byte; only a blank one is rejected
	if q.Mode != Regex {
		q.Text = textnorm.CollapseSpace(q.Text)
	}
	if strings.TrimSpace(q.Text) == "" {
		return q, errors.NewInvalidQuery("text", "must not be empty")
	}
	if q.SortBy != ByRelevance && q.SortBy != ByReference {
		return q, errors.NewInvalidQuery("sort_by", "unknown sort")
	}
	if q.Mode == Boolean || q.Mode == Regex {
		q.SortBy = ByReference
	}
	if len(q.Versions) == 0 {
		q.Versions = o.DefaultVersions
	}
	if q.Page < 0 {
		return q, errors.NewInvalidQuery("page", "must be at least 1")
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize < 0 {
		return q, errors.NewInvalidQuery("page_size", "must be positive")
	}
	if q.PageSize == 0 {
		q.PageSize = o.DefaultPageSize
	}
	if q.PageSize > o.MaxPageSize {
		q.PageSize = o.MaxPageSize
	}
	if q.ContextSize < 0 {
		return q, errors.NewInvalidQuery("context_size", "must not be negative")
	}
	return q, nil
}
