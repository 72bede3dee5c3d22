// Package commentary aggregates commentary entries per verse and chapter.
// Only active entries are ever returned; drafts and retracted entries count
// towards statistics and nothing else.
package commentary

import (
	"sort"
	"strings"

	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/textnorm"
)

// Filter narrows a commentary query. The zero value returns every active
// entry.
type Filter struct {
	// Language keeps only entries in this language ("" = any).
	Language string `json:"language,omitempty"`

	// Types keeps only these commentary types (empty = any; chapter
	// queries default to verse and chapter types).
	Types []ir.CommentaryType `json:"types,omitempty"`

	// Author and Source match case-insensitively ("" = any).
	Author string `json:"author,omitempty"`
	Source string `json:"source,omitempty"`

	// Limit caps the result length (0 = unlimited). Grouped queries apply
	// it to each group.
	Limit int `json:"limit,omitempty"`
}

func (f Filter) keep(c *ir.Commentary) bool {
	if c.Status != ir.StatusActive {
		return false
	}
	if f.Language != "" && !strings.EqualFold(c.Language, f.Language) {
		return false
	}
	if f.Author != "" && !strings.EqualFold(c.Author, f.Author) {
		return false
	}
	if f.Source != "" && !strings.EqualFold(c.Source, f.Source) {
		return false
	}
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if c.Type == t {
			return true
		}
	}
	return false
}

// VerseGroup is the entries on one verse; Verse 0 holds chapter-scope
// entries.
type VerseGroup struct {
	Verse int             `json:"verse"`
	Items []ir.Commentary `json:"items"`
}

// Aggregator answers commentary queries over a fixed set of entries. It is
// immutable once built and safe for concurrent readers.
type Aggregator struct {
	byChapter map[[2]int][]*entry // every entry of a chapter, display order
	all       []*entry
	authors   []ir.Author
	sources   []ir.Source
	stats     Statistics
}

type entry struct {
	ir.Commentary
	plain string // folded title and body text for Search
}

// New builds an aggregator. Entries without a Seq get one from their
// position in entries.
func New(entries []ir.Commentary, authors []ir.Author, sources []ir.Source) *Aggregator {
	a := &Aggregator{
		byChapter: make(map[[2]int][]*entry),
		stats: Statistics{
			ByStatus: make(map[ir.CommentaryStatus]int),
			ByType:   make(map[ir.CommentaryType]int),
		},
	}
	for i := range entries {
		e := &entry{Commentary: entries[i]}
		if e.Seq == 0 {
			e.Seq = int64(i + 1)
		}
		a.stats.Total++
		a.stats.ByStatus[e.Status]++
		if e.Status != ir.StatusActive {
			continue
		}
		a.stats.ByType[e.Type]++
		e.plain = textnorm.Fold(e.Title + " " + PlainText(e.Body))
		ck := [2]int{e.Verse.BookNum, e.Verse.Chapter}
		a.byChapter[ck] = append(a.byChapter[ck], e)
		a.all = append(a.all, e)
	}
	for _, list := range a.byChapter {
		sortEntries(list)
	}
	sortEntries(a.all)

	a.authors = append(a.authors, authors...)
	sort.Slice(a.authors, func(i, j int) bool { return a.authors[i].Name < a.authors[j].Name })
	a.sources = append(a.sources, sources...)
	sort.Slice(a.sources, func(i, j int) bool { return a.sources[i].Name < a.sources[j].Name })
	a.stats.Authors = len(a.authors)
	a.stats.Sources = len(a.sources)
	return a
}

// sortEntries orders by reference (chapter scope first within a chapter),
// then rank, then insertion order.
func sortEntries(list []*entry) {
	sort.SliceStable(list, func(i, j int) bool {
		x, y := list[i], list[j]
		if c := x.Verse.Start().Compare(y.Verse.Start()); c != 0 {
			return c < 0
		}
		if x.Rank != y.Rank {
			return x.Rank < y.Rank
		}
		return x.Seq < y.Seq
	})
}

func collect(list []*entry, limit int, keep func(*entry) bool) []ir.Commentary {
	out := []ir.Commentary{}
	for _, e := range list {
		if limit > 0 && len(out) >= limit {
			break
		}
		if keep(e) {
			out = append(out, e.Commentary)
		}
	}
	return out
}

// ForVerse returns the entries written on id. A range id collects every
// verse it covers, in verse order.
func (a *Aggregator) ForVerse(id ir.VerseID, f Filter) []ir.Commentary {
	list := a.byChapter[[2]int{id.BookNum, id.Chapter}]
	return collect(list, f.Limit, func(e *entry) bool {
		return e.Verse.Verse != 0 && id.Contains(e.Verse) && f.keep(&e.Commentary)
	})
}

// ForChapter returns the chapter-scope entries of a chapter followed by its
// verse entries in verse order. Without a type filter only verse and
// chapter commentaries are returned.
func (a *Aggregator) ForChapter(book, chapter int, f Filter) []ir.Commentary {
	f = chapterDefaults(f)
	list := a.byChapter[[2]int{book, chapter}]
	return collect(list, f.Limit, func(e *entry) bool { return f.keep(&e.Commentary) })
}

// ForChapterGrouped is ForChapter partitioned by verse number, ascending,
// with f.Limit applied per verse. Chapter-scope entries form group 0.
func (a *Aggregator) ForChapterGrouped(book, chapter int, f Filter) []VerseGroup {
	f = chapterDefaults(f)
	var groups []VerseGroup
	for _, e := range a.byChapter[[2]int{book, chapter}] {
		if !f.keep(&e.Commentary) {
			continue
		}
		v := e.Verse.Verse
		if n := len(groups); n == 0 || groups[n-1].Verse != v {
			groups = append(groups, VerseGroup{Verse: v})
		}
		g := &groups[len(groups)-1]
		if f.Limit > 0 && len(g.Items) >= f.Limit {
			continue
		}
		g.Items = append(g.Items, e.Commentary)
	}
	return groups
}

func chapterDefaults(f Filter) Filter {
	if len(f.Types) == 0 {
		f.Types = []ir.CommentaryType{ir.CommentaryVerse, ir.CommentaryChapter}
	}
	return f
}

// Search returns active entries whose title or plain-text body contains
// text, compared after case and accent folding, in reference order.
func (a *Aggregator) Search(text string, f Filter) []ir.Commentary {
	needle := textnorm.Fold(textnorm.CollapseSpace(text))
	if needle == "" {
		return []ir.Commentary{}
	}
	return collect(a.all, f.Limit, func(e *entry) bool {
		return f.keep(&e.Commentary) && strings.Contains(e.plain, needle)
	})
}

// Authors returns the known authors sorted by name.
func (a *Aggregator) Authors() []ir.Author {
	return append([]ir.Author(nil), a.authors...)
}

// Sources returns the known sources sorted by name.
func (a *Aggregator) Sources() []ir.Source {
	return append([]ir.Source(nil), a.sources...)
}

// Statistics summarizes the loaded entries.
type Statistics struct {
	Total    int                         `json:"total"`
	ByStatus map[ir.CommentaryStatus]int `json:"by_status"`
	// ByType counts active entries only.
	ByType  map[ir.CommentaryType]int `json:"by_type"`
	Authors int                       `json:"authors"`
	Sources int                       `json:"sources"`
}

// Statistics returns a copy of the entry counts.
func (a *Aggregator) Statistics() Statistics {
	s := a.stats
	s.ByStatus = make(map[ir.CommentaryStatus]int, len(a.stats.ByStatus))
	for k, v := range a.stats.ByStatus {
		s.ByStatus[k] = v
	}
	s.ByType = make(map[ir.CommentaryType]int, len(a.stats.ByType))
	for k, v := range a.stats.ByType {
		s.ByType[k] = v
	}
	return s
}

// Len returns the number of active entries.
func (a *Aggregator) Len() int {
	return len(a.all)
}
