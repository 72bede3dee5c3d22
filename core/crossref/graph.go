// Package crossref provides the cross-reference graph: directed, typed,
// strength-scored edges between verses, indexed by source and target.
// A Graph is immutable once built and safe for concurrent readers.
package crossref

import (
	"sort"

	"github.com/FocuswithJustin/BibleHere/core/ir"
)

// Filter narrows a cross-reference query. The zero value returns every
// active edge.
type Filter struct {
	// Type keeps only edges of this type ("" = any).
	Type ir.CrossRefType `json:"type,omitempty"`

	// MinStrength drops edges below this strength (0 = no floor).
	MinStrength int `json:"min_strength,omitempty"`

	// ExclusiveMin makes MinStrength a strict lower bound.
	ExclusiveMin bool `json:"exclusive_min,omitempty"`

	// Source keeps only edges from this provenance ("" = any).
	Source string `json:"source,omitempty"`

	// Limit caps the result length (0 = unlimited).
	Limit int `json:"limit,omitempty"`
}

func (f Filter) keep(e *ir.CrossReference) bool {
	if e.Inactive {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Source != "" && e.Source != f.Source {
		return false
	}
	if f.ExclusiveMin {
		return e.Strength > f.MinStrength
	}
	return e.Strength >= f.MinStrength
}

type verseKey struct {
	book, chapter, verse int
}

func keyOf(id ir.VerseID) verseKey {
	return verseKey{id.BookNum, id.Chapter, id.Verse}
}

// Graph indexes cross-references by source and by target verse.
type Graph struct {
	bySource  map[verseKey][]*ir.CrossReference
	byTarget  map[verseKey][]*ir.CrossReference
	byChapter map[[2]int][]int // source verses per chapter, ascending
	all       []*ir.CrossReference
	sources   []string
}

// NewGraph indexes edges. Inactive edges are dropped.
func NewGraph(edges []ir.CrossReference) *Graph {
	g := &Graph{
		bySource:  make(map[verseKey][]*ir.CrossReference),
		byTarget:  make(map[verseKey][]*ir.CrossReference),
		byChapter: make(map[[2]int][]int),
	}
	sources := map[string]bool{}
	for i := range edges {
		e := edges[i]
		if e.Inactive {
			continue
		}
		g.all = append(g.all, &e)
		sk := keyOf(e.SourceID)
		if len(g.bySource[sk]) == 0 {
			ck := [2]int{sk.book, sk.chapter}
			g.byChapter[ck] = append(g.byChapter[ck], sk.verse)
		}
		g.bySource[sk] = append(g.bySource[sk], &e)
		// a range target is reachable from each verse it covers
		for v := e.TargetID.Verse; v <= e.TargetID.Last(); v++ {
			tk := verseKey{e.TargetID.BookNum, e.TargetID.Chapter, v}
			g.byTarget[tk] = append(g.byTarget[tk], &e)
		}
		if e.Source != "" && !sources[e.Source] {
			sources[e.Source] = true
			g.sources = append(g.sources, e.Source)
		}
	}
	for _, vs := range g.byChapter {
		sort.Ints(vs)
	}
	sort.Strings(g.sources)
	return g
}

// Len returns the number of active edges.
func (g *Graph) Len() int {
	return len(g.all)
}

// VersesFor returns the edges leaving id, strongest first. A range id
// collects the edges of every verse it covers.
func (g *Graph) VersesFor(id ir.VerseID, f Filter) []ir.CrossReference {
	var picked []*ir.CrossReference
	for v := id.Verse; v <= id.Last(); v++ {
		picked = appendKept(picked, g.bySource[verseKey{id.BookNum, id.Chapter, v}], f)
	}
	return finish(picked, f.Limit, func(e *ir.CrossReference) ir.VerseID { return e.TargetID })
}

// Incoming returns the edges whose target covers id, strongest first,
// ordered by source within equal strength.
func (g *Graph) Incoming(id ir.VerseID, f Filter) []ir.CrossReference {
	picked := appendKept(nil, g.byTarget[keyOf(id)], f)
	return finish(picked, f.Limit, func(e *ir.CrossReference) ir.VerseID { return e.SourceID })
}

// ChapterFor maps each verse of a chapter that has outgoing edges to its
// edges, each list sorted and capped at limitPerVerse independently (0 =
// unlimited). f.Limit is ignored. Verses left with no edges after
// filtering are omitted.
func (g *Graph) ChapterFor(book, chapter int, f Filter, limitPerVerse int) map[int][]ir.CrossReference {
	out := make(map[int][]ir.CrossReference)
	for _, v := range g.byChapter[[2]int{book, chapter}] {
		picked := appendKept(nil, g.bySource[verseKey{book, chapter, v}], f)
		if len(picked) == 0 {
			continue
		}
		out[v] = finish(picked, limitPerVerse, func(e *ir.CrossReference) ir.VerseID { return e.TargetID })
	}
	return out
}

// Sources returns the distinct provenance names, sorted.
func (g *Graph) Sources() []string {
	return append([]string(nil), g.sources...)
}

// TypeCount is a cross-reference type with its label and edge count.
type TypeCount struct {
	Type  ir.CrossRefType `json:"type"`
	Label string          `json:"label"`
	Count int             `json:"count"`
}

// Types lists every known type plus any other type present in the graph,
// alphabetically, with the number of active edges of each.
func (g *Graph) Types() []TypeCount {
	counts := make(map[ir.CrossRefType]int)
	for _, t := range ir.CrossRefTypes() {
		counts[t] = 0
	}
	for _, e := range g.all {
		counts[e.Type]++
	}
	out := make([]TypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TypeCount{Type: t, Label: t.Label(), Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

func appendKept(dst, edges []*ir.CrossReference, f Filter) []*ir.CrossReference {
	for _, e := range edges {
		if f.keep(e) {
			dst = append(dst, e)
		}
	}
	return dst
}

// finish sorts by strength descending, then rank, then the other end's
// canonical order, then id, and copies out at most limit edges.
func finish(edges []*ir.CrossReference, limit int, other func(*ir.CrossReference) ir.VerseID) []ir.CrossReference {
	sort.SliceStable(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Strength != b.Strength {
			return a.Strength > b.Strength
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		if c := other(a).Compare(other(b)); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
	if limit > 0 && len(edges) > limit {
		edges = edges[:limit]
	}
	out := make([]ir.CrossReference, len(edges))
	for i, e := range edges {
		out[i] = *e
	}
	return out
}
