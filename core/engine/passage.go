package engine

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/FocuswithJustin/BibleHere/core/canon"
	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
)

// Passage is the text of one reference in one version.
type Passage struct {
	Reference ir.VerseID `json:"reference"`
	Display   string     `json:"display"`
	Version   ir.Version `json:"version"`
	Verses    []ir.Verse `json:"verses"`
}

// Passage resolves reference and returns its text in each version, in the
// order given. No versions selects the search default. A version that
// lacks some verses yields a passage with the verses it has.
func (e *Engine) Passage(ctx context.Context, reference string, versions []string) ([]Passage, error) {
	s := e.current()
	id, err := e.Resolve(ctx, reference)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		versions = s.dispatch.Options().DefaultVersions
	}
	stores, err := s.data.Library.Stores(versions)
	if err != nil {
		return nil, err
	}
	out := make([]Passage, 0, len(stores))
	for _, st := range stores {
		verses := st.Range(id)
		if verses == nil {
			verses = []ir.Verse{}
		}
		out = append(out, Passage{
			Reference: id,
			Display:   s.res.Display(id, e.opts.Locale),
			Version:   st.Version(),
			Verses:    verses,
		})
	}
	return out, nil
}

// votdReferences are cycled through by day of year.
var votdReferences = []string{
	"John 3:16",
	"Romans 8:28",
	"Philippians 4:13",
	"Jeremiah 29:11",
	"Psalm 23:1",
	"Isaiah 40:31",
	"Proverbs 3:5-6",
	"Matthew 28:20",
	"1 Corinthians 13:4-7",
	"Romans 12:2",
}

// VerseOfDay returns the passage for date, picked by its zero-based day of
// the year. A zero date means today.
func (e *Engine) VerseOfDay(ctx context.Context, date time.Time, version string) (Passage, error) {
	if date.IsZero() {
		date = e.opts.Now()
	}
	ref := votdReferences[(date.YearDay()-1)%len(votdReferences)]
	var versions []string
	if version != "" {
		versions = []string{version}
	}
	ps, err := e.Passage(ctx, ref, versions)
	if err != nil {
		return Passage{}, err
	}
	return ps[0], nil
}

// RandomFilter narrows the verses RandomVerse picks from. Zero values do
// not filter.
type RandomFilter struct {
	Testament string   // "old" or "new"
	Books     []string // book names or numbers
	MinLength int      // characters of verse text
}

// RandomVerse picks a verse of version uniformly among those matching f.
// An empty version selects the first default search version.
func (e *Engine) RandomVerse(version string, f RandomFilter) (Passage, error) {
	s := e.current()
	if version == "" {
		version = s.dispatch.Options().DefaultVersions[0]
	}
	st, err := s.data.Library.Store(version)
	if err != nil {
		return Passage{}, err
	}
	testament := canon.Testament(strings.ToLower(strings.TrimSpace(f.Testament)))
	if testament != "" && testament != canon.Old && testament != canon.New {
		return Passage{}, errors.NewValidation("testament", "must be old or new")
	}
	books, err := s.res.ResolveBooks(f.Books)
	if err != nil {
		return Passage{}, err
	}
	allowed := make(map[int]bool)
	for _, b := range s.data.Canon.Books(testament) {
		allowed[b.Number] = len(books) == 0
	}
	for _, n := range books {
		if _, ok := allowed[n]; ok {
			allowed[n] = true
		}
	}

	var candidates []ir.Verse
	for _, v := range st.All() {
		if allowed[v.ID.BookNum] && utf8.RuneCountInString(v.Text) >= f.MinLength {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return Passage{}, errors.NewNotFound("verse", "no verse of "+st.Version().Abbrev+" matches the filter")
	}
	v := candidates[e.opts.Rand(len(candidates))]
	return Passage{
		Reference: v.ID,
		Display:   s.res.Display(v.ID, e.opts.Locale),
		Version:   st.Version(),
		Verses:    []ir.Verse{v},
	}, nil
}
