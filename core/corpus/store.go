// Package corpus holds verse text per Bible version, keyed by canonical
// verse id. Stores are built once and are read-only afterwards, so they are
// shared between concurrent readers without locking.
package corpus

import (
	"encoding/hex"
	"io"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/BibleHere/core/canon"
	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
)

// key addresses one verse.
type key struct {
	book, chapter, verse int
}

func keyOf(id ir.VerseID) key {
	return key{id.BookNum, id.Chapter, id.Verse}
}

// span is the half-open index range of a chapter inside Store.verses.
type span struct {
	start, end int
}

// Store is one version's text in canonical order.
type Store struct {
	version     ir.Version
	verses      []ir.Verse
	index       map[key]int
	chapters    map[[2]int]span
	fingerprint string
}

// Builder accumulates verses for a Store.
type Builder struct {
	version ir.Version
	canon   *canon.Canon
	verses  map[key]ir.Verse
}

// NewBuilder starts a store for version, validating ids against c.
func NewBuilder(version ir.Version, c *canon.Canon) *Builder {
	return &Builder{version: version, canon: c, verses: make(map[key]ir.Verse)}
}

// Add records one verse. Later additions of the same id replace earlier
// ones. The id must be a single verse within the canon's bounds.
func (b *Builder) Add(id ir.VerseID, text string) error {
	book := b.canon.Book(id.BookNum)
	if book == nil {
		return errors.NewUnresolved(id.Book, "book number out of range")
	}
	if id.IsRange() {
		return errors.NewValidation("verse", "corpus entries must be single verses")
	}
	if err := book.CheckBounds(id.Chapter, 0); err != nil {
		return err
	}
	if err := book.CheckVerse(id.Chapter, id.Verse); err != nil {
		return err
	}
	id = ir.VerseID{Book: book.Abbrev, BookNum: book.Number, Chapter: id.Chapter, Verse: id.Verse}
	b.verses[keyOf(id)] = ir.Verse{Version: b.version.Abbrev, ID: id, Text: text}
	return nil
}

// Len returns the number of verses added so far.
func (b *Builder) Len() int {
	return len(b.verses)
}

// Build freezes the builder into a Store.
func (b *Builder) Build() *Store {
	s := &Store{
		version:  b.version,
		verses:   make([]ir.Verse, 0, len(b.verses)),
		index:    make(map[key]int, len(b.verses)),
		chapters: make(map[[2]int]span),
	}
	for _, v := range b.verses {
		s.verses = append(s.verses, v)
	}
	sort.Slice(s.verses, func(i, j int) bool {
		return s.verses[i].ID.Less(s.verses[j].ID)
	})

	h := blake3.New()
	for i, v := range s.verses {
		s.index[keyOf(v.ID)] = i
		ck := [2]int{v.ID.BookNum, v.ID.Chapter}
		sp, ok := s.chapters[ck]
		if !ok {
			sp.start = i
		}
		sp.end = i + 1
		s.chapters[ck] = sp

		_, _ = io.WriteString(h, v.ID.String())
		_, _ = io.WriteString(h, "\t")
		_, _ = io.WriteString(h, v.Text)
		_, _ = io.WriteString(h, "\n")
	}
	s.fingerprint = hex.EncodeToString(h.Sum(nil))
	return s
}

// Version returns the version metadata.
func (s *Store) Version() ir.Version {
	return s.version
}

// Len returns the number of verses.
func (s *Store) Len() int {
	return len(s.verses)
}

// All returns every verse in canonical order. The slice is shared and must
// not be modified.
func (s *Store) All() []ir.Verse {
	return s.verses
}

// Fingerprint is the BLAKE3 hash of the store's ids and text. Two stores
// with the same content have the same fingerprint.
func (s *Store) Fingerprint() string {
	return s.fingerprint
}

// Verse returns the verse with the given id's first verse.
func (s *Store) Verse(id ir.VerseID) (ir.Verse, bool) {
	i, ok := s.index[keyOf(id)]
	if !ok {
		return ir.Verse{}, false
	}
	return s.verses[i], true
}

// Range returns the verses covered by id, skipping verses the version
// does not contain.
func (s *Store) Range(id ir.VerseID) []ir.Verse {
	sp, ok := s.chapters[[2]int{id.BookNum, id.Chapter}]
	if !ok {
		return nil
	}
	var out []ir.Verse
	for _, v := range s.verses[sp.start:sp.end] {
		if v.ID.Verse >= id.Verse && v.ID.Verse <= id.Last() {
			out = append(out, v)
		}
	}
	return out
}

// Chapter returns every verse of one chapter.
func (s *Store) Chapter(book, chapter int) []ir.Verse {
	sp, ok := s.chapters[[2]int{book, chapter}]
	if !ok {
		return nil
	}
	return s.verses[sp.start:sp.end]
}

// Context returns up to size verses on each side of id within its chapter,
// in canonical order. The verse id itself is not included.
func (s *Store) Context(id ir.VerseID, size int) []ir.Verse {
	i, ok := s.index[keyOf(id)]
	if !ok || size <= 0 {
		return nil
	}
	sp := s.chapters[[2]int{id.BookNum, id.Chapter}]
	lo, hi := max(i-size, sp.start), min(i+size+1, sp.end)
	out := make([]ir.Verse, 0, hi-lo-1)
	out = append(out, s.verses[lo:i]...)
	return append(out, s.verses[i+1:hi]...)
}

// Books returns the book numbers present in the store, ascending.
func (s *Store) Books() []int {
	var out []int
	last := 0
	for _, v := range s.verses {
		if v.ID.BookNum != last {
			out = append(out, v.ID.BookNum)
			last = v.ID.BookNum
		}
	}
	return out
}
