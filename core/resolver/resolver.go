// Package resolver normalizes human-entered scripture references into
// canonical verse identifiers.
//
// Resolution tries, in order:
//
//  1. the dotted wire form "Book.Chapter[.Verse[-End]]", where Book is a
//     canonical abbreviation or OSIS id compared case-insensitively;
//  2. the human form "BookName Chapter[:Verse[-End]]", where BookName is
//     matched against every locale's aliases, longest alias first;
//
// and fails otherwise. Bounds are checked against the canon; a number past
// a book's published bounds fails with ErrOutOfRange and is never clamped.
// A Resolver is pure and safe for concurrent use.
package resolver

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/FocuswithJustin/BibleHere/core/canon"
	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/textnorm"
)

// Resolver resolves references against one canon.
type Resolver struct {
	canon *canon.Canon
}

// New creates a Resolver over c.
func New(c *canon.Canon) *Resolver {
	return &Resolver{canon: c}
}

// Canon returns the canon the resolver was built with.
func (r *Resolver) Canon() *canon.Canon {
	return r.canon
}

// Resolve parses a reference into a verse id or range. A chapter-only
// reference ("Psalm 23", "PSA.23") resolves to the whole chapter as a range.
func (r *Resolver) Resolve(input string) (ir.VerseID, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return ir.VerseID{}, errors.NewUnresolved(input, "empty reference")
	}

	if book, p, err := parseDotted(text); err == nil {
		if b, ok := r.canon.ByAbbrev(book); ok {
			return r.build(input, b, p)
		}
	}

	id, matched, err := r.resolveHuman(input, text)
	if matched {
		return id, err
	}
	return ir.VerseID{}, errors.NewUnresolved(input, "no book name or pattern matched")
}

// resolveHuman matches the longest alias that is followed by a valid
// chapter/verse tail. matched is false when no alias fits.
func (r *Resolver) resolveHuman(input, text string) (ir.VerseID, bool, error) {
	key := compact(text)
	var p parsedRef
	book, ok := r.canon.MatchPrefix(key, func(_ *canon.Book, rest string) bool {
		var err error
		p, err = parseTail(strings.TrimPrefix(rest, "."))
		return err == nil
	})
	if !ok {
		return ir.VerseID{}, false, nil
	}
	// "Jude 5" names a verse in a one-chapter book.
	if !p.hasVerse && book.ChapterCount() == 1 {
		p = parsedRef{chapter: 1, verse: p.chapter, hasVerse: true}
	}
	id, err := r.build(input, book, p)
	return id, true, err
}

// compact folds text and strips whitespace, keeping punctuation that the
// tail grammar needs.
func compact(text string) string {
	f := textnorm.Fold(text)
	f = strings.NewReplacer("–", "-", "—", "-").Replace(f)
	var b strings.Builder
	b.Grow(len(f))
	for _, c := range f {
		if unicode.IsSpace(c) {
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *Resolver) build(input string, b *canon.Book, p parsedRef) (ir.VerseID, error) {
	if err := b.CheckBounds(p.chapter, 0); err != nil {
		return ir.VerseID{}, errors.Wrapf(err, "resolve %q", input)
	}
	id := ir.VerseID{Book: b.Abbrev, BookNum: b.Number, Chapter: p.chapter}
	if !p.hasVerse {
		id.Verse = 1
		id.VerseEnd = b.VerseCount(p.chapter)
		return id.Normalize(), nil
	}
	if err := b.CheckVerse(p.chapter, p.verse); err != nil {
		return ir.VerseID{}, errors.Wrapf(err, "resolve %q", input)
	}
	id.Verse = p.verse
	if p.verseEnd != 0 {
		if p.verseEnd < p.verse {
			return ir.VerseID{}, errors.NewUnresolved(input, "range ends before it starts")
		}
		if err := b.CheckVerse(p.chapter, p.verseEnd); err != nil {
			return ir.VerseID{}, errors.Wrapf(err, "resolve %q", input)
		}
		id.VerseEnd = p.verseEnd
	}
	return id.Normalize(), nil
}

// ResolveBook resolves a book name, abbreviation or number in any locale.
// Search filters and cross-reference shortcuts both use it, so a given
// string always yields the same book.
func (r *Resolver) ResolveBook(name string) (*canon.Book, error) {
	name = strings.TrimSpace(name)
	if n, err := strconv.Atoi(name); err == nil {
		if b := r.canon.Book(n); b != nil {
			return b, nil
		}
		return nil, errors.NewUnresolved(name, "book number out of range")
	}
	if b, ok := r.canon.Lookup(name); ok {
		return b, nil
	}
	return nil, errors.NewUnresolved(name, "unknown book")
}

// ResolveBooks resolves a list of book names to book numbers, dropping
// duplicates and keeping first-seen order.
func (r *Resolver) ResolveBooks(names []string) ([]int, error) {
	seen := make(map[int]bool, len(names))
	out := make([]int, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		b, err := r.ResolveBook(n)
		if err != nil {
			return nil, err
		}
		if !seen[b.Number] {
			seen[b.Number] = true
			out = append(out, b.Number)
		}
	}
	return out, nil
}

// FromParts builds a verse id from a book name and numbers. A verse of 0
// yields the whole chapter.
func (r *Resolver) FromParts(book string, chapter, verse, verseEnd int) (ir.VerseID, error) {
	b, err := r.ResolveBook(book)
	if err != nil {
		return ir.VerseID{}, err
	}
	input := b.Abbrev + "." + strconv.Itoa(chapter) + "." + strconv.Itoa(verse)
	return r.build(input, b, parsedRef{chapter: chapter, verse: verse, verseEnd: verseEnd, hasVerse: verse != 0})
}

// Chapter returns the book for bookNumber after checking that chapter
// exists in it.
func (r *Resolver) Chapter(bookNumber, chapter int) (*canon.Book, error) {
	b := r.canon.Book(bookNumber)
	if b == nil {
		return nil, errors.NewUnresolved(strconv.Itoa(bookNumber), "book number out of range")
	}
	if err := b.CheckBounds(chapter, 0); err != nil {
		return nil, err
	}
	return b, nil
}

// ResolveAll resolves a list such as "cf. Gen 1:1; Exod 2:3". Every part
// must resolve.
func (r *Resolver) ResolveAll(input string) ([]ir.VerseID, error) {
	s := strings.TrimSpace(input)
	for _, prefix := range []string{"cf.", "see also", "see"} {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			s = strings.TrimSpace(s[len(prefix):])
			break
		}
	}
	var ids []ir.VerseID
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := r.Resolve(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.NewUnresolved(input, "empty reference list")
	}
	return ids, nil
}

// Validate reports whether input resolves.
func (r *Resolver) Validate(input string) bool {
	_, err := r.Resolve(input)
	return err == nil
}

// Format returns the canonical wire form of id.
func (r *Resolver) Format(id ir.VerseID) string {
	return id.String()
}

// Display formats id for people: "Genesis 1:1", or "Genesis 1:1-3" when the
// id is a range. Chapter-scope ids (verse 0) render as "Genesis 1".
func (r *Resolver) Display(id ir.VerseID, locale string) string {
	name := id.Book
	if b := r.canon.Book(id.BookNum); b != nil {
		name = b.DisplayName(locale)
	}
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(id.Chapter))
	if id.Verse == 0 {
		return sb.String()
	}
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(id.Verse))
	if id.IsRange() {
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(id.VerseEnd))
	}
	return sb.String()
}

// Verse builds a single-verse id, checking bounds.
func (r *Resolver) Verse(bookNumber, chapter, verse int) (ir.VerseID, error) {
	b, err := r.Chapter(bookNumber, chapter)
	if err != nil {
		return ir.VerseID{}, err
	}
	if err := b.CheckVerse(chapter, verse); err != nil {
		return ir.VerseID{}, err
	}
	return ir.VerseID{Book: b.Abbrev, BookNum: b.Number, Chapter: chapter, Verse: verse}, nil
}
