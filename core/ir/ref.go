package ir

import (
	"strconv"
	"strings"
)

// VerseID is a canonical verse identifier, optionally extended to a closed
// range within one chapter. Values are built by the resolver or the canon
// so Book and BookNum always agree.
type VerseID struct {
	// Book is the canonical book abbreviation (e.g., "GEN", "1JN").
	Book string

	// BookNum is the 1-based position of the book in the canon.
	BookNum int

	// Chapter is the chapter number (1-indexed).
	Chapter int

	// Verse is the verse number (1-indexed).
	Verse int

	// VerseEnd is the last verse of a range, 0 for a single verse.
	VerseEnd int
}

// String returns the wire form: "GEN.1.1" or "GEN.1.1-3".
func (id VerseID) String() string {
	var sb strings.Builder
	sb.WriteString(id.Book)
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(id.Chapter))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(id.Verse))
	if id.IsRange() {
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(id.VerseEnd))
	}
	return sb.String()
}

// MarshalText implements encoding.TextMarshaler so ids serialize as their
// wire form in JSON map keys and values.
func (id VerseID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// IsZero reports whether id is the zero value.
func (id VerseID) IsZero() bool {
	return id.BookNum == 0
}

// IsRange returns true if this id spans more than one verse.
func (id VerseID) IsRange() bool {
	return id.VerseEnd > 0 && id.VerseEnd != id.Verse
}

// Last returns the last verse number covered.
func (id VerseID) Last() int {
	if id.IsRange() {
		return id.VerseEnd
	}
	return id.Verse
}

// Start returns the single-verse id of the first verse.
func (id VerseID) Start() VerseID {
	id.VerseEnd = 0
	return id
}

// Normalize drops a VerseEnd equal to Verse.
func (id VerseID) Normalize() VerseID {
	if id.VerseEnd == id.Verse {
		id.VerseEnd = 0
	}
	return id
}

// Contains reports whether other's first verse falls inside id.
func (id VerseID) Contains(other VerseID) bool {
	return id.BookNum == other.BookNum &&
		id.Chapter == other.Chapter &&
		other.Verse >= id.Verse && other.Verse <= id.Last()
}

// SameChapter reports whether both ids are in the same book and chapter.
func (id VerseID) SameChapter(other VerseID) bool {
	return id.BookNum == other.BookNum && id.Chapter == other.Chapter
}

// Compare orders ids by (book, chapter, verse, verse end).
// It returns -1, 0 or +1.
func (id VerseID) Compare(other VerseID) int {
	switch {
	case id.BookNum != other.BookNum:
		return cmpInt(id.BookNum, other.BookNum)
	case id.Chapter != other.Chapter:
		return cmpInt(id.Chapter, other.Chapter)
	case id.Verse != other.Verse:
		return cmpInt(id.Verse, other.Verse)
	default:
		return cmpInt(id.Last(), other.Last())
	}
}

// Less reports whether id sorts before other.
func (id VerseID) Less(other VerseID) bool {
	return id.Compare(other) < 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
