// Package canon holds the static book metadata every other package keys off:
// book numbers, canonical abbreviations, localized aliases, testament, genre,
// and the published chapter and verse bounds.
//
// A Canon is read-only after construction and safe for concurrent use.
package canon

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/textnorm"
)

// Testament identifies the Old or New Testament.
type Testament string

const (
	Old Testament = "old"
	New Testament = "new"
)

// Genre is the traditional grouping of a book within its testament.
type Genre string

const (
	GenreLaw      Genre = "law"
	GenreHistory  Genre = "history"
	GenreWisdom   Genre = "wisdom"
	GenreProphets Genre = "prophets"
	GenreGospel   Genre = "gospel"
	GenreEpistles Genre = "epistles"
	GenreProphecy Genre = "prophecy"
)

// DefaultLocale is used for display names when no locale is requested.
const DefaultLocale = "en"

// Book is one book of the canon.
type Book struct {
	Number           int                 `json:"number"`
	Abbrev           string              `json:"abbrev"` // canonical, e.g. "GEN", "1JN"
	OSIS             string              `json:"osis"`
	Name             string              `json:"name"`
	Testament        Testament           `json:"testament"`
	Genre            Genre               `json:"genre"`
	Aliases          map[string][]string `json:"aliases,omitempty"` // locale -> names
	VersesPerChapter []int               `json:"verses_per_chapter"`
}

// ChapterCount returns the number of chapters in the book.
func (b *Book) ChapterCount() int {
	return len(b.VersesPerChapter)
}

// VerseCount returns the number of verses in chapter, or 0 if the chapter
// does not exist.
func (b *Book) VerseCount(chapter int) int {
	if chapter < 1 || chapter > len(b.VersesPerChapter) {
		return 0
	}
	return b.VersesPerChapter[chapter-1]
}

// DisplayName returns the first alias for locale, falling back to Name.
func (b *Book) DisplayName(locale string) string {
	if names := b.Aliases[locale]; len(names) > 0 {
		return names[0]
	}
	return b.Name
}

// CheckBounds reports OutOfRange when chapter or verse exceed the book.
// A verse of 0 checks the chapter only.
func (b *Book) CheckBounds(chapter, verse int) error {
	if chapter < 1 || chapter > b.ChapterCount() {
		return errors.NewChapterRange(b.Abbrev, chapter, b.ChapterCount())
	}
	if verse == 0 {
		return nil
	}
	return b.CheckVerse(chapter, verse)
}

// CheckVerse reports OutOfRange unless verse is in 1..VerseCount(chapter).
func (b *Book) CheckVerse(chapter, verse int) error {
	if last := b.VerseCount(chapter); verse < 1 || verse > last {
		return errors.NewVerseRange(b.Abbrev, chapter, verse, last)
	}
	return nil
}

// alias is one accepted spelling in key form.
type alias struct {
	key  string
	book int
}

// Canon is the immutable book table.
type Canon struct {
	books    []*Book        // index = number-1
	byAbbrev map[string]int // upper-case canonical abbrev and OSIS id -> number
	byKey    map[string]int // textnorm.Key(alias) -> number
	aliases  []alias        // sorted by key length descending
}

// bookSpec is the compact row form used by the built-in tables.
type bookSpec struct {
	number    int
	abbrev    string
	osis      string
	name      string
	testament Testament
	genre     Genre
	verses    []int
}

//go:embed aliases.yaml
var aliasesYAML []byte

// AliasTable maps canonical abbreviation -> locale -> accepted names.
type AliasTable map[string]map[string][]string

// ParseAliases decodes a YAML alias table.
func ParseAliases(data []byte) (AliasTable, error) {
	var table AliasTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, &errors.ParseError{Format: "alias yaml", Message: err.Error(), Err: err}
	}
	return table, nil
}

// Default returns the 66-book canon with the built-in localized aliases.
func Default() *Canon {
	table, err := ParseAliases(aliasesYAML)
	if err != nil {
		panic(fmt.Sprintf("canon: embedded aliases: %v", err))
	}
	c, err := build(kjvBooks, table)
	if err != nil {
		panic(fmt.Sprintf("canon: %v", err))
	}
	return c
}

// WithAliases returns the built-in canon extended with extra aliases, for
// deployments that accept additional spellings.
func WithAliases(extra AliasTable) (*Canon, error) {
	table, err := ParseAliases(aliasesYAML)
	if err != nil {
		return nil, err
	}
	for abbrev, locales := range extra {
		if table[abbrev] == nil {
			table[abbrev] = map[string][]string{}
		}
		for loc, names := range locales {
			table[abbrev][loc] = append(table[abbrev][loc], names...)
		}
	}
	return build(kjvBooks, table)
}

func build(specs []bookSpec, table AliasTable) (*Canon, error) {
	c := &Canon{
		byAbbrev: make(map[string]int, len(specs)*2),
		byKey:    make(map[string]int, len(specs)*12),
	}
	for i, s := range specs {
		if s.number != i+1 {
			return nil, fmt.Errorf("book %s numbered %d at position %d", s.abbrev, s.number, i+1)
		}
		b := &Book{
			Number:           s.number,
			Abbrev:           s.abbrev,
			OSIS:             s.osis,
			Name:             s.name,
			Testament:        s.testament,
			Genre:            s.genre,
			Aliases:          table[s.abbrev],
			VersesPerChapter: s.verses,
		}
		c.books = append(c.books, b)
		c.byAbbrev[strings.ToUpper(s.abbrev)] = s.number
		c.byAbbrev[strings.ToUpper(s.osis)] = s.number

		names := []string{s.abbrev, s.osis, s.name}
		for _, list := range b.Aliases {
			names = append(names, list...)
		}
		for _, n := range names {
			if err := c.addAlias(n, s.number); err != nil {
				return nil, err
			}
		}
	}
	for abbrev := range table {
		if _, ok := c.byAbbrev[strings.ToUpper(abbrev)]; !ok {
			return nil, fmt.Errorf("aliases for unknown book %q", abbrev)
		}
	}
	for key, n := range c.byKey {
		c.aliases = append(c.aliases, alias{key: key, book: n})
	}
	sort.Slice(c.aliases, func(i, j int) bool {
		if len(c.aliases[i].key) != len(c.aliases[j].key) {
			return len(c.aliases[i].key) > len(c.aliases[j].key)
		}
		return c.aliases[i].key < c.aliases[j].key
	})
	return c, nil
}

func (c *Canon) addAlias(name string, number int) error {
	key := textnorm.Key(name)
	if key == "" {
		return nil
	}
	if prev, ok := c.byKey[key]; ok && prev != number {
		return fmt.Errorf("alias %q maps to both %s and %s", name, c.books[prev-1].Abbrev, c.books[number-1].Abbrev)
	}
	c.byKey[key] = number
	return nil
}

// Size returns the number of books.
func (c *Canon) Size() int {
	return len(c.books)
}

// Book returns the book with the given number, or nil.
func (c *Canon) Book(number int) *Book {
	if number < 1 || number > len(c.books) {
		return nil
	}
	return c.books[number-1]
}

// ByAbbrev looks up a canonical abbreviation or OSIS id, case-insensitively.
func (c *Canon) ByAbbrev(abbrev string) (*Book, bool) {
	n, ok := c.byAbbrev[strings.ToUpper(strings.TrimSpace(abbrev))]
	if !ok {
		return nil, false
	}
	return c.books[n-1], true
}

// Lookup resolves any accepted name or abbreviation in any locale.
func (c *Canon) Lookup(name string) (*Book, bool) {
	n, ok := c.byKey[textnorm.Key(name)]
	if !ok {
		return nil, false
	}
	return c.books[n-1], true
}

// MatchPrefix walks aliases longest first and calls fn for each alias whose
// key is a prefix of key, stopping when fn returns true. It returns the book
// accepted by fn. Trying longer aliases first keeps "1john" from matching
// as "john".
func (c *Canon) MatchPrefix(key string, fn func(b *Book, rest string) bool) (*Book, bool) {
	for _, a := range c.aliases {
		if len(a.key) > len(key) || !strings.HasPrefix(key, a.key) {
			continue
		}
		b := c.books[a.book-1]
		if fn(b, key[len(a.key):]) {
			return b, true
		}
	}
	return nil, false
}

// Books returns books of the given testament in canonical order; an empty
// testament returns all books.
func (c *Canon) Books(t Testament) []*Book {
	out := make([]*Book, 0, len(c.books))
	for _, b := range c.books {
		if t == "" || b.Testament == t {
			out = append(out, b)
		}
	}
	return out
}

// Next returns the book after b, or nil at the end of the canon.
func (c *Canon) Next(b *Book) *Book {
	return c.Book(b.Number + 1)
}

// Previous returns the book before b, or nil at the start of the canon.
func (c *Canon) Previous(b *Book) *Book {
	return c.Book(b.Number - 1)
}

// SearchBooks returns books having a name in locale that starts with
// prefix, in canonical order, capped at limit. An empty locale searches
// every locale.
func (c *Canon) SearchBooks(prefix, locale string, limit int) []*Book {
	key := textnorm.Key(prefix)
	if key == "" {
		return nil
	}
	var out []*Book
	for _, b := range c.books {
		if limit > 0 && len(out) >= limit {
			break
		}
		if bookHasPrefix(b, key, locale) {
			out = append(out, b)
		}
	}
	return out
}

func bookHasPrefix(b *Book, key, locale string) bool {
	if locale == "" || locale == DefaultLocale {
		if strings.HasPrefix(textnorm.Key(b.Name), key) {
			return true
		}
	}
	for loc, names := range b.Aliases {
		if locale != "" && loc != locale {
			continue
		}
		for _, n := range names {
			if strings.HasPrefix(textnorm.Key(n), key) {
				return true
			}
		}
	}
	return false
}

// Locales returns the locales present in the alias table, sorted.
func (c *Canon) Locales() []string {
	seen := map[string]bool{}
	for _, b := range c.books {
		for loc := range b.Aliases {
			seen[loc] = true
		}
	}
	out := make([]string, 0, len(seen))
	for loc := range seen {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}
