// Package strongs is the Strong's concordance: lexicon entries for Hebrew
// and Greek numbers, their definitions, and the word tags that tie each
// word of a verse to a number. A Concordance is immutable once built and
// safe for concurrent readers. Inactive records are dropped at build time.
package strongs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/textnorm"
)

// DefaultSearchLimit applies when Search is called with limit 0.
const DefaultSearchLimit = 50

// ParseNumber returns the canonical form of a Strong's number: "h0430",
// " H430 " and "h430" all become "H430". A single trailing letter
// distinguishes augmented numbers ("H1254a") and is kept lower case.
func ParseNumber(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return "", errors.NewValidation("strong_number", fmt.Sprintf("%q is not a Strong's number", s))
	}
	prefix := strings.ToUpper(s[:1])
	if prefix != "H" && prefix != "G" {
		return "", errors.NewValidation("strong_number", fmt.Sprintf("%q must start with H or G", s))
	}
	digits, suffix := s[1:], ""
	if last := digits[len(digits)-1]; ('a' <= last && last <= 'z') || ('A' <= last && last <= 'Z') {
		digits, suffix = digits[:len(digits)-1], strings.ToLower(string(last))
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 || strings.HasPrefix(digits, "+") {
		return "", errors.NewValidation("strong_number", fmt.Sprintf("%q has no valid number", s))
	}
	return prefix + strconv.Itoa(n) + suffix, nil
}

// LanguageOf returns the language implied by a canonical number's prefix.
func LanguageOf(number string) ir.StrongLanguage {
	if strings.HasPrefix(number, "G") {
		return ir.Greek
	}
	return ir.Hebrew
}

// ParseLanguage accepts "hebrew", "greek", or "" and "all" for either.
func ParseLanguage(s string) (ir.StrongLanguage, error) {
	switch l := ir.StrongLanguage(strings.ToLower(strings.TrimSpace(s))); l {
	case "", "all":
		return "", nil
	case ir.Hebrew, ir.Greek:
		return l, nil
	}
	return "", errors.NewValidation("language", "must be hebrew, greek or all")
}

// less orders numbers Hebrew first, then numerically, then by suffix.
func less(a, b string) bool {
	if a[0] != b[0] {
		return a[0] == 'H'
	}
	na, sa := split(a)
	nb, sb := split(b)
	if na != nb {
		return na < nb
	}
	return sa < sb
}

func split(number string) (int, string) {
	body := number[1:]
	suffix := ""
	if last := body[len(body)-1]; last >= 'a' && last <= 'z' {
		body, suffix = body[:len(body)-1], string(last)
	}
	n, _ := strconv.Atoi(body)
	return n, suffix
}

type tagKey struct {
	version              string
	book, chapter, verse int
}

type entry struct {
	ir.StrongEntry
	defs   []ir.StrongDefinition // brief, detailed, etymology
	folded []string              // number, original word, transliteration, brief definitions
}

// Concordance answers Strong's queries over a fixed set of records.
type Concordance struct {
	entries  map[string]*entry
	ordered  []*entry
	byVerse  map[tagKey][]ir.WordTag
	byNumber map[string][]ir.WordTag
	stats    Statistics
}

// New builds a concordance. Records whose number does not parse are
// skipped; definitions and tags may name numbers that have no entry.
func New(entries []ir.StrongEntry, defs []ir.StrongDefinition, tags []ir.WordTag) *Concordance {
	c := &Concordance{
		entries:  make(map[string]*entry),
		byVerse:  make(map[tagKey][]ir.WordTag),
		byNumber: make(map[string][]ir.WordTag),
	}
	for _, se := range entries {
		num, err := ParseNumber(se.Number)
		if err != nil || se.Inactive {
			continue
		}
		se.Number = num
		if se.Language == "" {
			se.Language = LanguageOf(num)
		}
		// a later record of the same number replaces the earlier one
		if e, ok := c.entries[num]; ok {
			e.StrongEntry = se
			continue
		}
		e := &entry{StrongEntry: se}
		c.entries[num] = e
		c.ordered = append(c.ordered, e)
	}
	sort.Slice(c.ordered, func(i, j int) bool { return less(c.ordered[i].Number, c.ordered[j].Number) })

	for _, d := range defs {
		num, err := ParseNumber(d.Number)
		if err != nil || d.Inactive {
			continue
		}
		d.Number = num
		if d.Type == "" {
			d.Type = ir.DefinitionBrief
		}
		if e, ok := c.entries[num]; ok {
			e.defs = append(e.defs, d)
			c.stats.Definitions++
		}
	}
	for _, e := range c.ordered {
		sort.SliceStable(e.defs, func(i, j int) bool { return e.defs[i].Type < e.defs[j].Type })
		e.folded = []string{textnorm.Fold(e.Number), textnorm.Fold(e.OriginalWord), textnorm.Fold(e.Transliteration)}
		for _, d := range e.defs {
			if d.Type == ir.DefinitionBrief {
				e.folded = append(e.folded, textnorm.Fold(d.Definition))
			}
		}
		if e.Language == ir.Greek {
			c.stats.Greek++
		} else {
			c.stats.Hebrew++
		}
	}

	for _, t := range tags {
		num, err := ParseNumber(t.Number)
		if err != nil || t.Inactive {
			continue
		}
		t.Number = num
		t.Version = strings.ToUpper(t.Version)
		k := tagKey{t.Version, t.Verse.BookNum, t.Verse.Chapter, t.Verse.Verse}
		c.byVerse[k] = append(c.byVerse[k], t)
		c.byNumber[num] = append(c.byNumber[num], t)
		c.stats.WordTags++
	}
	for _, list := range c.byVerse {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Position < list[j].Position })
	}
	c.stats.Entries = len(c.ordered)
	return c
}

// Lookup returns the entry for number.
func (c *Concordance) Lookup(number string) (ir.StrongEntry, error) {
	num, err := ParseNumber(number)
	if err != nil {
		return ir.StrongEntry{}, err
	}
	e, ok := c.entries[num]
	if !ok {
		return ir.StrongEntry{}, errors.NewNotFound("strong number", num)
	}
	return e.StrongEntry, nil
}

// Definitions returns the definitions of number of one type, or of every
// type in brief, detailed, etymology order when typ is "all". An empty typ
// means brief. A known number without definitions yields an empty list.
func (c *Concordance) Definitions(number, typ string) ([]ir.StrongDefinition, error) {
	num, err := ParseNumber(number)
	if err != nil {
		return nil, err
	}
	want := ir.DefinitionType(strings.ToLower(strings.TrimSpace(typ)))
	switch want {
	case "":
		want = ir.DefinitionBrief
	case "all", ir.DefinitionBrief, ir.DefinitionDetailed, ir.DefinitionEtymology:
	default:
		return nil, errors.NewValidation("type", "must be brief, detailed, etymology or all")
	}
	e, ok := c.entries[num]
	if !ok {
		return nil, errors.NewNotFound("strong number", num)
	}
	out := []ir.StrongDefinition{}
	for _, d := range e.defs {
		if want == "all" || d.Type == want {
			out = append(out, d)
		}
	}
	return out, nil
}

// Verse returns the word tags of every verse id covers in version, in
// verse order and by word position within a verse.
func (c *Concordance) Verse(version string, id ir.VerseID) []ir.WordTag {
	version = strings.ToUpper(version)
	out := []ir.WordTag{}
	for v := id.Verse; v <= id.Last(); v++ {
		out = append(out, c.byVerse[tagKey{version, id.BookNum, id.Chapter, v}]...)
	}
	return out
}

// Match is a search result: an entry with its brief definition.
type Match struct {
	ir.StrongEntry
	BriefDefinition string `json:"brief_definition,omitempty"`
}

// Search returns entries whose number, original word, transliteration or
// brief definition contains term after case and accent folding, in number
// order. Language "" matches both languages; limit 0 means
// DefaultSearchLimit.
func (c *Concordance) Search(term string, language ir.StrongLanguage, limit int) ([]Match, error) {
	needle := textnorm.Fold(textnorm.CollapseSpace(term))
	if needle == "" {
		return nil, errors.NewInvalidQuery("text", "must not be empty")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	out := []Match{}
	for _, e := range c.ordered {
		if len(out) >= limit {
			break
		}
		if language != "" && e.Language != language {
			continue
		}
		for _, f := range e.folded {
			if strings.Contains(f, needle) {
				out = append(out, Match{StrongEntry: e.StrongEntry, BriefDefinition: brief(e)})
				break
			}
		}
	}
	return out, nil
}

func brief(e *entry) string {
	for _, d := range e.defs {
		if d.Type == ir.DefinitionBrief {
			return d.Definition
		}
	}
	return ""
}

// ByLanguage pages through the entries of one language in number order.
// Limit 0 means DefaultSearchLimit.
func (c *Concordance) ByLanguage(language ir.StrongLanguage, limit, offset int) []ir.StrongEntry {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	out := []ir.StrongEntry{}
	skipped := 0
	for _, e := range c.ordered {
		if len(out) >= limit {
			break
		}
		if e.Language != language {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, e.StrongEntry)
	}
	return out
}

// Usage counts where a number is tagged across every version.
type Usage struct {
	Number      string `json:"number"`
	Occurrences int    `json:"total_occurrences"`
	Verses      int    `json:"unique_verses"`
	Chapters    int    `json:"chapters_count"`
	Books       int    `json:"books_count"`
}

// Usage reports how often number is tagged. An unknown number has zero
// usage, not an error, since tags may precede the lexicon.
func (c *Concordance) Usage(number string) (Usage, error) {
	num, err := ParseNumber(number)
	if err != nil {
		return Usage{}, err
	}
	u := Usage{Number: num}
	verses := make(map[[3]int]bool)
	chapters := make(map[[2]int]bool)
	books := make(map[int]bool)
	for _, t := range c.byNumber[num] {
		u.Occurrences++
		verses[[3]int{t.Verse.BookNum, t.Verse.Chapter, t.Verse.Verse}] = true
		chapters[[2]int{t.Verse.BookNum, t.Verse.Chapter}] = true
		books[t.Verse.BookNum] = true
	}
	u.Verses, u.Chapters, u.Books = len(verses), len(chapters), len(books)
	return u, nil
}

// Statistics counts the loaded records.
type Statistics struct {
	Entries     int `json:"entries"`
	Hebrew      int `json:"hebrew"`
	Greek       int `json:"greek"`
	Definitions int `json:"definitions"`
	WordTags    int `json:"word_tags"`
}

// Statistics returns the record counts.
func (c *Concordance) Statistics() Statistics {
	return c.stats
}

// Len returns the number of lexicon entries.
func (c *Concordance) Len() int {
	return len(c.ordered)
}
