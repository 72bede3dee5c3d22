package resolver

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// dottedGrammar is the participle grammar for the canonical wire form.
// Examples: "GEN.1.1", "Gen.1.1-3", "1JN.3.16", "1John.3.16", "PSA.23"
//
//nolint:govet // participle grammar tags are not standard struct tags
type dottedGrammar struct {
	BookPrefix string     `@Int?`
	BookName   string     `@Ident`
	Chapter    int        `"." @Int`
	VerseRef   *versePart `( "." @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type versePart struct {
	Verse int  `@Int`
	Range *int `( "-" @Int )?`
}

// dottedLexer has no whitespace rule: anything with spaces is not dotted.
var dottedLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z]+`},
	{Name: "Punct", Pattern: `[.\-]`},
})

var dottedParser = participle.MustBuild[dottedGrammar](
	participle.Lexer(dottedLexer),
)

// tailGrammar parses the numeric part that follows a human book name once
// the name has been matched and whitespace removed.
// Examples: "3:16", "3:16-18", "23", "3.16"
//
//nolint:govet // participle grammar tags are not standard struct tags
type tailGrammar struct {
	Chapter  int        `@Int`
	VerseRef *versePart `( (":" | ".") @@ )?`
}

var tailLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[:.\-]`},
})

var tailParser = participle.MustBuild[tailGrammar](
	participle.Lexer(tailLexer),
)

// parsedRef is the numeric part of a parsed reference.
type parsedRef struct {
	chapter  int
	verse    int
	verseEnd int
	hasVerse bool
}

func (g *versePart) into(p *parsedRef) {
	if g == nil {
		return
	}
	p.hasVerse = true
	p.verse = g.Verse
	if g.Range != nil {
		p.verseEnd = *g.Range
	}
}

// parseDotted parses s as a dotted reference. The returned book token is
// the prefix and name joined ("1JN", "Gen").
func parseDotted(s string) (string, parsedRef, error) {
	parsed, err := dottedParser.ParseString("", s)
	if err != nil {
		return "", parsedRef{}, err
	}
	p := parsedRef{chapter: parsed.Chapter}
	parsed.VerseRef.into(&p)
	return parsed.BookPrefix + parsed.BookName, p, nil
}

// parseTail parses the chapter[:verse[-end]] remainder of a human reference.
func parseTail(s string) (parsedRef, error) {
	parsed, err := tailParser.ParseString("", s)
	if err != nil {
		return parsedRef{}, err
	}
	p := parsedRef{chapter: parsed.Chapter}
	parsed.VerseRef.into(&p)
	return p, nil
}
