package search

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/textnorm"
)

// boolGrammar is the participle grammar for boolean queries.
// Operators are upper case; adjacency means AND; NOT binds tighter than
// AND, which binds tighter than OR.
// Examples: `faith AND NOT works`, `"living water" OR manna`, `(love OR charity) -hate`
//
//nolint:govet // participle grammar tags are not standard struct tags
type boolGrammar struct {
	Or []*boolAnd `@@ ( "OR" @@ )*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type boolAnd struct {
	Terms []*boolUnary `@@ ( "AND"? @@ )*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type boolUnary struct {
	Not  bool      `@( "NOT" | "-" )?`
	Atom *boolAtom `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type boolAtom struct {
	Phrase *string      `  @Phrase`
	Word   *string      `| @Word`
	Group  *boolGrammar `| "(" @@ ")"`
}

var boolLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Phrase", Pattern: `"[^"]*"`},
	{Name: "Operator", Pattern: `\b(?:AND|OR|NOT)\b`},
	{Name: "Punct", Pattern: `[()\-]`}, // a leading '-' negates; inner hyphens stay in Word
	{Name: "Word", Pattern: `[^\s"()]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var boolParser = participle.MustBuild[boolGrammar](
	participle.Lexer(boolLexer),
	participle.Elide("Whitespace"),
)

// boolNode is a compiled boolean expression.
type boolNode interface {
	eval(doc *document) bool
	// positives collects the patterns to highlight; negated subtrees
	// contribute nothing.
	positives(out *[]pattern, negated bool)
}

type orNode []boolNode

func (n orNode) eval(doc *document) bool {
	for _, c := range n {
		if c.eval(doc) {
			return true
		}
	}
	return false
}

func (n orNode) positives(out *[]pattern, negated bool) {
	for _, c := range n {
		c.positives(out, negated)
	}
}

type andNode []boolNode

func (n andNode) eval(doc *document) bool {
	for _, c := range n {
		if !c.eval(doc) {
			return false
		}
	}
	return true
}

func (n andNode) positives(out *[]pattern, negated bool) {
	for _, c := range n {
		c.positives(out, negated)
	}
}

type notNode struct{ child boolNode }

func (n notNode) eval(doc *document) bool { return !n.child.eval(doc) }

func (n notNode) positives(out *[]pattern, negated bool) {
	n.child.positives(out, !negated)
}

// termNode matches a whole word, or a word prefix when it ends in '*'.
type termNode struct {
	word   string
	prefix bool
}

func (n termNode) eval(doc *document) bool {
	if n.prefix {
		return doc.hasPrefix(n.word)
	}
	return doc.has(n.word)
}

func (n termNode) positives(out *[]pattern, negated bool) {
	if !negated {
		*out = append(*out, pattern{text: n.word, prefix: n.prefix})
	}
}

// phraseNode matches consecutive words.
type phraseNode struct{ words []string }

func (n phraseNode) eval(doc *document) bool { return doc.hasPhrase(n.words) }

func (n phraseNode) positives(out *[]pattern, negated bool) {
	if !negated {
		*out = append(*out, pattern{text: strings.Join(n.words, " ")})
	}
}

// compileBool parses and compiles a boolean query.
func compileBool(text string) (boolNode, error) {
	parsed, err := boolParser.ParseString("", text)
	if err != nil {
		return nil, &errors.QueryError{Field: "text", Message: "malformed boolean expression", Err: err}
	}
	return compileOr(parsed)
}

func compileOr(g *boolGrammar) (boolNode, error) {
	var or orNode
	for _, a := range g.Or {
		var and andNode
		for _, u := range a.Terms {
			n, err := compileAtom(u.Atom)
			if err != nil {
				return nil, err
			}
			if u.Not {
				n = notNode{n}
			}
			and = append(and, n)
		}
		if len(and) == 1 {
			or = append(or, and[0])
		} else {
			or = append(or, and)
		}
	}
	if len(or) == 1 {
		return or[0], nil
	}
	return or, nil
}

func compileAtom(a *boolAtom) (boolNode, error) {
	switch {
	case a.Group != nil:
		return compileOr(a.Group)
	case a.Phrase != nil:
		words := textnorm.Words(strings.Trim(*a.Phrase, `"`))
		if len(words) == 0 {
			return nil, errors.NewInvalidQuery("text", "empty phrase")
		}
		return phraseNode{words: words}, nil
	case a.Word != nil:
		raw := *a.Word
		prefix := strings.HasSuffix(raw, "*")
		words := textnorm.Words(strings.TrimSuffix(raw, "*"))
		switch {
		case len(words) == 0:
			return nil, errors.NewInvalidQuery("text", "term "+raw+" has no letters")
		case len(words) > 1:
			// "god's-word" style input: treat the pieces as a phrase
			return phraseNode{words: words}, nil
		}
		return termNode{word: words[0], prefix: prefix}, nil
	}
	return nil, errors.NewInvalidQuery("text", "empty expression")
}

// booleanMatcher scores 1 for verses satisfying the expression.
type booleanMatcher struct {
	root boolNode
	hl   *termHighlighter
}

func newBooleanMatcher(text string) (*booleanMatcher, error) {
	root, err := compileBool(text)
	if err != nil {
		return nil, err
	}
	var pats []pattern
	root.positives(&pats, false)
	hl, err := newTermHighlighter(pats)
	if err != nil {
		return nil, errors.Wrap(err, "build highlighter")
	}
	return &booleanMatcher{root: root, hl: hl}, nil
}

func (m *booleanMatcher) score(_ *index, doc *document) float64 {
	if m.root.eval(doc) {
		return 1
	}
	return 0
}

func (m *booleanMatcher) spans(doc *document) []Span {
	return m.hl.find(doc.folded)
}
