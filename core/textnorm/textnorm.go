// Package textnorm folds text for matching: Unicode case folding, full-width
// to half-width, and removal of combining marks ("Génesis" matches "genesis").
//
// Folding is applied rune by rune so that every folded byte can be mapped
// back to the byte offset of the original rune it came from. Highlighting
// relies on this to mark spans in the stored text without altering it.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// folder builds a fresh transformer chain; transformers are stateful and
// must not be shared between goroutines.
func folder() transform.Transformer {
	return transform.Chain(width.Fold, norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Fold returns the matching form of s.
func Fold(s string) string {
	if isASCII(s) {
		return strings.ToLower(s)
	}
	out, _, err := transform.String(folder(), s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

// Key returns the folded form of s with whitespace and periods removed.
// Book aliases are compared by key so "1 John", "1john" and "1 Jn." line up.
func Key(s string) string {
	f := Fold(s)
	var b strings.Builder
	b.Grow(len(f))
	for _, r := range f {
		if unicode.IsSpace(r) || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Folded is a folded string with a map back to the original text.
type Folded struct {
	Text string
	// offsets[i] is the byte offset in the original of the rune that
	// produced folded byte i; offsets[len(Text)] is len(original).
	offsets []int
}

// FoldWithOffsets folds s and records where each folded byte came from.
func FoldWithOffsets(s string) Folded {
	var b strings.Builder
	offsets := make([]int, 0, len(s)+1)
	caser := cases.Fold()
	for i, r := range s {
		var piece string
		if r < utf8.RuneSelf {
			piece = string(unicode.ToLower(r))
		} else {
			out, _, err := transform.String(folder(), string(r))
			if err != nil {
				out = string(r)
			}
			piece = caser.String(out)
		}
		b.WriteString(piece)
		for j := 0; j < len(piece); j++ {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(s))
	return Folded{Text: b.String(), offsets: offsets}
}

// Original maps a folded byte range back to the original byte range.
// The end is extended to the end of the last original rune covered.
func (f Folded) Original(start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > len(f.Text) {
		end = len(f.Text)
	}
	if start >= end {
		o := f.offsets[start]
		return o, o
	}
	origStart := f.offsets[start]
	last := f.offsets[end-1]
	// advance to the first folded byte of the next original rune
	origEnd := f.offsets[len(f.Text)]
	for k := end; k < len(f.Text); k++ {
		if f.offsets[k] != last {
			origEnd = f.offsets[k]
			break
		}
	}
	return origStart, origEnd
}

// Token is a word with its byte span in the folded text.
type Token struct {
	Text  string
	Start int
	End   int
}

// Tokenize splits folded text on anything that is not a letter, digit or
// apostrophe joined between letters.
func Tokenize(s string) []Token {
	var tokens []Token
	start := -1
	for i, r := range s {
		word := unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
		if !word && r == '\'' && start >= 0 {
			next, _ := utf8.DecodeRuneInString(s[i+1:])
			word = unicode.IsLetter(next)
		}
		if word {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, Token{Text: s[start:i], Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Text: s[start:], Start: start, End: len(s)})
	}
	return tokens
}

// Words returns just the token texts of Tokenize(Fold(s)).
func Words(s string) []string {
	toks := Tokenize(Fold(s))
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Text
	}
	return out
}

// CollapseSpace trims s and collapses internal whitespace runs to one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
