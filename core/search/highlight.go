package search

import (
	"html"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"

	"github.com/FocuswithJustin/BibleHere/core/textnorm"
)

// pattern is one highlight target in folded form.
type pattern struct {
	text   string
	prefix bool // match to the end of the word ("believ*")
}

// termHighlighter finds whole-word occurrences of several patterns in one
// pass over the folded text.
type termHighlighter struct {
	ac       *ahocorasick.Automaton
	patterns []pattern
}

func newTermHighlighter(patterns []pattern) (*termHighlighter, error) {
	seen := make(map[pattern]bool, len(patterns))
	var uniq []pattern
	var texts []string
	for _, p := range patterns {
		if p.text == "" || seen[p] {
			continue
		}
		seen[p] = true
		uniq = append(uniq, p)
		texts = append(texts, p.text)
	}
	if len(uniq) == 0 {
		return nil, nil
	}
	ac, err := ahocorasick.NewBuilder().
		AddStrings(texts).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}
	return &termHighlighter{ac: ac, patterns: uniq}, nil
}

// find returns merged spans in the original text.
func (h *termHighlighter) find(f textnorm.Folded) []Span {
	if h == nil {
		return nil
	}
	text := f.Text
	var spans []Span
	for _, m := range h.ac.FindAllOverlapping([]byte(text)) {
		p := h.patterns[m.PatternID]
		start, end := m.Start, m.End
		if !wordBoundaryBefore(text, start) {
			continue
		}
		if p.prefix {
			end = wordEnd(text, end)
		} else if !wordBoundaryAfter(text, end) {
			continue
		}
		os, oe := f.Original(start, end)
		spans = append(spans, Span{Start: os, End: oe})
	}
	return mergeSpans(spans)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func wordBoundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func wordBoundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func wordEnd(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isWordRune(r) {
			break
		}
		i += size
	}
	return i
}

// mergeSpans sorts spans and joins overlapping or touching ones.
func mergeSpans(spans []Span) []Span {
	if len(spans) < 2 {
		return spans
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End > spans[j].End
	})
	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// render wraps each span of text with the configured markers. The stored
// text is not modified.
func (o Options) render(text string, spans []Span) string {
	esc := func(s string) string {
		if o.EscapeHTML {
			return html.EscapeString(s)
		}
		return s
	}
	if len(spans) == 0 {
		return esc(text)
	}
	var b strings.Builder
	b.Grow(len(text) + len(spans)*(len(o.HighlightPre)+len(o.HighlightPost)))
	pos := 0
	for _, s := range spans {
		if s.Start < pos || s.End > len(text) || s.Start >= s.End {
			continue
		}
		b.WriteString(esc(text[pos:s.Start]))
		b.WriteString(o.HighlightPre)
		b.WriteString(esc(text[s.Start:s.End]))
		b.WriteString(o.HighlightPost)
		pos = s.End
	}
	b.WriteString(esc(text[pos:]))
	return b.String()
}
