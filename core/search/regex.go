package search

import (
	"regexp"

	"github.com/FocuswithJustin/BibleHere/core/errors"
)

// regexMatcher tests the pattern against each verse's stored text as is.
type regexMatcher struct {
	re *regexp.Regexp
}

func newRegexMatcher(text string, maxLen int) (*regexMatcher, error) {
	if len(text) > maxLen {
		return nil, errors.NewInvalidQuery("text", "regular expression too long")
	}
	re, err := regexp.Compile(text)
	if err != nil {
		return nil, &errors.QueryError{Field: "text", Message: "malformed regular expression", Err: err}
	}
	return &regexMatcher{re: re}, nil
}

func (m *regexMatcher) score(_ *index, doc *document) float64 {
	if m.re.MatchString(doc.text) {
		return 1
	}
	return 0
}

func (m *regexMatcher) spans(doc *document) []Span {
	var spans []Span
	for _, loc := range m.re.FindAllStringIndex(doc.text, -1) {
		if loc[1] > loc[0] {
			spans = append(spans, Span{Start: loc[0], End: loc[1]})
		}
	}
	return mergeSpans(spans)
}
