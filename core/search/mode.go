package search

import (
	"strings"

	"github.com/FocuswithJustin/BibleHere/core/errors"
)

// Mode selects the matching strategy. The set is closed: every switch over
// Mode handles all four values.
type Mode int

const (
	// Natural ranks verses by TF-IDF over the query's words.
	Natural Mode = iota + 1
	// Boolean evaluates AND, OR, NOT and quoted phrases.
	Boolean
	// Ngram scores character n-gram overlap, for scripts without spaces.
	Ngram
	// Regex tests a regular expression against the stored text.
	Regex
)

// Modes lists every mode in declaration order.
var Modes = []Mode{Natural, Boolean, Ngram, Regex}

func (m Mode) String() string {
	switch m {
	case Natural:
		return "natural"
	case Boolean:
		return "boolean"
	case Ngram:
		return "ngram"
	case Regex:
		return "regex"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseMode parses a mode name. An empty name selects Natural.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "natural":
		return Natural, nil
	case "boolean":
		return Boolean, nil
	case "ngram":
		return Ngram, nil
	case "regex":
		return Regex, nil
	default:
		return 0, errors.NewInvalidQuery("mode", "unknown mode "+s)
	}
}

// SortBy selects result ordering.
type SortBy int

const (
	// ByRelevance orders by score descending, then canonical order.
	ByRelevance SortBy = iota
	// ByReference orders by canonical order regardless of score.
	ByReference
)

func (s SortBy) String() string {
	if s == ByReference {
		return "reference"
	}
	return "relevance"
}

// MarshalText implements encoding.TextMarshaler.
func (s SortBy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSort parses a sort name. An empty name selects ByRelevance.
func ParseSort(s string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "relevance":
		return ByRelevance, nil
	case "reference":
		return ByReference, nil
	default:
		return 0, errors.NewInvalidQuery("sort_by", "unknown sort "+s)
	}
}
