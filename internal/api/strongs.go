package api

import (
	"net/http"

	"github.com/FocuswithJustin/BibleHere/core/engine"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/strongs"
)

// StrongDetail is a lexicon entry with its definitions and usage counts.
type StrongDetail struct {
	Entry       ir.StrongEntry        `json:"entry"`
	Definitions []ir.StrongDefinition `json:"definitions"`
	Usage       strongs.Usage         `json:"usage"`
}

// handleStrongNumber returns one entry. definitions selects brief,
// detailed, etymology or all (the default).
func (s *Server) handleStrongNumber(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")
	entry, err := s.engine.StrongNumber(number)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	typ := query(r, "definitions")
	if typ == "" {
		typ = "all"
	}
	defs, err := s.engine.StrongDefinitions(entry.Number, typ)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	usage, err := s.engine.StrongUsage(entry.Number)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, StrongDetail{Entry: entry, Definitions: defs, Usage: usage})
}

func (s *Server) handleStrongSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	matches, err := s.engine.SearchStrongNumbers(query(r, "q"), query(r, "language"), limit)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondList(w, matches, len(matches), 0, 0)
}

// handleStrongLanguage pages through one language; total is the number of
// entries in that language.
func (s *Server) handleStrongLanguage(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", strongs.DefaultSearchLimit)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	offset, err := intParam(r, "offset", 0)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	entries, err := s.engine.StrongNumbersByLanguage(r.PathValue("language"), limit, offset)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	stats := s.engine.StrongStatistics()
	total := stats.Hebrew
	if lang, _ := strongs.ParseLanguage(r.PathValue("language")); lang == ir.Greek {
		total = stats.Greek
	}
	respondList(w, entries, total, 0, limit)
}

func (s *Server) handleVerseStrongNumbers(w http.ResponseWriter, r *http.Request) {
	words, err := s.engine.VerseStrongNumbers(r.Context(), r.PathValue("id"), query(r, "version"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, words)
}

func (s *Server) handleRandomVerse(w http.ResponseWriter, r *http.Request) {
	minLength, err := intParam(r, "min_length", 0)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	p, err := s.engine.RandomVerse(query(r, "version"), engine.RandomFilter{
		Testament: query(r, "testament"),
		Books:     listParam(r, "books"),
		MinLength: minLength,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, p)
}
