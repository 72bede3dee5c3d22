package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/FocuswithJustin/BibleHere/core/canon"
	"github.com/FocuswithJustin/BibleHere/core/crossref"
	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/internal/logging"
)

// chapterXrefLimit caps edges per verse on chapter queries when the client
// sets no limit_per_verse.
const chapterXrefLimit = 10

// Resolution is one resolved reference.
type Resolution struct {
	Reference ir.VerseID `json:"reference"`
	Display   string     `json:"display"`
	Book      string     `json:"book"`
	Chapter   int        `json:"chapter"`
	Verse     int        `json:"verse"`
	VerseEnd  int        `json:"verse_end,omitempty"`
	Range     bool       `json:"range"`
}

// BookInfo is the summary of a canon book.
type BookInfo struct {
	Number    int             `json:"number"`
	Abbrev    string          `json:"abbrev"`
	Name      string          `json:"name"`
	Testament canon.Testament `json:"testament"`
	Chapters  int             `json:"chapters"`
}

func bookInfo(b *canon.Book, locale string) BookInfo {
	return BookInfo{
		Number:    b.Number,
		Abbrev:    b.Abbrev,
		Name:      b.DisplayName(locale),
		Testament: b.Testament,
		Chapters:  b.ChapterCount(),
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"name":    "BibleHere API",
		"version": s.cfg.Version,
		"endpoints": []string{
			"GET /health",
			"GET /versions",
			"GET /books?q=&locale=&limit=",
			"GET /resolve?ref=",
			"GET /search?q=&mode=&versions=&books=&page=&page_size=&sort=&context=&highlight=",
			"GET /suggest?q=&version=&limit=",
			"GET /passage?ref=&versions=",
			"GET /votd?version=&date=",
			"GET /verses/random?version=&testament=&books=&min_length=",
			"GET /xrefs/types",
			"GET /xrefs/verse/{id}",
			"GET /xrefs/chapter/{book}/{chapter}",
			"GET /commentaries",
			"GET /commentaries/search?q=",
			"GET /commentaries/verse/{id}",
			"GET /commentaries/chapter/{book}/{chapter}",
			"GET /strongs/search?q=&language=&limit=",
			"GET /strongs/language/{language}?limit=&offset=",
			"GET /strongs/verse/{id}?version=",
			"GET /strongs/{number}?definitions=",
			"GET /history",
			"DELETE /history",
			"GET /stats",
			"GET /ws",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	data := s.engine.Data()
	respond(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"versions":          data.Library.Len(),
		"cross_references":  data.Graph.Len(),
		"commentaries":      data.Commentary.Len(),
		"strong_numbers":    data.Strongs.Len(),
		"websocket_clients": s.hub.ClientCount(),
		"uptime_seconds":    int(time.Since(s.started).Seconds()),
	})
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	versions := s.engine.Data().Library.Versions()
	respondList(w, versions, len(versions), 0, 0)
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	locale := query(r, "locale")
	c := s.engine.Data().Canon

	var books []*canon.Book
	if prefix := query(r, "q"); prefix != "" {
		books = c.SearchBooks(prefix, locale, limit)
	} else {
		books = c.Books("")
		if limit > 0 && len(books) > limit {
			books = books[:limit]
		}
	}
	if locale == "" {
		locale = canon.DefaultLocale
	}
	out := make([]BookInfo, len(books))
	for i, b := range books {
		out[i] = bookInfo(b, locale)
	}
	respondList(w, out, len(out), 0, 0)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	ref := query(r, "ref")
	if ref == "" {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Missing ref parameter")
		return
	}
	ids, err := s.engine.Resolver().ResolveAll(ref)
	if err != nil {
		logging.ReferenceUnresolved(r.Context(), ref, err)
		respondErr(w, r, err)
		return
	}
	out := make([]Resolution, len(ids))
	for i, id := range ids {
		out[i] = Resolution{
			Reference: id,
			Display:   s.engine.Display(id),
			Book:      id.Book,
			Chapter:   id.Chapter,
			Verse:     id.Verse,
			VerseEnd:  id.VerseEnd,
			Range:     id.IsRange(),
		}
	}
	respondList(w, out, len(out), 0, 0)
}

// handleSearch runs a search. Searches with at least one result are added
// to the history and announced on the WebSocket feed.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, err := searchQuery(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	page, err := s.engine.Search(r.Context(), q)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if page.TotalCount > 0 {
		entry := s.engine.RecordSearch(q, page)
		s.hub.Broadcast(EventHistory, entry)
	}
	respondList(w, page, page.TotalCount, page.Page, page.PageSize)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	out := s.engine.Suggest(query(r, "q"), query(r, "version"), limit)
	if out == nil {
		out = []string{}
	}
	respondList(w, out, len(out), 0, 0)
}

func (s *Server) handlePassage(w http.ResponseWriter, r *http.Request) {
	ref := query(r, "ref")
	if ref == "" {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Missing ref parameter")
		return
	}
	passages, err := s.engine.Passage(r.Context(), ref, listParam(r, "versions"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondList(w, passages, len(passages), 0, 0)
}

func (s *Server) handleVerseOfDay(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date")
	if err != nil {
		respondErr(w, r, err)
		return
	}
	p, err := s.engine.VerseOfDay(r.Context(), date, query(r, "version"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (s *Server) handleCrossRefTypes(w http.ResponseWriter, r *http.Request) {
	g := s.engine.Data().Graph
	respond(w, http.StatusOK, map[string]any{
		"types":   g.Types(),
		"sources": g.Sources(),
	})
}

// handleVerseCrossRefs lists the edges of a verse. direction=incoming
// returns the edges pointing at it; group=true partitions by type.
func (s *Server) handleVerseCrossRefs(w http.ResponseWriter, r *http.Request) {
	id, err := s.engine.Resolve(r.Context(), r.PathValue("id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	f, err := crossrefFilter(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	group, err := boolParam(r, "group", false)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	var refs []ir.CrossReference
	switch dir := query(r, "direction"); dir {
	case "", "outgoing":
		refs = s.engine.CrossReferences(id, f)
	case "incoming":
		refs = s.engine.IncomingCrossReferences(id, f)
	default:
		respondErr(w, r, errors.NewValidation("direction", "must be outgoing or incoming"))
		return
	}

	if group {
		respondList(w, crossref.GroupByType(refs), len(refs), 0, 0)
		return
	}
	respondList(w, refs, len(refs), 0, 0)
}

// chapterParams resolves the {book} and {chapter} path values.
func (s *Server) chapterParams(r *http.Request) (book, chapter int, err error) {
	b, err := s.engine.Resolver().ResolveBook(r.PathValue("book"))
	if err != nil {
		return 0, 0, err
	}
	chapter, err = strconv.Atoi(r.PathValue("chapter"))
	if err != nil {
		return 0, 0, errors.NewValidation("chapter", "must be an integer")
	}
	return b.Number, chapter, nil
}

func (s *Server) handleChapterCrossRefs(w http.ResponseWriter, r *http.Request) {
	book, chapter, err := s.chapterParams(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	f, err := crossrefFilter(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	perVerse, err := intParam(r, "limit_per_verse", chapterXrefLimit)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	byVerse, err := s.engine.ChapterCrossReferences(book, chapter, f, perVerse)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	total := 0
	for _, refs := range byVerse {
		total += len(refs)
	}
	respondList(w, byVerse, total, 0, 0)
}

func (s *Server) handleCommentaryInfo(w http.ResponseWriter, r *http.Request) {
	agg := s.engine.Data().Commentary
	respond(w, http.StatusOK, map[string]any{
		"authors":    agg.Authors(),
		"sources":    agg.Sources(),
		"statistics": agg.Statistics(),
	})
}

func (s *Server) handleCommentarySearch(w http.ResponseWriter, r *http.Request) {
	text := query(r, "q")
	if text == "" {
		respondError(w, http.StatusBadRequest, "INVALID_QUERY", "Missing q parameter")
		return
	}
	f, err := commentaryFilter(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	list := s.engine.SearchCommentaries(text, f)
	respondList(w, list, len(list), 0, 0)
}

func (s *Server) handleVerseCommentaries(w http.ResponseWriter, r *http.Request) {
	id, err := s.engine.Resolve(r.Context(), r.PathValue("id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	f, err := commentaryFilter(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	list := s.engine.Commentaries(id, f)
	respondList(w, list, len(list), 0, 0)
}

// handleChapterCommentaries lists a chapter's entries; grouped=true
// partitions them by verse with the limit applied per verse.
func (s *Server) handleChapterCommentaries(w http.ResponseWriter, r *http.Request) {
	book, chapter, err := s.chapterParams(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	f, err := commentaryFilter(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	grouped, err := boolParam(r, "grouped", false)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	if grouped {
		groups, err := s.engine.ChapterCommentariesGrouped(book, chapter, f)
		if err != nil {
			respondErr(w, r, err)
			return
		}
		total := 0
		for _, g := range groups {
			total += len(g.Items)
		}
		respondList(w, groups, total, 0, 0)
		return
	}

	list, err := s.engine.ChapterCommentaries(book, chapter, f)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondList(w, list, len(list), 0, 0)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	entries := s.engine.History().Recent(limit)
	respondList(w, entries, len(entries), 0, 0)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	cleared := s.engine.History().Len()
	s.engine.History().Clear()
	s.hub.Broadcast(EventCleared, map[string]int{"cleared": cleared})
	respond(w, http.StatusOK, map[string]int{"cleared": cleared})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, s.engine.Stats())
}
