package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/FocuswithJustin/BibleHere/core/canon"
	"github.com/FocuswithJustin/BibleHere/core/commentary"
	"github.com/FocuswithJustin/BibleHere/core/corpus"
	"github.com/FocuswithJustin/BibleHere/core/crossref"
	"github.com/FocuswithJustin/BibleHere/core/engine"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/resolver"
	"github.com/FocuswithJustin/BibleHere/core/strongs"
)

var kjv = [][2]string{
	{"GEN.1.1", "In the beginning God created the heaven and the earth."},
	{"GEN.1.2", "And the earth was without form, and void; and darkness was upon the face of the deep."},
	{"GEN.1.3", "And God said, Let there be light: and there was light."},
	{"PSA.23.1", "The LORD is my shepherd; I shall not want."},
	{"JHN.3.16", "For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life."},
	{"JHN.3.17", "For God sent not his Son into the world to condemn the world; but that the world through him might be saved."},
}

func mustResolve(t *testing.T, res *resolver.Resolver, ref string) ir.VerseID {
	t.Helper()
	id, err := res.Resolve(ref)
	if err != nil {
		t.Fatalf("Resolve(%q) error = %v", ref, err)
	}
	return id
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	c := canon.Default()
	res := resolver.New(c)

	b := corpus.NewBuilder(ir.Version{Abbrev: "KJV", Name: "King James Version", Language: "en"}, c)
	for _, row := range kjv {
		if err := b.Add(mustResolve(t, res, row[0]), row[1]); err != nil {
			t.Fatalf("Add(%s) error = %v", row[0], err)
		}
	}

	data := engine.Context{
		Canon:   c,
		Library: corpus.NewLibrary(b.Build()),
		Graph: crossref.NewGraph([]ir.CrossReference{
			{ID: "x1", SourceID: mustResolve(t, res, "GEN.1.1"), TargetID: mustResolve(t, res, "JHN.1.1-3"), Type: ir.CrossRefParallel, Strength: 5, Source: "TSK"},
			{ID: "x2", SourceID: mustResolve(t, res, "GEN.1.1"), TargetID: mustResolve(t, res, "PSA.33.6"), Type: ir.CrossRefTheme, Strength: 3, Source: "TSK"},
		}),
		Commentary: commentary.New([]ir.Commentary{
			{ID: "c1", Verse: mustResolve(t, res, "JHN.3.16"), Author: "Henry", Type: ir.CommentaryVerse, Language: "en", Status: ir.StatusActive, Body: "God **so** loved."},
			{ID: "c2", Verse: ir.VerseID{Book: "JHN", BookNum: 43, Chapter: 3}, Author: "Henry", Type: ir.CommentaryChapter, Language: "en", Status: ir.StatusActive, Title: "Nicodemus", Body: "The new birth."},
		}, []ir.Author{{Name: "Henry", FullName: "Matthew Henry"}}, nil),
		Strongs: strongs.New(
			[]ir.StrongEntry{
				{Number: "H430", OriginalWord: "אֱלֹהִים", Transliteration: "elohim", PartOfSpeech: "noun"},
				{Number: "H1254", OriginalWord: "בָּרָא", Transliteration: "bara"},
				{Number: "H7225", OriginalWord: "רֵאשִׁית", Transliteration: "reshith"},
				{Number: "G2316", OriginalWord: "θεός", Transliteration: "theos"},
			},
			[]ir.StrongDefinition{
				{Number: "H430", Definition: "God, gods"},
				{Number: "H430", Type: ir.DefinitionDetailed, Definition: "plural of H433"},
				{Number: "G2316", Definition: "God, a deity"},
			},
			[]ir.WordTag{
				{Version: "KJV", Verse: mustResolve(t, res, "GEN.1.1"), Position: 4, Word: "God", Number: "H430"},
				{Version: "KJV", Verse: mustResolve(t, res, "GEN.1.1"), Position: 1, Word: "In the beginning", Number: "H7225"},
				{Version: "KJV", Verse: mustResolve(t, res, "GEN.1.3"), Position: 2, Word: "God", Number: "H430"},
			},
		),
	}
	return engine.New(data, engine.DefaultOptions())
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	s, err := New(cfg, testEngine(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func do(t *testing.T, h http.Handler, method, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: invalid JSON %q: %v", method, path, w.Body.String(), err)
	}
	return w, env
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	return do(t, h, http.MethodGet, path)
}

func decodeData(t *testing.T, env envelope, v any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func TestHandleRoot(t *testing.T) {
	s := newTestServer(t, Config{Version: "1.2.3"})
	w, env := get(t, s.Handler(), "/")
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("GET / = %d, success=%v", w.Code, env.Success)
	}
	var data struct {
		Name      string   `json:"name"`
		Version   string   `json:"version"`
		Endpoints []string `json:"endpoints"`
	}
	decodeData(t, env, &data)
	if data.Name != "BibleHere API" || data.Version != "1.2.3" || len(data.Endpoints) == 0 {
		t.Errorf("root = %+v", data)
	}
	if env.Meta == nil || env.Meta.Timestamp == "" {
		t.Error("meta.timestamp missing")
	}
}

func TestUnknownEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})
	w, env := get(t, s.Handler(), "/modules")
	if w.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("GET /modules = %d, %+v", w.Code, env.Error)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, Config{})
	w, env := get(t, s.Handler(), "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var data map[string]any
	decodeData(t, env, &data)
	if data["status"] != "healthy" || data["versions"] != float64(1) || data["cross_references"] != float64(2) || data["strong_numbers"] != float64(4) {
		t.Errorf("health = %v", data)
	}
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	s := newTestServer(t, Config{})
	w, _ := get(t, s.Handler(), "/health")
	for _, h := range []string{"X-Content-Type-Options", "Content-Security-Policy", "X-Request-ID", "Access-Control-Allow-Origin"} {
		if w.Header().Get(h) == "" {
			t.Errorf("header %s missing", h)
		}
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestHandleVersionsAndBooks(t *testing.T) {
	s := newTestServer(t, Config{})
	_, env := get(t, s.Handler(), "/versions")
	var versions []ir.Version
	decodeData(t, env, &versions)
	if len(versions) != 1 || versions[0].Abbrev != "KJV" {
		t.Errorf("versions = %+v", versions)
	}

	_, env = get(t, s.Handler(), "/books?q=jo&limit=3")
	var books []BookInfo
	decodeData(t, env, &books)
	if len(books) == 0 || len(books) > 3 {
		t.Fatalf("books = %+v", books)
	}
	for _, b := range books {
		if !strings.HasPrefix(strings.ToLower(b.Name), "jo") && b.Abbrev != "JON" && b.Abbrev != "JHN" {
			t.Errorf("book %+v does not match prefix", b)
		}
	}

	_, env = get(t, s.Handler(), "/books")
	if env.Meta.Total != 66 {
		t.Errorf("all books total = %d, want 66", env.Meta.Total)
	}
}

type resolution struct {
	Reference string `json:"reference"`
	Display   string `json:"display"`
	Range     bool   `json:"range"`
}

func TestHandleResolve(t *testing.T) {
	s := newTestServer(t, Config{})
	_, env := get(t, s.Handler(), "/resolve?ref="+url.QueryEscape("Jn 3:16-17"))
	var out []resolution
	decodeData(t, env, &out)
	if len(out) != 1 || out[0].Reference != "JHN.3.16-17" || out[0].Display != "John 3:16-17" || !out[0].Range {
		t.Errorf("resolve = %+v", out)
	}

	_, env = get(t, s.Handler(), "/resolve?ref="+url.QueryEscape("Gen 1:1; Ps 23:1"))
	decodeData(t, env, &out)
	if len(out) != 2 || out[1].Reference != "PSA.23.1" {
		t.Errorf("resolve list = %+v", out)
	}
}

func TestHandleResolveErrors(t *testing.T) {
	s := newTestServer(t, Config{})
	tests := []struct {
		path     string
		wantCode int
		wantErr  string
	}{
		{"/resolve", http.StatusBadRequest, "INVALID_INPUT"},
		{"/resolve?ref=" + url.QueryEscape("Hezekiah 1:1"), http.StatusBadRequest, "UNRESOLVED_REFERENCE"},
		{"/resolve?ref=" + url.QueryEscape("Gen 51:1"), http.StatusBadRequest, "OUT_OF_RANGE"},
	}
	for _, tt := range tests {
		w, env := get(t, s.Handler(), tt.path)
		if w.Code != tt.wantCode || env.Success || env.Error == nil || env.Error.Code != tt.wantErr {
			t.Errorf("GET %s = %d %+v, want %d %s", tt.path, w.Code, env.Error, tt.wantCode, tt.wantErr)
		}
	}
}

type searchPage struct {
	Items []struct {
		Snippet string `json:"snippet"`
		Verse   struct {
			ID string `json:"id"`
		} `json:"verse"`
	} `json:"items"`
	TotalCount int    `json:"total_count"`
	Mode       string `json:"mode"`
}

func TestHandleSearch(t *testing.T) {
	s := newTestServer(t, Config{})
	w, env := get(t, s.Handler(), "/search?q=world")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, error = %+v", w.Code, env.Error)
	}
	var page searchPage
	decodeData(t, env, &page)
	if page.TotalCount != 2 || page.Mode != "natural" {
		t.Errorf("page = %+v", page)
	}
	if env.Meta.Total != 2 || env.Meta.Page != 1 || env.Meta.PageSize != 20 {
		t.Errorf("meta = %+v", env.Meta)
	}
	if !strings.Contains(page.Items[0].Snippet, "<mark>") {
		t.Errorf("snippet %q not highlighted", page.Items[0].Snippet)
	}

	_, env = get(t, s.Handler(), "/search?q=world&highlight=false&mode=boolean")
	decodeData(t, env, &page)
	if page.Mode != "boolean" || strings.Contains(page.Items[0].Snippet, "<mark>") {
		t.Errorf("unhighlighted boolean page = %+v", page)
	}
}

func TestHandleSearchRecordsHistory(t *testing.T) {
	s := newTestServer(t, Config{})
	get(t, s.Handler(), "/search?q=light")
	get(t, s.Handler(), "/search?q=zzzqqq")

	_, env := get(t, s.Handler(), "/history")
	var entries []struct {
		Query       string `json:"query"`
		ResultCount int    `json:"result_count"`
		Options     struct {
			Versions []string `json:"versions"`
		} `json:"options"`
	}
	decodeData(t, env, &entries)
	if len(entries) != 1 || entries[0].Query != "light" || entries[0].ResultCount != 1 {
		t.Fatalf("history = %+v, want only the search with results", entries)
	}
	if len(entries[0].Options.Versions) != 1 || entries[0].Options.Versions[0] != "KJV" {
		t.Errorf("history versions = %v, want default [KJV]", entries[0].Options.Versions)
	}

	w, env := do(t, s.Handler(), http.MethodDelete, "/history")
	var cleared map[string]int
	decodeData(t, env, &cleared)
	if w.Code != http.StatusOK || cleared["cleared"] != 1 {
		t.Errorf("DELETE /history = %d %v", w.Code, cleared)
	}
	if _, env = get(t, s.Handler(), "/history"); string(env.Data) != "[]" {
		t.Errorf("history after clear = %s", env.Data)
	}
}

func TestHandleSearchErrors(t *testing.T) {
	s := newTestServer(t, Config{})
	tests := []struct {
		path     string
		wantCode int
		wantErr  string
	}{
		{"/search", http.StatusBadRequest, "INVALID_QUERY"},
		{"/search?q=love&mode=fuzzy", http.StatusBadRequest, "INVALID_QUERY"},
		{"/search?q=love&sort=date", http.StatusBadRequest, "INVALID_QUERY"},
		{"/search?q=love&versions=XYZ", http.StatusNotFound, "UNKNOWN_VERSION"},
		{"/search?q=love&page=-1", http.StatusBadRequest, "INVALID_INPUT"},
		{"/search?q=love&highlight=maybe", http.StatusBadRequest, "INVALID_INPUT"},
		{"/search?q=" + url.QueryEscape("(unclosed") + "&mode=regex", http.StatusBadRequest, "INVALID_QUERY"},
	}
	for _, tt := range tests {
		w, env := get(t, s.Handler(), tt.path)
		if w.Code != tt.wantCode || env.Error == nil || env.Error.Code != tt.wantErr {
			t.Errorf("GET %s = %d %+v, want %d %s", tt.path, w.Code, env.Error, tt.wantCode, tt.wantErr)
		}
	}
}

func TestHandleSuggest(t *testing.T) {
	s := newTestServer(t, Config{})
	_, env := get(t, s.Handler(), "/suggest?q=Joh")
	var out []string
	decodeData(t, env, &out)
	found := false
	for _, v := range out {
		found = found || v == "John"
	}
	if !found {
		t.Errorf("suggest = %v, want John", out)
	}
}

func TestHandlePassageAndVerseOfDay(t *testing.T) {
	s := newTestServer(t, Config{})
	_, env := get(t, s.Handler(), "/passage?ref="+url.QueryEscape("John 3:16-17"))
	var passages []struct {
		Display string `json:"display"`
		Verses  []struct {
			Text string `json:"text"`
		} `json:"verses"`
	}
	decodeData(t, env, &passages)
	if len(passages) != 1 || passages[0].Display != "John 3:16-17" || len(passages[0].Verses) != 2 {
		t.Errorf("passage = %+v", passages)
	}

	w, env := get(t, s.Handler(), "/passage?ref=John+3:16&versions=ASV")
	if w.Code != http.StatusNotFound || env.Error.Code != "UNKNOWN_VERSION" {
		t.Errorf("unknown version passage = %d %+v", w.Code, env.Error)
	}

	_, env = get(t, s.Handler(), "/votd?date=2024-01-05")
	var votd struct {
		Reference string `json:"reference"`
	}
	decodeData(t, env, &votd)
	if votd.Reference != "PSA.23.1" {
		t.Errorf("votd = %s, want PSA.23.1", votd.Reference)
	}

	if w, _ := get(t, s.Handler(), "/votd?date=yesterday"); w.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d", w.Code)
	}
}

type edge struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Strength int    `json:"strength"`
}

func TestHandleVerseCrossRefs(t *testing.T) {
	s := newTestServer(t, Config{})
	tests := []struct {
		path string
		want string
	}{
		{"/xrefs/verse/GEN.1.1", "x1,x2"},
		{"/xrefs/verse/GEN.1.1?min_strength=4", "x1"},
		{"/xrefs/verse/GEN.1.1?min_strength=3&exclusive=true", "x1"},
		{"/xrefs/verse/GEN.1.1?type=theme", "x2"},
		{"/xrefs/verse/GEN.1.1?limit=1", "x1"},
		{"/xrefs/verse/" + url.PathEscape("Genesis 1:1") + "?source=OpenBible", ""},
		{"/xrefs/verse/JHN.1.2?direction=incoming", "x1"},
	}
	for _, tt := range tests {
		w, env := get(t, s.Handler(), tt.path)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d %+v", tt.path, w.Code, env.Error)
			continue
		}
		var edges []edge
		decodeData(t, env, &edges)
		ids := make([]string, len(edges))
		for i, e := range edges {
			ids[i] = e.ID
		}
		if got := strings.Join(ids, ","); got != tt.want {
			t.Errorf("GET %s = %s, want %s", tt.path, got, tt.want)
		}
	}

	_, env := get(t, s.Handler(), "/xrefs/verse/GEN.1.1?group=true")
	var groups []struct {
		Type string `json:"type"`
		Refs []edge `json:"refs"`
	}
	decodeData(t, env, &groups)
	if len(groups) != 2 || groups[0].Type != "parallel" || groups[1].Type != "theme" {
		t.Errorf("groups = %+v", groups)
	}

	if w, env := get(t, s.Handler(), "/xrefs/verse/GEN.1.1?direction=sideways"); w.Code != http.StatusBadRequest || env.Error.Code != "INVALID_INPUT" {
		t.Errorf("bad direction = %d %+v", w.Code, env.Error)
	}
	if w, _ := get(t, s.Handler(), "/xrefs/verse/Nope.1.1"); w.Code != http.StatusBadRequest {
		t.Errorf("bad verse status = %d", w.Code)
	}
}

func TestHandleChapterCrossRefs(t *testing.T) {
	s := newTestServer(t, Config{})
	w, env := get(t, s.Handler(), "/xrefs/chapter/Genesis/1?limit_per_verse=1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d %+v", w.Code, env.Error)
	}
	var byVerse map[string][]edge
	decodeData(t, env, &byVerse)
	if len(byVerse["1"]) != 1 || byVerse["1"][0].ID != "x1" || env.Meta.Total != 1 {
		t.Errorf("chapter xrefs = %v, total %d", byVerse, env.Meta.Total)
	}

	tests := []struct {
		path    string
		wantErr string
	}{
		{"/xrefs/chapter/GEN/51", "OUT_OF_RANGE"},
		{"/xrefs/chapter/GEN/one", "INVALID_INPUT"},
		{"/xrefs/chapter/Hezekiah/1", "UNRESOLVED_REFERENCE"},
	}
	for _, tt := range tests {
		w, env := get(t, s.Handler(), tt.path)
		if w.Code != http.StatusBadRequest || env.Error.Code != tt.wantErr {
			t.Errorf("GET %s = %d %+v, want %s", tt.path, w.Code, env.Error, tt.wantErr)
		}
	}
}

func TestHandleCrossRefTypes(t *testing.T) {
	s := newTestServer(t, Config{})
	_, env := get(t, s.Handler(), "/xrefs/types")
	var data struct {
		Types   []crossref.TypeCount `json:"types"`
		Sources []string             `json:"sources"`
	}
	decodeData(t, env, &data)
	if len(data.Types) != len(ir.CrossRefTypes()) || len(data.Sources) != 1 || data.Sources[0] != "TSK" {
		t.Errorf("types = %+v", data)
	}
}

func TestHandleCommentaries(t *testing.T) {
	s := newTestServer(t, Config{})
	tests := []struct {
		path string
		want string
	}{
		{"/commentaries/verse/JHN.3.16", "c1"},
		{"/commentaries/verse/JHN.3.16?language=es", ""},
		{"/commentaries/chapter/JHN/3", "c2,c1"},
		{"/commentaries/chapter/John/3?type=chapter", "c2"},
		{"/commentaries/search?q=nicodemus", "c2"},
	}
	for _, tt := range tests {
		w, env := get(t, s.Handler(), tt.path)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d %+v", tt.path, w.Code, env.Error)
			continue
		}
		var list []struct {
			ID string `json:"id"`
		}
		decodeData(t, env, &list)
		ids := make([]string, len(list))
		for i, c := range list {
			ids[i] = c.ID
		}
		if got := strings.Join(ids, ","); got != tt.want {
			t.Errorf("GET %s = %s, want %s", tt.path, got, tt.want)
		}
	}

	_, env := get(t, s.Handler(), "/commentaries/chapter/JHN/3?grouped=true")
	var groups []struct {
		Verse int `json:"verse"`
	}
	decodeData(t, env, &groups)
	if len(groups) != 2 || groups[0].Verse != 0 || groups[1].Verse != 16 {
		t.Errorf("groups = %+v", groups)
	}

	if w, _ := get(t, s.Handler(), "/commentaries/chapter/JHN/22"); w.Code != http.StatusBadRequest {
		t.Errorf("out of range chapter status = %d", w.Code)
	}
	if w, _ := get(t, s.Handler(), "/commentaries/search"); w.Code != http.StatusBadRequest {
		t.Errorf("empty commentary search status = %d", w.Code)
	}

	_, env = get(t, s.Handler(), "/commentaries")
	var info struct {
		Authors    []ir.Author           `json:"authors"`
		Statistics commentary.Statistics `json:"statistics"`
	}
	decodeData(t, env, &info)
	if len(info.Authors) != 1 || info.Statistics.Total != 2 {
		t.Errorf("commentary info = %+v", info)
	}
}

func TestHandleStats(t *testing.T) {
	s := newTestServer(t, Config{})
	get(t, s.Handler(), "/search?q=world")
	get(t, s.Handler(), "/search?q=world")
	_, env := get(t, s.Handler(), "/stats")
	var stats engine.SearchStats
	decodeData(t, env, &stats)
	if stats.TotalSearches != 2 || stats.Corpus.Versions != 1 || stats.Cache.Hits != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"short key", Config{Auth: AuthConfig{Enabled: true, APIKey: "short"}}},
		{"tls without files", Config{TLS: TLSConfig{Enabled: true}}},
		{"tls missing cert", Config{TLS: TLSConfig{Enabled: true, CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg, testEngine(t)); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}

func TestRateLimitedServer(t *testing.T) {
	s := newTestServer(t, Config{RateLimitRequests: 60, RateLimitBurst: 2})
	for i := 0; i < 2; i++ {
		if w, _ := get(t, s.Handler(), "/health"); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, w.Code)
		}
	}
	w, env := get(t, s.Handler(), "/health")
	if w.Code != http.StatusTooManyRequests || env.Error.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("third request = %d %+v", w.Code, env.Error)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After missing")
	}
}
