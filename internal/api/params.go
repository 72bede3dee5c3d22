package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/FocuswithJustin/BibleHere/core/commentary"
	"github.com/FocuswithJustin/BibleHere/core/crossref"
	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/search"
	"github.com/FocuswithJustin/BibleHere/internal/server"
)

// query reads a cleaned query parameter.
func query(r *http.Request, name string) string {
	return server.CleanQueryParam(r.URL.Query().Get(name), server.MaxQueryLength)
}

func listParam(r *http.Request, name string) []string {
	return server.SplitList(query(r, name))
}

// intParam reads a non-negative integer parameter, def when absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	s := query(r, name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.NewValidation(name, "must be a non-negative integer")
	}
	return n, nil
}

// boolParam accepts the strconv.ParseBool forms; absent is def.
func boolParam(r *http.Request, name string, def bool) (bool, error) {
	s := query(r, name)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.NewValidation(name, "must be true or false")
	}
	return b, nil
}

func searchQuery(r *http.Request) (search.Query, error) {
	var q search.Query
	var err error

	q.Text = server.LimitStringLength(strings.TrimSpace(r.URL.Query().Get("q")), server.MaxQueryLength)
	if q.Mode, err = search.ParseMode(query(r, "mode")); err != nil {
		return q, err
	}
	if q.SortBy, err = search.ParseSort(query(r, "sort")); err != nil {
		return q, err
	}
	q.Versions = listParam(r, "versions")
	q.Books = listParam(r, "books")
	if q.Page, err = intParam(r, "page", 0); err != nil {
		return q, err
	}
	if q.PageSize, err = intParam(r, "page_size", 0); err != nil {
		return q, err
	}
	if q.ContextSize, err = intParam(r, "context", 0); err != nil {
		return q, err
	}
	highlight, err := boolParam(r, "highlight", true)
	if err != nil {
		return q, err
	}
	q.NoHighlight = !highlight
	return q, nil
}

func crossrefFilter(r *http.Request) (crossref.Filter, error) {
	var f crossref.Filter
	var err error

	f.Type = ir.CrossRefType(strings.ToLower(query(r, "type")))
	f.Source = query(r, "source")
	if f.MinStrength, err = intParam(r, "min_strength", 0); err != nil {
		return f, err
	}
	if f.ExclusiveMin, err = boolParam(r, "exclusive", false); err != nil {
		return f, err
	}
	if f.Limit, err = intParam(r, "limit", 0); err != nil {
		return f, err
	}
	return f, nil
}

func commentaryFilter(r *http.Request) (commentary.Filter, error) {
	f := commentary.Filter{
		Language: query(r, "language"),
		Author:   query(r, "author"),
		Source:   query(r, "source"),
	}
	for _, t := range listParam(r, "type") {
		f.Types = append(f.Types, ir.CommentaryType(strings.ToLower(t)))
	}
	var err error
	if f.Limit, err = intParam(r, "limit", 0); err != nil {
		return f, err
	}
	return f, nil
}

// dateParam parses YYYY-MM-DD; absent is the zero time.
func dateParam(r *http.Request, name string) (time.Time, error) {
	s := query(r, name)
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, errors.NewValidation(name, "must be a YYYY-MM-DD date")
	}
	return d, nil
}
