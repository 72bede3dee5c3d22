package engine

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/FocuswithJustin/BibleHere/core/cache"
	"github.com/FocuswithJustin/BibleHere/core/search"
)

// statsWindow is the number of recent searches averages are taken over.
const statsWindow = 100

type searchRecord struct {
	query    string
	mode     search.Mode
	results  int
	duration time.Duration
}

// recorder keeps a ring of the most recent searches.
type recorder struct {
	mu     sync.Mutex
	total  int64
	recent []searchRecord
	next   int
}

func newRecorder() *recorder {
	return &recorder{recent: make([]searchRecord, 0, statsWindow)}
}

func (r *recorder) record(query string, mode search.Mode, results int, d time.Duration) {
	rec := searchRecord{query: strings.ToLower(strings.TrimSpace(query)), mode: mode, results: results, duration: d}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total++
	if len(r.recent) < statsWindow {
		r.recent = append(r.recent, rec)
		return
	}
	r.recent[r.next] = rec
	r.next = (r.next + 1) % statsWindow
}

// QueryCount is a query text with the number of times it was searched.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// SearchStats summarizes recent search activity. Averages, popular
// queries and mode counts cover the last 100 searches.
type SearchStats struct {
	TotalSearches     int64          `json:"total_searches"`
	AverageDurationMS float64        `json:"average_duration_ms"`
	AverageResults    float64        `json:"average_results"`
	PopularQueries    []QueryCount   `json:"popular_queries"`
	ByMode            map[string]int `json:"by_mode"`
	Cache             cache.Stats    `json:"cache"`
	Corpus            CorpusStats    `json:"corpus"`
	LoadedAt          time.Time      `json:"loaded_at"`
}

// CorpusStats counts the loaded data.
type CorpusStats struct {
	Versions        int `json:"versions"`
	CrossReferences int `json:"cross_references"`
	Commentaries    int `json:"commentaries"`
	StrongNumbers   int `json:"strong_numbers"`
}

func (r *recorder) snapshot() SearchStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := SearchStats{
		TotalSearches:  r.total,
		PopularQueries: []QueryCount{},
		ByMode:         make(map[string]int),
	}
	if len(r.recent) == 0 {
		return out
	}
	var dur time.Duration
	var results int
	counts := make(map[string]int)
	for _, rec := range r.recent {
		dur += rec.duration
		results += rec.results
		out.ByMode[rec.mode.String()]++
		if rec.query != "" {
			counts[rec.query]++
		}
	}
	n := float64(len(r.recent))
	out.AverageDurationMS = float64(dur.Microseconds()) / 1000 / n
	out.AverageResults = float64(results) / n
	for q, c := range counts {
		out.PopularQueries = append(out.PopularQueries, QueryCount{Query: q, Count: c})
	}
	sort.Slice(out.PopularQueries, func(i, j int) bool {
		a, b := out.PopularQueries[i], out.PopularQueries[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Query < b.Query
	})
	if len(out.PopularQueries) > 10 {
		out.PopularQueries = out.PopularQueries[:10]
	}
	return out
}

// Stats reports search activity, cache counters and loaded data sizes.
func (e *Engine) Stats() SearchStats {
	out := e.stats.snapshot()
	if e.pages != nil {
		out.Cache = e.pages.Stats()
	}
	s := e.current()
	out.Corpus = CorpusStats{
		Versions:        s.data.Library.Len(),
		CrossReferences: s.data.Graph.Len(),
		Commentaries:    s.data.Commentary.Len(),
		StrongNumbers:   s.data.Strongs.Len(),
	}
	out.LoadedAt = s.loadedAt
	return out
}
