package importer

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/resolver"
)

// commentaryLine is one JSON line of a commentary import. Reference takes
// any form the resolver accepts; a chapter reference ("John 3") makes a
// chapter-scope entry.
type commentaryLine struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Author    string `json:"author"`
	Source    string `json:"source"`
	Type      string `json:"type"`
	Language  string `json:"language"`
	Status    string `json:"status"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Rank      int    `json:"rank"`
	CreatedAt string `json:"created_at"`

	// Author and source metadata lines carry only these.
	AuthorInfo *ir.Author `json:"author_info,omitempty"`
	SourceInfo *ir.Source `json:"source_info,omitempty"`
}

// Commentaries is the parsed content of a commentary import.
type Commentaries struct {
	Entries []ir.Commentary
	Authors []ir.Author
	Sources []ir.Source
}

// ParseCommentaryJSONL reads one JSON object per line. Blank lines are
// skipped. Type defaults to verse (chapter for chapter references),
// language to en and status to active; missing ids get a UUID.
func ParseCommentaryJSONL(r io.Reader, res *resolver.Resolver) (Commentaries, Result, error) {
	result := Result{Kind: "commentaries"}
	var out Commentaries
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var cl commentaryLine
		if err := json.Unmarshal([]byte(raw), &cl); err != nil {
			result.fail(line, errors.NewParse("jsonl", "", line, err.Error()))
			continue
		}
		if cl.AuthorInfo != nil || cl.SourceInfo != nil {
			if cl.AuthorInfo != nil && cl.AuthorInfo.Name != "" {
				out.Authors = append(out.Authors, *cl.AuthorInfo)
			}
			if cl.SourceInfo != nil && cl.SourceInfo.Name != "" {
				out.Sources = append(out.Sources, *cl.SourceInfo)
			}
			result.Success++
			continue
		}
		c, err := convertCommentary(res, cl)
		if err != nil {
			result.fail(line, err)
			continue
		}
		out.Entries = append(out.Entries, c)
		result.Success++
	}
	if err := sc.Err(); err != nil {
		return out, result, errors.NewParse("jsonl", "", line, err.Error())
	}
	return out, result, nil
}

func convertCommentary(res *resolver.Resolver, cl commentaryLine) (ir.Commentary, error) {
	if strings.TrimSpace(cl.Body) == "" {
		return ir.Commentary{}, errors.NewValidation("body", "must not be empty")
	}
	id, err := res.Resolve(cl.Reference)
	if err != nil {
		return ir.Commentary{}, err
	}
	c := ir.Commentary{
		ID:       cl.ID,
		Verse:    id,
		Author:   cl.Author,
		Source:   cl.Source,
		Type:     ir.CommentaryType(strings.ToLower(cl.Type)),
		Language: cl.Language,
		Status:   ir.CommentaryStatus(strings.ToLower(cl.Status)),
		Title:    cl.Title,
		Body:     cl.Body,
		Rank:     cl.Rank,
	}
	if chapterOnly(cl.Reference, id) {
		c.Verse = ir.VerseID{Book: id.Book, BookNum: id.BookNum, Chapter: id.Chapter}
		if c.Type == "" {
			c.Type = ir.CommentaryChapter
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Type == "" {
		c.Type = ir.CommentaryVerse
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.Status == "" {
		c.Status = ir.StatusActive
	}
	if cl.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, cl.CreatedAt)
		if err != nil {
			return ir.Commentary{}, errors.NewValidation("created_at", "must be RFC 3339")
		}
		c.CreatedAt = t
	}
	return c, nil
}

// chapterOnly reports whether ref named a chapter without a verse.
func chapterOnly(ref string, id ir.VerseID) bool {
	return id.Verse == 1 && id.IsRange() && !strings.ContainsAny(ref, ":.")
}
