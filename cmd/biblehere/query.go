package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/FocuswithJustin/BibleHere/core/commentary"
	"github.com/FocuswithJustin/BibleHere/core/crossref"
	"github.com/FocuswithJustin/BibleHere/core/engine"
	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/search"
)

// VersionsCmd lists the loaded versions.
type VersionsCmd struct {
	JSON bool `help:"Output as JSON"`
}

func (c *VersionsCmd) Run() error {
	return withEngine(func(ctx context.Context, a *app, eng *engine.Engine) error {
		lib := eng.Data().Library
		versions := lib.Versions()
		if c.JSON {
			return printJSON(versions)
		}
		if len(versions) == 0 {
			fmt.Fprintln(stdout, "No versions loaded")
			return nil
		}
		for _, v := range versions {
			verses := 0
			if st, err := lib.Store(v.Abbrev); err == nil {
				verses = st.Len()
			}
			fmt.Fprintf(stdout, "%-8s %-40s %-6s %d verses\n", v.Abbrev, v.Name, v.Language, verses)
		}
		return nil
	})
}

// ResolveCmd resolves references.
type ResolveCmd struct {
	Refs []string `arg:"" help:"References, e.g. \"John 3:16\" or \"Gen 1:1-3; Ps 23\""`
	JSON bool     `help:"Output as JSON"`
}

type resolved struct {
	Input     string     `json:"input"`
	Reference ir.VerseID `json:"reference"`
	Display   string     `json:"display"`
}

func (c *ResolveCmd) Run() error {
	return withEngine(func(ctx context.Context, a *app, eng *engine.Engine) error {
		var out []resolved
		for _, ref := range c.Refs {
			ids, err := eng.Resolver().ResolveAll(ref)
			if err != nil {
				return err
			}
			for _, id := range ids {
				out = append(out, resolved{Input: ref, Reference: id, Display: eng.Display(id)})
			}
		}
		if c.JSON {
			return printJSON(out)
		}
		for _, r := range out {
			fmt.Fprintf(stdout, "%-16s %s\n", r.Reference, r.Display)
		}
		return nil
	})
}

// SearchCmd searches verse text.
type SearchCmd struct {
	Query     string   `arg:"" help:"Search text or expression"`
	Mode      string   `short:"m" default:"natural" enum:"natural,boolean,ngram,regex" help:"Search mode"`
	Versions  []string `short:"v" help:"Versions to search (comma separated)"`
	Books     []string `short:"b" help:"Restrict to books (comma separated)"`
	Sort      string   `default:"relevance" help:"Sort order: relevance, reference"`
	Page      int      `default:"1" help:"Result page"`
	PageSize  int      `name:"page-size" help:"Results per page"`
	Context   int      `help:"Neighbouring verses to show on each side"`
	Highlight bool     `help:"Print highlighted snippets instead of verse text"`
	JSON      bool     `help:"Output as JSON"`
}

func (c *SearchCmd) query() (search.Query, error) {
	mode, err := search.ParseMode(c.Mode)
	if err != nil {
		return search.Query{}, err
	}
	sortBy, err := search.ParseSort(c.Sort)
	if err != nil {
		return search.Query{}, err
	}
	return search.Query{
		Text:        c.Query,
		Mode:        mode,
		Versions:    c.Versions,
		Books:       c.Books,
		Page:        c.Page,
		PageSize:    c.PageSize,
		SortBy:      sortBy,
		NoHighlight: !c.Highlight,
		ContextSize: c.Context,
	}, nil
}

func (c *SearchCmd) Run() error {
	q, err := c.query()
	if err != nil {
		return err
	}
	return withEngine(func(ctx context.Context, a *app, eng *engine.Engine) error {
		page, err := eng.Search(ctx, q)
		if err != nil {
			return err
		}
		if c.JSON {
			return printJSON(page)
		}
		fmt.Fprintf(stdout, "Found %d results (page %d of %d)\n", page.TotalCount, page.Page, page.TotalPages)
		for _, hit := range page.Items {
			text := hit.Verse.Text
			if c.Highlight {
				text = hit.Snippet
			}
			for _, v := range hit.Context {
				if v.ID.Compare(hit.Verse.ID) < 0 {
					fmt.Fprintf(stdout, "    %s  %s\n", eng.Display(v.ID), v.Text)
				}
			}
			fmt.Fprintf(stdout, "%-5s %s  %s\n", hit.Verse.Version, eng.Display(hit.Verse.ID), text)
			for _, v := range hit.Context {
				if v.ID.Compare(hit.Verse.ID) > 0 {
					fmt.Fprintf(stdout, "    %s  %s\n", eng.Display(v.ID), v.Text)
				}
			}
		}
		return nil
	})
}

// SuggestCmd completes a partial reference or word.
type SuggestCmd struct {
	Partial string `arg:"" help:"Partial input"`
	Version string `help:"Version whose vocabulary completes words"`
	Limit   int    `help:"Maximum suggestions (default search.suggest_limit)"`
}

func (c *SuggestCmd) Run() error {
	return withEngine(func(ctx context.Context, a *app, eng *engine.Engine) error {
		for _, s := range eng.Suggest(c.Partial, c.Version, c.Limit) {
			fmt.Fprintln(stdout, s)
		}
		return nil
	})
}

// PassageCmd prints the text of a reference.
type PassageCmd struct {
	Reference string   `arg:"" help:"Reference, e.g. \"Ps 23\""`
	Versions  []string `short:"v" help:"Versions to print (comma separated)"`
	JSON      bool     `help:"Output as JSON"`
}

func (c *PassageCmd) Run() error {
	return withEngine(func(ctx context.Context, a *app, eng *engine.Engine) error {
		passages, err := eng.Passage(ctx, c.Reference, c.Versions)
		if err != nil {
			return err
		}
		if c.JSON {
			return printJSON(passages)
		}
		for i, p := range passages {
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			printPassage(p)
		}
		return nil
	})
}

func printPassage(p engine.Passage) {
	fmt.Fprintf(stdout, "%s (%s)\n", p.Display, p.Version.Abbrev)
	for _, v := range p.Verses {
		fmt.Fprintf(stdout, "%d:%d %s\n", v.ID.Chapter, v.ID.Verse, v.Text)
	}
}

// VotdCmd prints the verse of the day.
type VotdCmd struct {
	Date    string `help:"Date as YYYY-MM-DD (default today)"`
	Version string `help:"Version to print"`
	JSON    bool   `help:"Output as JSON"`
}

func (c *VotdCmd) Run() error {
	var date time.Time
	if c.Date != "" {
		d, err := time.Parse(time.DateOnly, c.Date)
		if err != nil {
			return errors.NewValidation("date", "want YYYY-MM-DD")
		}
		date = d
	}
	return withEngine(func(ctx context.Context, a *app, eng *engine.Engine) error {
		p, err := eng.VerseOfDay(ctx, date, c.Version)
		if err != nil {
			return err
		}
		if c.JSON {
			return printJSON(p)
		}
		printPassage(p)
		return nil
	})
}

// XrefsCmd lists cross-references of a verse.
type XrefsCmd struct {
	Reference   string `arg:"" help:"Verse or verse range"`
	Incoming    bool   `help:"List references pointing at the verse instead"`
	Type        string `short:"t" help:"Keep only this relationship type"`
	Source      string `help:"Keep only this provenance"`
	MinStrength int    `name:"min-strength" help:"Minimum strength (1-5)"`
	Exclusive   bool   `help:"Treat --min-strength as a strict bound"`
	Limit       int    `short:"n" help:"Maximum results"`
	Group       bool   `help:"Group by relationship type"`
	JSON        bool   `help:"Output as JSON"`
}

func (c *XrefsCmd) Run() error {
	f := crossref.Filter{
		Type:         ir.CrossRefType(strings.ToLower(c.Type)),
		Source:       c.Source,
		MinStrength:  c.MinStrength,
		ExclusiveMin: c.Exclusive,
		Limit:        c.Limit,
	}
	return withEngine(func(ctx context.Context, a *app, eng *engine.Engine) error {
		id, err := eng.Resolve(ctx, c.Reference)
		if err != nil {
			return err
		}
		var refs []ir.CrossReference
		if c.Incoming {
			refs = eng.IncomingCrossReferences(id, f)
		} else {
			refs = eng.CrossReferences(id, f)
		}
		if c.Group {
			groups := crossref.GroupByType(refs)
			if c.JSON {
				return printJSON(groups)
			}
			for _, g := range groups {
				fmt.Fprintf(stdout, "%s (%d)\n", g.Label, len(g.Refs))
				c.print(eng, g.Refs)
			}
			return nil
		}
		if c.JSON {
			return printJSON(refs)
		}
		fmt.Fprintf(stdout, "%s: %d cross-references\n", eng.Display(id), len(refs))
		c.print(eng, refs)
		return nil
	})
}

func (c *XrefsCmd) print(eng *engine.Engine, refs []ir.CrossReference) {
	for _, r := range refs {
		other := r.TargetID
		if c.Incoming {
			other = r.SourceID
		}
		fmt.Fprintf(stdout, "  %-24s %-12s %d\n", eng.Display(other), r.Type, r.Strength)
	}
}

// CommentaryCmd lists commentaries on a verse or chapter, or searches them.
type CommentaryCmd struct {
	Reference string   `arg:"" optional:"" help:"Verse, range or chapter"`
	Chapter   bool     `help:"List the whole chapter, chapter notes first"`
	Search    string   `short:"s" help:"Search commentary text instead"`
	Language  string   `short:"l" help:"Keep only this language"`
	Author    string   `short:"a" help:"Keep only this author"`
	Source    string   `help:"Keep only this source"`
	Types     []string `name:"type" help:"Keep only these types (comma separated)"`
	Limit     int      `short:"n" help:"Maximum results"`
	JSON      bool     `help:"Output as JSON"`
}

func (c *CommentaryCmd) filter() commentary.Filter {
	f := commentary.Filter{Language: c.Language, Author: c.Author, Source: c.Source, Limit: c.Limit}
	for _, t := range c.Types {
		f.Types = append(f.Types, ir.CommentaryType(strings.ToLower(t)))
	}
	return f
}

func (c *CommentaryCmd) Run() error {
	if c.Reference == "" && strings.TrimSpace(c.Search) == "" {
		return errors.NewValidation("reference", "give a reference or --search text")
	}
	f := c.filter()
	return withEngine(func(ctx context.Context, a *app, eng *engine.Engine) error {
		var entries []ir.Commentary
		if c.Search != "" {
			entries = eng.SearchCommentaries(c.Search, f)
		} else {
			id, err := eng.Resolve(ctx, c.Reference)
			if err != nil {
				return err
			}
			if c.Chapter {
				entries, err = eng.ChapterCommentaries(id.BookNum, id.Chapter, f)
				if err != nil {
					return err
				}
			} else {
				entries = eng.Commentaries(id, f)
			}
		}
		if c.JSON {
			return printJSON(entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(stdout, "No commentaries found")
			return nil
		}
		for i, e := range entries {
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			heading := eng.Display(e.Verse)
			if e.Title != "" {
				heading += " - " + e.Title
			}
			fmt.Fprintf(stdout, "%s [%s, %s]\n", heading, e.Author, e.Type)
			fmt.Fprintln(stdout, commentary.PlainText(e.Body))
		}
		return nil
	})
}
