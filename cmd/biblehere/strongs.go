package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/FocuswithJustin/BibleHere/core/engine"
	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
)

// StrongsCmd looks up the Strong's concordance: one number, a search, a
// verse's tagged words or a language listing.
type StrongsCmd struct {
	Number      string `arg:"" optional:"" help:"Strong's number, e.g. H430 or G2316"`
	Search      string `short:"s" help:"Search numbers, original words, transliterations and brief definitions"`
	Verse       string `help:"List the tagged words of a verse"`
	Version     string `short:"v" help:"Version of --verse tags (default: first search version)"`
	Language    string `short:"l" help:"hebrew or greek; with no other input lists that language"`
	Definitions string `short:"d" default:"all" help:"brief, detailed, etymology or all"`
	Limit       int    `short:"n" help:"Maximum results (default 50)"`
	Offset      int    `help:"Entries to skip when listing a language"`
	JSON        bool   `help:"Output as JSON"`
}

func (c *StrongsCmd) Run() error {
	if c.Number == "" && c.Search == "" && c.Verse == "" && c.Language == "" {
		return errors.NewValidation("number", "give a number, --search, --verse or --language")
	}
	return withEngine(func(ctx context.Context, a *app, eng *engine.Engine) error {
		switch {
		case c.Number != "":
			return c.lookup(eng)
		case c.Search != "":
			matches, err := eng.SearchStrongNumbers(c.Search, c.Language, c.Limit)
			if err != nil {
				return err
			}
			if c.JSON {
				return printJSON(matches)
			}
			fmt.Fprintf(stdout, "%d Strong's numbers\n", len(matches))
			for _, m := range matches {
				printStrongEntry(m.StrongEntry)
				if m.BriefDefinition != "" {
					fmt.Fprintf(stdout, "    %s\n", m.BriefDefinition)
				}
			}
			return nil
		case c.Verse != "":
			words, err := eng.VerseStrongNumbers(ctx, c.Verse, c.Version)
			if err != nil {
				return err
			}
			if c.JSON {
				return printJSON(words)
			}
			fmt.Fprintf(stdout, "%s (%s)\n", words.Display, words.Version)
			if len(words.Words) == 0 {
				fmt.Fprintln(stdout, "No tagged words")
			}
			for _, w := range words.Words {
				line := fmt.Sprintf("  %d:%d.%d %-20s %s", w.Verse.Chapter, w.Verse.Verse, w.Position, w.Word, w.Number)
				if w.Morph != "" {
					line += " " + w.Morph
				}
				fmt.Fprintln(stdout, line)
			}
			return nil
		default:
			entries, err := eng.StrongNumbersByLanguage(c.Language, c.Limit, c.Offset)
			if err != nil {
				return err
			}
			if c.JSON {
				return printJSON(entries)
			}
			for _, e := range entries {
				printStrongEntry(e)
			}
			return nil
		}
	})
}

func (c *StrongsCmd) lookup(eng *engine.Engine) error {
	entry, err := eng.StrongNumber(c.Number)
	if err != nil {
		return err
	}
	defs, err := eng.StrongDefinitions(entry.Number, c.Definitions)
	if err != nil {
		return err
	}
	usage, err := eng.StrongUsage(entry.Number)
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(map[string]any{"entry": entry, "definitions": defs, "usage": usage})
	}
	printStrongEntry(entry)
	for _, d := range defs {
		fmt.Fprintf(stdout, "  %s: %s\n", d.Type, d.Definition)
		if d.UsageNotes != "" {
			fmt.Fprintf(stdout, "    %s\n", d.UsageNotes)
		}
	}
	fmt.Fprintf(stdout, "Used %d times in %d verses, %d chapters, %d books\n",
		usage.Occurrences, usage.Verses, usage.Chapters, usage.Books)
	return nil
}

func printStrongEntry(e ir.StrongEntry) {
	parts := []string{e.Number, e.OriginalWord}
	if e.Transliteration != "" {
		parts = append(parts, e.Transliteration)
	}
	if e.PartOfSpeech != "" {
		parts = append(parts, "("+e.PartOfSpeech+")")
	}
	fmt.Fprintln(stdout, strings.Join(parts, " "))
}

// RandomCmd prints a random verse.
type RandomCmd struct {
	Version   string   `short:"v" help:"Version to pick from"`
	Testament string   `short:"t" help:"old or new"`
	Books     []string `short:"b" help:"Books to pick from (comma separated)"`
	MinLength int      `name:"min-length" help:"Minimum verse length in characters"`
	JSON      bool     `help:"Output as JSON"`
}

func (c *RandomCmd) Run() error {
	return withEngine(func(ctx context.Context, a *app, eng *engine.Engine) error {
		p, err := eng.RandomVerse(c.Version, engine.RandomFilter{
			Testament: c.Testament,
			Books:     c.Books,
			MinLength: c.MinLength,
		})
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
