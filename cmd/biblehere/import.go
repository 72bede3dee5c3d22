package main

import (
	"context"
	"fmt"

	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/resolver"
	"github.com/FocuswithJustin/BibleHere/internal/importer"
)

// ImportGroup contains the import commands.
type ImportGroup struct {
	Zefania      ImportZefaniaCmd      `cmd:"" help:"Import a Zefania XML bible (.xml, .xml.gz, .xml.xz)"`
	CSV          ImportCSVCmd          `cmd:"" name:"csv" help:"Import book,chapter,verse,text rows as a version"`
	Xrefs        ImportXrefsCmd        `cmd:"" help:"Import source,target,type,strength,notes cross-reference rows"`
	Commentaries ImportCommentariesCmd `cmd:"" help:"Import commentary entries from JSON lines"`
	Strongs      ImportStrongsCmd      `cmd:"" help:"Import a Strong's lexicon from JSON lines"`
	Tags         ImportTagsCmd         `cmd:"" help:"Import reference,position,word,number[,morph] word tags of a version"`
	Delete       DeleteVersionCmd      `cmd:"" help:"Delete a version with its verses and word tags"`
}

// runImport opens the database and hands fn an importer.
func runImport(jsonOut bool, fn func(ctx context.Context, im *importer.Importer) (importer.Result, error)) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	im := importer.New(a.db, resolver.New(a.canon))
	result, err := fn(context.Background(), im)
	if err != nil {
		return err
	}
	return printResult(result, jsonOut)
}

func printResult(r importer.Result, jsonOut bool) error {
	if jsonOut {
		return printJSON(r)
	}
	fmt.Fprintf(stdout, "Imported %s: %d succeeded, %d failed\n", r.Path, r.Success, r.Failed)
	if r.Version != "" {
		fmt.Fprintf(stdout, "Version: %s\n", r.Version)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(stdout, "  %s\n", e.Error())
	}
	return nil
}

// ImportZefaniaCmd imports a Zefania XML bible.
type ImportZefaniaCmd struct {
	Path    string `arg:"" help:"Zefania file" type:"existingfile"`
	Version string `help:"Version abbreviation (overrides the file identifier)"`
	JSON    bool   `help:"Output as JSON"`
}

func (c *ImportZefaniaCmd) Run() error {
	return runImport(c.JSON, func(ctx context.Context, im *importer.Importer) (importer.Result, error) {
		return im.ImportZefania(ctx, c.Path, c.Version)
	})
}

// ImportCSVCmd imports a CSV version.
type ImportCSVCmd struct {
	Path     string `arg:"" help:"CSV file" type:"existingfile"`
	Version  string `required:"" help:"Version abbreviation"`
	Name     string `help:"Version title"`
	Language string `default:"en" help:"Version language tag"`
	JSON     bool   `help:"Output as JSON"`
}

func (c *ImportCSVCmd) Run() error {
	v := ir.Version{Abbrev: c.Version, Name: c.Name, Language: c.Language}
	if v.Name == "" {
		v.Name = c.Version
	}
	return runImport(c.JSON, func(ctx context.Context, im *importer.Importer) (importer.Result, error) {
		return im.ImportCSV(ctx, c.Path, v)
	})
}

// ImportXrefsCmd imports cross-references.
type ImportXrefsCmd struct {
	Path   string `arg:"" help:"CSV file" type:"existingfile"`
	Source string `default:"TSK" help:"Provenance recorded on every edge"`
	JSON   bool   `help:"Output as JSON"`
}

func (c *ImportXrefsCmd) Run() error {
	return runImport(c.JSON, func(ctx context.Context, im *importer.Importer) (importer.Result, error) {
		return im.ImportCrossRefs(ctx, c.Path, c.Source)
	})
}

// ImportCommentariesCmd imports commentary entries.
type ImportCommentariesCmd struct {
	Path string `arg:"" help:"JSON lines file" type:"existingfile"`
	JSON bool   `help:"Output as JSON"`
}

func (c *ImportCommentariesCmd) Run() error {
	return runImport(c.JSON, func(ctx context.Context, im *importer.Importer) (importer.Result, error) {
		return im.ImportCommentaries(ctx, c.Path)
	})
}

// ImportStrongsCmd imports a Strong's lexicon.
type ImportStrongsCmd struct {
	Path string `arg:"" help:"JSON lines file" type:"existingfile"`
	JSON bool   `help:"Output as JSON"`
}

func (c *ImportStrongsCmd) Run() error {
	return runImport(c.JSON, func(ctx context.Context, im *importer.Importer) (importer.Result, error) {
		return im.ImportStrongs(ctx, c.Path)
	})
}

// ImportTagsCmd imports the Strong's word tags of a version.
type ImportTagsCmd struct {
	Path    string `arg:"" help:"CSV file" type:"existingfile"`
	Version string `required:"" help:"Version abbreviation"`
	JSON    bool   `help:"Output as JSON"`
}

func (c *ImportTagsCmd) Run() error {
	return runImport(c.JSON, func(ctx context.Context, im *importer.Importer) (importer.Result, error) {
		return im.ImportWordTags(ctx, c.Path, c.Version)
	})
}

// DeleteVersionCmd removes a version.
type DeleteVersionCmd struct {
	Version string `arg:"" help:"Version abbreviation"`
}

func (c *DeleteVersionCmd) Run() error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	unlock, err := importer.AcquireLock(a.db.Path(), importer.DefaultLockTimeout)
	if err != nil {
		return err
	}
	defer unlock()

	if err := a.db.DeleteVersion(context.Background(), c.Version); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Deleted version %s\n", c.Version)
	return nil
}
