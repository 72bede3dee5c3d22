// Package importer loads Zefania XML, CSV, cross-reference, commentary and
// Strong's concordance files into the corpus database. Every import holds an exclusive lock on
// the database so concurrent imports serialize.
package importer

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/resolver"
	"github.com/FocuswithJustin/BibleHere/internal/logging"
	"github.com/FocuswithJustin/BibleHere/internal/storage"
)

// DefaultLockTimeout is how long an import waits for another to finish.
const DefaultLockTimeout = 30 * time.Second

// Importer writes parsed files into a database.
type Importer struct {
	db          *storage.DB
	res         *resolver.Resolver
	LockTimeout time.Duration
}

// New creates an importer validating references with res.
func New(db *storage.DB, res *resolver.Resolver) *Importer {
	return &Importer{db: db, res: res, LockTimeout: DefaultLockTimeout}
}

// run opens path under the import lock and hands the reader to fn.
func (im *Importer) run(path string, fn func(r io.Reader) (Result, error)) (Result, error) {
	unlock, err := AcquireLock(im.db.Path(), im.LockTimeout)
	if err != nil {
		return Result{Path: path}, err
	}
	defer unlock()

	f, err := OpenFile(path)
	if err != nil {
		return Result{Path: path}, err
	}
	defer f.Close()

	result, err := fn(f)
	result.Path = path
	if err != nil {
		return result, err
	}
	logging.ImportEvent(result.Kind, path, result.Success, result.Failed, "version", result.Version)
	return result, nil
}

// ImportZefania imports a Zefania XML bible. A non-empty abbrev overrides
// the identifier in the file.
func (im *Importer) ImportZefania(ctx context.Context, path, abbrev string) (Result, error) {
	return im.run(path, func(r io.Reader) (Result, error) {
		v, verses, result, err := ParseZefania(r, im.res)
		if err != nil {
			return result, err
		}
		if abbrev != "" {
			v.Abbrev = abbrev
		}
		if v.Abbrev == "" {
			return result, errors.NewValidation("version", "file has no identifier; pass a version abbreviation")
		}
		v.Abbrev = strings.ToUpper(v.Abbrev)
		result.Version = v.Abbrev
		return result, im.db.ReplaceVersion(ctx, v, verses)
	})
}

// ImportCSV imports book,chapter,verse,text rows as version v.
func (im *Importer) ImportCSV(ctx context.Context, path string, v ir.Version) (Result, error) {
	if strings.TrimSpace(v.Abbrev) == "" {
		return Result{Path: path}, errors.NewValidation("version", "version abbreviation is required")
	}
	v.Abbrev = strings.ToUpper(v.Abbrev)
	return im.run(path, func(r io.Reader) (Result, error) {
		verses, result, err := ParseVersesCSV(r, im.res, v.Abbrev)
		if err != nil {
			return result, err
		}
		return result, im.db.ReplaceVersion(ctx, v, verses)
	})
}

// ImportCrossRefs imports cross-references tagged with provenance.
func (im *Importer) ImportCrossRefs(ctx context.Context, path, provenance string) (Result, error) {
	return im.run(path, func(r io.Reader) (Result, error) {
		edges, result, err := ParseCrossRefsCSV(r, im.res, provenance)
		if err != nil {
			return result, err
		}
		return result, im.db.InsertCrossReferences(ctx, edges)
	})
}

// ImportCommentaries imports commentary entries and their author and
// source metadata.
func (im *Importer) ImportCommentaries(ctx context.Context, path string) (Result, error) {
	return im.run(path, func(r io.Reader) (Result, error) {
		parsed, result, err := ParseCommentaryJSONL(r, im.res)
		if err != nil {
			return result, err
		}
		if err := im.db.InsertAuthors(ctx, parsed.Authors); err != nil {
			return result, err
		}
		if err := im.db.InsertSources(ctx, parsed.Sources); err != nil {
			return result, err
		}
		return result, im.db.InsertCommentaries(ctx, parsed.Entries)
	})
}

// ImportStrongs imports a Strong's lexicon with its definitions.
func (im *Importer) ImportStrongs(ctx context.Context, path string) (Result, error) {
	return im.run(path, func(r io.Reader) (Result, error) {
		lex, result, err := ParseStrongsJSONL(r)
		if err != nil {
			return result, err
		}
		if err := im.db.InsertStrongNumbers(ctx, lex.Entries); err != nil {
			return result, err
		}
		return result, im.db.InsertStrongDefinitions(ctx, lex.Definitions)
	})
}

// ImportWordTags imports the Strong's word tags of one version, replacing
// the tags it had.
func (im *Importer) ImportWordTags(ctx context.Context, path, version string) (Result, error) {
	version = strings.ToUpper(strings.TrimSpace(version))
	if version == "" {
		return Result{Path: path}, errors.NewValidation("version", "version abbreviation is required")
	}
	return im.run(path, func(r io.Reader) (Result, error) {
		tags, result, err := ParseWordTagsCSV(r, im.res, version)
		if err != nil {
			return result, err
		}
		return result, im.db.ReplaceWordTags(ctx, version, tags)
	})
}
