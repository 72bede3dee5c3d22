package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/strongs"
)

// ReplaceVersion stores v and its verses, replacing any verses the version
// already had. It runs in one transaction so readers see either the old or
// the new text.
func (s *DB) ReplaceVersion(ctx context.Context, v ir.Version, verses []ir.Verse) error {
	v.Abbrev = strings.ToUpper(strings.TrimSpace(v.Abbrev))
	if v.Abbrev == "" {
		return errors.NewValidation("abbrev", "version abbreviation is required")
	}
	if v.Name == "" {
		v.Name = v.Abbrev
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO versions (abbrev, name, language, publisher, copyright)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(abbrev) DO UPDATE SET
				name = excluded.name, language = excluded.language,
				publisher = excluded.publisher, copyright = excluded.copyright`,
			v.Abbrev, v.Name, v.Language, v.Publisher, v.Copyright); err != nil {
			return fmt.Errorf("failed to store version %s: %w", v.Abbrev, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM verses WHERE version = ?`, v.Abbrev); err != nil {
			return fmt.Errorf("failed to clear verses of %s: %w", v.Abbrev, err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO verses (version, book, chapter, verse, text)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, verse := range verses {
			id := verse.ID
			if _, err := stmt.ExecContext(ctx, v.Abbrev, id.BookNum, id.Chapter, id.Verse, verse.Text); err != nil {
				return fmt.Errorf("failed to store %s: %w", id, err)
			}
		}
		return nil
	})
}

// DeleteVersion removes a version with its verses and word tags.
func (s *DB) DeleteVersion(ctx context.Context, abbrev string) error {
	abbrev = strings.ToUpper(strings.TrimSpace(abbrev))
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM verses WHERE version = ?`, abbrev); err != nil {
			return fmt.Errorf("failed to delete verses: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM verse_strong_numbers WHERE version = ?`, abbrev); err != nil {
			return fmt.Errorf("failed to delete word tags: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM versions WHERE abbrev = ?`, abbrev)
		if err != nil {
			return fmt.Errorf("failed to delete version: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errors.NewUnknownVersion(abbrev)
		}
		return nil
	})
}

// InsertCrossReferences stores edges, replacing edges with the same ID.
func (s *DB) InsertCrossReferences(ctx context.Context, edges []ir.CrossReference) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO cross_references (
				id, source_book, source_chapter, source_verse,
				target_book, target_chapter, target_verse, target_verse_end,
				type, strength, rank_order, notes, source, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, e := range edges {
			src, dst := e.SourceID, e.TargetID
			if _, err := stmt.ExecContext(ctx, e.ID,
				src.BookNum, src.Chapter, src.Verse,
				dst.BookNum, dst.Chapter, dst.Verse, dst.VerseEnd,
				string(e.Type), e.Strength, e.Rank, e.Notes, e.Source, !e.Inactive); err != nil {
				return fmt.Errorf("failed to store cross-reference %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

// InsertAuthors stores commentary authors, replacing existing names.
func (s *DB) InsertAuthors(ctx context.Context, authors []ir.Author) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, a := range authors {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO commentary_authors (name, full_name, bio) VALUES (?, ?, ?)`,
				a.Name, a.FullName, a.Bio); err != nil {
				return fmt.Errorf("failed to store author %s: %w", a.Name, err)
			}
		}
		return nil
	})
}

// InsertSources stores commentary sources, replacing existing names.
func (s *DB) InsertSources(ctx context.Context, sources []ir.Source) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, src := range sources {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO commentary_sources (name, full_name, abbrev, publisher, year)
				VALUES (?, ?, ?, ?, ?)`,
				src.Name, src.FullName, src.Abbrev, src.Publisher, src.Year); err != nil {
				return fmt.Errorf("failed to store source %s: %w", src.Name, err)
			}
		}
		return nil
	})
}

// InsertCommentaries stores entries in order. An entry whose ID already
// exists is updated in place and keeps its insertion sequence.
func (s *DB) InsertCommentaries(ctx context.Context, entries []ir.Commentary) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO commentaries (
				id, book, chapter, verse, verse_end, author, source, type,
				language, status, title, body, rank_order, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				book = excluded.book, chapter = excluded.chapter,
				verse = excluded.verse, verse_end = excluded.verse_end,
				author = excluded.author, source = excluded.source,
				type = excluded.type, language = excluded.language,
				status = excluded.status, title = excluded.title,
				body = excluded.body, rank_order = excluded.rank_order`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, c := range entries {
			created := ""
			if !c.CreatedAt.IsZero() {
				created = c.CreatedAt.UTC().Format(time.RFC3339)
			}
			v := c.Verse
			if _, err := stmt.ExecContext(ctx, c.ID,
				v.BookNum, v.Chapter, v.Verse, v.VerseEnd,
				c.Author, c.Source, string(c.Type), c.Language, string(c.Status),
				c.Title, c.Body, c.Rank, created); err != nil {
				return fmt.Errorf("failed to store commentary %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

// InsertStrongNumbers stores lexicon entries, replacing entries with the
// same number.
func (s *DB) InsertStrongNumbers(ctx context.Context, entries []ir.StrongEntry) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO strong_numbers (
				number, language, original_word, transliteration,
				pronunciation, part_of_speech, root_word, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, e := range entries {
			num, err := strongs.ParseNumber(e.Number)
			if err != nil {
				return err
			}
			lang := e.Language
			if lang == "" {
				lang = strongs.LanguageOf(num)
			}
			if _, err := stmt.ExecContext(ctx, num, string(lang), e.OriginalWord, e.Transliteration,
				e.Pronunciation, e.PartOfSpeech, e.RootWord, !e.Inactive); err != nil {
				return fmt.Errorf("failed to store strong number %s: %w", num, err)
			}
		}
		return nil
	})
}

// InsertStrongDefinitions stores definitions; a number holds one
// definition per type.
func (s *DB) InsertStrongDefinitions(ctx context.Context, defs []ir.StrongDefinition) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO strong_definitions (
				number, definition_type, definition, usage_notes,
				related_words, example_verses, source, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, d := range defs {
			num, err := strongs.ParseNumber(d.Number)
			if err != nil {
				return err
			}
			typ := d.Type
			if typ == "" {
				typ = ir.DefinitionBrief
			}
			if _, err := stmt.ExecContext(ctx, num, string(typ), d.Definition, d.UsageNotes,
				d.RelatedWords, d.ExampleVerses, d.Source, !d.Inactive); err != nil {
				return fmt.Errorf("failed to store %s definition of %s: %w", typ, num, err)
			}
		}
		return nil
	})
}

// ReplaceWordTags stores the word tags of one version, replacing any tags
// the version already had.
func (s *DB) ReplaceWordTags(ctx context.Context, version string, tags []ir.WordTag) error {
	version = strings.ToUpper(strings.TrimSpace(version))
	if version == "" {
		return errors.NewValidation("version", "version abbreviation is required")
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM verse_strong_numbers WHERE version = ?`, version); err != nil {
			return fmt.Errorf("failed to clear word tags of %s: %w", version, err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO verse_strong_numbers (
				version, book, chapter, verse, word_position,
				word_text, number, morph_code, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, t := range tags {
			num, err := strongs.ParseNumber(t.Number)
			if err != nil {
				return err
			}
			id := t.Verse
			if _, err := stmt.ExecContext(ctx, version, id.BookNum, id.Chapter, id.Verse, t.Position,
				t.Word, num, t.Morph, !t.Inactive); err != nil {
				return fmt.Errorf("failed to store word %d of %s: %w", t.Position, id, err)
			}
		}
		return nil
	})
}
