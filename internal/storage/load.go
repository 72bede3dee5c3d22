package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/FocuswithJustin/BibleHere/core/canon"
	"github.com/FocuswithJustin/BibleHere/core/commentary"
	"github.com/FocuswithJustin/BibleHere/core/corpus"
	"github.com/FocuswithJustin/BibleHere/core/crossref"
	"github.com/FocuswithJustin/BibleHere/core/engine"
	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/strongs"
	"github.com/FocuswithJustin/BibleHere/internal/logging"
)

// Load reads everything in the database into an engine context.
func (s *DB) Load(ctx context.Context, c *canon.Canon) (engine.Context, error) {
	start := time.Now()
	lib, err := s.LoadLibrary(ctx, c)
	if err != nil {
		return engine.Context{}, err
	}
	graph, err := s.LoadGraph(ctx, c)
	if err != nil {
		return engine.Context{}, err
	}
	comments, err := s.LoadCommentaries(ctx, c)
	if err != nil {
		return engine.Context{}, err
	}
	conc, err := s.LoadConcordance(ctx, c)
	if err != nil {
		return engine.Context{}, err
	}
	logging.CorpusLoaded(lib.Len(), verseCount(lib), graph.Len(), comments.Len(), time.Since(start),
		"strong_numbers", conc.Len(), "db", s.path)
	return engine.Context{Canon: c, Library: lib, Graph: graph, Commentary: comments, Strongs: conc}, nil
}

func verseCount(lib *corpus.Library) int {
	n := 0
	for _, v := range lib.Versions() {
		if st, err := lib.Store(v.Abbrev); err == nil {
			n += st.Len()
		}
	}
	return n
}

// Versions returns the stored version metadata ordered by abbreviation.
func (s *DB) Versions(ctx context.Context) ([]ir.Version, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT abbrev, name, language, publisher, copyright FROM versions ORDER BY abbrev`)
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	defer rows.Close()
	var out []ir.Version
	for rows.Next() {
		var v ir.Version
		if err := rows.Scan(&v.Abbrev, &v.Name, &v.Language, &v.Publisher, &v.Copyright); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// LoadLibrary builds one corpus store per stored version. Verses outside
// the canon's bounds fail the load.
func (s *DB) LoadLibrary(ctx context.Context, c *canon.Canon) (*corpus.Library, error) {
	versions, err := s.Versions(ctx)
	if err != nil {
		return nil, err
	}
	stores := make([]*corpus.Store, 0, len(versions))
	for _, v := range versions {
		st, err := s.loadStore(ctx, c, v)
		if err != nil {
			return nil, err
		}
		stores = append(stores, st)
	}
	return corpus.NewLibrary(stores...), nil
}

func (s *DB) loadStore(ctx context.Context, c *canon.Canon, v ir.Version) (*corpus.Store, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT book, chapter, verse, text FROM verses WHERE version = ?`, v.Abbrev)
	if err != nil {
		return nil, fmt.Errorf("failed to query verses of %s: %w", v.Abbrev, err)
	}
	defer rows.Close()
	b := corpus.NewBuilder(v, c)
	for rows.Next() {
		var book, chapter, verse int
		var text string
		if err := rows.Scan(&book, &chapter, &verse, &text); err != nil {
			return nil, err
		}
		if err := b.Add(ir.VerseID{BookNum: book, Chapter: chapter, Verse: verse}, text); err != nil {
			return nil, errors.Wrapf(err, "%s %d.%d.%d", v.Abbrev, book, chapter, verse)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func verseID(c *canon.Canon, book, chapter, verse, verseEnd int) (ir.VerseID, error) {
	b := c.Book(book)
	if b == nil {
		return ir.VerseID{}, errors.NewValidation("book", fmt.Sprintf("book number %d out of range", book))
	}
	return ir.VerseID{Book: b.Abbrev, BookNum: b.Number, Chapter: chapter, Verse: verse, VerseEnd: verseEnd}, nil
}

// LoadGraph builds the cross-reference graph from active edges.
func (s *DB) LoadGraph(ctx context.Context, c *canon.Canon) (*crossref.Graph, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_book, source_chapter, source_verse,
			target_book, target_chapter, target_verse, target_verse_end,
			type, strength, rank_order, notes, source
		FROM cross_references WHERE is_active = 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cross-references: %w", err)
	}
	defer rows.Close()
	var edges []ir.CrossReference
	for rows.Next() {
		var e ir.CrossReference
		var sb, sc, sv, tb, tc, tv, te int
		var typ string
		if err := rows.Scan(&e.ID, &sb, &sc, &sv, &tb, &tc, &tv, &te,
			&typ, &e.Strength, &e.Rank, &e.Notes, &e.Source); err != nil {
			return nil, err
		}
		if e.SourceID, err = verseID(c, sb, sc, sv, 0); err != nil {
			return nil, errors.Wrapf(err, "cross-reference %s", e.ID)
		}
		if e.TargetID, err = verseID(c, tb, tc, tv, te); err != nil {
			return nil, errors.Wrapf(err, "cross-reference %s", e.ID)
		}
		e.Type = ir.CrossRefType(typ)
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return crossref.NewGraph(edges), nil
}

// LoadCommentaries builds the commentary aggregator. Every status is
// loaded so statistics see drafts and retracted entries.
func (s *DB) LoadCommentaries(ctx context.Context, c *canon.Canon) (*commentary.Aggregator, error) {
	authors, err := s.authors(ctx)
	if err != nil {
		return nil, err
	}
	sources, err := s.sources(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, book, chapter, verse, verse_end, author, source, type,
			language, status, title, body, rank_order, created_at
		FROM commentaries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query commentaries: %w", err)
	}
	defer rows.Close()
	var entries []ir.Commentary
	for rows.Next() {
		var e ir.Commentary
		var book, chapter, verse, verseEnd int
		var typ, status, created string
		if err := rows.Scan(&e.Seq, &e.ID, &book, &chapter, &verse, &verseEnd,
			&e.Author, &e.Source, &typ, &e.Language, &status,
			&e.Title, &e.Body, &e.Rank, &created); err != nil {
			return nil, err
		}
		if e.Verse, err = verseID(c, book, chapter, verse, verseEnd); err != nil {
			return nil, errors.Wrapf(err, "commentary %s", e.ID)
		}
		e.Type = ir.CommentaryType(typ)
		e.Status = ir.CommentaryStatus(status)
		if created != "" {
			if e.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
				return nil, errors.Wrapf(err, "commentary %s: created_at", e.ID)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return commentary.New(entries, authors, sources), nil
}

func (s *DB) authors(ctx context.Context) ([]ir.Author, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, full_name, bio FROM commentary_authors`)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()
	var out []ir.Author
	for rows.Next() {
		var a ir.Author
		if err := rows.Scan(&a.Name, &a.FullName, &a.Bio); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *DB) sources(ctx context.Context) ([]ir.Source, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, full_name, abbrev, publisher, year FROM commentary_sources`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()
	var out []ir.Source
	for rows.Next() {
		var src ir.Source
		if err := rows.Scan(&src.Name, &src.FullName, &src.Abbrev, &src.Publisher, &src.Year); err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// LoadConcordance builds the Strong's concordance from active lexicon
// entries, definitions and word tags.
func (s *DB) LoadConcordance(ctx context.Context, c *canon.Canon) (*strongs.Concordance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, language, original_word, transliteration,
			pronunciation, part_of_speech, root_word
		FROM strong_numbers WHERE is_active = 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to query strong numbers: %w", err)
	}
	defer rows.Close()
	var entries []ir.StrongEntry
	for rows.Next() {
		var e ir.StrongEntry
		var lang string
		if err := rows.Scan(&e.Number, &lang, &e.OriginalWord, &e.Transliteration,
			&e.Pronunciation, &e.PartOfSpeech, &e.RootWord); err != nil {
			return nil, err
		}
		e.Language = ir.StrongLanguage(lang)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	defRows, err := s.db.QueryContext(ctx, `
		SELECT number, definition_type, definition, usage_notes,
			related_words, example_verses, source
		FROM strong_definitions WHERE is_active = 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to query strong definitions: %w", err)
	}
	defer defRows.Close()
	var defs []ir.StrongDefinition
	for defRows.Next() {
		var d ir.StrongDefinition
		var typ string
		if err := defRows.Scan(&d.Number, &typ, &d.Definition, &d.UsageNotes,
			&d.RelatedWords, &d.ExampleVerses, &d.Source); err != nil {
			return nil, err
		}
		d.Type = ir.DefinitionType(typ)
		defs = append(defs, d)
	}
	if err := defRows.Err(); err != nil {
		return nil, err
	}

	tagRows, err := s.db.QueryContext(ctx, `
		SELECT version, book, chapter, verse, word_position, word_text, number, morph_code
		FROM verse_strong_numbers WHERE is_active = 1
		ORDER BY version, book, chapter, verse, word_position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query word tags: %w", err)
	}
	defer tagRows.Close()
	var tags []ir.WordTag
	for tagRows.Next() {
		var t ir.WordTag
		var book, chapter, verse int
		if err := tagRows.Scan(&t.Version, &book, &chapter, &verse, &t.Position,
			&t.Word, &t.Number, &t.Morph); err != nil {
			return nil, err
		}
		if t.Verse, err = verseID(c, book, chapter, verse, 0); err != nil {
			return nil, errors.Wrapf(err, "word tag %s %d.%d.%d", t.Version, book, chapter, verse)
		}
		tags = append(tags, t)
	}
	if err := tagRows.Err(); err != nil {
		return nil, err
	}
	return strongs.New(entries, defs, tags), nil
}
