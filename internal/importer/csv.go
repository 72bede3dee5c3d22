package importer

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/BibleHere/core/crossref"
	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/resolver"
)

// readRows calls fn for every row with its 1-based line number. A first
// row whose leading column is named header is skipped.
func readRows(r io.Reader, header string, fn func(line int, row []string)) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	for first := true; ; first = false {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return errors.NewParse("csv", "", line, err.Error())
		}
		line, _ := cr.FieldPos(0)
		if first && strings.EqualFold(strings.TrimSpace(row[0]), header) {
			continue
		}
		fn(line, row)
	}
}

// ParseVersesCSV reads book,chapter,verse,text rows. The book column may be
// a number, an abbreviation or a name in any locale. A header row is
// optional.
func ParseVersesCSV(r io.Reader, res *resolver.Resolver, version string) ([]ir.Verse, Result, error) {
	result := Result{Kind: "csv", Version: version}
	var verses []ir.Verse
	err := readRows(r, "book", func(line int, row []string) {
		if len(row) < 4 {
			result.fail(line, errors.NewValidation("row", "want book,chapter,verse,text"))
			return
		}
		chapter, err1 := strconv.Atoi(strings.TrimSpace(row[1]))
		verse, err2 := strconv.Atoi(strings.TrimSpace(row[2]))
		if err1 != nil || err2 != nil {
			result.fail(line, errors.NewValidation("row", "chapter and verse must be numbers"))
			return
		}
		book, err := res.ResolveBook(row[0])
		if err != nil {
			result.fail(line, err)
			return
		}
		id, err := res.Verse(book.Number, chapter, verse)
		if err != nil {
			result.fail(line, err)
			return
		}
		text := strings.TrimSpace(strings.Join(row[3:], ","))
		if text == "" {
			result.fail(line, errors.NewValidation("text", "empty verse"))
			return
		}
		verses = append(verses, ir.Verse{Version: version, ID: id, Text: text})
		result.Success++
	})
	return verses, result, err
}

// ParseCrossRefsCSV reads source,target,type,strength,notes rows into
// edges tagged with provenance. Only source and target are required. A
// header row is optional.
func ParseCrossRefsCSV(r io.Reader, res *resolver.Resolver, provenance string) ([]ir.CrossReference, Result, error) {
	result := Result{Kind: "xrefs"}
	var (
		records []crossref.Record
		lines   []int
	)
	err := readRows(r, "source", func(line int, row []string) {
		if len(row) < 2 {
			result.fail(line, errors.NewValidation("row", "want source,target[,type,strength,notes]"))
			return
		}
		rec := crossref.Record{Source: row[0], Target: row[1]}
		if len(row) > 2 {
			rec.Type = strings.TrimSpace(row[2])
		}
		if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(row[3]))
			if err != nil {
				result.fail(line, errors.NewValidation("strength", "must be a number"))
				return
			}
			rec.Strength = n
		}
		if len(row) > 4 {
			rec.Notes = strings.TrimSpace(row[4])
		}
		records = append(records, rec)
		lines = append(lines, line)
	})
	if err != nil {
		return nil, result, err
	}
	edges, imported := crossref.Import(res, records, provenance)
	result.Success += imported.Success
	for _, e := range imported.Errors {
		result.fail(lines[e.Index], e.Err)
	}
	return edges, result, nil
}
