package importer

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/resolver"
	"github.com/FocuswithJustin/BibleHere/core/strongs"
)

// lexiconLine is one JSON line of a Strong's lexicon import.
type lexiconLine struct {
	Number          string `json:"number"`
	Language        string `json:"language"`
	OriginalWord    string `json:"original_word"`
	Transliteration string `json:"transliteration"`
	Pronunciation   string `json:"pronunciation"`
	PartOfSpeech    string `json:"part_of_speech"`
	RootWord        string `json:"root_word"`
	Definitions     []struct {
		Type          string `json:"type"`
		Definition    string `json:"definition"`
		UsageNotes    string `json:"usage_notes"`
		RelatedWords  string `json:"related_words"`
		ExampleVerses string `json:"example_verses"`
		Source        string `json:"source"`
	} `json:"definitions"`
}

// Lexicon is the parsed content of a Strong's lexicon import.
type Lexicon struct {
	Entries     []ir.StrongEntry
	Definitions []ir.StrongDefinition
}

// ParseStrongsJSONL reads one lexicon entry per line with its definitions.
// The language defaults to the one the number's prefix implies and a
// definition's type to brief. A line with any invalid part is rejected
// whole.
func ParseStrongsJSONL(r io.Reader) (Lexicon, Result, error) {
	result := Result{Kind: "strongs"}
	var out Lexicon
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var ll lexiconLine
		if err := json.Unmarshal([]byte(raw), &ll); err != nil {
			result.fail(line, errors.NewParse("jsonl", "", line, err.Error()))
			continue
		}
		entry, defs, err := convertLexicon(ll)
		if err != nil {
			result.fail(line, err)
			continue
		}
		out.Entries = append(out.Entries, entry)
		out.Definitions = append(out.Definitions, defs...)
		result.Success++
	}
	if err := sc.Err(); err != nil {
		return out, result, errors.NewParse("jsonl", "", line, err.Error())
	}
	return out, result, nil
}

func convertLexicon(ll lexiconLine) (ir.StrongEntry, []ir.StrongDefinition, error) {
	num, err := strongs.ParseNumber(ll.Number)
	if err != nil {
		return ir.StrongEntry{}, nil, err
	}
	lang, err := strongs.ParseLanguage(ll.Language)
	if err != nil {
		return ir.StrongEntry{}, nil, err
	}
	if lang == "" {
		lang = strongs.LanguageOf(num)
	}
	if strings.TrimSpace(ll.OriginalWord) == "" {
		return ir.StrongEntry{}, nil, errors.NewValidation("original_word", "must not be empty")
	}
	entry := ir.StrongEntry{
		Number:          num,
		Language:        lang,
		OriginalWord:    ll.OriginalWord,
		Transliteration: ll.Transliteration,
		Pronunciation:   ll.Pronunciation,
		PartOfSpeech:    ll.PartOfSpeech,
		RootWord:        ll.RootWord,
	}
	defs := make([]ir.StrongDefinition, 0, len(ll.Definitions))
	for _, d := range ll.Definitions {
		typ := ir.DefinitionType(strings.ToLower(strings.TrimSpace(d.Type)))
		switch typ {
		case "":
			typ = ir.DefinitionBrief
		case ir.DefinitionBrief, ir.DefinitionDetailed, ir.DefinitionEtymology:
		default:
			return ir.StrongEntry{}, nil, errors.NewValidation("definitions.type", "must be brief, detailed or etymology")
		}
		if strings.TrimSpace(d.Definition) == "" {
			return ir.StrongEntry{}, nil, errors.NewValidation("definitions.definition", "must not be empty")
		}
		defs = append(defs, ir.StrongDefinition{
			Number:        num,
			Type:          typ,
			Definition:    d.Definition,
			UsageNotes:    d.UsageNotes,
			RelatedWords:  d.RelatedWords,
			ExampleVerses: d.ExampleVerses,
			Source:        d.Source,
		})
	}
	return entry, defs, nil
}

// ParseWordTagsCSV reads reference,position,word,number[,morph] rows. The
// reference must name a single verse. A header row is optional.
func ParseWordTagsCSV(r io.Reader, res *resolver.Resolver, version string) ([]ir.WordTag, Result, error) {
	result := Result{Kind: "tags", Version: version}
	var tags []ir.WordTag
	err := readRows(r, "reference", func(line int, row []string) {
		if len(row) < 4 {
			result.fail(line, errors.NewValidation("row", "want reference,position,word,number[,morph]"))
			return
		}
		id, err := res.Resolve(row[0])
		if err != nil {
			result.fail(line, err)
			return
		}
		if id.IsRange() {
			result.fail(line, errors.NewValidation("reference", "must name a single verse"))
			return
		}
		pos, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil || pos <= 0 {
			result.fail(line, errors.NewValidation("position", "must be a positive number"))
			return
		}
		num, err := strongs.ParseNumber(row[3])
		if err != nil {
			result.fail(line, err)
			return
		}
		tag := ir.WordTag{Version: version, Verse: id, Position: pos, Word: strings.TrimSpace(row[2]), Number: num}
		if len(row) > 4 {
			tag.Morph = strings.TrimSpace(row[4])
		}
		tags = append(tags, tag)
		result.Success++
	})
	return tags, result, err
}
