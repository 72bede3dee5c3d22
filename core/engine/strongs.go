package engine

import (
	"context"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/strongs"
)

// StrongNumber returns the lexicon entry for number.
func (e *Engine) StrongNumber(number string) (ir.StrongEntry, error) {
	return e.current().data.Strongs.Lookup(number)
}

// StrongDefinitions returns the definitions of number of one type; see
// strongs.Concordance.Definitions.
func (e *Engine) StrongDefinitions(number, typ string) ([]ir.StrongDefinition, error) {
	return e.current().data.Strongs.Definitions(number, typ)
}

// StrongUsage reports how often number is tagged across every version.
func (e *Engine) StrongUsage(number string) (strongs.Usage, error) {
	return e.current().data.Strongs.Usage(number)
}

// VerseWords is the tagged words of a passage in one version.
type VerseWords struct {
	Reference ir.VerseID   `json:"reference"`
	Display   string       `json:"display"`
	Version   string       `json:"version"`
	Words     []ir.WordTag `json:"words"`
}

// VerseStrongNumbers resolves reference and returns its word tags in
// version, ordered by word position. An empty version selects the first
// default search version.
func (e *Engine) VerseStrongNumbers(ctx context.Context, reference, version string) (VerseWords, error) {
	s := e.current()
	id, err := e.Resolve(ctx, reference)
	if err != nil {
		return VerseWords{}, err
	}
	if version == "" {
		version = s.dispatch.Options().DefaultVersions[0]
	}
	st, err := s.data.Library.Store(version)
	if err != nil {
		return VerseWords{}, err
	}
	abbrev := st.Version().Abbrev
	return VerseWords{
		Reference: id,
		Display:   s.res.Display(id, e.opts.Locale),
		Version:   abbrev,
		Words:     s.data.Strongs.Verse(abbrev, id),
	}, nil
}

// SearchStrongNumbers looks term up in numbers, original words,
// transliterations and brief definitions. language is "", "all",
// "hebrew" or "greek".
func (e *Engine) SearchStrongNumbers(term, language string, limit int) ([]strongs.Match, error) {
	lang, err := strongs.ParseLanguage(language)
	if err != nil {
		return nil, err
	}
	return e.current().data.Strongs.Search(term, lang, limit)
}

// StrongNumbersByLanguage pages through one language's entries in number
// order.
func (e *Engine) StrongNumbersByLanguage(language string, limit, offset int) ([]ir.StrongEntry, error) {
	lang, err := strongs.ParseLanguage(language)
	if err != nil {
		return nil, err
	}
	if lang == "" {
		return nil, errors.NewValidation("language", "must be hebrew or greek")
	}
	if offset < 0 {
		return nil, errors.NewValidation("offset", "must not be negative")
	}
	return e.current().data.Strongs.ByLanguage(lang, limit, offset), nil
}

// StrongStatistics counts the loaded concordance records.
func (e *Engine) StrongStatistics() strongs.Statistics {
	return e.current().data.Strongs.Statistics()
}
