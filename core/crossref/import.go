package crossref

import (
	"strings"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/resolver"
)

// Record is one cross-reference as it arrives from an import file. The
// references may be in any form the resolver accepts.
type Record struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Type     string `json:"type,omitempty"`
	Strength int    `json:"strength,omitempty"` // 0 = ir.DefaultStrength
	Rank     int    `json:"rank,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// RecordError is the failure of one record.
type RecordError struct {
	Index int   `json:"index"`
	Err   error `json:"-"`
}

func (e RecordError) Error() string {
	return e.Err.Error()
}

// ImportResult counts what an import accepted and rejected.
type ImportResult struct {
	Success int           `json:"success"`
	Failed  int           `json:"failed"`
	Errors  []RecordError `json:"errors,omitempty"`
}

// Import converts records into edges tagged with provenance. Bad records
// are reported in the result and skipped; the rest are returned.
func Import(res *resolver.Resolver, records []Record, provenance string) ([]ir.CrossReference, ImportResult) {
	var (
		edges  []ir.CrossReference
		result ImportResult
	)
	for i, rec := range records {
		e, err := convert(res, rec)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RecordError{Index: i, Err: err})
			continue
		}
		e.Source = provenance
		edges = append(edges, e)
		result.Success++
	}
	return edges, result
}

func convert(res *resolver.Resolver, rec Record) (ir.CrossReference, error) {
	src, err := res.Resolve(rec.Source)
	if err != nil {
		return ir.CrossReference{}, errors.Wrap(err, "source")
	}
	if src.IsRange() {
		return ir.CrossReference{}, errors.NewValidation("source", "must be a single verse")
	}
	dst, err := res.Resolve(rec.Target)
	if err != nil {
		return ir.CrossReference{}, errors.Wrap(err, "target")
	}
	if dst.Compare(src) == 0 {
		return ir.CrossReference{}, errors.NewValidation("target", "must differ from source")
	}
	strength := rec.Strength
	if strength == 0 {
		strength = ir.DefaultStrength
	}
	if strength < ir.MinStrength || strength > ir.MaxStrength {
		return ir.CrossReference{}, errors.NewValidation("strength", "must be between 1 and 5")
	}
	typ := ir.CrossRefType(strings.ToLower(strings.TrimSpace(rec.Type)))
	if typ == "" {
		typ = ir.CrossRefGeneral
	}
	return ir.CrossReference{
		ID:       uuid.NewString(),
		SourceID: src,
		TargetID: dst,
		Type:     typ,
		Strength: strength,
		Rank:     rec.Rank,
		Notes:    strings.TrimSpace(rec.Notes),
	}, nil
}
