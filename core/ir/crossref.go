package ir

// CrossRefType represents the type of cross-reference relationship.
type CrossRefType string

// Cross-reference type constants.
const (
	// CrossRefParallel indicates parallel passages (e.g., Synoptic Gospels).
	CrossRefParallel CrossRefType = "parallel"

	// CrossRefQuotation indicates a direct quote.
	CrossRefQuotation CrossRefType = "quotation"

	// CrossRefAllusion indicates an indirect reference or allusion.
	CrossRefAllusion CrossRefType = "allusion"

	// CrossRefProphecy points from a prophecy to its fulfillment.
	CrossRefProphecy CrossRefType = "prophecy"

	// CrossRefFulfillment points from a fulfillment back to its prophecy.
	CrossRefFulfillment CrossRefType = "fulfillment"

	// CrossRefTypeOf and CrossRefAntitype form a typology pair.
	CrossRefTypeOf   CrossRefType = "type"
	CrossRefAntitype CrossRefType = "antitype"

	// CrossRefTheme, CrossRefWord and CrossRefConcept link shared subject matter.
	CrossRefTheme   CrossRefType = "theme"
	CrossRefWord    CrossRefType = "word"
	CrossRefConcept CrossRefType = "concept"

	// CrossRefContrast indicates opposing statements.
	CrossRefContrast CrossRefType = "contrast"

	// CrossRefIllustration indicates an example of a teaching.
	CrossRefIllustration CrossRefType = "illustration"

	// CrossRefGeneral indicates a general related reference.
	CrossRefGeneral CrossRefType = "general"
)

// crossRefLabels holds display labels for the known types.
var crossRefLabels = map[CrossRefType]string{
	CrossRefParallel:     "Parallel Passage",
	CrossRefQuotation:    "Quotation",
	CrossRefAllusion:     "Allusion",
	CrossRefProphecy:     "Prophecy",
	CrossRefFulfillment:  "Fulfillment",
	CrossRefTypeOf:       "Type",
	CrossRefAntitype:     "Antitype",
	CrossRefTheme:        "Thematic Connection",
	CrossRefWord:         "Word Study",
	CrossRefConcept:      "Conceptual Link",
	CrossRefContrast:     "Contrast",
	CrossRefIllustration: "Illustration",
	CrossRefGeneral:      "Related",
}

// CrossRefTypes returns every known type.
func CrossRefTypes() []CrossRefType {
	out := make([]CrossRefType, 0, len(crossRefLabels))
	for t := range crossRefLabels {
		out = append(out, t)
	}
	return out
}

// IsKnown reports whether t is one of the predefined types. Imports may
// still carry other types; they are stored and grouped like any other.
func (t CrossRefType) IsKnown() bool {
	_, ok := crossRefLabels[t]
	return ok
}

// Label returns the display label, or the raw type for unknown types.
func (t CrossRefType) Label() string {
	if l, ok := crossRefLabels[t]; ok {
		return l
	}
	return string(t)
}

// Strength bounds for cross-references.
const (
	MinStrength     = 1
	MaxStrength     = 5
	DefaultStrength = 5
)

// CrossReference is a directed, typed, strength-scored relation.
type CrossReference struct {
	// ID is the unique identifier for this cross-reference.
	ID string `json:"id"`

	// SourceID is the referring verse.
	SourceID VerseID `json:"source_id"`

	// TargetID is the referenced verse or range.
	TargetID VerseID `json:"target_id"`

	// Type indicates the kind of cross-reference.
	Type CrossRefType `json:"type"`

	// Strength rates the relation from 1 (weak) to 5 (strong).
	Strength int `json:"strength"`

	// Rank orders edges of equal strength; lower first.
	Rank int `json:"rank,omitempty"`

	// Notes provides optional explanatory notes.
	Notes string `json:"notes,omitempty"`

	// Source indicates where this cross-reference came from (e.g., "TSK").
	Source string `json:"source,omitempty"`

	// Inactive edges are kept in storage but never returned.
	Inactive bool `json:"-"`
}
