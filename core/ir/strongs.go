package ir

// StrongLanguage is the original language a Strong's number belongs to.
type StrongLanguage string

const (
	Hebrew StrongLanguage = "hebrew"
	Greek  StrongLanguage = "greek"
)

// DefinitionType is the depth of a lexicon definition.
type DefinitionType string

const (
	DefinitionBrief     DefinitionType = "brief"
	DefinitionDetailed  DefinitionType = "detailed"
	DefinitionEtymology DefinitionType = "etymology"
)

// StrongEntry is one lexicon entry. Number is canonical: an upper-case H
// or G followed by the number without leading zeros, e.g. "H430".
type StrongEntry struct {
	Number          string         `json:"number"`
	Language        StrongLanguage `json:"language"`
	OriginalWord    string         `json:"original_word"`
	Transliteration string         `json:"transliteration,omitempty"`
	Pronunciation   string         `json:"pronunciation,omitempty"`
	PartOfSpeech    string         `json:"part_of_speech,omitempty"`
	RootWord        string         `json:"root_word,omitempty"`
	Inactive        bool           `json:"-"`
}

// StrongDefinition is a definition of one entry.
type StrongDefinition struct {
	Number        string         `json:"number"`
	Type          DefinitionType `json:"type"`
	Definition    string         `json:"definition"`
	UsageNotes    string         `json:"usage_notes,omitempty"`
	RelatedWords  string         `json:"related_words,omitempty"`
	ExampleVerses string         `json:"example_verses,omitempty"`
	Source        string         `json:"source,omitempty"`
	Inactive      bool           `json:"-"`
}

// WordTag links one word of a verse in a version to a Strong's number.
// Position is the 1-based word position within the verse.
type WordTag struct {
	Version  string  `json:"version"`
	Verse    VerseID `json:"verse"`
	Position int     `json:"position"`
	Word     string  `json:"word"`
	Number   string  `json:"number"`
	Morph    string  `json:"morph,omitempty"`
	Inactive bool    `json:"-"`
}
