package ir

// Verse is one verse of one version's text.
type Verse struct {
	// Version is the version abbreviation (e.g., "KJV").
	Version string `json:"version"`

	// ID is the canonical identifier; never a range.
	ID VerseID `json:"id"`

	// Text is the stored verse text.
	Text string `json:"text"`
}

// Version describes one loaded Bible version.
type Version struct {
	// Abbrev is the short identifier used in queries (e.g., "KJV", "CUV").
	Abbrev string `json:"abbrev"`

	// Name is the full title.
	Name string `json:"name"`

	// Language is the BCP-47 language tag (e.g., "en", "zh-TW").
	Language string `json:"language,omitempty"`

	// Publisher is the publisher information (optional).
	Publisher string `json:"publisher,omitempty"`

	// Copyright contains copyright and licensing information (optional).
	Copyright string `json:"copyright,omitempty"`
}
