package ir

import "time"

// CommentaryType is the scope a commentary was written for.
type CommentaryType string

const (
	CommentaryVerse   CommentaryType = "verse"
	CommentaryChapter CommentaryType = "chapter"
	CommentaryBook    CommentaryType = "book"
	CommentaryTopical CommentaryType = "topical"
)

// CommentaryStatus is the editorial state of a commentary.
type CommentaryStatus string

const (
	StatusActive    CommentaryStatus = "active"
	StatusDraft     CommentaryStatus = "draft"
	StatusRetracted CommentaryStatus = "retracted"
)

// Commentary is one commentary entry attached to a verse or a chapter.
type Commentary struct {
	ID string `json:"id"`

	// Verse is the commented verse. For chapter-scope entries Verse.Verse
	// is 0 and only BookNum and Chapter are meaningful.
	Verse VerseID `json:"verse"`

	Author   string           `json:"author"`
	Source   string           `json:"source,omitempty"`
	Type     CommentaryType   `json:"type"`
	Language string           `json:"language"`
	Status   CommentaryStatus `json:"status"`
	Title    string           `json:"title,omitempty"`

	// Body is Markdown.
	Body string `json:"body"`

	// Rank orders entries on the same verse; lower first.
	Rank int `json:"rank,omitempty"`

	// Seq is the insertion sequence assigned by the store.
	Seq int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// ChapterScope reports whether the entry applies to a whole chapter.
func (c *Commentary) ChapterScope() bool {
	return c.Verse.Verse == 0
}

// Author describes a commentary author.
type Author struct {
	Name     string `json:"name"`
	FullName string `json:"full_name,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// Source describes a published commentary work.
type Source struct {
	Name      string `json:"name"`
	FullName  string `json:"full_name,omitempty"`
	Abbrev    string `json:"abbrev,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Year      int    `json:"year,omitempty"`
}
