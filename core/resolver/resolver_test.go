package resolver

import (
	"testing"

	"github.com/FocuswithJustin/BibleHere/core/canon"
	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	return New(canon.Default())
}

func TestResolve(t *testing.T) {
	r := newResolver(t)
	tests := []struct {
		input string
		want  string
	}{
		// dotted
		{"GEN.1.1", "GEN.1.1"},
		{"Gen.1.1", "GEN.1.1"},
		{"gen.1.1-3", "GEN.1.1-3"},
		{"1JN.3.16", "1JN.3.16"},
		{"1John.3.16", "1JN.3.16"},
		{"MAT.5.3-12", "MAT.5.3-12"},
		{"PSA.23", "PSA.23.1-6"},
		{"GEN.1.2-2", "GEN.1.2"},
		// human
		{"Genesis 1:1", "GEN.1.1"},
		{"genesis 1:1", "GEN.1.1"},
		{"Gen. 1:1", "GEN.1.1"},
		{"John 3:16", "JHN.3.16"},
		{"1 John 3:16", "1JN.3.16"},
		{"1John 3:16", "1JN.3.16"},
		{"I John 1:9", "1JN.1.9"},
		{"Song of Solomon 2:4", "SNG.2.4"},
		{"Psalm 23", "PSA.23.1-6"},
		{"Ps 119:105", "PSA.119.105"},
		{"Romans 8:28-30", "ROM.8.28-30"},
		{"Romans 8:28–30", "ROM.8.28-30"},
		{"John 3.16", "JHN.3.16"},
		{"Genesis.1.1", "GEN.1.1"},
		{"Jude 5", "JUD.1.5"},
		// other locales
		{"創世記 1:1", "GEN.1.1"},
		{"約翰福音3:16", "JHN.3.16"},
		{"約一 1:9", "1JN.1.9"},
		{"约翰福音 3：16", "JHN.3.16"},
		{"Génesis 1:1", "GEN.1.1"},
		{"Apocalipsis 22:21", "REV.22.21"},
		{"1 Juan 4:8", "1JN.4.8"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := r.Resolve(tt.input)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("Resolve(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	r := newResolver(t)
	tests := []struct {
		input string
		kind  error
	}{
		{"", errors.ErrUnresolvedReference},
		{"   ", errors.ErrUnresolvedReference},
		{"Hezekiah 1:1", errors.ErrUnresolvedReference},
		{"XYZ.1.1", errors.ErrUnresolvedReference},
		{"John", errors.ErrUnresolvedReference},
		{"Johnny 3:16", errors.ErrUnresolvedReference},
		{"John 3:18-16", errors.ErrUnresolvedReference},
		{"GEN.51.1", errors.ErrOutOfRange},
		{"GEN.1.32", errors.ErrOutOfRange},
		{"GEN.1.0", errors.ErrOutOfRange},
		{"Genesis 1:32", errors.ErrOutOfRange},
		{"John 3:16-99", errors.ErrOutOfRange},
		{"Jude 2:1", errors.ErrOutOfRange},
		{"Revelation 23:1", errors.ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := r.Resolve(tt.input)
			if err == nil {
				t.Fatalf("Resolve(%q) = %s, want error", tt.input, got)
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("Resolve(%q) error = %v, want kind %v", tt.input, err, tt.kind)
			}
			if !got.IsZero() {
				t.Errorf("Resolve(%q) returned non-zero id %s alongside error", tt.input, got)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	r := newResolver(t)
	c := r.Canon()
	for _, b := range c.Books("") {
		for ch := 1; ch <= b.ChapterCount(); ch++ {
			last := b.VerseCount(ch)
			for _, v := range []int{1, last} {
				id := ir.VerseID{Book: b.Abbrev, BookNum: b.Number, Chapter: ch, Verse: v}
				got, err := r.Resolve(r.Format(id))
				if err != nil {
					t.Fatalf("Resolve(%s) error = %v", id, err)
				}
				if got != id {
					t.Fatalf("Resolve(Format(%s)) = %s", id, got)
				}
			}
			if last > 1 {
				rng := ir.VerseID{Book: b.Abbrev, BookNum: b.Number, Chapter: ch, Verse: 1, VerseEnd: last}
				if got, err := r.Resolve(rng.String()); err != nil || got != rng {
					t.Fatalf("Resolve(%s) = %s, %v", rng, got, err)
				}
			}
		}
	}
}

func TestResolveBookConsistency(t *testing.T) {
	r := newResolver(t)
	for _, b := range r.Canon().Books("") {
		for _, list := range b.Aliases {
			for _, alias := range list {
				got, err := r.ResolveBook(alias)
				if err != nil {
					t.Errorf("ResolveBook(%q) error = %v", alias, err)
					continue
				}
				if got.Number != b.Number {
					t.Errorf("ResolveBook(%q) = %d, want %d", alias, got.Number, b.Number)
				}
			}
		}
	}
	if b, err := r.ResolveBook("43"); err != nil || b.Abbrev != "JHN" {
		t.Errorf("ResolveBook(43) = %v, %v", b, err)
	}
	if _, err := r.ResolveBook("67"); !errors.Is(err, errors.ErrUnresolvedReference) {
		t.Errorf("ResolveBook(67) error = %v", err)
	}
	if _, err := r.ResolveBook("Hezekiah"); !errors.Is(err, errors.ErrUnresolvedReference) {
		t.Errorf("ResolveBook(Hezekiah) error = %v", err)
	}
}

func TestResolveBooks(t *testing.T) {
	r := newResolver(t)
	got, err := r.ResolveBooks([]string{"John", "JHN", "Genesis", ""})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != 43 || got[1] != 1 {
		t.Errorf("ResolveBooks() = %v, want [43 1]", got)
	}
}

func TestResolveAll(t *testing.T) {
	r := newResolver(t)
	ids, err := r.ResolveAll("cf. Gen 1:1; Exod 2:3;")
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	if len(ids) != 2 || ids[0].String() != "GEN.1.1" || ids[1].String() != "EXO.2.3" {
		t.Errorf("ResolveAll() = %v", ids)
	}
	if _, err := r.ResolveAll("Gen 1:1; Foo 2:3"); err == nil {
		t.Error("ResolveAll should fail when any part fails")
	}
	if _, err := r.ResolveAll("see"); err == nil {
		t.Error("ResolveAll of an empty list should fail")
	}
}

func TestDisplay(t *testing.T) {
	r := newResolver(t)
	tests := []struct {
		id     ir.VerseID
		locale string
		want   string
	}{
		{ir.VerseID{Book: "GEN", BookNum: 1, Chapter: 1, Verse: 1}, "en", "Genesis 1:1"},
		{ir.VerseID{Book: "GEN", BookNum: 1, Chapter: 1, Verse: 1, VerseEnd: 3}, "en", "Genesis 1:1-3"},
		{ir.VerseID{Book: "GEN", BookNum: 1, Chapter: 1, Verse: 4, VerseEnd: 4}, "en", "Genesis 1:4"},
		{ir.VerseID{Book: "JHN", BookNum: 43, Chapter: 3, Verse: 16}, "zh-TW", "約翰福音 3:16"},
		{ir.VerseID{Book: "JHN", BookNum: 43, Chapter: 3}, "en", "John 3"},
	}
	for _, tt := range tests {
		if got := r.Display(tt.id, tt.locale); got != tt.want {
			t.Errorf("Display(%s, %s) = %q, want %q", tt.id, tt.locale, got, tt.want)
		}
	}
}

func TestFromPartsAndVerse(t *testing.T) {
	r := newResolver(t)
	id, err := r.FromParts("John", 3, 16, 0)
	if err != nil || id.String() != "JHN.3.16" {
		t.Errorf("FromParts() = %s, %v", id, err)
	}
	if _, err := r.FromParts("John", 22, 1, 0); !errors.Is(err, errors.ErrOutOfRange) {
		t.Errorf("FromParts(John 22) error = %v", err)
	}
	if _, err := r.Verse(43, 3, 37); !errors.Is(err, errors.ErrOutOfRange) {
		t.Errorf("Verse(43,3,37) error = %v", err)
	}
	if !r.Validate("Rom 8:28") || r.Validate("Rom 17:1") {
		t.Error("Validate() wrong")
	}
}
