package strongs

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
)

var (
	gen11  = ir.VerseID{Book: "GEN", BookNum: 1, Chapter: 1, Verse: 1}
	gen12  = ir.VerseID{Book: "GEN", BookNum: 1, Chapter: 1, Verse: 2}
	jhn316 = ir.VerseID{Book: "JHN", BookNum: 43, Chapter: 3, Verse: 16}
	jhn11  = ir.VerseID{Book: "JHN", BookNum: 43, Chapter: 1, Verse: 1}
)

func testConcordance() *Concordance {
	entries := []ir.StrongEntry{
		{Number: "G2316", OriginalWord: "θεός", Transliteration: "theos", PartOfSpeech: "noun"},
		{Number: "H430", Language: ir.Hebrew, OriginalWord: "אֱלֹהִים", Transliteration: "ʼĕlôhîym", RootWord: "H433"},
		{Number: "h07225", OriginalWord: "רֵאשִׁית", Transliteration: "rêʼshîyth"},
		{Number: "H1254a", OriginalWord: "בָּרָא", Transliteration: "bârâʼ"},
		{Number: "G25", OriginalWord: "ἀγαπάω", Transliteration: "agapaō"},
		{Number: "H9999", OriginalWord: "x", Inactive: true},
		{Number: "bogus", OriginalWord: "y"},
	}
	defs := []ir.StrongDefinition{
		{Number: "H430", Type: ir.DefinitionDetailed, Definition: "plural of H433; gods in the ordinary sense"},
		{Number: "H430", Definition: "God, gods"},
		{Number: "H430", Type: ir.DefinitionEtymology, Definition: "from H433"},
		{Number: "G2316", Type: ir.DefinitionBrief, Definition: "a deity, God"},
		{Number: "G25", Type: ir.DefinitionBrief, Definition: "to love"},
		{Number: "G25", Type: ir.DefinitionDetailed, Definition: "to love in a social or moral sense", Inactive: true},
		{Number: "H1", Type: ir.DefinitionBrief, Definition: "father"},
	}
	tags := []ir.WordTag{
		{Version: "kjv", Verse: gen11, Position: 3, Word: "God", Number: "H430"},
		{Version: "KJV", Verse: gen11, Position: 1, Word: "In the beginning", Number: "H7225"},
		{Version: "KJV", Verse: gen11, Position: 2, Word: "created", Number: "H1254a"},
		{Version: "KJV", Verse: gen12, Position: 9, Word: "God", Number: "H430"},
		{Version: "KJV", Verse: jhn11, Position: 14, Word: "God", Number: "G2316"},
		{Version: "KJV", Verse: jhn316, Position: 3, Word: "loved", Number: "G25"},
		{Version: "KJV", Verse: jhn316, Position: 4, Word: "God", Number: "G2316"},
		{Version: "WEB", Verse: gen11, Position: 4, Word: "God", Number: "H430"},
		{Version: "KJV", Verse: gen12, Position: 1, Word: "and", Number: "H9000", Inactive: true},
	}
	return New(entries, defs, tags)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"H430", "H430", false},
		{"h0430", "H430", false},
		{" G2316 ", "G2316", false},
		{"H1254A", "H1254a", false},
		{"g25", "G25", false},
		{"", "", true},
		{"H", "", true},
		{"X430", "", true},
		{"H0", "", true},
		{"H-5", "", true},
		{"H+5", "", true},
		{"Ha", "", true},
		{"H43x0", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNumber(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidInput) {
					t.Errorf("ParseNumber(%q) error = %v, want ErrInvalidInput", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseNumber(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestParseLanguage(t *testing.T) {
	for in, want := range map[string]ir.StrongLanguage{"": "", "all": "", "Hebrew": ir.Hebrew, "greek": ir.Greek} {
		if got, err := ParseLanguage(in); err != nil || got != want {
			t.Errorf("ParseLanguage(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseLanguage("aramaic"); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("ParseLanguage(aramaic) error = %v, want ErrInvalidInput", err)
	}
}

func TestLookup(t *testing.T) {
	c := testConcordance()
	e, err := c.Lookup("h0430")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if e.Number != "H430" || e.Language != ir.Hebrew || e.RootWord != "H433" {
		t.Errorf("Lookup(h0430) = %+v", e)
	}
	if e, _ := c.Lookup("G2316"); e.Language != ir.Greek {
		t.Errorf("language of G2316 = %q, want greek from the prefix", e.Language)
	}
	if _, err := c.Lookup("H9999"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("inactive entry error = %v, want ErrNotFound", err)
	}
	if _, err := c.Lookup("nonsense"); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("malformed number error = %v, want ErrInvalidInput", err)
	}
	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
}

func TestDefinitions(t *testing.T) {
	c := testConcordance()
	tests := []struct {
		number string
		typ    string
		want   []ir.DefinitionType
	}{
		{"H430", "", []ir.DefinitionType{ir.DefinitionBrief}},
		{"H430", "detailed", []ir.DefinitionType{ir.DefinitionDetailed}},
		{"H430", "ALL", []ir.DefinitionType{ir.DefinitionBrief, ir.DefinitionDetailed, ir.DefinitionEtymology}},
		{"G25", "all", []ir.DefinitionType{ir.DefinitionBrief}},
		{"H7225", "all", nil},
	}
	for _, tt := range tests {
		t.Run(tt.number+"/"+tt.typ, func(t *testing.T) {
			got, err := c.Definitions(tt.number, tt.typ)
			if err != nil {
				t.Fatalf("Definitions() error = %v", err)
			}
			if got == nil || len(got) != len(tt.want) {
				t.Fatalf("Definitions() = %+v, want types %v", got, tt.want)
			}
			for i, d := range got {
				if d.Type != tt.want[i] {
					t.Errorf("Definitions()[%d].Type = %q, want %q", i, d.Type, tt.want[i])
				}
			}
		})
	}

	if _, err := c.Definitions("H430", "summary"); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("unknown type error = %v, want ErrInvalidInput", err)
	}
	if _, err := c.Definitions("H1", "brief"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("definition without entry error = %v, want ErrNotFound", err)
	}
}

func TestVerseTagsInWordOrder(t *testing.T) {
	c := testConcordance()
	got := c.Verse("kjv", gen11)
	var words []string
	for _, tag := range got {
		words = append(words, tag.Number)
	}
	if strings.Join(words, " ") != "H7225 H1254a H430" {
		t.Errorf("Verse(KJV, GEN.1.1) = %v", words)
	}

	r := ir.VerseID{Book: "GEN", BookNum: 1, Chapter: 1, Verse: 1, VerseEnd: 2}
	if got := c.Verse("KJV", r); len(got) != 4 || got[3].Verse.Verse != 2 {
		t.Errorf("Verse(KJV, GEN.1.1-2) = %+v", got)
	}
	if got := c.Verse("WEB", gen11); len(got) != 1 || got[0].Position != 4 {
		t.Errorf("Verse(WEB, GEN.1.1) = %+v", got)
	}
	if got := c.Verse("NIV", gen11); got == nil || len(got) != 0 {
		t.Errorf("Verse(NIV) = %v, want empty non-nil", got)
	}
}

func TestSearch(t *testing.T) {
	c := testConcordance()
	tests := []struct {
		name     string
		term     string
		language ir.StrongLanguage
		limit    int
		want     string
	}{
		{"brief definition", "god", "", 0, "H430 G2316"},
		{"language filter", "god", ir.Greek, 0, "G2316"},
		{"transliteration without accents", "elohiym", "", 0, "H430"},
		{"original word without points", "אלהים", "", 0, "H430"},
		{"greek accents folded", "θεος", "", 0, "G2316"},
		{"number substring", "H12", "", 0, "H1254a"},
		{"detailed definitions not searched", "social", "", 0, ""},
		{"limit", "o", "", 2, "H430 G25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Search(tt.term, tt.language, tt.limit)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			var nums []string
			for _, m := range got {
				nums = append(nums, m.Number)
			}
			if strings.Join(nums, " ") != tt.want {
				t.Errorf("Search(%q) = %v, want %q", tt.term, nums, tt.want)
			}
		})
	}

	got, _ := c.Search("love", "", 0)
	if len(got) != 1 || got[0].BriefDefinition != "to love" {
		t.Errorf("Search(love) = %+v", got)
	}
	if _, err := c.Search("  ", "", 0); !errors.Is(err, errors.ErrInvalidQuery) {
		t.Errorf("blank term error = %v, want ErrInvalidQuery", err)
	}
}

func TestByLanguage(t *testing.T) {
	c := testConcordance()
	var nums []string
	for _, e := range c.ByLanguage(ir.Hebrew, 0, 0) {
		nums = append(nums, e.Number)
	}
	if strings.Join(nums, " ") != "H430 H1254a H7225" {
		t.Errorf("ByLanguage(hebrew) = %v", nums)
	}
	if got := c.ByLanguage(ir.Hebrew, 1, 1); len(got) != 1 || got[0].Number != "H1254a" {
		t.Errorf("ByLanguage(hebrew, 1, 1) = %+v", got)
	}
	if got := c.ByLanguage(ir.Greek, 10, 5); len(got) != 0 {
		t.Errorf("ByLanguage past the end = %+v", got)
	}
}

func TestUsage(t *testing.T) {
	c := testConcordance()
	tests := []struct {
		number string
		want   Usage
	}{
		{"H430", Usage{Number: "H430", Occurrences: 3, Verses: 2, Chapters: 1, Books: 1}},
		{"G2316", Usage{Number: "G2316", Occurrences: 2, Verses: 2, Chapters: 2, Books: 1}},
		{"H9000", Usage{Number: "H9000"}},
	}
	for _, tt := range tests {
		got, err := c.Usage(tt.number)
		if err != nil || got != tt.want {
			t.Errorf("Usage(%s) = %+v, %v; want %+v", tt.number, got, err, tt.want)
		}
	}
	if _, err := c.Usage("430"); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Usage(430) error = %v, want ErrInvalidInput", err)
	}
}

func TestStatistics(t *testing.T) {
	s := testConcordance().Statistics()
	want := Statistics{Entries: 5, Hebrew: 3, Greek: 2, Definitions: 5, WordTags: 8}
	if s != want {
		t.Errorf("Statistics() = %+v, want %+v", s, want)
	}
}

func TestEmptyConcordance(t *testing.T) {
	c := New(nil, nil, nil)
	if c.Len() != 0 {
		t.Errorf("Len() = %d", c.Len())
	}
	if got, err := c.Search("god", "", 0); err != nil || len(got) != 0 {
		t.Errorf("Search() = %v, %v", got, err)
	}
}
