package main

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/BibleHere/core/errors"
)

const lexiconJSONL = `{"number": "H430", "original_word": "אֱלֹהִים", "transliteration": "elohim", "part_of_speech": "noun", "definitions": [{"definition": "God, gods"}, {"type": "detailed", "definition": "plural of H433", "usage_notes": "used of the true God"}]}
{"number": "H7225", "original_word": "רֵאשִׁית", "transliteration": "reshith", "definitions": [{"definition": "beginning"}]}
{"number": "G2316", "original_word": "θεός", "transliteration": "theos", "definitions": [{"definition": "God, a deity"}]}
`

const tagsCSV = `reference,position,word,number,morph
Gen 1:1,1,In the beginning,H7225,HR/Ncfsa
Gen 1:1,4,God,H430,HNcmpa
John 3:16,2,God,G2316
Gen 1:1-2,1,In,H7225
`

func TestStrongsCommands(t *testing.T) {
	dir, out := setupCLI(t)
	importFixtures(t, dir, out)

	out.Reset()
	if err := (&ImportStrongsCmd{Path: createTestFile(t, dir, "strongs.jsonl", lexiconJSONL)}).Run(); err != nil {
		t.Fatalf("import strongs: %v", err)
	}
	if !strings.Contains(out.String(), "3 succeeded, 0 failed") {
		t.Fatalf("import strongs output = %q", out.String())
	}
	out.Reset()
	if err := (&ImportTagsCmd{Path: createTestFile(t, dir, "tags.csv", tagsCSV), Version: "kjv"}).Run(); err != nil {
		t.Fatalf("import tags: %v", err)
	}
	if !strings.Contains(out.String(), "3 succeeded, 1 failed") || !strings.Contains(out.String(), "Version: KJV") {
		t.Fatalf("import tags output = %q", out.String())
	}

	tests := []struct {
		name string
		cmd  interface{ Run() error }
		want []string
	}{
		{"lookup", &StrongsCmd{Number: "h0430", Definitions: "all"}, []string{"H430 אֱלֹהִים elohim (noun)", "brief: God, gods", "used of the true God", "Used 1 times in 1 verses, 1 chapters, 1 books"}},
		{"lookup brief", &StrongsCmd{Number: "H430", Definitions: "brief", JSON: true}, []string{`"total_occurrences": 1`, `"definition": "God, gods"`}},
		{"search", &StrongsCmd{Search: "god", Definitions: "all"}, []string{"2 Strong's numbers", "H430", "G2316", "God, a deity"}},
		{"search greek", &StrongsCmd{Search: "god", Language: "greek", Definitions: "all"}, []string{"1 Strong's numbers"}},
		{"verse", &StrongsCmd{Verse: "Gen 1:1", Definitions: "all"}, []string{"Genesis 1:1 (KJV)", "1:1.1 In the beginning", "H7225 HR/Ncfsa", "1:1.4 God"}},
		{"untagged verse", &StrongsCmd{Verse: "Ps 23:1", Definitions: "all"}, []string{"No tagged words"}},
		{"language", &StrongsCmd{Language: "hebrew", Offset: 1, Definitions: "all"}, []string{"H7225 רֵאשִׁית reshith"}},
		{"random", &RandomCmd{Books: []string{"Ps"}}, []string{"23:1 (KJV)", "23:1 The LORD is my shepherd"}},
		{"random json", &RandomCmd{Testament: "new", JSON: true}, []string{`"reference": "JHN.3.16"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			if err := tt.cmd.Run(); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestStrongsErrors(t *testing.T) {
	dir, out := setupCLI(t)
	importFixtures(t, dir, out)

	tests := []struct {
		name string
		cmd  interface{ Run() error }
		code string
	}{
		{"no input", &StrongsCmd{Definitions: "all"}, "INVALID_INPUT"},
		{"unknown number", &StrongsCmd{Number: "H430", Definitions: "all"}, "NOT_FOUND"},
		{"malformed number", &StrongsCmd{Number: "430", Definitions: "all"}, "INVALID_INPUT"},
		{"blank search", &StrongsCmd{Search: " ", Definitions: "all"}, "INVALID_QUERY"},
		{"bad language", &StrongsCmd{Language: "latin", Definitions: "all"}, "INVALID_INPUT"},
		{"verse unknown version", &StrongsCmd{Verse: "Gen 1:1", Version: "NIV", Definitions: "all"}, "UNKNOWN_VERSION"},
		{"random nothing matches", &RandomCmd{MinLength: 1000}, "NOT_FOUND"},
		{"random bad testament", &RandomCmd{Testament: "apocrypha"}, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run()
			if err == nil {
				t.Fatal("Run() should fail")
			}
			if got := errors.Code(err); got != tt.code {
				t.Errorf("Code(%v) = %s, want %s", err, got, tt.code)
			}
		})
	}
}
