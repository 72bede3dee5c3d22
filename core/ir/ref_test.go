package ir

import (
	"encoding/json"
	"sort"
	"testing"
)

func gen(ch, v int) VerseID  { return VerseID{Book: "GEN", BookNum: 1, Chapter: ch, Verse: v} }
func john(ch, v int) VerseID { return VerseID{Book: "JHN", BookNum: 43, Chapter: ch, Verse: v} }

func TestVerseIDString(t *testing.T) {
	tests := []struct {
		id   VerseID
		want string
	}{
		{gen(1, 1), "GEN.1.1"},
		{VerseID{Book: "MAT", BookNum: 40, Chapter: 5, Verse: 3, VerseEnd: 12}, "MAT.5.3-12"},
		{VerseID{Book: "1JN", BookNum: 62, Chapter: 3, Verse: 16, VerseEnd: 16}, "1JN.3.16"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestVerseIDRange(t *testing.T) {
	r := VerseID{Book: "GEN", BookNum: 1, Chapter: 1, Verse: 1, VerseEnd: 3}
	if !r.IsRange() || r.Last() != 3 {
		t.Errorf("IsRange/Last = %v/%d", r.IsRange(), r.Last())
	}
	if !r.Contains(gen(1, 2)) || r.Contains(gen(1, 4)) || r.Contains(gen(2, 2)) {
		t.Error("Contains() wrong")
	}
	if got := r.Start(); got != gen(1, 1) {
		t.Errorf("Start() = %v", got)
	}
	single := VerseID{Book: "GEN", BookNum: 1, Chapter: 1, Verse: 2, VerseEnd: 2}
	if single.IsRange() || single.Normalize() != gen(1, 2) {
		t.Error("equal VerseEnd should normalize away")
	}
}

func TestVerseIDOrder(t *testing.T) {
	ids := []VerseID{john(3, 16), gen(2, 1), gen(1, 10), gen(1, 2), john(1, 1)}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	want := []string{"GEN.1.2", "GEN.1.10", "GEN.2.1", "JHN.1.1", "JHN.3.16"}
	for i, id := range ids {
		if id.String() != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, id, want[i])
		}
	}
	if gen(1, 1).Compare(gen(1, 1)) != 0 {
		t.Error("Compare equal should be 0")
	}
}

func TestVerseIDJSON(t *testing.T) {
	cr := CrossReference{ID: "x", SourceID: gen(1, 1), TargetID: john(1, 1), Type: CrossRefParallel, Strength: 5}
	data, err := json.Marshal(cr)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["source_id"] != "GEN.1.1" || m["target_id"] != "JHN.1.1" {
		t.Errorf("JSON ids = %v, %v", m["source_id"], m["target_id"])
	}
}

func TestCrossRefTypeLabel(t *testing.T) {
	if CrossRefTheme.Label() != "Thematic Connection" {
		t.Errorf("Label() = %q", CrossRefTheme.Label())
	}
	if CrossRefType("custom").Label() != "custom" || CrossRefType("custom").IsKnown() {
		t.Error("unknown type should label as itself")
	}
	if len(CrossRefTypes()) != 13 {
		t.Errorf("CrossRefTypes() = %d", len(CrossRefTypes()))
	}
}
