package crossref

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/BibleHere/core/canon"
	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/core/ir"
	"github.com/FocuswithJustin/BibleHere/core/resolver"
)

var res = resolver.New(canon.Default())

func ref(t *testing.T, s string) ir.VerseID {
	t.Helper()
	id, err := res.Resolve(s)
	if err != nil {
		t.Fatalf("Resolve(%q) error = %v", s, err)
	}
	return id
}

func edge(t *testing.T, id, src, dst string, typ ir.CrossRefType, strength int) ir.CrossReference {
	return ir.CrossReference{ID: id, SourceID: ref(t, src), TargetID: ref(t, dst), Type: typ, Strength: strength, Source: "TSK"}
}

func testGraph(t *testing.T) *Graph {
	t.Helper()
	edges := []ir.CrossReference{
		edge(t, "a", "GEN.1.1", "JHN.1.1-3", ir.CrossRefParallel, 5),
		edge(t, "b", "GEN.1.1", "HEB.11.3", ir.CrossRefTheme, 3),
		edge(t, "c", "GEN.1.1", "PSA.33.6", ir.CrossRefTheme, 4),
		edge(t, "d", "GEN.1.1", "ISA.45.18", ir.CrossRefTheme, 1),
		edge(t, "e", "GEN.1.1", "COL.1.16", ir.CrossRefConcept, 4),
		edge(t, "f", "GEN.1.3", "2CO.4.6", ir.CrossRefQuotation, 5),
		edge(t, "g", "GEN.1.3", "JHN.1.5", ir.CrossRefTheme, 2),
		edge(t, "h", "GEN.1.3", "JHN.8.12", ir.CrossRefTheme, 2),
		edge(t, "i", "GEN.2.7", "1CO.15.45", ir.CrossRefQuotation, 5),
	}
	gone := edge(t, "x", "GEN.1.1", "REV.4.11", ir.CrossRefTheme, 5)
	gone.Inactive = true
	edges = append(edges, gone)
	edges[3].Source = "OpenBible"
	return NewGraph(edges)
}

func edgeIDs(refs []ir.CrossReference) string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.ID
	}
	return strings.Join(out, ",")
}

func TestVersesFor(t *testing.T) {
	g := testGraph(t)
	gen11 := ref(t, "GEN.1.1")
	tests := []struct {
		name   string
		id     ir.VerseID
		filter Filter
		want   string
	}{
		{"all, strongest first", gen11, Filter{}, "a,c,e,b,d"},
		{"min strength inclusive", gen11, Filter{MinStrength: 4}, "a,c,e"},
		{"min strength exclusive", gen11, Filter{MinStrength: 4, ExclusiveMin: true}, "a"},
		{"type", gen11, Filter{Type: ir.CrossRefTheme}, "c,b,d"},
		{"source", gen11, Filter{Source: "OpenBible"}, "d"},
		{"limit", gen11, Filter{Limit: 2}, "a,c"},
		{"no edges", ref(t, "EXO.1.1"), Filter{}, ""},
		{"range source", ref(t, "GEN.1.1-3"), Filter{MinStrength: 5}, "a,f"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.VersesFor(tt.id, tt.filter)
			if ids := edgeIDs(got); ids != tt.want {
				t.Errorf("VersesFor() = %s, want %s", ids, tt.want)
			}
			for _, r := range got {
				if r.Strength < tt.filter.MinStrength {
					t.Errorf("edge %s strength %d below %d", r.ID, r.Strength, tt.filter.MinStrength)
				}
			}
		})
	}
}

func TestVersesForTieBreak(t *testing.T) {
	g := testGraph(t)
	// g and h share strength and rank; JHN 1:5 sorts before JHN 8:12
	got := g.VersesFor(ref(t, "GEN.1.3"), Filter{Type: ir.CrossRefTheme})
	if ids := edgeIDs(got); ids != "g,h" {
		t.Errorf("VersesFor() = %s, want g,h", ids)
	}
}

func TestInactiveNeverReturned(t *testing.T) {
	g := testGraph(t)
	for _, r := range g.VersesFor(ref(t, "GEN.1.1"), Filter{}) {
		if r.ID == "x" {
			t.Error("inactive edge returned by VersesFor")
		}
	}
	if got := g.Incoming(ref(t, "REV.4.11"), Filter{}); len(got) != 0 {
		t.Errorf("Incoming(REV.4.11) = %s, want none", edgeIDs(got))
	}
	if g.Len() != 9 {
		t.Errorf("Len() = %d, want 9", g.Len())
	}
}

func TestIncomingRangeTarget(t *testing.T) {
	g := testGraph(t)
	got := g.Incoming(ref(t, "JHN.1.2"), Filter{})
	if ids := edgeIDs(got); ids != "a" {
		t.Errorf("Incoming(JHN.1.2) = %s, want a", ids)
	}
}

func TestChapterFor(t *testing.T) {
	g := testGraph(t)
	got := g.ChapterFor(1, 1, Filter{}, 2)
	if len(got) != 2 {
		t.Fatalf("ChapterFor() has %d verses, want 2", len(got))
	}
	if ids := edgeIDs(got[1]); ids != "a,c" {
		t.Errorf("verse 1 = %s, want a,c", ids)
	}
	if ids := edgeIDs(got[3]); ids != "f,g" {
		t.Errorf("verse 3 = %s, want f,g", ids)
	}

	got = g.ChapterFor(1, 1, Filter{MinStrength: 5}, 0)
	if ids := edgeIDs(got[1]); ids != "a" {
		t.Errorf("verse 1 = %s, want a", ids)
	}
	if len(g.ChapterFor(1, 3, Filter{}, 0)) != 0 {
		t.Error("chapter without edges should be empty")
	}
}

func TestGroupByType(t *testing.T) {
	g := testGraph(t)
	refs := g.VersesFor(ref(t, "GEN.1.1"), Filter{})
	groups := GroupByType(refs)
	var order []string
	for _, gr := range groups {
		order = append(order, string(gr.Type))
	}
	if got := strings.Join(order, ","); got != "concept,parallel,theme" {
		t.Errorf("group order = %s, want concept,parallel,theme", got)
	}
	if ids := edgeIDs(groups[2].Refs); ids != "c,b,d" {
		t.Errorf("theme group = %s, want c,b,d", ids)
	}
	if groups[1].Label != "Parallel Passage" {
		t.Errorf("Label = %q", groups[1].Label)
	}

	again := GroupByType(refs)
	for i := range groups {
		if groups[i].Type != again[i].Type {
			t.Fatal("grouping is not deterministic")
		}
	}

	prio := GroupByTypeOrder(refs, []ir.CrossRefType{ir.CrossRefTheme})
	if prio[0].Type != ir.CrossRefTheme || prio[1].Type != ir.CrossRefConcept {
		t.Errorf("priority order = %v, %v", prio[0].Type, prio[1].Type)
	}
}

func TestTypesAndSources(t *testing.T) {
	g := testGraph(t)
	types := g.Types()
	if len(types) != len(ir.CrossRefTypes()) {
		t.Errorf("Types() = %d entries, want %d", len(types), len(ir.CrossRefTypes()))
	}
	for i := 1; i < len(types); i++ {
		if types[i-1].Type >= types[i].Type {
			t.Errorf("Types() not sorted at %d", i)
		}
	}
	for _, tc := range types {
		if tc.Type == ir.CrossRefTheme && tc.Count != 5 {
			t.Errorf("theme count = %d, want 5", tc.Count)
		}
	}
	if got := strings.Join(g.Sources(), ","); got != "OpenBible,TSK" {
		t.Errorf("Sources() = %s", got)
	}
}

func TestImport(t *testing.T) {
	records := []Record{
		{Source: "Gen 1:1", Target: "John 1:1-3", Type: "Parallel", Strength: 5},
		{Source: "GEN.1.1", Target: "Heb 11:3"},
		{Source: "Hezekiah 1:1", Target: "Gen 1:1"},
		{Source: "Gen 1:1", Target: "Gen 1:1"},
		{Source: "Gen 1:1", Target: "Ps 33:6", Strength: 9},
		{Source: "Gen 1:1-2", Target: "Ps 33:6"},
	}
	edges, result := Import(res, records, "TSK")
	if result.Success != 2 || result.Failed != 4 {
		t.Fatalf("Import() = %d ok, %d failed; want 2, 4", result.Success, result.Failed)
	}
	if result.Errors[0].Index != 2 || !errors.Is(result.Errors[0].Err, errors.ErrUnresolvedReference) {
		t.Errorf("first error = %+v", result.Errors[0])
	}
	if edges[0].Type != ir.CrossRefParallel || edges[0].Source != "TSK" || edges[0].ID == "" {
		t.Errorf("edge 0 = %+v", edges[0])
	}
	if edges[1].Type != ir.CrossRefGeneral || edges[1].Strength != ir.DefaultStrength {
		t.Errorf("edge 1 defaults = %s/%d", edges[1].Type, edges[1].Strength)
	}
	if edges[0].TargetID.String() != "JHN.1.1-3" {
		t.Errorf("target = %s", edges[0].TargetID)
	}
}
