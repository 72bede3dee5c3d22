package crossref

import (
	"sort"

	"github.com/FocuswithJustin/BibleHere/core/ir"
)

// Group is the edges of one type.
type Group struct {
	Type  ir.CrossRefType     `json:"type"`
	Label string              `json:"label"`
	Refs  []ir.CrossReference `json:"refs"`
}

// GroupByType partitions refs into one group per type. Groups are ordered
// alphabetically by type and keep the input order within each group.
func GroupByType(refs []ir.CrossReference) []Group {
	return GroupByTypeOrder(refs, nil)
}

// GroupByTypeOrder is GroupByType with a priority list: types named in
// priority come first in that order, the rest follow alphabetically.
func GroupByTypeOrder(refs []ir.CrossReference, priority []ir.CrossRefType) []Group {
	rank := make(map[ir.CrossRefType]int, len(priority))
	for i, t := range priority {
		if _, dup := rank[t]; !dup {
			rank[t] = i
		}
	}
	idx := make(map[ir.CrossRefType]int)
	var groups []Group
	for _, r := range refs {
		i, ok := idx[r.Type]
		if !ok {
			i = len(groups)
			idx[r.Type] = i
			groups = append(groups, Group{Type: r.Type, Label: r.Type.Label()})
		}
		groups[i].Refs = append(groups[i].Refs, r)
	}
	sort.Slice(groups, func(i, j int) bool {
		ri, iok := rank[groups[i].Type]
		rj, jok := rank[groups[j].Type]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return groups[i].Type < groups[j].Type
	})
	return groups
}
