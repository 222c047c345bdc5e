package index

import (
	"slices"

	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

// CandidateMap holds the codes relevant to one record with the subtree ids
// of each. Own lists the record's codes in record order.
type CandidateMap struct {
	Own     []codes.Code
	Entries map[codes.Code]Set
}

// CandidateMap collects the record's own codes, every ancestor whose complete
// child set lies within those codes, and every descendant of an own code
// whose child set does.
func (x *Index) CandidateMap(r records.Record) CandidateMap {
	h := x.hierarchy
	cm := CandidateMap{
		Own:     slices.Clone(r.Codes),
		Entries: make(map[codes.Code]Set, len(r.Codes)),
	}
	covered := slices.Clone(r.Codes)
	for _, c := range r.Codes {
		cm.Entries[c] = x.Subtree(c)
	}

	// Ancestors bubble up: once a parent qualifies it counts as covered
	// for the next level.
	for changed := true; changed; {
		changed = false
		for _, c := range covered {
			parent, ok := c.Parent()
			if !ok || slices.Contains(covered, parent) {
				continue
			}
			if h.CoversChildren(parent, covered) {
				covered = append(covered, parent)
				cm.Entries[parent] = x.Subtree(parent)
				changed = true
			}
		}
	}

	for _, c := range r.Codes {
		for _, d := range h.Descendants(c) {
			if !h.IsLeaf(d) && h.CoversChildren(d, r.Codes) {
				cm.Entries[d] = x.Subtree(d)
			}
		}
	}
	return cm
}

// Ancestors returns the codes in the map that are not the record's own,
// sorted deepest first so nested promotions resolve bottom-up.
func (cm CandidateMap) Ancestors() []codes.Code {
	var out []codes.Code
	for c := range cm.Entries {
		if !slices.Contains(cm.Own, c) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b codes.Code) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	return out
}

// Partition splits the record's own codes into duplicates, groups of two or
// more codes whose id sets are identical, and uniques, codes whose id set is
// shared with no other own code.
func (cm CandidateMap) Partition() (duplicates [][]codes.Code, uniques []codes.Code) {
	assigned := make(map[codes.Code]bool, len(cm.Own))
	for i, c := range cm.Own {
		if assigned[c] {
			continue
		}
		group := []codes.Code{c}
		for _, other := range cm.Own[i+1:] {
			if !assigned[other] && cm.Entries[c].Equal(cm.Entries[other]) {
				group = append(group, other)
				assigned[other] = true
			}
		}
		assigned[c] = true
		if len(group) > 1 {
			duplicates = append(duplicates, group)
		} else {
			uniques = append(uniques, c)
		}
	}
	return duplicates, uniques
}
