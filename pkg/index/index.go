// Package index maps codes to the records bearing them and keeps the code
// hierarchy in step with the record set.
package index

import (
	"slices"

	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

// Index maps each code to the ids of the records directly bearing it.
type Index struct {
	hierarchy *codes.Hierarchy
	direct    map[codes.Code]Set
}

// New creates an empty index over h. A nil h gets a fresh hierarchy.
func New(h *codes.Hierarchy) *Index {
	if h == nil {
		h = codes.NewHierarchy()
	}
	return &Index{
		hierarchy: h,
		direct:    make(map[codes.Code]Set),
	}
}

// Build creates an index and hierarchy from rs.
func Build(rs []records.Record) (*Index, error) {
	idx := New(nil)
	if err := idx.Rebuild(rs); err != nil {
		return nil, err
	}
	return idx, nil
}

// Hierarchy returns the hierarchy the index keeps in step.
func (x *Index) Hierarchy() *codes.Hierarchy {
	return x.hierarchy
}

// Rebuild clears the index and hierarchy and re-derives both from rs.
func (x *Index) Rebuild(rs []records.Record) error {
	x.direct = make(map[codes.Code]Set)
	var all []codes.Code
	for _, r := range rs {
		for _, c := range r.Codes {
			x.add(c, r.ID)
			all = append(all, c)
		}
	}
	return x.hierarchy.Rebuild(all)
}

func (x *Index) add(c codes.Code, id records.ID) {
	set, ok := x.direct[c]
	if !ok {
		set = make(Set)
		x.direct[c] = set
	}
	set.Add(id)
}

// Direct returns the ids of records bearing c itself.
func (x *Index) Direct(c codes.Code) Set {
	return x.direct[c].Clone()
}

// Borne reports whether any record bears c directly.
func (x *Index) Borne(c codes.Code) bool {
	return len(x.direct[c]) > 0
}

// Subtree returns the ids of records bearing c or any of its descendants.
func (x *Index) Subtree(c codes.Code) Set {
	out := x.Direct(c)
	for _, d := range x.hierarchy.Descendants(c) {
		out.Union(x.direct[d])
	}
	return out
}

// Codes returns the codes with at least one record, sorted.
func (x *Index) Codes() []codes.Code {
	out := make([]codes.Code, 0, len(x.direct))
	for c, set := range x.direct {
		if len(set) > 0 {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}

// Promote unions the entries of c's immediate children into c's own entry
// and drops the child entries. Once every child of c's parent has an entry,
// the parent is promoted in turn, so a complete subtree collapses onto its
// highest covered ancestor. It returns the set merged into c. Calling it
// again without an intervening change is a no-op.
func (x *Index) Promote(c codes.Code) Set {
	merged, ok := x.direct[c]
	if !ok {
		merged = make(Set)
	}
	for _, child := range x.hierarchy.Children(c) {
		if set, ok := x.direct[child]; ok {
			merged.Union(set)
			delete(x.direct, child)
		}
	}
	if len(merged) > 0 {
		x.direct[c] = merged
	}
	out := merged.Clone()

	if parent, ok := c.Parent(); ok && x.complete(parent) {
		x.Promote(parent)
	}
	return out
}

// complete reports whether every child of c has an entry.
func (x *Index) complete(c codes.Code) bool {
	children := x.hierarchy.Children(c)
	if len(children) == 0 {
		return false
	}
	for _, child := range children {
		if len(x.direct[child]) == 0 {
			return false
		}
	}
	return true
}

// Snapshot returns a deep copy of the code → ids mapping.
func (x *Index) Snapshot() map[codes.Code]Set {
	out := make(map[codes.Code]Set, len(x.direct))
	for c, set := range x.direct {
		out[c] = set.Clone()
	}
	return out
}
