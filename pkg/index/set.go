package index

import (
	"slices"

	"github.com/Igorvich/huizen-holland/pkg/records"
)

// Set is a set of record ids.
type Set map[records.ID]struct{}

// NewSet creates a set holding ids.
func NewSet(ids ...records.ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id.
func (s Set) Add(id records.ID) {
	s[id] = struct{}{}
}

// Has reports whether id is in the set.
func (s Set) Has(id records.ID) bool {
	_, ok := s[id]
	return ok
}

// Union adds every member of other.
func (s Set) Union(other Set) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Equal reports whether both sets hold the same ids.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Clone returns a copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	out.Union(s)
	return out
}

// Sorted returns the ids in ascending order.
func (s Set) Sorted() []records.ID {
	out := make([]records.ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
