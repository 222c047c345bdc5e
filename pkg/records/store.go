package records

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/errors"
)

// Changeset is a batch of store mutations applied together.
type Changeset struct {
	Added   []Record // New records; a zero ID is assigned on apply
	Updated []Record // Replacements for existing records
	Removed []ID     // Records to drop
}

// IsEmpty reports whether the changeset mutates nothing.
func (c *Changeset) IsEmpty() bool {
	return c == nil || (len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Removed) == 0)
}

// Merge appends other to c.
func (c *Changeset) Merge(other *Changeset) {
	if other == nil {
		return
	}
	c.Added = append(c.Added, other.Added...)
	c.Updated = append(c.Updated, other.Updated...)
	c.Removed = append(c.Removed, other.Removed...)
}

// Store is an insertion-ordered collection of records.
type Store struct {
	byID  map[ID]Record
	order []ID
	next  ID
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byID: make(map[ID]Record),
		next: 1,
	}
}

// NextID reserves and returns a fresh id.
func (s *Store) NextID() ID {
	id := s.next
	s.next++
	return id
}

// Add inserts r, assigning an id when r.ID is zero, and returns the id.
func (s *Store) Add(r Record) (ID, error) {
	if r.ID == 0 {
		r.ID = s.NextID()
	} else if _, exists := s.byID[r.ID]; exists {
		return 0, errors.NewValidationError("id", r.ID, "record already exists")
	} else if r.ID >= s.next {
		s.next = r.ID + 1
	}
	if len(r.Codes) == 0 {
		return 0, errors.NewValidationError("codes", r.ID, "record has no codes")
	}
	s.byID[r.ID] = r.Clone()
	s.order = append(s.order, r.ID)
	return r.ID, nil
}

// Get returns the record with the given id.
func (s *Store) Get(id ID) (Record, error) {
	r, ok := s.byID[id]
	if !ok {
		return Record{}, errors.NewNotFoundError("record", id.String())
	}
	return r.Clone(), nil
}

// Remove drops the record with the given id.
func (s *Store) Remove(id ID) error {
	if _, ok := s.byID[id]; !ok {
		return errors.NewNotFoundError("record", id.String())
	}
	delete(s.byID, id)
	s.compact()
	return nil
}

// Replace overwrites an existing record in place, keeping its position.
func (s *Store) Replace(r Record) error {
	if _, ok := s.byID[r.ID]; !ok {
		return errors.NewNotFoundError("record", r.ID.String())
	}
	if len(r.Codes) == 0 {
		return errors.NewValidationError("codes", r.ID, "record has no codes")
	}
	s.byID[r.ID] = r.Clone()
	return nil
}

// Apply validates the whole changeset and then applies it. Nothing is
// changed when validation fails. It returns the records as added, with ids.
func (s *Store) Apply(cs *Changeset) ([]Record, error) {
	if cs.IsEmpty() {
		return nil, nil
	}

	removed := make(map[ID]struct{}, len(cs.Removed))
	for _, id := range cs.Removed {
		if _, ok := s.byID[id]; !ok {
			return nil, errors.NewNotFoundError("record", id.String())
		}
		if _, dup := removed[id]; dup {
			return nil, errors.NewValidationError("removed", id, "record removed twice")
		}
		removed[id] = struct{}{}
	}
	for _, r := range cs.Updated {
		if _, ok := s.byID[r.ID]; !ok {
			return nil, errors.NewNotFoundError("record", r.ID.String())
		}
		if _, gone := removed[r.ID]; gone {
			return nil, errors.NewValidationError("updated", r.ID, "record is both updated and removed")
		}
		if len(r.Codes) == 0 {
			return nil, errors.NewValidationError("codes", r.ID, "record has no codes")
		}
	}
	for _, r := range cs.Added {
		if len(r.Codes) == 0 {
			return nil, errors.NewValidationError("codes", r.ID, "record has no codes")
		}
		if _, exists := s.byID[r.ID]; r.ID != 0 && exists {
			return nil, errors.NewValidationError("id", r.ID, "record already exists")
		}
	}

	for id := range removed {
		delete(s.byID, id)
	}
	for _, r := range cs.Updated {
		s.byID[r.ID] = r.Clone()
	}
	added := make([]Record, 0, len(cs.Added))
	for _, r := range cs.Added {
		id, err := s.Add(r)
		if err != nil {
			// Checked above; reaching this is a bug in the changeset.
			return added, fmt.Errorf("apply changeset: %w", err)
		}
		r.ID = id
		added = append(added, r)
	}
	s.compact()
	return added, nil
}

// compact drops removed ids from the ordering.
func (s *Store) compact() {
	if len(s.order) == len(s.byID) {
		return
	}
	s.order = slices.DeleteFunc(s.order, func(id ID) bool {
		_, ok := s.byID[id]
		return !ok
	})
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.byID)
}

// List returns copies of all records in insertion order.
func (s *Store) List() []Record {
	out := make([]Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

// Ambiguous returns the records carrying more than one code.
func (s *Store) Ambiguous() []Record {
	var out []Record
	for _, id := range s.order {
		if r := s.byID[id]; r.Ambiguous() {
			out = append(out, r.Clone())
		}
	}
	return out
}

// CountAmbiguous returns the number of records carrying more than one code.
func (s *Store) CountAmbiguous() int {
	n := 0
	for _, r := range s.byID {
		if r.Ambiguous() {
			n++
		}
	}
	return n
}

// Years returns the distinct years in the store, ascending.
func (s *Store) Years() []int {
	seen := make(map[int]struct{})
	var out []int
	for _, r := range s.byID {
		if _, ok := seen[r.Year]; !ok {
			seen[r.Year] = struct{}{}
			out = append(out, r.Year)
		}
	}
	slices.Sort(out)
	return out
}

// Codes returns every code carried by a record, sorted.
func (s *Store) Codes() []codes.Code {
	seen := make(map[codes.Code]struct{})
	var out []codes.Code
	for _, r := range s.byID {
		for _, c := range r.Codes {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				out = append(out, c)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Total sums the known houses of a year. The second value is false when the
// year has no known houses at all.
func (s *Store) Total(year int) (decimal.Decimal, bool) {
	total := decimal.Zero
	known := false
	for _, r := range s.byID {
		if r.Year == year && r.Houses.Valid {
			total = total.Add(r.Houses.Decimal)
			known = true
		}
	}
	return total, known
}
