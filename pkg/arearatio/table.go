// Package arearatio provides the declared area (km²) of each code per year,
// used as the fallback signal for apportioning houses.
package arearatio

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/Igorvich/huizen-holland/pkg/codes"
)

// Entry is one declared area.
type Entry struct {
	Code codes.Code
	Year int
	Area decimal.NullDecimal
}

// Table is an immutable code → year → area lookup.
type Table struct {
	areas map[codes.Code]map[int]decimal.NullDecimal
	years []int
}

// New builds a table from entries. Later entries for the same code and year
// win, except that an absent value never hides a present one.
func New(entries []Entry) *Table {
	t := &Table{areas: make(map[codes.Code]map[int]decimal.NullDecimal)}
	seen := make(map[int]struct{})
	for _, e := range entries {
		byYear, ok := t.areas[e.Code]
		if !ok {
			byYear = make(map[int]decimal.NullDecimal)
			t.areas[e.Code] = byYear
		}
		if prev, ok := byYear[e.Year]; ok && prev.Valid && !e.Area.Valid {
			continue
		}
		byYear[e.Year] = e.Area
		if _, ok := seen[e.Year]; !ok {
			seen[e.Year] = struct{}{}
			t.years = append(t.years, e.Year)
		}
	}
	slices.Sort(t.years)
	return t
}

// Empty returns a table without any data.
func Empty() *Table {
	return New(nil)
}

// Area returns the declared area of code in year.
func (t *Table) Area(c codes.Code, year int) decimal.NullDecimal {
	if t == nil {
		return decimal.NullDecimal{}
	}
	return t.areas[c][year]
}

// Reliable reports whether the area of code in year is present and positive.
// Zero means no signal, not a zero share.
func (t *Table) Reliable(c codes.Code, year int) bool {
	a := t.Area(c, year)
	return a.Valid && a.Decimal.IsPositive()
}

// Has reports whether the table knows the code at all.
func (t *Table) Has(c codes.Code) bool {
	if t == nil {
		return false
	}
	_, ok := t.areas[c]
	return ok
}

// Years returns every year with at least one entry, ascending.
func (t *Table) Years() []int {
	if t == nil {
		return nil
	}
	return slices.Clone(t.years)
}

// Codes returns every code in the table, sorted.
func (t *Table) Codes() []codes.Code {
	if t == nil {
		return nil
	}
	out := make([]codes.Code, 0, len(t.areas))
	for c := range t.areas {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of codes in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.areas)
}
