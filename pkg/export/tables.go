// Package export turns a reconciled record store into per-code, per-year
// value and note tables and writes them as CSV or as an xlsx workbook.
package export

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/provenance"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

// Tables holds one value and one note per code and year.
type Tables struct {
	Years  []int
	Codes  []codes.Code
	Values map[codes.Code]map[int]decimal.NullDecimal
	Notes  map[codes.Code]map[int]string
}

// Build aggregates the store. Records sharing a code and year are summed
// over their known houses; the sum is unknown only when every record is.
// The note comes from the first record with known houses.
func Build(store *records.Store, vocabulary provenance.Vocabulary) *Tables {
	t := &Tables{
		Values: make(map[codes.Code]map[int]decimal.NullDecimal),
		Notes:  make(map[codes.Code]map[int]string),
	}
	years := make(map[int]struct{})

	for _, r := range store.List() {
		for _, c := range r.Codes {
			if _, ok := t.Values[c]; !ok {
				t.Values[c] = make(map[int]decimal.NullDecimal)
				t.Notes[c] = make(map[int]string)
				t.Codes = append(t.Codes, c)
			}
			years[r.Year] = struct{}{}

			prev, seen := t.Values[c][r.Year]
			switch {
			case !seen:
				t.Values[c][r.Year] = r.Houses
				t.Notes[c][r.Year] = r.Label(vocabulary)
			case !r.Houses.Valid:
			case !prev.Valid:
				t.Values[c][r.Year] = r.Houses
				t.Notes[c][r.Year] = r.Label(vocabulary)
			default:
				t.Values[c][r.Year] = records.Known(prev.Decimal.Add(r.Houses.Decimal))
			}
		}
	}

	for y := range years {
		t.Years = append(t.Years, y)
	}
	slices.Sort(t.Years)
	slices.Sort(t.Codes)
	return t
}

// Value returns the value of code in year.
func (t *Tables) Value(c codes.Code, year int) decimal.NullDecimal {
	return t.Values[c][year]
}

// Note returns the provenance note of code in year, empty when the cell is absent.
func (t *Tables) Note(c codes.Code, year int) string {
	return t.Notes[c][year]
}

// Has reports whether any record covered code in year.
func (t *Tables) Has(c codes.Code, year int) bool {
	_, ok := t.Values[c][year]
	return ok
}

// Total sums the known values of a year.
func (t *Tables) Total(year int) decimal.Decimal {
	total := decimal.Zero
	for _, c := range t.Codes {
		if v := t.Values[c][year]; v.Valid {
			total = total.Add(v.Decimal)
		}
	}
	return total
}
