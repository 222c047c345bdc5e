// Package records holds the observations under reconciliation and the
// ordered store the engine mutates.
package records

import (
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/provenance"
)

// ID identifies a record. IDs are assigned by a Store in increasing order
// and never reused.
type ID uint64

// String returns the decimal form of the id.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Record is one observation of a settlement in a given year.
type Record struct {
	ID     ID
	Year   int
	Houses decimal.NullDecimal
	// Area is the km² value reported alongside the houses, if any.
	Area  decimal.NullDecimal
	Codes []codes.Code
	Tag   provenance.Tag
	// YearUsed is the reference year the value was computed from, 0 if none.
	YearUsed int
	// Parent is the record this one was split or recoded from, 0 for input records.
	Parent ID
}

// Ambiguous reports whether the value is not yet attributed to a single code.
func (r Record) Ambiguous() bool {
	return len(r.Codes) > 1
}

// Code returns the first code of the record.
func (r Record) Code() codes.Code {
	if len(r.Codes) == 0 {
		return ""
	}
	return r.Codes[0]
}

// Has reports whether the record carries c.
func (r Record) Has(c codes.Code) bool {
	return slices.Contains(r.Codes, c)
}

// Link renders the codes as a hyphen-joined link field.
func (r Record) Link() string {
	return codes.Join(r.Codes)
}

// Label renders the provenance of the record with vocabulary v.
func (r Record) Label(v provenance.Vocabulary) string {
	return v.Label(r.Tag, r.YearUsed)
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	r.Codes = slices.Clone(r.Codes)
	return r
}

// Derive returns a new record for code c carrying houses h, inheriting the
// year and audit fields of r. The caller sets the tag.
func (r Record) Derive(c codes.Code, h decimal.NullDecimal) Record {
	return Record{
		Year:     r.Year,
		Houses:   h,
		Codes:    []codes.Code{c},
		Tag:      r.Tag,
		YearUsed: r.YearUsed,
		Parent:   r.ID,
	}
}

// Null is the absent houses value.
var Null = decimal.NullDecimal{}

// Known wraps d as a present value.
func Known(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
