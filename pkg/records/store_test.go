package records

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/errors"
	"github.com/Igorvich/huizen-holland/pkg/provenance"
)

func houses(v int64) decimal.NullDecimal {
	return Known(decimal.NewFromInt(v))
}

func record(year int, h decimal.NullDecimal, cs ...codes.Code) Record {
	return Record{Year: year, Houses: h, Codes: cs, Tag: provenance.TagSource}
}

func TestStoreAddAssignsIncreasingIDs(t *testing.T) {
	s := NewStore()
	a, err := s.Add(record(2000, houses(10), "HO0001A"))
	require.NoError(t, err)
	b, err := s.Add(record(2000, houses(30), "HO0001B"))
	require.NoError(t, err)

	assert.Equal(t, ID(1), a)
	assert.Equal(t, ID(2), b)
	assert.Equal(t, "2", b.String())

	require.NoError(t, s.Remove(a))
	c, err := s.Add(record(2005, houses(80), "HO0001A", "HO0001B"))
	require.NoError(t, err)
	assert.Equal(t, ID(3), c, "ids are never reused")

	_, err = s.Add(Record{Year: 2000})
	assert.True(t, errors.IsValidationError(err))
}

func TestStoreGetReturnsCopies(t *testing.T) {
	s := NewStore()
	id, err := s.Add(record(2000, houses(1), "HO0001A", "HO0001B"))
	require.NoError(t, err)

	r, err := s.Get(id)
	require.NoError(t, err)
	r.Codes[0] = "HO9999Z"

	again, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, codes.Code("HO0001A"), again.Codes[0])

	_, err = s.Get(42)
	assert.True(t, errors.IsNotFound(err))
}

func TestStoreApply(t *testing.T) {
	s := NewStore()
	parent, _ := s.Add(record(2005, houses(80), "HO0001A", "HO0001B"))
	keep, _ := s.Add(record(2000, houses(10), "HO0001A"))

	p, _ := s.Get(parent)
	cs := &Changeset{
		Added: []Record{
			p.Derive("HO0001A", houses(20)),
			p.Derive("HO0001B", houses(60)),
		},
		Removed: []ID{parent},
	}
	added, err := s.Apply(cs)
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, parent, added[0].Parent)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 0, s.CountAmbiguous())
	list := s.List()
	assert.Equal(t, keep, list[0].ID, "surviving records keep their position")

	total, ok := s.Total(2005)
	require.True(t, ok)
	assert.True(t, total.Equal(decimal.NewFromInt(80)))
}

func TestStoreApplyIsAllOrNothing(t *testing.T) {
	s := NewStore()
	id, _ := s.Add(record(2000, houses(5), "HO0001A"))

	_, err := s.Apply(&Changeset{
		Added:   []Record{record(2000, houses(1), "HO0001B")},
		Removed: []ID{id, 99},
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, ID(2), s.NextID(), "failed apply assigns no ids")
}

func TestStoreQueries(t *testing.T) {
	s := NewStore()
	_, _ = s.Add(record(2005, Null, "HO0002A", "HO0002B"))
	_, _ = s.Add(record(1990, houses(3), "HO0001"))
	_, _ = s.Add(record(1990, Null, "HO0003"))

	assert.Equal(t, []int{1990, 2005}, s.Years())
	assert.Equal(t, []codes.Code{"HO0001", "HO0002A", "HO0002B", "HO0003"}, s.Codes())
	require.Len(t, s.Ambiguous(), 1)

	_, ok := s.Total(2005)
	assert.False(t, ok, "a year with only null houses has no total")
}

func TestRecordLabel(t *testing.T) {
	r := Record{Tag: provenance.TagYearSource, YearUsed: 2000}
	assert.Equal(t, "Year 2000: Source", r.Label(provenance.English))
	assert.Equal(t, "HO0001A-HO0001B", record(0, Null, "HO0001A", "HO0001B").Link())
}
