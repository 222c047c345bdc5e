package index

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/errors"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

func rec(id records.ID, year int, cs ...codes.Code) records.Record {
	return records.Record{
		ID:     id,
		Year:   year,
		Houses: records.Known(decimal.NewFromInt(int64(id))),
		Codes:  cs,
	}
}

func TestBuild(t *testing.T) {
	idx, err := Build([]records.Record{
		rec(1, 2000, "HO0001A"),
		rec(2, 2000, "HO0001B"),
		rec(3, 2005, "HO0001A", "HO0001B"),
		rec(4, 2005, "GM0344"),
	})
	require.NoError(t, err)

	assert.Equal(t, []records.ID{1, 3}, idx.Direct("HO0001A").Sorted())
	assert.Empty(t, idx.Direct("HO0001"))
	assert.False(t, idx.Borne("HO0001"))
	assert.Equal(t, []records.ID{1, 2, 3}, idx.Subtree("HO0001").Sorted())
	assert.Equal(t, []codes.Code{"HO0001A", "HO0001B"}, idx.Hierarchy().Children("HO0001"))
	assert.Equal(t, codes.KindLeaf, idx.Hierarchy().Kind("GM0344"))
}

func TestBuildRejectsMalformedCodes(t *testing.T) {
	_, err := Build([]records.Record{rec(1, 2000, "HO01")})
	assert.True(t, errors.IsMalformedCode(err))
}

func TestPromote(t *testing.T) {
	idx, err := Build([]records.Record{
		rec(1, 2000, "HO0001"),
		rec(2, 2005, "HO0001A", "HO0001B"),
		rec(3, 2010, "HO0001B"),
	})
	require.NoError(t, err)

	merged := idx.Promote("HO0001")
	assert.Equal(t, []records.ID{1, 2, 3}, merged.Sorted())
	assert.Empty(t, idx.Direct("HO0001A"))
	assert.Empty(t, idx.Direct("HO0001B"))

	before := idx.Snapshot()
	again := idx.Promote("HO0001")
	assert.Equal(t, merged, again)
	if diff := cmp.Diff(before, idx.Snapshot()); diff != "" {
		t.Errorf("second promotion changed the index (-before +after):\n%s", diff)
	}
}

func TestPromoteRecursesUpward(t *testing.T) {
	idx, err := Build([]records.Record{
		rec(1, 2000, "HO0001A1"),
		rec(2, 2000, "HO0001A2"),
		rec(3, 2000, "HO0001B"),
	})
	require.NoError(t, err)

	merged := idx.Promote("HO0001A")
	assert.Equal(t, []records.ID{1, 2}, merged.Sorted())
	assert.Equal(t, []codes.Code{"HO0001"}, idx.Codes())
	assert.Equal(t, []records.ID{1, 2, 3}, idx.Direct("HO0001").Sorted())
	assert.Empty(t, idx.Direct("HO0001A"))
	assert.Empty(t, idx.Direct("HO0001B"))

	before := idx.Snapshot()
	idx.Promote("HO0001A")
	if diff := cmp.Diff(before, idx.Snapshot()); diff != "" {
		t.Errorf("second promotion changed the index (-before +after):\n%s", diff)
	}
}

func TestPromoteStopsAtIncompleteParent(t *testing.T) {
	idx, err := Build([]records.Record{
		rec(1, 2000, "HO0001A1"),
		rec(2, 2000, "HO0001A2"),
		rec(3, 2000, "HO0001B1"),
		rec(4, 2000, "HO0001B2"),
	})
	require.NoError(t, err)

	idx.Promote("HO0001A")
	assert.Equal(t, []codes.Code{"HO0001A", "HO0001B1", "HO0001B2"}, idx.Codes())
	assert.False(t, idx.Borne("HO0001"))

	idx.Promote("HO0001B")
	assert.Equal(t, []codes.Code{"HO0001"}, idx.Codes())
	assert.Equal(t, []records.ID{1, 2, 3, 4}, idx.Direct("HO0001").Sorted())
}

func TestCandidateMap(t *testing.T) {
	r := rec(3, 2005, "HO0001A1", "HO0001A2", "HO0001B")
	idx, err := Build([]records.Record{
		rec(1, 2000, "HO0001A1"),
		rec(2, 2000, "HO0001A2"),
		r,
		rec(4, 2000, "HO0001B"),
	})
	require.NoError(t, err)

	cm := idx.CandidateMap(r)
	assert.Equal(t, r.Codes, cm.Own)
	assert.Equal(t, []codes.Code{"HO0001A", "HO0001"}, cm.Ancestors(), "ancestors bubble up deepest first")
	assert.Equal(t, []records.ID{1, 2, 3, 4}, cm.Entries["HO0001"].Sorted())
	assert.Equal(t, []records.ID{1, 3}, cm.Entries["HO0001A1"].Sorted())
}

func TestCandidateMapIncludesCoveredDescendants(t *testing.T) {
	r := rec(2, 2005, "HO0001", "HO0001A", "HO0001B")
	idx, err := Build([]records.Record{rec(1, 2000, "HO0001A"), r})
	require.NoError(t, err)

	cm := idx.CandidateMap(r)
	assert.Contains(t, cm.Entries, codes.Code("HO0001"))
	assert.Empty(t, cm.Ancestors())
}

func TestPartition(t *testing.T) {
	r := rec(3, 2005, "HO0002A", "HO0002B", "HO0002C")
	idx, err := Build([]records.Record{
		r,
		rec(4, 2000, "HO0002C"),
	})
	require.NoError(t, err)

	duplicates, uniques := idx.CandidateMap(r).Partition()
	assert.Equal(t, [][]codes.Code{{"HO0002A", "HO0002B"}}, duplicates)
	assert.Equal(t, []codes.Code{"HO0002C"}, uniques)
}
