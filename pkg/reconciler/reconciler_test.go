package reconciler_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Igorvich/huizen-holland/pkg/arearatio"
	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/errors"
	"github.com/Igorvich/huizen-holland/pkg/logging"
	"github.com/Igorvich/huizen-holland/pkg/provenance"
	"github.com/Igorvich/huizen-holland/pkg/reconciler"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

func run(t *testing.T, store *records.Store, areas *arearatio.Table, opts ...reconciler.Option) *reconciler.Result {
	t.Helper()
	r, err := reconciler.New(opts...)
	require.NoError(t, err)
	ctx := logging.WithLogger(context.Background(), logging.NewNopLogger())
	result, err := r.Run(ctx, store, areas)
	require.NoError(t, err)
	return result
}

// find returns the single record of year on code c.
func find(t *testing.T, store *records.Store, year int, c codes.Code) records.Record {
	t.Helper()
	var found []records.Record
	for _, r := range store.List() {
		if r.Year == year && r.Code() == c {
			found = append(found, r)
		}
	}
	require.Len(t, found, 1, "records on %s in %d", c, year)
	return found[0]
}

func assertHouses(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()
	require.True(t, got.Valid, "houses should be known")
	assert.True(t, decimal.RequireFromString(want).Equal(got.Decimal), "want %s, got %s", want, got.Decimal)
}

func area(code codes.Code, year int, v string) arearatio.Entry {
	return arearatio.Entry{Code: code, Year: year, Area: records.Known(decimal.RequireFromString(v))}
}

func TestSplitByReferenceYear(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 2000, Houses: "10", Link: "HO0001A"},
		reconciler.TestRow{Year: 2000, Houses: "30", Link: "HO0001B"},
		reconciler.TestRow{Year: 2005, Houses: "80", Link: "HO0001A-HO0001B"},
	)

	result := run(t, store, nil)

	a := find(t, store, 2005, "HO0001A")
	b := find(t, store, 2005, "HO0001B")
	assertHouses(t, "20.000", a.Houses)
	assertHouses(t, "60.000", b.Houses)
	assert.Equal(t, provenance.TagYearSource, a.Tag)
	assert.Equal(t, 2000, a.YearUsed)
	assert.Equal(t, "Year 2000: Source", a.Label(provenance.English))
	assert.Equal(t, "Jaar 2000: Bron", b.Label(provenance.Dutch))
	assert.Equal(t, records.ID(3), a.Parent)

	assert.Equal(t, 4, store.Len())
	assert.Equal(t, 1, result.Metadata.Stats.SplitsByHouses)
	assert.Equal(t, 1, result.Metadata.Stats.Iterations)
	assert.Empty(t, result.Gaps)
}

func TestUnknownHousesSplitWithoutData(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 2005, Link: "HO0002A-HO0002B"},
	)

	result := run(t, store, nil)

	require.Equal(t, 2, store.Len())
	for _, c := range []codes.Code{"HO0002A", "HO0002B"} {
		r := find(t, store, 2005, c)
		assert.False(t, r.Houses.Valid, "%s keeps unknown houses", c)
		assert.Equal(t, provenance.TagSource, r.Tag)
	}
	assert.Equal(t, 1, result.Metadata.Stats.NullSplits)
	assert.Equal(t, 2, result.Metadata.Stats.Iterations)
	assert.Empty(t, result.Gaps)
}

func TestZeroAreaIsNoSignal(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 1930, Houses: "100", Link: "HO0003A-HO0003B"},
	)
	areas := arearatio.New([]arearatio.Entry{
		area("HO0003A", 1930, "0"),
		area("HO0003B", 1930, "5"),
	})

	result := run(t, store, areas)

	assert.Zero(t, result.Metadata.Stats.SplitsByArea)
	require.Len(t, result.Gaps, 1)
	assert.True(t, errors.IsApportionmentGap(result.Gaps[0]))
	assert.Equal(t, "1", result.Gaps[0].RecordID)

	for _, c := range []codes.Code{"HO0003A", "HO0003B"} {
		r := find(t, store, 1930, c)
		assert.False(t, r.Houses.Valid)
		assert.Equal(t, provenance.TagNoData, r.Tag)
		assert.Equal(t, "No data", r.Label(provenance.English))
	}
}

func TestSplitByArea(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 1930, Houses: "100", Link: "HO0003A-HO0003B"},
	)
	areas := arearatio.New([]arearatio.Entry{
		area("HO0003A", 1930, "1"),
		area("HO0003B", 1930, "5"),
	})

	result := run(t, store, areas)

	a := find(t, store, 1930, "HO0003A")
	b := find(t, store, 1930, "HO0003B")
	assertHouses(t, "16.667", a.Houses)
	assertHouses(t, "83.333", b.Houses)
	assert.Equal(t, "Year 1930: Surface", a.Label(provenance.English))
	assert.Equal(t, provenance.TagYearSurface, b.Tag)
	assert.Equal(t, 1930, b.YearUsed)
	assert.Equal(t, 1, result.Metadata.Stats.SplitsByArea)
}

func TestAreaFromSoleChild(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 1930, Houses: "90", Link: "HO0005A-HO0005B"},
		reconciler.TestRow{Year: 1899, Link: "HO0005B1"},
	)
	areas := arearatio.New([]arearatio.Entry{
		area("HO0005A", 1930, "2"),
		area("HO0005B1", 1930, "1"),
	})

	run(t, store, areas)

	assertHouses(t, "60", find(t, store, 1930, "HO0005A").Houses)
	// HO0005B is not a leaf; normalization moves its share to the sole child.
	assertHouses(t, "30", find(t, store, 1930, "HO0005B1").Houses)
}

func TestConservation(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 1900, Houses: "1", Link: "HO0006A"},
		reconciler.TestRow{Year: 1900, Houses: "1", Link: "HO0006B"},
		reconciler.TestRow{Year: 1900, Houses: "1", Link: "HO0006C"},
		reconciler.TestRow{Year: 1910, Houses: "100", Link: "HO0006A-HO0006B-HO0006C"},
		reconciler.TestRow{Year: 1920, Houses: "7.5", Link: "HO0006A-HO0006C"},
	)
	before := map[int]decimal.Decimal{}
	for _, y := range store.Years() {
		before[y], _ = store.Total(y)
	}

	run(t, store, nil)

	for y, want := range before {
		got, ok := store.Total(y)
		require.True(t, ok)
		assert.True(t, want.Equal(got), "year %d: want %s, got %s", y, want, got)
	}
	assertHouses(t, "33.334", find(t, store, 1910, "HO0006A").Houses)
	assertHouses(t, "33.333", find(t, store, 1910, "HO0006B").Houses)
	assertHouses(t, "3.75", find(t, store, 1920, "HO0006C").Houses)
}

func TestClosestYearTieBreaksEarliest(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 1990, Houses: "1", Link: "HO0007A"},
		reconciler.TestRow{Year: 1990, Houses: "3", Link: "HO0007B"},
		reconciler.TestRow{Year: 2010, Houses: "1", Link: "HO0007A"},
		reconciler.TestRow{Year: 2010, Houses: "1", Link: "HO0007B"},
		reconciler.TestRow{Year: 2000, Houses: "40", Link: "HO0007A-HO0007B"},
	)

	run(t, store, nil)

	a := find(t, store, 2000, "HO0007A")
	assertHouses(t, "10", a.Houses)
	assert.Equal(t, 1990, a.YearUsed)
}

func TestReferenceYearWithUnknownHousesIsSkipped(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 2001, Houses: "1", Link: "HO0008A"},
		reconciler.TestRow{Year: 2001, Link: "HO0008B"},
		reconciler.TestRow{Year: 1990, Houses: "1", Link: "HO0008A"},
		reconciler.TestRow{Year: 1990, Houses: "4", Link: "HO0008B"},
		reconciler.TestRow{Year: 2000, Houses: "50", Link: "HO0008A-HO0008B"},
	)

	run(t, store, nil)

	b := find(t, store, 2000, "HO0008B")
	assertHouses(t, "40", b.Houses)
	assert.Equal(t, 1990, b.YearUsed)
}

func TestPromotion(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 1990, Houses: "50", Link: "HO0004"},
		reconciler.TestRow{Year: 2000, Houses: "60", Link: "HO0004A-HO0004B"},
	)

	result := run(t, store, nil)

	promoted := find(t, store, 2000, "HO0004")
	assert.Equal(t, records.ID(2), promoted.ID, "promotion keeps the record")
	assertHouses(t, "60", promoted.Houses)
	assert.Equal(t, provenance.TagSource, promoted.Tag)
	assert.Equal(t, 1, result.Metadata.Stats.Promotions)
	assert.Equal(t, 2, store.Len())
}

func TestPromotionBlockedByArea(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 1990, Houses: "50", Link: "HO0004"},
		reconciler.TestRow{Year: 2000, Houses: "60", Link: "HO0004A-HO0004B"},
	)
	areas := arearatio.New([]arearatio.Entry{
		area("HO0004A", 2000, "2"),
		area("HO0004B", 2000, "3"),
	})

	result := run(t, store, areas)

	assert.Zero(t, result.Metadata.Stats.Promotions)
	assertHouses(t, "24", find(t, store, 2000, "HO0004A").Houses)
	assertHouses(t, "36", find(t, store, 2000, "HO0004B").Houses)

	// The 1990 parent record is pushed down by the 2000 split.
	a := find(t, store, 1990, "HO0004A")
	assertHouses(t, "20", a.Houses)
	assert.Equal(t, "Year 2000", a.Label(provenance.English))
	assertHouses(t, "30", find(t, store, 1990, "HO0004B").Houses)
}

func TestNonConvergence(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 2005, Link: "HO0002A-HO0002B"},
	)
	r, err := reconciler.New(reconciler.WithMaxIterations(1))
	require.NoError(t, err)

	_, err = r.Run(logging.WithLogger(context.Background(), logging.NewNopLogger()), store, nil)
	require.Error(t, err)
	assert.True(t, errors.IsNonConvergence(err))

	var nce *errors.NonConvergenceError
	require.ErrorAs(t, err, &nce)
	assert.Equal(t, 1, nce.Ambiguous)
	assert.Equal(t, "reconcile", nce.Phase)
}

func TestTermination(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 1900, Houses: "12", Link: "HO0010A1-HO0010A2-HO0010B"},
		reconciler.TestRow{Year: 1910, Houses: "4", Link: "HO0010A1"},
		reconciler.TestRow{Year: 1910, Link: "HO0010A2-HO0010B"},
		reconciler.TestRow{Year: 1920, Houses: "9", Link: "HO0010"},
		reconciler.TestRow{Year: 1920, Houses: "2", Link: "GM0344-HO0010B"},
	)

	result := run(t, store, nil)

	require.NotEmpty(t, result.Timeline)
	assert.Contains(t, stateList(result), reconciler.StateConverged)
	assert.Equal(t, 0, store.CountAmbiguous())
	assert.True(t, reconciler.Validate(store, hierarchyOf(t, store)).IsValid())
}

func TestValidateRejectsNonLeafCodes(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 1990, Houses: "50", Link: "HO0004"},
		reconciler.TestRow{Year: 2000, Houses: "20", Link: "HO0004A"},
		reconciler.TestRow{Year: 2000, Link: "GM0344"},
	)

	v := reconciler.Validate(store, hierarchyOf(t, store))
	assert.False(t, v.IsValid())
	require.Len(t, v.Errors, 1)
	assert.Equal(t, "code HO0004 is not a leaf", v.Errors[0].Message)
	require.Len(t, v.Warnings, 1, "unknown houses are only a warning")
	assert.Equal(t, "GM0344", v.Warnings[0].Link)
}

func TestProvenanceCoverage(t *testing.T) {
	store := reconciler.NewTestStore(
		reconciler.TestRow{Year: 2000, Houses: "10", Link: "HO0001A"},
		reconciler.TestRow{Year: 2000, Houses: "30", Link: "HO0001B"},
		reconciler.TestRow{Year: 2005, Houses: "80", Link: "HO0001A-HO0001B"},
		reconciler.TestRow{Year: 1980, Houses: "5", Link: "HO0001"},
	)

	result := run(t, store, nil, reconciler.WithProvenance(true))

	for _, r := range store.List() {
		assert.True(t, r.Tag.Valid(), "record %s has a tag", r.ID)
		assert.NotEmpty(t, result.Provenance[r.ID.String()], "record %s has history", r.ID)
	}
	assert.Empty(t, provenance.Audit(result.Provenance))
}

func TestRunOptions(t *testing.T) {
	_, err := reconciler.New(reconciler.WithMaxIterations(0))
	assert.True(t, errors.IsValidationError(err))

	_, err = reconciler.New(reconciler.WithRunID("not-a-uuid"))
	assert.True(t, errors.IsValidationError(err))

	r, err := reconciler.New(reconciler.WithRunID("0b7c8a52-8c1e-4f39-9d43-0d6d2c0b1a11"))
	require.NoError(t, err)
	result, err := r.Run(context.Background(), records.NewStore(), nil)
	require.NoError(t, err)
	assert.Equal(t, "0b7c8a52-8c1e-4f39-9d43-0d6d2c0b1a11", result.Metadata.RunID)

	_, err = r.Run(context.Background(), nil, nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := reconciler.New()
	require.NoError(t, err)
	_, err = r.Run(ctx, reconciler.NewTestStore(reconciler.TestRow{Year: 2000, Houses: "1", Link: "HO0001A-HO0001B"}), nil)
	assert.True(t, errors.IsCanceled(err))
}

func TestRunLogsGaps(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	r, err := reconciler.New()
	require.NoError(t, err)
	_, err = r.Run(ctx, reconciler.NewTestStore(reconciler.TestRow{Year: 1930, Houses: "3", Link: "HO0003A-HO0003B"}), nil)
	require.NoError(t, err)

	tl.AssertContains(t, "Record could not be apportioned")
	tl.AssertContains(t, `"run_id"`)
}

func stateList(result *reconciler.Result) []reconciler.State {
	out := make([]reconciler.State, len(result.Timeline))
	for i, tr := range result.Timeline {
		out[i] = tr.State
	}
	return out
}

func hierarchyOf(t *testing.T, store *records.Store) *codes.Hierarchy {
	t.Helper()
	h := codes.NewHierarchy()
	require.NoError(t, h.Rebuild(store.Codes()))
	return h
}
