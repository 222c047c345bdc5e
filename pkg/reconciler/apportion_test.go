package reconciler

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestApportion(t *testing.T) {
	tests := []struct {
		name    string
		houses  decimal.NullDecimal
		weights []decimal.Decimal
		want    []string
	}{
		{name: "exact", houses: records.Known(dec("80")), weights: []decimal.Decimal{dec("10"), dec("30")}, want: []string{"20", "60"}},
		{name: "residue to largest", houses: records.Known(dec("100")), weights: []decimal.Decimal{dec("1"), dec("2"), dec("3")}, want: []string{"16.667", "33.333", "50"}},
		{name: "thirds", houses: records.Known(dec("1")), weights: []decimal.Decimal{dec("1"), dec("1"), dec("1")}, want: []string{"0.334", "0.333", "0.333"}},
		{name: "half even", houses: records.Known(dec("0.005")), weights: []decimal.Decimal{dec("1"), dec("1")}, want: []string{"0.003", "0.002"}},
		{name: "zero weight", houses: records.Known(dec("9")), weights: []decimal.Decimal{dec("0"), dec("3")}, want: []string{"0", "9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apportion(tt.houses, tt.weights)
			require.Len(t, got, len(tt.want))
			sum := decimal.Zero
			for i, w := range tt.want {
				require.True(t, got[i].Valid)
				assert.True(t, dec(w).Equal(got[i].Decimal), "share %d: want %s, got %s", i, w, got[i].Decimal)
				sum = sum.Add(got[i].Decimal)
			}
			assert.True(t, tt.houses.Decimal.RoundBank(3).Equal(sum))
		})
	}
}

func TestApportionUnknown(t *testing.T) {
	got := apportion(records.Null, []decimal.Decimal{dec("1"), dec("2")})
	require.Len(t, got, 2)
	assert.False(t, got[0].Valid)
	assert.False(t, got[1].Valid)

	got = apportion(records.Known(dec("5")), []decimal.Decimal{dec("0"), dec("0")})
	assert.False(t, got[0].Valid, "no weight means no share")
}

func TestYearTable(t *testing.T) {
	yt := newYearTable([]records.Record{
		{Year: 1990, Houses: records.Known(dec("2")), Codes: []codes.Code{"HO0001A1"}},
		{Year: 1990, Houses: records.Known(dec("3")), Codes: []codes.Code{"HO0001A2"}},
		{Year: 1990, Houses: records.Null, Codes: []codes.Code{"HO0001B"}},
		{Year: 1990, Houses: records.Known(dec("100")), Codes: []codes.Code{"HO0001A", "HO0001B"}},
		{Year: 2010, Houses: records.Known(dec("1")), Codes: []codes.Code{"HO0001B"}},
	})

	a := yt.subtree(1990, "HO0001A")
	assert.Equal(t, 2, a.known)
	assert.True(t, dec("5").Equal(a.houses))

	b, ok := yt.direct(1990, "HO0001B")
	require.True(t, ok)
	assert.False(t, b.complete())

	_, ok = yt.direct(1990, "HO0001A")
	assert.False(t, ok, "ambiguous records are not indexed")

	y, ok := yt.closest(2000, false, func(int) bool { return true })
	require.True(t, ok)
	assert.Equal(t, 1990, y, "ties go to the earliest year")

	y, ok = yt.closest(2010, true, func(int) bool { return true })
	require.True(t, ok)
	assert.Equal(t, 2010, y)

	_, ok = yt.closest(2010, false, func(y int) bool { return y > 2010 })
	assert.False(t, ok)
}

func TestSubstitute(t *testing.T) {
	group := []codes.Code{"HO0001A", "HO0001B"}
	assert.Equal(t,
		[]codes.Code{"HO0002", "HO0001", "HO0003"},
		substitute([]codes.Code{"HO0002", "HO0001A", "HO0003", "HO0001B"}, group, "HO0001"))
	assert.Equal(t,
		[]codes.Code{"HO0001"},
		substitute([]codes.Code{"HO0001", "HO0001A", "HO0001B"}, group, "HO0001"))
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "Splitting By Houses", StateSplittingByHouses.Name())
	assert.Equal(t, StateSplittingByArea, StrategyTypeArea.State())
	assert.Equal(t, StrategyTypeHouses, StrategyTypeArea.Toggle())
}
