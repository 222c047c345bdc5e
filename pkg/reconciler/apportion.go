package reconciler

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/Igorvich/huizen-holland/pkg/arearatio"
	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/constants"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

// apportion divides houses over weights, rounding each share half-even to
// constants.DecimalPlaces. The rounding residue goes to the largest share so
// the shares add up to the rounded parent. An absent parent yields absent
// shares. weights must be positive.
func apportion(houses decimal.NullDecimal, weights []decimal.Decimal) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(weights))
	if !houses.Valid {
		return out
	}

	total := decimal.Zero
	for _, w := range weights {
		total = total.Add(w)
	}
	if !total.IsPositive() {
		return out
	}

	sum := decimal.Zero
	largest := 0
	for i, w := range weights {
		share := houses.Decimal.Mul(w).Div(total).RoundBank(constants.DecimalPlaces)
		out[i] = records.Known(share)
		sum = sum.Add(share)
		if share.GreaterThan(out[largest].Decimal) {
			largest = i
		}
	}
	if residue := houses.Decimal.RoundBank(constants.DecimalPlaces).Sub(sum); !residue.IsZero() {
		out[largest] = records.Known(out[largest].Decimal.Add(residue))
	}
	return out
}

// cell aggregates the singleton records of one code in one year.
type cell struct {
	houses  decimal.Decimal
	known   int
	unknown int
}

func (c cell) add(other cell) cell {
	return cell{
		houses:  c.houses.Add(other.houses),
		known:   c.known + other.known,
		unknown: c.unknown + other.unknown,
	}
}

// complete reports whether the cell has records and all of them are known.
func (c cell) complete() bool {
	return c.known > 0 && c.unknown == 0
}

// yearTable indexes single-code records by year and code.
type yearTable struct {
	years []int
	cells map[int]map[codes.Code]cell
}

func newYearTable(rs []records.Record) *yearTable {
	t := &yearTable{cells: make(map[int]map[codes.Code]cell)}
	for _, r := range rs {
		if r.Ambiguous() {
			continue
		}
		byCode, ok := t.cells[r.Year]
		if !ok {
			byCode = make(map[codes.Code]cell)
			t.cells[r.Year] = byCode
			t.years = append(t.years, r.Year)
		}
		c := byCode[r.Code()]
		if r.Houses.Valid {
			c.houses = c.houses.Add(r.Houses.Decimal)
			c.known++
		} else {
			c.unknown++
		}
		byCode[r.Code()] = c
	}
	slices.Sort(t.years)
	return t
}

// direct returns the cell of code c in year.
func (t *yearTable) direct(year int, c codes.Code) (cell, bool) {
	v, ok := t.cells[year][c]
	return v, ok
}

// subtree sums the cells of c and every descendant of c in year.
func (t *yearTable) subtree(year int, c codes.Code) cell {
	var sum cell
	for code, v := range t.cells[year] {
		if code == c || c.IsAncestorOf(code) {
			sum = sum.add(v)
		}
	}
	return sum
}

// closest returns the first year accepted by ok, visiting years by distance
// from year and earliest first on ties. The year itself is visited only when
// includeOwn is set.
func (t *yearTable) closest(year int, includeOwn bool, ok func(y int) bool) (int, bool) {
	candidates := make([]int, 0, len(t.years))
	for _, y := range t.years {
		if y != year || includeOwn {
			candidates = append(candidates, y)
		}
	}
	slices.SortStableFunc(candidates, func(a, b int) int {
		return distance(a, year) - distance(b, year)
	})
	for _, y := range candidates {
		if ok(y) {
			return y, true
		}
	}
	return 0, false
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// areaWeights returns the own-year area of each target. A target without a
// reliable area borrows the area of its sole child, one level down only.
func areaWeights(areas *arearatio.Table, h *codes.Hierarchy, year int, targets []codes.Code) ([]decimal.Decimal, bool) {
	weights := make([]decimal.Decimal, len(targets))
	for i, c := range targets {
		if areas.Reliable(c, year) {
			weights[i] = areas.Area(c, year).Decimal
			continue
		}
		kids := h.Children(c)
		if len(kids) == 1 && areas.Reliable(kids[0], year) {
			weights[i] = areas.Area(kids[0], year).Decimal
			continue
		}
		return nil, false
	}
	return weights, true
}
