package reconciler

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Igorvich/huizen-holland/pkg/provenance"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

// split apportions an ambiguous record over its codes with the strategy of
// the current mode. In by-area mode a record with unknown houses that area
// cannot split is still divided, into records with unknown houses.
func (w *workspace) split(mode StrategyType, r records.Record, years *yearTable) ([]records.Record, bool) {
	if mode == StrategyTypeHouses {
		children, ok := w.splitByHouses(r, years)
		if ok {
			w.result.Metadata.Stats.SplitsByHouses++
		}
		return children, ok
	}

	if children, ok := w.splitByArea(r); ok {
		w.result.Metadata.Stats.SplitsByArea++
		return children, true
	}
	if !r.Houses.Valid {
		w.result.Metadata.Stats.NullSplits++
		return w.splitNull(r), true
	}
	return nil, false
}

// splitByHouses uses the closest other year in which every code of r has a
// single-code record. A known parent needs complete reference counts with a
// positive total; an unknown parent only needs the codes to be present.
func (w *workspace) splitByHouses(r records.Record, years *yearTable) ([]records.Record, bool) {
	ref, ok := years.closest(r.Year, false, func(y int) bool {
		total := decimal.Zero
		for _, c := range r.Codes {
			v, found := years.direct(y, c)
			if !found {
				return false
			}
			if r.Houses.Valid {
				if !v.complete() {
					return false
				}
				total = total.Add(v.houses)
			}
		}
		return !r.Houses.Valid || total.IsPositive()
	})
	if !ok {
		return nil, false
	}

	weights := make([]decimal.Decimal, len(r.Codes))
	for i, c := range r.Codes {
		v, _ := years.direct(ref, c)
		weights[i] = v.houses
	}

	reason := fmt.Sprintf("split by houses of %d", ref)
	shares := apportion(r.Houses, weights)
	children := make([]records.Record, len(r.Codes))
	for i, c := range r.Codes {
		children[i] = w.derive(r, c, shares[i], provenance.TagYearSource, ref, provenance.StepSplit, reason)
	}
	return children, true
}

// splitByArea uses the declared area of each code in the record's own year.
func (w *workspace) splitByArea(r records.Record) ([]records.Record, bool) {
	weights, ok := areaWeights(w.areas, w.index.Hierarchy(), r.Year, r.Codes)
	if !ok {
		return nil, false
	}

	reason := fmt.Sprintf("split by area of %d", r.Year)
	shares := apportion(r.Houses, weights)
	children := make([]records.Record, len(r.Codes))
	for i, c := range r.Codes {
		children[i] = w.derive(r, c, shares[i], provenance.TagYearSurface, r.Year, provenance.StepSplit, reason)
	}
	return children, true
}

// splitNull divides a record with unknown houses into one unknown record per code.
func (w *workspace) splitNull(r records.Record) []records.Record {
	children := make([]records.Record, len(r.Codes))
	for i, c := range r.Codes {
		children[i] = w.derive(r, c, records.Null, provenance.TagSource, 0, provenance.StepSplit, "unknown houses split without apportioning")
	}
	return children
}
