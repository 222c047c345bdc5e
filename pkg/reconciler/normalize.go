package reconciler

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/errors"
	"github.com/Igorvich/huizen-holland/pkg/logging"
	"github.com/Igorvich/huizen-holland/pkg/provenance"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

// normalize pushes every record on a non-leaf code down to the children of
// that code, and splits records that are still ambiguous, until no record
// needs either.
func (w *workspace) normalize(ctx context.Context, maxIterations int) error {
	logger := logging.FromContext(ctx)

	for pass := 1; ; pass++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", errors.ErrCanceled, err)
		}
		if err := w.rebuild(); err != nil {
			return err
		}

		view := w.store.List()
		years := newYearTable(view)
		cs := &records.Changeset{}
		for _, r := range view {
			targets := w.targets(r)
			if len(targets) == 0 {
				continue
			}
			if pass > maxIterations {
				return errors.NewNonConvergenceError("normalize", maxIterations, w.store.CountAmbiguous())
			}
			cs.Added = append(cs.Added, w.push(r, targets, years)...)
			cs.Removed = append(cs.Removed, r.ID)
		}

		if cs.IsEmpty() {
			w.result.Metadata.Stats.NormalizeIterations = pass - 1
			logger.Debug().Int("passes", pass-1).Msg("Normalization complete")
			return nil
		}

		w.result.enter(pass, StateNormalizing, w.store.CountAmbiguous(), len(cs.Removed))
		w.result.Metadata.Stats.Normalized += len(cs.Removed)
		if err := w.apply(cs); err != nil {
			return err
		}
	}
}

// targets returns the codes r must be divided over, or nil when r already
// sits on a single leaf code.
func (w *workspace) targets(r records.Record) []codes.Code {
	if r.Ambiguous() {
		return r.Codes
	}
	h := w.index.Hierarchy()
	if h.Kind(r.Code()) == codes.KindLeaf {
		return nil
	}
	return h.Children(r.Code())
}

// push divides r over targets. A sole target inherits the record as is.
// Otherwise the closest year with house counts under every target is used,
// then the own-year area, and failing both the targets get no data.
func (w *workspace) push(r records.Record, targets []codes.Code, years *yearTable) []records.Record {
	out := make([]records.Record, len(targets))

	if len(targets) == 1 || !r.Houses.Valid {
		houses := records.Null
		if len(targets) == 1 {
			houses = r.Houses
		}
		for i, t := range targets {
			out[i] = w.derive(r, t, houses, r.Tag, r.YearUsed, provenance.StepNormalize, "inherited from "+r.Link())
		}
		return out
	}

	ref, ok := years.closest(r.Year, true, func(y int) bool {
		for _, t := range targets {
			if c := years.subtree(y, t); c.known == 0 || !c.houses.IsPositive() {
				return false
			}
		}
		return true
	})
	if ok {
		weights := make([]decimal.Decimal, len(targets))
		for i, t := range targets {
			weights[i] = years.subtree(ref, t).houses
		}
		shares := apportion(r.Houses, weights)
		reason := fmt.Sprintf("normalized by houses of %d", ref)
		for i, t := range targets {
			out[i] = w.derive(r, t, shares[i], provenance.TagYear, ref, provenance.StepNormalize, reason)
		}
		return out
	}

	if weights, ok := areaWeights(w.areas, w.index.Hierarchy(), r.Year, targets); ok {
		shares := apportion(r.Houses, weights)
		reason := fmt.Sprintf("normalized by area of %d", r.Year)
		for i, t := range targets {
			out[i] = w.derive(r, t, shares[i], provenance.TagSurface, 0, provenance.StepNormalize, reason)
		}
		return out
	}

	gap := errors.NewApportionmentGap(r.ID.String(), r.Year, codes.Strings(r.Codes),
		"no reference year or area data for "+codes.Join(targets))
	w.result.Gaps = append(w.result.Gaps, gap)
	w.logger.Warn().
		Str("record", gap.RecordID).
		Int("year", gap.Year).
		Str("link", r.Link()).
		Str("houses", r.Houses.Decimal.String()).
		Msg("Record could not be apportioned")

	for i, t := range targets {
		out[i] = w.derive(r, t, records.Null, provenance.TagNoData, 0, provenance.StepNormalize, gap.Reason)
	}
	return out
}
