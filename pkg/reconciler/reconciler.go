// Package reconciler resolves records that carry several area codes into
// single-code, leaf-level records. It alternates between promoting complete
// sibling sets to their parent and splitting records by historical house
// counts or by declared area until neither makes progress, then pushes the
// remaining records down to leaf codes.
package reconciler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Igorvich/huizen-holland/pkg/arearatio"
	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/errors"
	"github.com/Igorvich/huizen-holland/pkg/index"
	"github.com/Igorvich/huizen-holland/pkg/logging"
	"github.com/Igorvich/huizen-holland/pkg/provenance"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

// Reconciler is the main interface for reconciling ambiguous records.
type Reconciler interface {
	// Run reconciles store in place. areas may be nil when no area data exists.
	Run(ctx context.Context, store *records.Store, areas *arearatio.Table) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	options *options
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{options: options}, nil
}

// workspace is the state owned by one run.
type workspace struct {
	store   *records.Store
	areas   *arearatio.Table
	index   *index.Index
	tracker provenance.Tracker
	logger  *zerolog.Logger
	result  *Result
	dirty   bool
}

// Run performs reconciliation: merge/split loop, then normalization.
func (r *reconciler) Run(ctx context.Context, store *records.Store, areas *arearatio.Table) (*Result, error) {
	if store == nil {
		return nil, &errors.ValidationError{
			Field:   "store",
			Message: "cannot be nil",
		}
	}
	if areas == nil {
		areas = arearatio.Empty()
	}

	ctx = logging.WithRunID(ctx, r.options.runID)
	result := NewResult(r.options.runID)
	result.Store = store

	w := &workspace{
		store:   store,
		areas:   areas,
		index:   index.New(nil),
		tracker: provenance.NewTracker(r.options.tracking),
		logger:  logging.FromContext(ctx),
		result:  result,
		dirty:   true,
	}

	result.Metadata.Stats.InputRecords = store.Len()
	result.Metadata.Stats.AmbiguousRecords = store.CountAmbiguous()
	w.trackInput()

	w.logger.Info().
		Int("records", store.Len()).
		Int("ambiguous", result.Metadata.Stats.AmbiguousRecords).
		Int("area_codes", areas.Len()).
		Msg("Starting reconciliation")

	if err := w.converge(logging.WithPhase(ctx, "reconcile"), r.options.maxIterations); err != nil {
		return nil, err
	}
	if err := w.normalize(logging.WithPhase(ctx, "normalize"), r.options.maxNormalizeIterations); err != nil {
		return nil, err
	}
	if err := w.rebuild(); err != nil {
		return nil, err
	}

	validation := Validate(store, w.index.Hierarchy())
	for _, warning := range validation.Warnings {
		w.logger.Debug().Str("record", warning.RecordID).Msg(warning.Message)
	}
	if !validation.IsValid() {
		first := validation.Errors[0]
		return nil, errors.NewValidationError("record", first.RecordID, first.Message)
	}

	result.Provenance = w.tracker.Map()
	result.Finalize()

	w.logger.Info().
		Int("records", result.Metadata.Stats.OutputRecords).
		Int("iterations", result.Metadata.Stats.Iterations).
		Int("gaps", len(result.Gaps)).
		Dur("duration", result.Metadata.Duration).
		Msg("Reconciliation complete")

	return result, nil
}

// converge runs the merge/split loop. An iteration with no changes switches
// strategy; two in a row end the loop.
func (w *workspace) converge(ctx context.Context, maxIterations int) error {
	logger := logging.FromContext(ctx)
	mode := StrategyTypeHouses
	stalls := 0

	for iteration := 1; ; iteration++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", errors.ErrCanceled, err)
		}

		ambiguous := w.store.CountAmbiguous()
		if ambiguous == 0 || stalls >= 2 {
			w.result.Metadata.Stats.Iterations = iteration - 1
			w.result.enter(iteration-1, StateConverged, ambiguous, 0)
			logger.Debug().
				Int("iterations", iteration-1).
				Int("ambiguous", ambiguous).
				Msg("Converged")
			return nil
		}
		if iteration > maxIterations {
			return errors.NewNonConvergenceError("reconcile", maxIterations, ambiguous)
		}

		if err := w.rebuild(); err != nil {
			return err
		}
		w.result.enter(iteration, StateScanning, ambiguous, 0)

		cs := w.iterate(iteration, mode)
		if cs.IsEmpty() {
			stalls++
			logger.Debug().
				Int("iteration", iteration).
				Str("strategy", mode.String()).
				Int("ambiguous", ambiguous).
				Msg("No progress, switching strategy")
			mode = mode.Toggle()
			continue
		}

		if err := w.apply(cs); err != nil {
			return err
		}
		logger.Debug().
			Int("iteration", iteration).
			Str("strategy", mode.String()).
			Int("added", len(cs.Added)).
			Int("updated", len(cs.Updated)).
			Int("removed", len(cs.Removed)).
			Int("ambiguous", w.store.CountAmbiguous()).
			Msg("Iteration applied")
		stalls = 0
		mode = StrategyTypeHouses
	}
}

// iterate runs one promotion pass and one split pass and returns the changes
// without applying them.
func (w *workspace) iterate(iteration int, mode StrategyType) *records.Changeset {
	pending := make(map[records.ID]records.Record)
	if n := w.promote(pending); n > 0 {
		w.result.Metadata.Stats.Promotions += n
		w.result.enter(iteration, StatePromoting, w.store.CountAmbiguous(), n)
	}

	view := w.view(pending)
	years := newYearTable(view)
	cs := &records.Changeset{}
	splits := 0
	for _, r := range view {
		if !r.Ambiguous() {
			continue
		}
		children, ok := w.split(mode, r, years)
		if !ok {
			continue
		}
		cs.Added = append(cs.Added, children...)
		cs.Removed = append(cs.Removed, r.ID)
		delete(pending, r.ID)
		splits++
	}
	w.result.enter(iteration, mode.State(), w.store.CountAmbiguous(), splits)

	for _, r := range view {
		if updated, ok := pending[r.ID]; ok {
			cs.Updated = append(cs.Updated, updated)
		}
	}
	return cs
}

// view returns the records of the store with pending updates applied.
func (w *workspace) view(pending map[records.ID]records.Record) []records.Record {
	list := w.store.List()
	for i, r := range list {
		if updated, ok := pending[r.ID]; ok {
			list[i] = updated
		}
	}
	return list
}

// rebuild re-derives hierarchy and index when the store changed.
func (w *workspace) rebuild() error {
	if !w.dirty {
		return nil
	}
	if err := w.index.Rebuild(w.store.List()); err != nil {
		return err
	}
	w.dirty = false
	return nil
}

func (w *workspace) apply(cs *records.Changeset) error {
	if _, err := w.store.Apply(cs); err != nil {
		return errors.WrapResource("apply", "changeset", "", err)
	}
	w.dirty = true
	return nil
}

// derive creates a child of parent on code c with a reserved id.
func (w *workspace) derive(parent records.Record, c codes.Code, houses decimal.NullDecimal, tag provenance.Tag, yearUsed int, step provenance.Step, reason string) records.Record {
	child := parent.Derive(c, houses)
	child.ID = w.store.NextID()
	child.Tag = tag
	child.YearUsed = yearUsed
	w.track(child, step, reason)
	return child
}

func (w *workspace) track(r records.Record, step provenance.Step, reason string) {
	if !w.tracker.Enabled() {
		return
	}
	e := provenance.Event{
		Record:   r.ID.String(),
		Step:     step,
		Tag:      r.Tag,
		YearUsed: r.YearUsed,
		Codes:    codes.Strings(r.Codes),
		Reason:   reason,
	}
	if r.Parent != 0 {
		e.Parent = r.Parent.String()
	}
	w.tracker.Track(e)
}

func (w *workspace) trackInput() {
	if !w.tracker.Enabled() {
		return
	}
	for _, r := range w.store.List() {
		w.track(r, provenance.StepLoad, "")
	}
}
