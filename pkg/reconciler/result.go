package reconciler

import (
	"fmt"
	"time"

	"github.com/Igorvich/huizen-holland/pkg/errors"
	"github.com/Igorvich/huizen-holland/pkg/provenance"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

// Result represents the outcome of a reconciliation run.
type Result struct {
	// Store is the reconciled record set; every record carries one leaf code.
	Store *records.Store

	// Gaps lists the records no strategy could apportion.
	Gaps []*errors.ApportionmentGap

	// Timeline lists the state transitions of the run in order.
	Timeline []Transition

	// Provenance holds per-record events when tracking is enabled
	Provenance provenance.Map

	// Metadata
	Metadata ResultMetadata
}

// Transition records entering a state during one iteration.
type Transition struct {
	Iteration int
	State     State
	Ambiguous int
	Changes   int
}

// ResultMetadata contains metadata about the reconciliation process.
type ResultMetadata struct {
	// RunID identifies the run in logs and outputs
	RunID string

	// StartTime when reconciliation started
	StartTime time.Time

	// EndTime when reconciliation completed
	EndTime time.Time

	// Duration of the reconciliation
	Duration time.Duration

	// Statistics about the reconciliation
	Stats ResultStatistics
}

// ResultStatistics contains statistics about the reconciliation.
type ResultStatistics struct {
	InputRecords        int
	OutputRecords       int
	AmbiguousRecords    int // ambiguous records in the input
	Iterations          int
	NormalizeIterations int
	Promotions          int
	SplitsByHouses      int
	SplitsByArea        int
	NullSplits          int
	Normalized          int
	Gaps                int
	TotalTimeMs         int64
}

// HasGaps returns true if any record ended without data.
func (r *Result) HasGaps() bool {
	return len(r.Gaps) > 0
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	msg := fmt.Sprintf("Reconciled %d records into %d in %d iterations (%d promotions, %d splits by houses, %d by area).",
		s.InputRecords, s.OutputRecords, s.Iterations, s.Promotions, s.SplitsByHouses, s.SplitsByArea)
	if r.HasGaps() {
		msg += fmt.Sprintf(" %d records could not be apportioned.", len(r.Gaps))
	}
	return msg
}

// NewResult creates a new result with defaults.
func NewResult(runID string) *Result {
	return &Result{
		Gaps:     []*errors.ApportionmentGap{},
		Timeline: []Transition{},
		Metadata: ResultMetadata{
			RunID:     runID,
			StartTime: time.Now(),
		},
	}
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
	r.Metadata.Stats.TotalTimeMs = r.Metadata.Duration.Milliseconds()
	r.Metadata.Stats.Gaps = len(r.Gaps)
	if r.Store != nil {
		r.Metadata.Stats.OutputRecords = r.Store.Len()
	}
}

func (r *Result) enter(iteration int, state State, ambiguous, changes int) {
	r.Timeline = append(r.Timeline, Transition{
		Iteration: iteration,
		State:     state,
		Ambiguous: ambiguous,
		Changes:   changes,
	})
}
