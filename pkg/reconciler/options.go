package reconciler

import (
	"github.com/google/uuid"

	"github.com/Igorvich/huizen-holland/pkg/constants"
	"github.com/Igorvich/huizen-holland/pkg/errors"
)

// Options configures a reconciler.
type options struct {
	maxIterations          int
	maxNormalizeIterations int
	tracking               bool
	runID                  string
}

func defaultOptions() *options {
	return &options{
		maxIterations:          constants.DefaultMaxIterations,
		maxNormalizeIterations: constants.DefaultMaxNormalizeIterations,
		tracking:               false,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	if options.runID == "" {
		options.runID = uuid.NewString()
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithMaxIterations caps the merge/split loop.
func WithMaxIterations(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return &errors.ValidationError{
				Field:   "max_iterations",
				Value:   n,
				Message: "must be at least 1",
			}
		}
		o.maxIterations = n
		return nil
	}
}

// WithMaxNormalizeIterations caps the post-convergence normalization loop.
func WithMaxNormalizeIterations(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return &errors.ValidationError{
				Field:   "max_normalize_iterations",
				Value:   n,
				Message: "must be at least 1",
			}
		}
		o.maxNormalizeIterations = n
		return nil
	}
}

// WithProvenance enables per-record derivation tracking.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.tracking = enabled
		return nil
	}
}

// WithRunID sets the run identifier attached to logs and results.
func WithRunID(id string) Option {
	return func(o *options) error {
		if _, err := uuid.Parse(id); err != nil {
			return errors.WrapValidation("run_id", err)
		}
		o.runID = id
		return nil
	}
}
