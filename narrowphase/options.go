package narrowphase

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Options tunes the iterative solvers.
type Options struct {
	GJKMaxIterations int     `json:"gjk_max_iterations" yaml:"gjk_max_iterations" mapstructure:"gjk_max_iterations"`
	GJKTolerance     float64 `json:"gjk_tolerance" yaml:"gjk_tolerance" mapstructure:"gjk_tolerance"`
	EPAMaxIterations int     `json:"epa_max_iterations" yaml:"epa_max_iterations" mapstructure:"epa_max_iterations"`
	EPATolerance     float64 `json:"epa_tolerance" yaml:"epa_tolerance" mapstructure:"epa_tolerance"`
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		GJKMaxIterations: 64,
		GJKTolerance:     1e-10,
		EPAMaxIterations: 128,
		EPATolerance:     1e-8,
	}
}

// Validate returns every problem with the options at once.
func (o Options) Validate() error {
	var err error
	if o.GJKMaxIterations <= 0 {
		err = multierr.Append(err, errors.Errorf("gjk_max_iterations must be positive, got %d", o.GJKMaxIterations))
	}
	if o.GJKTolerance <= 0 {
		err = multierr.Append(err, errors.Errorf("gjk_tolerance must be positive, got %v", o.GJKTolerance))
	}
	if o.EPAMaxIterations <= 0 {
		err = multierr.Append(err, errors.Errorf("epa_max_iterations must be positive, got %d", o.EPAMaxIterations))
	}
	if o.EPATolerance <= 0 {
		err = multierr.Append(err, errors.Errorf("epa_tolerance must be positive, got %v", o.EPATolerance))
	}
	return err
}
