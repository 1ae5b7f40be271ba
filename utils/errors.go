package utils

import (
	"github.com/pkg/errors"
)

// NewNonFiniteValueError is used when a configuration value must be a finite number.
func NewNonFiniteValueError(name string, value float64) error {
	return errors.Errorf("%s must be finite, got %v", name, value)
}

// NewNegativeValueError is used when a configuration value must not be negative.
func NewNegativeValueError(name string, value float64) error {
	return errors.Errorf("%s must not be negative, got %v", name, value)
}
