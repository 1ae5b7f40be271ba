package spatialmath

import (
	"github.com/pkg/errors"
)

// NewBadGeometryDimensionsError returns an error indicating that the shape has invalid dimensions.
func NewBadGeometryDimensionsError(s Shape) error {
	return errors.Errorf("invalid dimension(s) for %T", s)
}

func newBadCapsuleLengthError(length, radius float64) error {
	return errors.Errorf("capsule length %.3f must be at least twice its radius %.3f", length, radius)
}

func newBadConvexError(kind string, numPoints, wantPoints int) error {
	return errors.Errorf("%s needs %d points, got %d", kind, wantPoints, numPoints)
}

func newBadFaceIndexError(face, index, numPoints int) error {
	return errors.Errorf("face %d references point %d but only %d points exist", face, index, numPoints)
}
