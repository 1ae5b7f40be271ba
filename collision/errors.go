package collision

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/terrain/utils"
)

// DegenerateCellError is returned when a cell has no height above the base plane, so no solid can be built
// over it. This means the height field was built with a base plane at or above its samples.
type DegenerateCellError struct {
	X, Y      int
	MaxHeight float64
	MinHeight float64
}

func (e *DegenerateCellError) Error() string {
	return fmt.Sprintf("degenerate height field cell (%d, %d): max height %v is not above min height %v",
		e.X, e.Y, e.MaxHeight, e.MinHeight)
}

// IsDegenerateCell reports whether err was caused by a degenerate cell.
func IsDegenerateCell(err error) bool {
	var target *DegenerateCellError
	return errors.As(err, &target)
}

func validateFinite(err error, name string, v float64) error {
	if !utils.IsFinite(v) {
		return multierr.Append(err, utils.NewNonFiniteValueError(name, v))
	}
	return err
}
