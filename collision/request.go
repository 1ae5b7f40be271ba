package collision

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/terrain/utils"
)

// DefaultCollisionDistanceThreshold is the distance at or below which two objects are considered in contact.
const DefaultCollisionDistanceThreshold = 1e-12

// CollisionRequest configures a collision or intersection query. It is read only during the query.
type CollisionRequest struct {
	// SecurityMargin inflates the height field along its top normal before contacts are decided.
	SecurityMargin             float64 `json:"security_margin" yaml:"security_margin" mapstructure:"security_margin"`
	CollisionDistanceThreshold float64 `json:"collision_distance_threshold" yaml:"collision_distance_threshold" mapstructure:"collision_distance_threshold"`
	NumMaxContacts             int     `json:"num_max_contacts" yaml:"num_max_contacts" mapstructure:"num_max_contacts"`
	EnableStatistics           bool    `json:"enable_statistics" yaml:"enable_statistics" mapstructure:"enable_statistics"`
}

// NewCollisionRequest returns a request for a single contact with no margin.
func NewCollisionRequest() CollisionRequest {
	return CollisionRequest{
		CollisionDistanceThreshold: DefaultCollisionDistanceThreshold,
		NumMaxContacts:             1,
	}
}

// Validate returns every problem with the request at once.
func (r CollisionRequest) Validate() error {
	var err error
	err = validateFinite(err, "security margin", r.SecurityMargin)
	err = validateFinite(err, "collision distance threshold", r.CollisionDistanceThreshold)
	if r.NumMaxContacts < 1 {
		err = multierr.Append(err, errors.Errorf("num max contacts must be at least 1, got %d", r.NumMaxContacts))
	}
	return err
}

// DistanceRequest configures a distance query. The tolerances let the descent skip subtrees that can only
// improve the result by a small amount.
type DistanceRequest struct {
	AbsErr           float64 `json:"abs_err" yaml:"abs_err" mapstructure:"abs_err"`
	RelErr           float64 `json:"rel_err" yaml:"rel_err" mapstructure:"rel_err"`
	EnableStatistics bool    `json:"enable_statistics" yaml:"enable_statistics" mapstructure:"enable_statistics"`
}

// NewDistanceRequest returns a request for the exact minimum distance.
func NewDistanceRequest() DistanceRequest {
	return DistanceRequest{}
}

// Validate returns every problem with the request at once.
func (r DistanceRequest) Validate() error {
	var err error
	err = validateFinite(err, "abs err", r.AbsErr)
	err = validateFinite(err, "rel err", r.RelErr)
	if r.AbsErr < 0 {
		err = multierr.Append(err, utils.NewNegativeValueError("abs err", r.AbsErr))
	}
	if r.RelErr < 0 {
		err = multierr.Append(err, utils.NewNegativeValueError("rel err", r.RelErr))
	}
	return err
}
