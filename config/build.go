package config

import (
	"go.viam.com/terrain/bvh"
	"go.viam.com/terrain/heightfield"
)

// BuildHeightField constructs the scene's height field fitted with volumes from kind.
func BuildHeightField[T bvh.Volume[T]](cfg *HeightFieldConfig, kind bvh.Kind[T]) (*heightfield.HeightField[T], error) {
	heights, err := cfg.HeightMatrix()
	if err != nil {
		return nil, err
	}
	var hf *heightfield.HeightField[T]
	if cfg.UsesDimensions() {
		hf, err = heightfield.NewFromDimensions(kind, cfg.XDim, cfg.YDim, heights, cfg.MinHeight)
	} else {
		hf, err = heightfield.New(kind, cfg.XGrid, cfg.YGrid, heights, cfg.MinHeight)
	}
	if err != nil {
		return nil, err
	}
	return hf.WithLabel(cfg.Label), nil
}
