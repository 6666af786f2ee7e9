package lensing

import "errors"

var (
	// ErrDependencyMissing indicates no lensing backend is available.
	ErrDependencyMissing = errors.New("lensing backend not available")

	// ErrUnknownField indicates a layer index outside the cube layout.
	ErrUnknownField = errors.New("unknown cube field")

	// ErrCubeShape indicates a stacked cube with missing or mismatched layers.
	ErrCubeShape = errors.New("malformed stacked cube")
)
