package aggregate

import "errors"

var (
	// ErrRealizationLayout indicates a stacked result that does not match the
	// (low, central, high) realization layout.
	ErrRealizationLayout = errors.New("unexpected realization layout")

	// ErrInvalidArgument indicates a non-positive size, redshift or pixel scale.
	ErrInvalidArgument = errors.New("invalid argument")
)
