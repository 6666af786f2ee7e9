// Package lensing describes the lensing-modelling library the pipeline
// delegates to: building models from map files, stacking several models onto
// one grid, and evaluating lensing quantities at a position.
//
// Implementations live outside this module and make themselves available
// with Register, the way database/sql drivers do. A process without a
// registered backend can still resolve clusters and read model metadata; only
// stacking and evaluation need one.
package lensing

import (
	"context"

	"github.com/afonsov/gohff/internal/sky"
)

// Backend is the entry point of a lensing library.
type Backend interface {
	// Name identifies the backend in configuration, e.g. "astromorph".
	Name() string

	// NewModel returns an empty model at the given lens redshift and map
	// resolution (arcsec/pixel).
	NewModel(redshift, resolution float64) (Model, error)

	// Stack resamples models onto the grid described by w and returns one
	// layer set per realization, ordered (low, central, high).
	Stack(ctx context.Context, models []Model, w Window) (*Cube, error)
}

// Model is one lensing model instance.
type Model interface {
	// LoadFile populates the model from map files sharing the path prefix source.
	LoadFile(source string) error

	// BoundingBox returns the sky extent covered by the loaded maps.
	BoundingBox() (Extent, error)

	// SetFields populates the model from in-memory maps.
	SetFields(f Fields) error

	// ProjectTo rescales the maps to a source at redshift z.
	ProjectTo(z float64) error

	// ComputeShearAngle derives the shear angle map for source redshift z.
	ComputeShearAngle(z float64) error

	// Evaluate returns the lensing parameter vector at c. Order and length
	// are defined by the backend and are preserved positionally by callers.
	Evaluate(c sky.Coord) ([]float64, error)
}

// Extent is a rectangular sky region (RA0, RA1, Dec0, Dec1) in degrees.
type Extent [4]float64

// Window describes the stacking grid around a target position.
type Window struct {
	// RA and Dec are the (low, high) ranges of the grid in degrees.
	RA  [2]float64
	Dec [2]float64

	// Scale is the grid pixel size in degrees.
	Scale float64

	// BoxSize is the size in arcsec of the region every model must cover,
	// centred on Center.
	BoxSize float64
	Center  sky.Coord
}

// Extent returns the window as (ra0, ra1, dec0, dec1).
func (w Window) Extent() Extent {
	return Extent{w.RA[0], w.RA[1], w.Dec[0], w.Dec[1]}
}
