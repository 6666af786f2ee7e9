// Package aggregate evaluates stacked cluster lensing models at a sky
// position and reduces the realizations to an estimate with errors.
package aggregate

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/afonsov/gohff/internal/cluster"
	"github.com/afonsov/gohff/internal/ctxlog"
	"github.com/afonsov/gohff/internal/lensing"
	"github.com/afonsov/gohff/internal/loader"
	"github.com/afonsov/gohff/internal/sky"
)

// DefaultPixelScale is the stacking grid pixel size in arcsec.
const DefaultPixelScale = 0.2

// bboxPadding inflates the region every stacked model must cover.
const bboxPadding = 1.1

// Result is the outcome of one evaluation.
type Result struct {
	Cluster string

	// Params is the central realization's parameter vector.
	Params []float64

	// Errors has one row per consecutive realization pair (2×n).
	Errors *mat.Dense

	// Realizations holds every realization's vector (3×n).
	Realizations *mat.Dense
}

// Aggregator ties the registry, the model cache and a lensing backend.
type Aggregator struct {
	registry *cluster.Registry
	cache    *loader.Cache
	backend  lensing.Backend
}

// New returns an Aggregator. It fails with lensing.ErrDependencyMissing when
// backend is nil, so callers learn about a missing library before any data is
// read.
func New(registry *cluster.Registry, cache *loader.Cache, backend lensing.Backend) (*Aggregator, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: aggregation needs a lensing backend", lensing.ErrDependencyMissing)
	}
	if registry == nil {
		registry = cluster.Default()
	}
	if cache == nil {
		return nil, fmt.Errorf("%w: nil model cache", ErrInvalidArgument)
	}
	return &Aggregator{registry: registry, cache: cache, backend: backend}, nil
}

// ForDataRoot wires an Aggregator whose cache loads models from dataRoot with backend.
func ForDataRoot(dataRoot string, registry *cluster.Registry, backend lensing.Backend) (*Aggregator, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: aggregation needs a lensing backend", lensing.ErrDependencyMissing)
	}
	return New(registry, loader.NewCache(loader.New(dataRoot, backend).Load), backend)
}

// Cache exposes the model cache.
func (a *Aggregator) Cache() *loader.Cache { return a.cache }

type options struct {
	pixelScale float64
	reject     []string
}

// Option tunes one evaluation.
type Option func(*options)

// WithPixelScale sets the stacking pixel size in arcsec.
func WithPixelScale(arcsec float64) Option {
	return func(o *options) { o.pixelScale = arcsec }
}

// WithReject excludes models whose root name contains any of names. It only
// affects the first load of a cluster.
func WithReject(names ...string) Option {
	return func(o *options) { o.reject = append(o.reject, names...) }
}

// StackWindow returns the grid of side size arcsec centred on c.
func StackWindow(c sky.Coord, size, pixelScale float64) lensing.Window {
	half := size / (2 * 3600.0)
	return lensing.Window{
		RA:      [2]float64{c.RA - half, c.RA + half},
		Dec:     [2]float64{c.Dec - half, c.Dec + half},
		Scale:   pixelScale / 3600.0,
		BoxSize: bboxPadding * size,
		Center:  c,
	}
}

// LensingParameters evaluates the stacked models of the cluster containing c
// within a window of size arcsec, for a source at redshift.
func (a *Aggregator) LensingParameters(ctx context.Context, c sky.Coord, size, redshift float64, opts ...Option) (Result, error) {
	o := options{pixelScale: DefaultPixelScale}
	for _, opt := range opts {
		opt(&o)
	}
	if size <= 0 || redshift <= 0 || o.pixelScale <= 0 {
		return Result{}, fmt.Errorf("%w: size=%v redshift=%v pixel scale=%v must be positive", ErrInvalidArgument, size, redshift, o.pixelScale)
	}

	name, err := a.registry.Resolve(c)
	if err != nil {
		return Result{}, err
	}
	log := ctxlog.FromContext(ctx).With("cluster", name, "coord", c.String())

	entry, err := a.cache.Get(ctx, name, o.reject)
	if err != nil {
		return Result{}, err
	}
	lenses := entry.Lenses()
	if len(lenses) == 0 {
		return Result{}, fmt.Errorf("%w: cluster %s has no populated models", loader.ErrDataNotFound, name)
	}

	w := StackWindow(c, size, o.pixelScale)
	log.Debug("stacking lens models", "models", len(lenses), "ra", w.RA, "dec", w.Dec, "scale", w.Scale)
	cube, err := a.backend.Stack(ctx, lenses, w)
	if err != nil {
		return Result{}, fmt.Errorf("cannot stack models for %s: %w", name, err)
	}
	if cube == nil {
		return Result{}, fmt.Errorf("%w: backend %s returned no cube", ErrRealizationLayout, a.backend.Name())
	}
	if cube.Realizations() != lensing.NumRealizations {
		return Result{}, fmt.Errorf("%w: stacked cube has %d realizations, want %d", ErrRealizationLayout, cube.Realizations(), lensing.NumRealizations)
	}

	vectors := make([][]float64, 0, lensing.NumRealizations)
	for i := 0; i < lensing.NumRealizations; i++ {
		v, err := a.evaluate(cube, i, entry.LensRedshift(), o.pixelScale, w, c, redshift)
		if err != nil {
			return Result{}, fmt.Errorf("realization %d: %w", i, err)
		}
		vectors = append(vectors, v)
	}

	central, errs, stacked, err := Reduce(vectors)
	if err != nil {
		return Result{}, err
	}
	log.Debug("lensing parameters", "params", central)
	return Result{Cluster: name, Params: central, Errors: errs, Realizations: stacked}, nil
}

func (a *Aggregator) evaluate(cube *lensing.Cube, i int, lensZ, pixelScale float64, w lensing.Window, c sky.Coord, z float64) ([]float64, error) {
	m, err := a.backend.NewModel(lensZ, pixelScale)
	if err != nil {
		return nil, fmt.Errorf("cannot create stacked model: %w", err)
	}
	fields, err := cube.Fields(i, w.Extent())
	if err != nil {
		return nil, err
	}
	if err := m.SetFields(fields); err != nil {
		return nil, fmt.Errorf("cannot set stacked fields: %w", err)
	}
	if err := m.ProjectTo(z); err != nil {
		return nil, fmt.Errorf("cannot project to z=%v: %w", z, err)
	}
	if err := m.ComputeShearAngle(z); err != nil {
		return nil, fmt.Errorf("cannot compute shear angle: %w", err)
	}
	return m.Evaluate(c)
}

// Magnification evaluates c like LensingParameters and returns only the
// magnification and its two errors.
func (a *Aggregator) Magnification(ctx context.Context, c sky.Coord, size, redshift float64, opts ...Option) (float64, [2]float64, error) {
	res, err := a.LensingParameters(ctx, c, size, redshift, opts...)
	if err != nil {
		return 0, [2]float64{}, err
	}
	return ExtractMagnification(res)
}

// ExtractMagnification picks the magnification and its error column from res.
func ExtractMagnification(res Result) (float64, [2]float64, error) {
	if len(res.Params) <= MagnificationIndex {
		return 0, [2]float64{}, fmt.Errorf("%w: parameter vector has %d entries, magnification is at %d", ErrRealizationLayout, len(res.Params), MagnificationIndex)
	}
	if res.Errors == nil {
		return 0, [2]float64{}, fmt.Errorf("%w: no error rows", ErrRealizationLayout)
	}
	r, _ := res.Errors.Dims()
	if r != lensing.NumRealizations-1 {
		return 0, [2]float64{}, fmt.Errorf("%w: %d error rows", ErrRealizationLayout, r)
	}
	var muErr [2]float64
	mat.Col(muErr[:], MagnificationIndex, res.Errors)
	return res.Params[MagnificationIndex], muErr, nil
}
