package lensing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NumRealizations is the number of realizations a stacked cube carries:
// lower bound, central estimate and upper bound, in that order.
const NumRealizations = 3

// Field indexes the layers of one realization.
type Field int

// Layer order inside a stacked cube.
const (
	Kappa Field = iota
	Gamma
	DeflectX
	DeflectY

	NumFields
)

func (f Field) String() string {
	switch f {
	case Kappa:
		return "kappa"
	case Gamma:
		return "gamma"
	case DeflectX:
		return "xdeflect"
	case DeflectY:
		return "ydeflect"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Fields is the map set of one model.
type Fields struct {
	Kappa    *mat.Dense
	Gamma    *mat.Dense
	DeflectX *mat.Dense
	DeflectY *mat.Dense
	Extent   Extent
}

// Cube is a stacked data cube indexed (realization, field, y, x).
type Cube struct {
	layers [][NumFields]*mat.Dense
}

// NewCube builds a cube from per-realization layer sets. All layers must be
// non-nil and share one shape.
func NewCube(realizations [][NumFields]*mat.Dense) (*Cube, error) {
	if len(realizations) == 0 {
		return nil, fmt.Errorf("%w: cube has no realizations", ErrCubeShape)
	}
	var rows, cols int
	for i, layers := range realizations {
		for f, m := range layers {
			if m == nil {
				return nil, fmt.Errorf("%w: realization %d missing %s", ErrCubeShape, i, Field(f))
			}
			r, c := m.Dims()
			if rows == 0 && cols == 0 {
				rows, cols = r, c
				continue
			}
			if r != rows || c != cols {
				return nil, fmt.Errorf("%w: realization %d %s is %dx%d, want %dx%d", ErrCubeShape, i, Field(f), r, c, rows, cols)
			}
		}
	}
	return &Cube{layers: realizations}, nil
}

// Realizations returns the size of the first axis.
func (c *Cube) Realizations() int { return len(c.layers) }

// Dims returns the (y, x) size of every layer.
func (c *Cube) Dims() (int, int) { return c.layers[0][Kappa].Dims() }

// Layer returns the map of one field of one realization.
func (c *Cube) Layer(realization int, f Field) (*mat.Dense, error) {
	if realization < 0 || realization >= len(c.layers) {
		return nil, fmt.Errorf("%w: realization %d of %d", ErrCubeShape, realization, len(c.layers))
	}
	if f < 0 || f >= NumFields {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return c.layers[realization][f], nil
}

// Fields returns the layer set of one realization with the given extent.
func (c *Cube) Fields(realization int, extent Extent) (Fields, error) {
	if realization < 0 || realization >= len(c.layers) {
		return Fields{}, fmt.Errorf("%w: realization %d of %d", ErrCubeShape, realization, len(c.layers))
	}
	l := c.layers[realization]
	return Fields{
		Kappa:    l[Kappa],
		Gamma:    l[Gamma],
		DeflectX: l[DeflectX],
		DeflectY: l[DeflectY],
		Extent:   extent,
	}, nil
}
