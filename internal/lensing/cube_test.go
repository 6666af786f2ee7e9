package lensing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func layerSet(r, c int, v float64) [NumFields]*mat.Dense {
	var out [NumFields]*mat.Dense
	for f := range out {
		m := mat.NewDense(r, c, nil)
		m.Apply(func(_, _ int, _ float64) float64 { return v + float64(f) }, m)
		out[f] = m
	}
	return out
}

func TestNewCube_Layout(t *testing.T) {
	cube, err := NewCube([][NumFields]*mat.Dense{layerSet(2, 3, 0), layerSet(2, 3, 10), layerSet(2, 3, 20)})
	require.NoError(t, err)
	assert.Equal(t, 3, cube.Realizations())

	y, x := cube.Dims()
	assert.Equal(t, 2, y)
	assert.Equal(t, 3, x)

	l, err := cube.Layer(1, DeflectX)
	require.NoError(t, err)
	assert.Equal(t, 12.0, l.At(1, 2))

	f, err := cube.Fields(2, Extent{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 21.0, f.Gamma.At(0, 0))
	assert.Equal(t, Extent{1, 2, 3, 4}, f.Extent)
}

func TestNewCube_Rejects(t *testing.T) {
	_, err := NewCube(nil)
	assert.ErrorIs(t, err, ErrCubeShape)

	bad := layerSet(2, 2, 0)
	bad[Gamma] = nil
	_, err = NewCube([][NumFields]*mat.Dense{bad})
	assert.ErrorIs(t, err, ErrCubeShape)

	_, err = NewCube([][NumFields]*mat.Dense{layerSet(2, 2, 0), layerSet(3, 2, 0)})
	assert.ErrorIs(t, err, ErrCubeShape)
}

func TestCube_LayerBounds(t *testing.T) {
	cube, err := NewCube([][NumFields]*mat.Dense{layerSet(1, 1, 0)})
	require.NoError(t, err)

	_, err = cube.Layer(1, Kappa)
	assert.ErrorIs(t, err, ErrCubeShape)
	_, err = cube.Layer(0, NumFields)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestWindow_Extent(t *testing.T) {
	w := Window{RA: [2]float64{1, 2}, Dec: [2]float64{-3, -2}}
	assert.Equal(t, Extent{1, 2, -3, -2}, w.Extent())
}
