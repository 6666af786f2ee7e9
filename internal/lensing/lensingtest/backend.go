// Package lensingtest provides an in-memory lensing backend for tests.
package lensingtest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/afonsov/gohff/internal/lensing"
	"github.com/afonsov/gohff/internal/sky"
)

// Backend records every call it receives. Stack returns a cube whose
// realization i has every pixel of every layer set to i, and Evaluate on a
// model populated from realization i returns Params[i].
type Backend struct {
	ID string

	// Params holds the parameter vector returned per realization.
	Params [][]float64

	// Realizations overrides the cube depth; zero means lensing.NumRealizations.
	Realizations int

	// GridSize is the side of each stacked layer; zero means 4.
	GridSize int

	StackErr error
	LoadErr  error

	mu      sync.Mutex
	models  []*Model
	windows []lensing.Window
	inputs  [][]lensing.Model
}

var _ lensing.Backend = (*Backend)(nil)

// Name implements lensing.Backend.
func (b *Backend) Name() string {
	if b.ID == "" {
		return "fake"
	}
	return b.ID
}

// NewModel implements lensing.Backend.
func (b *Backend) NewModel(redshift, resolution float64) (lensing.Model, error) {
	if redshift <= 0 || resolution <= 0 {
		return nil, fmt.Errorf("fake: bad model parameters z=%v res=%v", redshift, resolution)
	}
	m := &Model{Redshift: redshift, Resolution: resolution, backend: b}
	b.mu.Lock()
	b.models = append(b.models, m)
	b.mu.Unlock()
	return m, nil
}

// Stack implements lensing.Backend.
func (b *Backend) Stack(ctx context.Context, models []lensing.Model, w lensing.Window) (*lensing.Cube, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.windows = append(b.windows, w)
	b.inputs = append(b.inputs, models)
	b.mu.Unlock()
	if b.StackErr != nil {
		return nil, b.StackErr
	}

	n := b.Realizations
	if n == 0 {
		n = lensing.NumRealizations
	}
	size := b.GridSize
	if size == 0 {
		size = 4
	}
	layers := make([][lensing.NumFields]*mat.Dense, n)
	for i := range layers {
		for f := range layers[i] {
			data := make([]float64, size*size)
			for k := range data {
				data[k] = float64(i)
			}
			layers[i][f] = mat.NewDense(size, size, data)
		}
	}
	return lensing.NewCube(layers)
}

// Models returns every model created so far.
func (b *Backend) Models() []*Model {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Model, len(b.models))
	copy(out, b.models)
	return out
}

// Windows returns every stacking window received.
func (b *Backend) Windows() []lensing.Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]lensing.Window, len(b.windows))
	copy(out, b.windows)
	return out
}

// StackInputs returns the model lists passed to Stack.
func (b *Backend) StackInputs() [][]lensing.Model {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]lensing.Model, len(b.inputs))
	copy(out, b.inputs)
	return out
}

// Model is the fake lensing model.
type Model struct {
	Redshift   float64
	Resolution float64

	Source     string
	Fields     lensing.Fields
	ProjectedZ float64
	ShearZ     float64
	BoxCalls   int

	backend *Backend
}

var _ lensing.Model = (*Model)(nil)

// LoadFile implements lensing.Model.
func (m *Model) LoadFile(source string) error {
	if m.backend.LoadErr != nil {
		return m.backend.LoadErr
	}
	m.Source = source
	return nil
}

// BoundingBox implements lensing.Model.
func (m *Model) BoundingBox() (lensing.Extent, error) {
	m.BoxCalls++
	if m.Source == "" && m.Fields.Kappa == nil {
		return lensing.Extent{}, errors.New("fake: model has no data")
	}
	return m.Fields.Extent, nil
}

// SetFields implements lensing.Model.
func (m *Model) SetFields(f lensing.Fields) error {
	if f.Kappa == nil || f.Gamma == nil || f.DeflectX == nil || f.DeflectY == nil {
		return errors.New("fake: incomplete fields")
	}
	m.Fields = f
	return nil
}

// ProjectTo implements lensing.Model.
func (m *Model) ProjectTo(z float64) error {
	m.ProjectedZ = z
	return nil
}

// ComputeShearAngle implements lensing.Model.
func (m *Model) ComputeShearAngle(z float64) error {
	m.ShearZ = z
	return nil
}

// Evaluate implements lensing.Model.
func (m *Model) Evaluate(_ sky.Coord) ([]float64, error) {
	if m.Fields.Kappa == nil {
		return nil, errors.New("fake: model has no fields")
	}
	i := int(m.Fields.Kappa.At(0, 0))
	if i < 0 || i >= len(m.backend.Params) {
		return nil, fmt.Errorf("fake: no parameters for realization %d", i)
	}
	out := make([]float64, len(m.backend.Params[i]))
	copy(out, m.backend.Params[i])
	return out, nil
}
