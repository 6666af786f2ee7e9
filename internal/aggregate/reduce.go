package aggregate

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/afonsov/gohff/internal/lensing"
)

// MagnificationIndex is the position of the magnification in a lensing
// parameter vector.
const MagnificationIndex = 2

// centralRealization is the row of the stacked realizations taken as the estimate.
const centralRealization = 1

// Reduce stacks per-realization parameter vectors, ordered (low, central,
// high), into a matrix. It returns the central row and the consecutive
// differences: errors row i is realization i+1 minus realization i.
func Reduce(vectors [][]float64) (central []float64, errs, stacked *mat.Dense, err error) {
	if len(vectors) != lensing.NumRealizations {
		return nil, nil, nil, fmt.Errorf("%w: got %d realizations, want %d", ErrRealizationLayout, len(vectors), lensing.NumRealizations)
	}
	n := len(vectors[0])
	if n == 0 {
		return nil, nil, nil, fmt.Errorf("%w: empty parameter vector", ErrRealizationLayout)
	}
	stacked = mat.NewDense(len(vectors), n, nil)
	for i, v := range vectors {
		if len(v) != n {
			return nil, nil, nil, fmt.Errorf("%w: realization %d has %d parameters, want %d", ErrRealizationLayout, i, len(v), n)
		}
		stacked.SetRow(i, v)
	}

	errs = mat.NewDense(len(vectors)-1, n, nil)
	diff := make([]float64, n)
	for i := 0; i < len(vectors)-1; i++ {
		floats.SubTo(diff, vectors[i+1], vectors[i])
		errs.SetRow(i, diff)
	}

	central = mat.Row(nil, centralRealization, stacked)
	return central, errs, stacked, nil
}
