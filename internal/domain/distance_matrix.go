package domain

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrMatrixNotSquare  = errors.New("distance matrix must be square")
	ErrMatrixNegative   = errors.New("distance matrix entries must be finite and non-negative")
	ErrMatrixAsymmetric = errors.New("distance matrix must be symmetric")
)

// symmetryTolerance absorbs rounding in hand-edited CSV sources.
const symmetryTolerance = 1e-9

// Symmetric N×N travel distances between locations, in miles.
// The zero value is an empty matrix.
type DistanceMatrix struct {
	m *mat.Dense
}

// Build a DistanceMatrix from row-major values.
// Rows must form a square, finite, non-negative, symmetric matrix; the diagonal
// is forced to zero.
func NewDistanceMatrix(rows [][]float64) (DistanceMatrix, error) {
	n := len(rows)
	if n == 0 {
		return DistanceMatrix{}, fmt.Errorf("new distance matrix: %w: no rows", ErrMatrixNotSquare)
	}

	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return DistanceMatrix{}, fmt.Errorf("new distance matrix: row %d has %d columns, want %d: %w", i, len(row), n, ErrMatrixNotSquare)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return DistanceMatrix{}, fmt.Errorf("new distance matrix: entry (%d,%d)=%v: %w", i, j, v, ErrMatrixNegative)
			}
			if i == j {
				v = 0
			}
			data = append(data, v)
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.Abs(data[i*n+j]-data[j*n+i]) > symmetryTolerance {
				return DistanceMatrix{}, fmt.Errorf("new distance matrix: (%d,%d)=%v but (%d,%d)=%v: %w",
					i, j, data[i*n+j], j, i, data[j*n+i], ErrMatrixAsymmetric)
			}
		}
	}

	return DistanceMatrix{m: mat.NewDense(n, n, data)}, nil
}

// FromDense wraps an already validated dense matrix without copying it.
// Intended for derived matrices such as shortest-path closures.
func FromDense(d *mat.Dense) DistanceMatrix { return DistanceMatrix{m: d} }

// Size is the number of locations.
func (d DistanceMatrix) Size() int {
	if d.m == nil {
		return 0
	}
	r, _ := d.m.Dims()
	return r
}

func (d DistanceMatrix) At(from, to LocationID) float64 {
	return d.m.At(int(from), int(to))
}

// Dense returns a copy of the underlying matrix.
func (d DistanceMatrix) Dense() *mat.Dense {
	if d.m == nil {
		return nil
	}
	return mat.DenseCopyOf(d.m)
}

// Row returns the distances from one location to every location.
func (d DistanceMatrix) Row(from LocationID) []float64 {
	return mat.Row(nil, int(from), d.m)
}
