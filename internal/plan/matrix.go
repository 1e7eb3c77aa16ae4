package plan

import (
	"errors"
	"fmt"
)

// ErrShape reports a ragged or empty duration matrix.
var ErrShape = errors.New("duration matrix is not square")

// Matrix wraps a pairwise travel-duration matrix augmented with a single
// virtual end node. The end node has zero cost to and from every location,
// which lets open routes (no return trip) be searched as closed tours: every
// vehicle "returns" to the virtual node for free.
type Matrix struct {
	durations [][]int64
	locations int // real locations, before augmentation
}

// NewMatrix validates the raw N×N durations and builds the augmented
// (N+1)×(N+1) matrix. Fractional durations are truncated; the cost space is
// integral.
func NewMatrix(raw [][]float64) (*Matrix, error) {
	n := len(raw)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrShape)
	}
	aug := make([][]int64, n+1)
	for i, row := range raw {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), n)
		}
		aug[i] = make([]int64, n+1)
		for j, d := range row {
			aug[i][j] = int64(d)
		}
		// aug[i][n] stays 0: travel to the virtual end is free
	}
	aug[n] = make([]int64, n+1)
	return &Matrix{durations: aug, locations: n}, nil
}

// Locations returns the number of real locations N.
func (m *Matrix) Locations() int { return m.locations }

// End returns the index of the virtual end node in the augmented space.
func (m *Matrix) End() int { return m.locations }

// Size returns the augmented dimension N+1.
func (m *Matrix) Size() int { return m.locations + 1 }

// Cost returns the travel duration from i to j in augmented index space.
func (m *Matrix) Cost(i, j int) int64 { return m.durations[i][j] }
