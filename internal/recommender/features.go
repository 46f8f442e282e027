package recommender

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// FeatureMatrix is a sparse item-by-vocabulary weight matrix, one row per
// item in the encoder's index space. Rows store column indices in
// ascending order alongside their weights. The matrix is read-only once
// assembled.
type FeatureMatrix struct {
	cols    int
	indices [][]int
	values  [][]float64
	norms   []float64
}

func NewFeatureMatrix(rows, cols int) *FeatureMatrix {
	return &FeatureMatrix{
		cols:    cols,
		indices: make([][]int, rows),
		values:  make([][]float64, rows),
		norms:   make([]float64, rows),
	}
}

// SetRow stores one item's feature vector. Indices must be ascending and
// in range; values are copied.
func (f *FeatureMatrix) SetRow(row int, indices []int, values []float64) error {
	if row < 0 || row >= len(f.indices) {
		return fmt.Errorf("feature row %d out of range [0,%d)", row, len(f.indices))
	}
	if len(indices) != len(values) {
		return fmt.Errorf("feature row %d: %d indices but %d values", row, len(indices), len(values))
	}
	for i, col := range indices {
		if col < 0 || col >= f.cols {
			return fmt.Errorf("feature row %d: column %d out of range [0,%d)", row, col, f.cols)
		}
		if i > 0 && indices[i-1] >= col {
			return fmt.Errorf("feature row %d: column indices not strictly ascending", row)
		}
	}

	f.indices[row] = append([]int(nil), indices...)
	f.values[row] = append([]float64(nil), values...)
	f.norms[row] = floats.Norm(f.values[row], 2)
	return nil
}

func (f *FeatureMatrix) Rows() int { return len(f.indices) }
func (f *FeatureMatrix) Cols() int { return f.cols }

// RowSimilarities computes cosine similarity of one row against every row,
// including itself. Zero rows yield zero similarity everywhere except the
// self entry, which is 1 by construction.
func (f *FeatureMatrix) RowSimilarities(row int) []float64 {
	sims := make([]float64, len(f.indices))
	for j := range f.indices {
		if j == row {
			sims[j] = 1
			continue
		}
		if f.norms[row] == 0 || f.norms[j] == 0 {
			continue
		}
		sims[j] = f.sparseDot(row, j) / (f.norms[row] * f.norms[j])
	}
	return sims
}

func (f *FeatureMatrix) sparseDot(a, b int) float64 {
	ai, av := f.indices[a], f.values[a]
	bi, bv := f.indices[b], f.values[b]

	var dot float64
	i, j := 0, 0
	for i < len(ai) && j < len(bi) {
		switch {
		case ai[i] == bi[j]:
			dot += av[i] * bv[j]
			i++
			j++
		case ai[i] < bi[j]:
			i++
		default:
			j++
		}
	}
	return dot
}
