package recommender

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// rowCosineMatrix computes the full pairwise cosine similarity of the rows
// of m. Zero-norm rows contribute no signal and get similarity 0 against
// everything; the diagonal is 1 by construction. Ephemeral: callers
// recompute this on every scoring call rather than caching it.
func rowCosineMatrix(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()

	rows := make([][]float64, r)
	norms := make([]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = m.At(i, j)
		}
		rows[i] = row
		norms[i] = floats.Norm(row, 2)
	}

	sim := mat.NewDense(r, r, nil)
	for i := 0; i < r; i++ {
		sim.Set(i, i, 1)
		for j := i + 1; j < r; j++ {
			s := cosine(rows[i], norms[i], rows[j], norms[j])
			sim.Set(i, j, s)
			sim.Set(j, i, s)
		}
	}

	return sim
}

func cosine(a []float64, normA float64, b []float64, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(a, b) / (normA * normB)
}

// topSimilar returns up to k positions ranked by similarity descending,
// excluding the position self. The exclusion is positional: ties at 1.0
// with the target itself are possible and must not evict real neighbors.
// Equal similarities break toward the lower position for determinism.
func topSimilar(sims []float64, k, self int) []int {
	candidates := make([]int, 0, len(sims))
	for i := range sims {
		if i != self {
			candidates = append(candidates, i)
		}
	}
	sort.Slice(candidates, func(a, b int) bool {
		sa, sb := sims[candidates[a]], sims[candidates[b]]
		if sa != sb {
			return sa > sb
		}
		return candidates[a] < candidates[b]
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}
