package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestRowCosineMatrix(t *testing.T) {
	t.Run("known geometry", func(t *testing.T) {
		m := mat.NewDense(3, 2, []float64{
			1, 0,
			0, 1,
			1, 1,
		})

		sim := rowCosineMatrix(m)

		assert.Equal(t, 1.0, sim.At(0, 0))
		assert.Equal(t, 1.0, sim.At(1, 1))
		assert.Equal(t, 0.0, sim.At(0, 1)) // orthogonal
		assert.InDelta(t, 0.7071, sim.At(0, 2), 1e-4)
		assert.Equal(t, sim.At(2, 0), sim.At(0, 2)) // symmetric
	})

	t.Run("zero rows carry no signal", func(t *testing.T) {
		m := mat.NewDense(2, 3, []float64{
			0, 0, 0,
			1, 2, 3,
		})

		sim := rowCosineMatrix(m)

		assert.Equal(t, 0.0, sim.At(0, 1))
		assert.Equal(t, 1.0, sim.At(0, 0)) // self-similarity by construction
	})
}

func TestTopSimilar(t *testing.T) {
	sims := []float64{1.0, 0.9, 1.0, 0.2, 0.9}

	t.Run("excludes self by position even on value ties", func(t *testing.T) {
		top := topSimilar(sims, 3, 0)
		assert.Equal(t, []int{2, 1, 4}, top) // index 2 ties self at 1.0 but stays
	})

	t.Run("ties break toward lower position", func(t *testing.T) {
		top := topSimilar(sims, 2, 2)
		assert.Equal(t, []int{0, 1}, top)
	})

	t.Run("k larger than candidate set", func(t *testing.T) {
		top := topSimilar(sims, 10, 0)
		assert.Len(t, top, 4)
	})
}
