package recommender

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefuse/cinefuse/pkg/models"
)

func TestBuildInteractionMatrix(t *testing.T) {
	t.Run("pivots ratings into sorted dense grid", func(t *testing.T) {
		m := BuildInteractionMatrix([]models.Rating{
			rating(7, 3, 4.0),
			rating(2, 1, 5.0),
			rating(7, 1, 2.5),
		})

		assert.Equal(t, 2, m.UserCount())
		assert.Equal(t, 2, m.ItemCount())
		assert.Equal(t, []int{1, 3}, m.Items())

		pos, ok := m.UserPos(2)
		require.True(t, ok)
		assert.Equal(t, 0, pos)
		assert.Equal(t, 5.0, m.At(0, 0))
		assert.Equal(t, 0.0, m.At(0, 1)) // unrated cell

		pos, ok = m.UserPos(7)
		require.True(t, ok)
		assert.Equal(t, 2.5, m.At(pos, 0))
		assert.Equal(t, 4.0, m.At(pos, 1))
	})

	t.Run("duplicate ratings collapse to the latest", func(t *testing.T) {
		older := models.Rating{UserID: 1, ItemID: 1, Value: 2.0,
			Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		newer := models.Rating{UserID: 1, ItemID: 1, Value: 4.5,
			Timestamp: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}

		m := BuildInteractionMatrix([]models.Rating{newer, older})
		assert.Equal(t, 4.5, m.At(0, 0))

		m = BuildInteractionMatrix([]models.Rating{older, newer})
		assert.Equal(t, 4.5, m.At(0, 0))
	})

	t.Run("empty table yields zero-dimension matrix", func(t *testing.T) {
		m := BuildInteractionMatrix(nil)
		assert.True(t, m.Empty())
		assert.Equal(t, 0, m.UserCount())
		assert.Equal(t, 0, m.ItemCount())
	})

	t.Run("insertion order does not change axes", func(t *testing.T) {
		a := BuildInteractionMatrix([]models.Rating{
			rating(0, 2, 3), rating(1, 0, 4), rating(0, 1, 5),
		})
		b := BuildInteractionMatrix([]models.Rating{
			rating(0, 1, 5), rating(0, 2, 3), rating(1, 0, 4),
		})
		assert.Equal(t, a.Items(), b.Items())
		assert.Equal(t, a.users, b.users)
	})
}
