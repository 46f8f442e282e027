package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelEncoder(t *testing.T) {
	le := NewLabelEncoder([]int64{42, 7, 42, 1000, 7})

	t.Run("dense indices follow sorted identifier order", func(t *testing.T) {
		assert.Equal(t, 3, le.Len())
		assert.Equal(t, []int64{7, 42, 1000}, le.Classes())

		idx, ok := le.Index(42)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
	})

	t.Run("round trips forward and back", func(t *testing.T) {
		for _, id := range le.Classes() {
			idx, ok := le.Index(id)
			require.True(t, ok)
			back, ok := le.Original(idx)
			require.True(t, ok)
			assert.Equal(t, id, back)
		}
	})

	t.Run("unknown identifiers and indices miss", func(t *testing.T) {
		_, ok := le.Index(999)
		assert.False(t, ok)
		_, ok = le.Original(3)
		assert.False(t, ok)
		_, ok = le.Original(-1)
		assert.False(t, ok)
	})

	t.Run("input order does not matter", func(t *testing.T) {
		other := NewLabelEncoder([]int64{1000, 7, 42})
		assert.Equal(t, le.Classes(), other.Classes())
	})
}
