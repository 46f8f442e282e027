package store

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RatingsStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewRatingsStore(mockDB, logger), mockDB
}

func TestRatingsStore_LoadRatings(t *testing.T) {
	store, mockDB := newTestStore(t)

	t.Run("maps rows onto rating events", func(t *testing.T) {
		t0 := time.Unix(1000, 0).UTC()
		t1 := time.Unix(2000, 0).UTC()

		rows := pgxmock.NewRows([]string{"user_idx", "item_idx", "rating", "rated_at"}).
			AddRow(0, 2, 4.5, t0).
			AddRow(1, 0, 3.0, t1)

		mockDB.ExpectQuery("SELECT user_idx, item_idx, rating, rated_at").
			WillReturnRows(rows)

		ratings, err := store.LoadRatings(context.Background())

		require.NoError(t, err)
		require.Len(t, ratings, 2)
		assert.Equal(t, 0, ratings[0].UserID)
		assert.Equal(t, 2, ratings[0].ItemID)
		assert.Equal(t, 4.5, ratings[0].Value)
		assert.Equal(t, t0, ratings[0].Timestamp)
		assert.Equal(t, 1, ratings[1].UserID)

		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("empty table yields no ratings", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT user_idx, item_idx, rating, rated_at").
			WillReturnRows(pgxmock.NewRows([]string{"user_idx", "item_idx", "rating", "rated_at"}))

		ratings, err := store.LoadRatings(context.Background())

		require.NoError(t, err)
		assert.Empty(t, ratings)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("query errors are wrapped", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT user_idx, item_idx, rating, rated_at").
			WillReturnError(errors.New("connection refused"))

		_, err := store.LoadRatings(context.Background())

		assert.ErrorContains(t, err, "ratings query failed")
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestRatingsStore_MaxItemIndex(t *testing.T) {
	store, mockDB := newTestStore(t)

	t.Run("returns the highest index", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT COALESCE").
			WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(41))

		maxIdx, err := store.MaxItemIndex(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 41, maxIdx)
	})

	t.Run("empty table reports -1", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT COALESCE").
			WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(-1))

		maxIdx, err := store.MaxItemIndex(context.Background())

		require.NoError(t, err)
		assert.Equal(t, -1, maxIdx)
	})
}
