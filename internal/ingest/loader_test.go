package ingest

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefuse/cinefuse/internal/config"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func fixtureConfig(dir string) *config.DataConfig {
	return &config.DataConfig{
		Source:      "csv",
		Dir:         dir,
		RatingsFile: "ratings.csv",
		MoviesFile:  "movies.csv",
		TagsFile:    "tags.csv",
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "movies.csv", `movieId,title,genres
30,Heat (1995),Action|Crime
10,Toy Story (1995),Animation|Comedy
20,Nowhere (1997),(no genres listed)
10,Toy Story duplicate,Animation
`)
	writeFixture(t, dir, "tags.csv", `userId,movieId,tag,timestamp
1,30,bank heist,1112486027
2,30,al pacino,1112486100
`)

	catalog, err := LoadCatalog(fixtureConfig(dir), quietLogger())
	require.NoError(t, err)

	assert.Equal(t, 3, catalog.ItemEncoder.Len())
	assert.Equal(t, []int64{10, 20, 30}, catalog.ItemEncoder.Classes())
	assert.Equal(t, 3, catalog.Features.Rows(), "one feature row per catalog movie")

	t.Run("first occurrence of a duplicate id wins", func(t *testing.T) {
		idx, ok := catalog.ItemEncoder.Index(10)
		require.True(t, ok)
		assert.Equal(t, "Toy Story (1995)", catalog.Titles[idx])
	})

	t.Run("tag text feeds the feature row", func(t *testing.T) {
		heat, ok := catalog.ItemEncoder.Index(30)
		require.True(t, ok)
		toyStory, _ := catalog.ItemEncoder.Index(10)

		sims := catalog.Features.RowSimilarities(heat)
		assert.InDelta(t, 1.0, sims[heat], 1e-12)
		assert.Equal(t, 0.0, sims[toyStory], "no shared genres or tags")
	})

	t.Run("no-genres placeholder yields an empty row", func(t *testing.T) {
		nowhere, ok := catalog.ItemEncoder.Index(20)
		require.True(t, ok)
		sims := catalog.Features.RowSimilarities(nowhere)
		for j, s := range sims {
			if j == nowhere {
				continue
			}
			assert.Equal(t, 0.0, s)
		}
	})
}

func TestLoadCatalog_MissingTagsFile(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "movies.csv", `movieId,title,genres
1,Alien (1979),Horror|Sci-Fi
2,Aliens (1986),Action|Horror|Sci-Fi
`)

	catalog, err := LoadCatalog(fixtureConfig(dir), quietLogger())
	require.NoError(t, err)

	sims := catalog.Features.RowSimilarities(0)
	assert.Greater(t, sims[1], 0.0, "genres alone still produce features")
}

func TestLoadCatalog_EmptyMovies(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "movies.csv", "movieId,title,genres\n")

	_, err := LoadCatalog(fixtureConfig(dir), quietLogger())
	assert.Error(t, err)
}

func TestLoadRatings(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "movies.csv", `movieId,title,genres
10,Toy Story (1995),Animation
30,Heat (1995),Action
`)
	writeFixture(t, dir, "ratings.csv", `userId,movieId,rating,timestamp
7,30,4.5,1000
3,10,3.0,2000
7,999,5.0,3000
3,30,2.0,4000
bogus,row,here,now
`)

	catalog, err := LoadCatalog(fixtureConfig(dir), quietLogger())
	require.NoError(t, err)

	ratings, users, err := LoadRatings(fixtureConfig(dir), catalog, quietLogger())
	require.NoError(t, err)

	assert.Len(t, ratings, 3, "unknown movie and malformed row dropped")
	assert.Equal(t, []int64{3, 7}, users.Classes())

	t.Run("identifier spaces are dense", func(t *testing.T) {
		heat, _ := catalog.ItemEncoder.Index(30)
		user7, _ := users.Index(7)

		assert.Equal(t, user7, ratings[0].UserID)
		assert.Equal(t, heat, ratings[0].ItemID)
		assert.Equal(t, 4.5, ratings[0].Value)
	})

	t.Run("timestamps are parsed as unix seconds", func(t *testing.T) {
		assert.Equal(t, int64(1000), ratings[0].Timestamp.Unix())
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "movies.csv", `movieId,title,genres
1,Alien (1979),Horror|Sci-Fi
2,Arrival (2016),Drama|Sci-Fi
`)
	writeFixture(t, dir, "ratings.csv", `userId,movieId,rating,timestamp
1,1,5.0,100
2,2,4.0,200
`)

	ds, err := Load(fixtureConfig(dir), quietLogger())
	require.NoError(t, err)

	assert.Len(t, ds.Ratings, 2)
	assert.Equal(t, 2, ds.ItemEncoder.Len())
	assert.Equal(t, 2, ds.UserEncoder.Len())
	assert.Equal(t, ds.ItemEncoder.Len(), ds.Features.Rows())
}

func TestLoad_MissingRatingsFile(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "movies.csv", `movieId,title,genres
1,Alien (1979),Horror|Sci-Fi
`)

	_, err := Load(fixtureConfig(dir), quietLogger())
	assert.Error(t, err)
}
