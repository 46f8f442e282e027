package recommender

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefuse/cinefuse/internal/config"
	"github.com/cinefuse/cinefuse/pkg/models"
)

// identityEncoder maps raw id i to dense index i over a fixed item space.
type identityEncoder struct {
	size int
}

func (e identityEncoder) Index(movieID int64) (int, bool) {
	if movieID < 0 || int(movieID) >= e.size {
		return 0, false
	}
	return int(movieID), true
}

func (e identityEncoder) Original(index int) (int64, bool) {
	if index < 0 || index >= e.size {
		return 0, false
	}
	return int64(index), true
}

func (e identityEncoder) Len() int { return e.size }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func testAlgorithmConfig() *config.AlgorithmConfig {
	return &config.AlgorithmConfig{
		NeighborhoodSize:    10,
		LatentRank:          20,
		LikedThreshold:      4.0,
		CandidateMultiplier: 2,
		Weights: models.FusionWeights{
			UserCF: 0.25, ItemCF: 0.25, Latent: 0.25, Content: 0.25,
		},
		ColdStart: config.ColdStartConfig{
			PopularityThreshold: 2,
			MinMeanRating:       3.5,
		},
	}
}

func rating(user, item int, value float64) models.Rating {
	return models.Rating{
		UserID:    user,
		ItemID:    item,
		Value:     value,
		Timestamp: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

// denseFeatures builds a FeatureMatrix from dense rows for test setups.
func denseFeatures(t *testing.T, rows [][]float64) *FeatureMatrix {
	t.Helper()

	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	fm := NewFeatureMatrix(len(rows), cols)
	for i, row := range rows {
		var indices []int
		var values []float64
		for j, v := range row {
			if v != 0 {
				indices = append(indices, j)
				values = append(values, v)
			}
		}
		require.NoError(t, fm.SetRow(i, indices, values))
	}
	return fm
}

func newTestEngine(t *testing.T, ratings []models.Rating, features *FeatureMatrix, opts ...Option) *Engine {
	t.Helper()

	var encoder ItemEncoder
	if features != nil {
		encoder = identityEncoder{size: features.Rows()}
	}
	engine, err := NewEngine(ratings, features, encoder, testAlgorithmConfig(), testLogger(), opts...)
	require.NoError(t, err)
	return engine
}

func TestNewEngine_FeatureEncoderMismatch(t *testing.T) {
	features := denseFeatures(t, [][]float64{{1, 0}, {0, 1}})
	encoder := identityEncoder{size: 5}

	_, err := NewEngine(nil, features, encoder, testAlgorithmConfig(), testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigMismatch)
}

func TestNewEngine_EmptyRatings(t *testing.T) {
	engine := newTestEngine(t, nil, nil)

	assert.True(t, engine.Matrix().Empty())
	assert.Empty(t, engine.UserBasedCF(0, 10))
	assert.Empty(t, engine.ItemBasedCF(0, 10))
	assert.Empty(t, engine.LatentFactorScores(0, 10))

	recs, err := engine.Recommend(0, 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
