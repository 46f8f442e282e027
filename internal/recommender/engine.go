package recommender

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cinefuse/cinefuse/internal/config"
	"github.com/cinefuse/cinefuse/pkg/models"
)

// ItemEncoder translates between raw catalog identifiers and the dense
// item index space shared by the interaction matrix and the feature
// matrix.
type ItemEncoder interface {
	// Index maps a raw identifier to its dense index.
	Index(movieID int64) (int, bool)
	// Original maps a dense index back to the raw identifier.
	Original(index int) (int64, bool)
	// Len is the size of the dense index space.
	Len() int
}

// Engine owns one immutable snapshot of the rating table, the content
// feature matrix and the item encoder, and runs every scorer against it.
// Lifecycle is build, use, discard: when the underlying ratings change,
// callers construct a fresh engine rather than mutating this one.
type Engine struct {
	ratings  []models.Rating
	matrix   *InteractionMatrix
	features *FeatureMatrix
	encoder  ItemEncoder
	config   *config.AlgorithmConfig
	logger   *logrus.Logger
	cache    ScoreCache
}

type Option func(*Engine)

// WithScoreCache installs a cache for hybrid results. Without it the
// engine recomputes similarity matrices and the factorization on every
// call, which is the contract the scorers are specified against.
func WithScoreCache(cache ScoreCache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

// NewEngine builds the engine over a ratings snapshot. The feature matrix
// and the encoder must describe the same item space; a size mismatch is a
// configuration error, not something the engine can recover from.
func NewEngine(
	ratings []models.Rating,
	features *FeatureMatrix,
	encoder ItemEncoder,
	cfg *config.AlgorithmConfig,
	logger *logrus.Logger,
	opts ...Option,
) (*Engine, error) {
	if features != nil && encoder != nil && features.Rows() != encoder.Len() {
		return nil, fmt.Errorf("%w: %d feature rows, %d encoded items",
			ErrConfigMismatch, features.Rows(), encoder.Len())
	}

	e := &Engine{
		ratings:  append([]models.Rating(nil), ratings...),
		matrix:   BuildInteractionMatrix(ratings),
		features: features,
		encoder:  encoder,
		config:   cfg,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}

	logger.WithFields(logrus.Fields{
		"ratings": len(e.ratings),
		"users":   e.matrix.UserCount(),
		"items":   e.matrix.ItemCount(),
	}).Debug("Recommendation engine built")

	return e, nil
}

// Ratings exposes the collapsed snapshot for evaluation tooling.
func (e *Engine) Ratings() []models.Rating { return e.ratings }

// Matrix exposes the interaction matrix; read-only by convention.
func (e *Engine) Matrix() *InteractionMatrix { return e.matrix }

func (e *Engine) neighborhoodSize() int {
	if e.config.NeighborhoodSize > 0 {
		return e.config.NeighborhoodSize
	}
	return 10
}

func (e *Engine) candidatePool(n int) int {
	multiplier := e.config.CandidateMultiplier
	if multiplier < 1 {
		multiplier = 2
	}
	return n * multiplier
}

func (e *Engine) likedThreshold() float64 {
	if e.config.LikedThreshold > 0 {
		return e.config.LikedThreshold
	}
	return 4.0
}
