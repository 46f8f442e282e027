package recommender

import (
	"github.com/sirupsen/logrus"

	"github.com/cinefuse/cinefuse/pkg/models"
)

// DefaultWeightCandidates is the fixed grid the weight search walks. It is
// an enumeration, not an optimizer: the search only ever returns one of
// these vectors.
func DefaultWeightCandidates() []models.FusionWeights {
	return []models.FusionWeights{
		{UserCF: 0.4, ItemCF: 0.4, Latent: 0.1, Content: 0.1},   // lean on collaborative filtering
		{UserCF: 0.1, ItemCF: 0.1, Latent: 0.4, Content: 0.4},   // lean on latent factors and content
		{UserCF: 0.25, ItemCF: 0.25, Latent: 0.25, Content: 0.25},
		{UserCF: 0.3, ItemCF: 0.2, Latent: 0.3, Content: 0.2},
		{UserCF: 0.2, ItemCF: 0.3, Latent: 0.2, Content: 0.3},
	}
}

// RankerFactory builds a Ranker for one candidate weight vector.
type RankerFactory func(models.FusionWeights) Ranker

// RankerEvaluator is what the search needs from an evaluator.
type RankerEvaluator interface {
	Evaluate(ranker Ranker, test []models.Rating, n int) (models.EvaluationMetrics, error)
}

// WeightSearch evaluates every candidate weight vector against held-out
// data and keeps the one with the best mean F1.
type WeightSearch struct {
	candidates []models.FusionWeights
	evaluator  RankerEvaluator
	logger     *logrus.Logger
}

func NewWeightSearch(evaluator RankerEvaluator, candidates []models.FusionWeights, logger *logrus.Logger) *WeightSearch {
	if len(candidates) == 0 {
		candidates = DefaultWeightCandidates()
	}
	return &WeightSearch{candidates: candidates, evaluator: evaluator, logger: logger}
}

// Search returns the candidate with the highest mean F1 on the test split
// and that F1. Ties keep the earlier candidate in the list.
func (ws *WeightSearch) Search(factory RankerFactory, test []models.Rating, n int) (models.FusionWeights, float64, error) {
	best := ws.candidates[0]
	bestScore := -1.0

	for _, candidate := range ws.candidates {
		metrics, err := ws.evaluator.Evaluate(factory(candidate), test, n)
		if err != nil {
			return models.FusionWeights{}, 0, err
		}

		ws.logger.WithFields(logrus.Fields{
			"weights": candidate,
			"f1":      metrics.F1,
		}).Debug("Weight candidate evaluated")

		if metrics.F1 > bestScore {
			bestScore = metrics.F1
			best = candidate
		}
	}

	return best, bestScore, nil
}
