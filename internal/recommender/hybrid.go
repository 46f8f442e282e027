package recommender

import (
	"fmt"
	"sort"

	"github.com/cinefuse/cinefuse/pkg/models"
)

// Ranker produces an ordered recommendation list for a user. HybridRanker
// is the production implementation; the evaluation tooling accepts any
// Ranker so alternative strategies can be measured the same way.
type Ranker interface {
	Recommend(userID, n int) ([]models.ScoredItem, error)
}

// HybridRanker binds one weight vector to an engine. Weight search
// constructs new HybridRanker values rather than new types.
type HybridRanker struct {
	engine  *Engine
	weights models.FusionWeights
}

func NewHybridRanker(engine *Engine, weights models.FusionWeights) *HybridRanker {
	return &HybridRanker{engine: engine, weights: weights}
}

func (r *HybridRanker) Recommend(userID, n int) ([]models.ScoredItem, error) {
	return r.engine.recommendHybrid(userID, n, r.weights)
}

// Recommend blends all four scorers under the configured default weights.
func (e *Engine) Recommend(userID, n int) ([]models.ScoredItem, error) {
	return e.recommendHybrid(userID, n, e.config.Weights)
}

func (e *Engine) recommendHybrid(userID, n int, weights models.FusionWeights) ([]models.ScoredItem, error) {
	var cacheKey string
	if e.cache != nil {
		cacheKey = fmt.Sprintf("hybrid:%d:%d:%.3f:%.3f:%.3f:%.3f",
			userID, n, weights.UserCF, weights.ItemCF, weights.Latent, weights.Content)
		if cached, ok := e.cache.Get(cacheKey); ok {
			e.logger.WithField("user_id", userID).Debug("Hybrid score cache hit")
			return cached, nil
		}
	}

	// Every scorer gets an inflated pool so fusion can reorder across a
	// wider candidate set before truncating to n.
	pool := e.candidatePool(n)

	userCF := normalizeScores(toScoreMap(e.UserBasedCF(userID, pool)))
	itemCF := normalizeScores(toScoreMap(e.ItemBasedCF(userID, pool)))
	latent := normalizeScores(toScoreMap(e.LatentFactorScores(userID, pool)))
	content := normalizeScores(toScoreMap(e.ContentBasedScores(userID, pool)))

	combined := make(map[int]float64)
	for _, entry := range []struct {
		weight float64
		scores map[int]float64
	}{
		{weights.UserCF, userCF},
		{weights.ItemCF, itemCF},
		{weights.Latent, latent},
		{weights.Content, content},
	} {
		for item, score := range entry.scores {
			combined[item] += entry.weight * score
		}
	}

	ranked := rankScores(combined, n)

	if e.cache != nil {
		e.cache.Set(cacheKey, ranked)
	}

	return ranked, nil
}

// normalizeScores divides every score by the map's maximum so the best
// entry becomes exactly 1. Maps that are empty, or whose maximum is not
// positive, normalize to an empty map and contribute nothing to fusion.
func normalizeScores(scores map[int]float64) map[int]float64 {
	var max float64
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	if max <= 0 {
		return map[int]float64{}
	}

	normalized := make(map[int]float64, len(scores))
	for item, s := range scores {
		normalized[item] = s / max
	}
	return normalized
}

func toScoreMap(items []models.ScoredItem) map[int]float64 {
	scores := make(map[int]float64, len(items))
	for _, it := range items {
		scores[it.ItemID] = it.Score
	}
	return scores
}

// rankScores orders a score map descending and truncates to n entries.
// Equal scores break toward the lower item index so that rankings are
// deterministic rather than left to map iteration order.
func rankScores(scores map[int]float64, n int) []models.ScoredItem {
	ranked := make([]models.ScoredItem, 0, len(scores))
	for item, score := range scores {
		ranked = append(ranked, models.ScoredItem{ItemID: item, Score: score})
	}

	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].Score != ranked[b].Score {
			return ranked[a].Score > ranked[b].Score
		}
		return ranked[a].ItemID < ranked[b].ItemID
	})

	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
