package recommender

import (
	"sort"

	"github.com/cinefuse/cinefuse/pkg/models"
)

// ContentBasedScores recommends items whose feature vectors resemble the
// items the target user rated at or above the liked threshold. Each liked
// item contributes the cosine similarities of its closest feature rows,
// accumulated additively into the candidate scores. A user with no liked
// items gets an empty list; that emptiness is the primary cold-start
// signal for users who have interactions but no strong preferences.
func (e *Engine) ContentBasedScores(userID, n int) []models.ScoredItem {
	if e.features == nil {
		return nil
	}

	liked := e.likedItems(userID)
	if len(liked) == 0 {
		return nil
	}

	scores := make(map[int]float64)
	for _, item := range liked {
		if item < 0 || item >= e.features.Rows() {
			continue
		}
		sims := e.features.RowSimilarities(item)
		for _, s := range topSimilar(sims, e.neighborhoodSize(), item) {
			if containsInt(liked, s) {
				continue
			}
			scores[s] += sims[s]
		}
	}

	return rankScores(scores, n)
}

// likedItems returns the dense indices of the items userID rated at or
// above the liked threshold, ascending. Only the latest rating per item
// counts, matching how the interaction matrix collapses duplicates.
func (e *Engine) likedItems(userID int) []int {
	latest := make(map[int]models.Rating)
	for _, r := range e.ratings {
		if r.UserID != userID {
			continue
		}
		if prev, ok := latest[r.ItemID]; !ok || r.Timestamp.After(prev.Timestamp) {
			latest[r.ItemID] = r
		}
	}

	threshold := e.likedThreshold()
	liked := make([]int, 0, len(latest))
	for item, r := range latest {
		if r.Value >= threshold {
			liked = append(liked, item)
		}
	}
	sort.Ints(liked)
	return liked
}

func containsInt(sorted []int, v int) bool {
	i := sort.SearchInts(sorted, v)
	return i < len(sorted) && sorted[i] == v
}
