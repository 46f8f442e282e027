package recommender

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cinefuse/cinefuse/pkg/models"
)

// LatentFactorScores fits a rank-k truncated SVD of the interaction matrix
// and ranks the target user's unrated items by reconstructed rating. The
// factorization is refit from scratch on every call; nothing is cached
// between calls. The underlying ranking carries no meaningful magnitude,
// so the returned scores are synthesized by reverse rank: the best of L
// items scores L, the worst scores 1.
func (e *Engine) LatentFactorScores(userID, n int) []models.ScoredItem {
	if e.matrix.Empty() {
		return nil
	}
	pos, ok := e.matrix.UserPos(userID)
	if !ok {
		return nil
	}

	users, items := e.matrix.dense.Dims()
	rank := e.config.LatentRank
	if rank <= 0 {
		rank = 20
	}
	if rank > users {
		rank = users
	}
	if rank > items {
		rank = items
	}

	var svd mat.SVD
	if ok := svd.Factorize(e.matrix.dense, mat.SVDThin); !ok {
		e.logger.WithField("users", users).WithField("items", items).
			Warn("SVD factorization did not converge")
		return nil
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sigma := svd.Values(nil)

	// Reconstructed rating for (pos, j) over the leading rank factors.
	predicted := make(map[int]float64)
	for j := 0; j < items; j++ {
		if e.matrix.At(pos, j) > 0 {
			continue
		}
		var score float64
		for f := 0; f < rank; f++ {
			score += u.At(pos, f) * sigma[f] * v.At(j, f)
		}
		predicted[e.matrix.ItemAt(j)] = score
	}

	ranked := rankScores(predicted, n)
	for i := range ranked {
		ranked[i].Score = float64(len(ranked) - i)
	}
	return ranked
}
